package services

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/storage"
)

// Diagnostic is the dump written for every failed pipeline run.
type Diagnostic struct {
	AttemptID string               `json:"attempt_id"`
	At        time.Time            `json:"at"`
	UserID    string               `json:"user_id"`
	Mode      models.AnalysisMode  `json:"mode"`
	Language  models.Language      `json:"lang"`
	Stage     models.PipelineStage `json:"stage"`
	Error     string               `json:"error"`
}

type DiagnosticsService interface {
	Record(ctx context.Context, d Diagnostic)
}

type diagnosticsService struct {
	up  storage.Uploader
	log *logrus.Logger
}

// NewDiagnosticsService returns a recorder that uploads dumps through up.
// A nil uploader only logs.
func NewDiagnosticsService(up storage.Uploader, log *logrus.Logger) DiagnosticsService {
	return &diagnosticsService{up: up, log: log}
}

func (s *diagnosticsService) Record(ctx context.Context, d Diagnostic) {
	if s.up == nil {
		return
	}
	if d.At.IsZero() {
		d.At = time.Now().UTC()
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return
	}
	name := "pipeline_error_" + d.AttemptID + ".json"
	path, err := s.up.Upload(ctx, name, "application/json", bytes.NewReader(b))
	if err != nil {
		s.log.WithField("attempt_id", d.AttemptID).WithError(err).Warn("failed to write diagnostics")
		return
	}
	s.log.WithFields(logrus.Fields{"attempt_id": d.AttemptID, "path": path}).Info("diagnostics written")
}
