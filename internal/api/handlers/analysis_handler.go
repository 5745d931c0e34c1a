package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/services"
	"github.com/yoockh/jaanekhana/internal/utils"
)

const (
	MissingFileMessage = `Missing file upload. Send form-data with key "imagePath" and a PNG file.`
	analyzeFailed      = "Failed to analyze food label"
)

type AnalysisHandler struct {
	pipeline services.PipelineService
	log      *logrus.Logger
}

func NewAnalysisHandler(pipeline services.PipelineService, log *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{pipeline: pipeline, log: log}
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// Upload runs one synchronous pipeline on a multipart image. Each request
// is its own user, so web clients never share a guard.
func (h *AnalysisHandler) Upload(c *gin.Context) {
	const op = "AnalysisHandler.Upload"

	file, err := c.FormFile("imagePath")
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: MissingFileMessage})
		return
	}

	mode := models.ModeQuick
	if raw := strings.TrimSpace(c.PostForm("mode")); raw != "" {
		m, ok := models.ParseAnalysisMode(raw)
		if !ok {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "unknown analysis mode", nil))
			return
		}
		mode = m
	}

	job := services.Job{
		UserID:    "web:" + uuid.NewString(),
		Mode:      mode,
		Language:  models.NormalizeLanguage(c.PostForm("lang")),
		Profile:   h.parseProfile(c.PostForm("profile")),
		Source:    uploadSource{fh: file},
		MediaRef:  file.Filename,
		Delivery:  &services.Collector{},
		Ephemeral: true,
	}
	res, err := h.pipeline.Execute(c.Request.Context(), job)
	if err != nil {
		writeFailure(c, err, analyzeFailed)
		return
	}
	c.JSON(http.StatusOK, AnalysisResponse{Analysis: res.Text})
}

// parseProfile decodes the optional profile field. Bad JSON is logged and
// ignored.
func (h *AnalysisHandler) parseProfile(raw string) *models.UserProfile {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var p models.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		h.log.WithError(err).Warn("ignoring malformed profile field")
		return nil
	}
	p = p.Sanitized()
	if p.IsZero() {
		return nil
	}
	return &p
}

// uploadSource serves the multipart file as the pipeline's media.
type uploadSource struct {
	fh *multipart.FileHeader
}

func (s uploadSource) Fetch(_ context.Context, _ string, w io.Writer) error {
	f, err := s.fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
