package services

import (
	"context"
	"time"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/repositories"
	"github.com/yoockh/jaanekhana/internal/utils"
)

// PendingService remembers the last photo a user sent until they pick an
// action for it. Each photo is handed out at most once.
type PendingService interface {
	Put(ctx context.Context, userID string, photo models.PendingPhoto) error
	// Take removes and returns the pending photo, or nil when there is none.
	Take(ctx context.Context, userID string) (*models.PendingPhoto, error)
}

type pendingService struct {
	photos repositories.KeyValue[models.PendingPhoto]
	now    func() time.Time
}

func NewPendingService(photos repositories.KeyValue[models.PendingPhoto]) PendingService {
	return &pendingService{photos: photos, now: time.Now}
}

func (s *pendingService) Put(ctx context.Context, userID string, photo models.PendingPhoto) error {
	const op = "PendingService.Put"

	if photo.MediaRef == "" {
		return utils.E(utils.CodeInvalidArgument, op, "media_ref is required", nil)
	}
	if photo.ReceivedAt.IsZero() {
		photo.ReceivedAt = s.now().UTC()
	}
	if err := s.photos.Put(ctx, userID, photo); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to store pending photo", err)
	}
	return nil
}

func (s *pendingService) Take(ctx context.Context, userID string) (*models.PendingPhoto, error) {
	const op = "PendingService.Take"

	p, found, err := s.photos.Take(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to take pending photo", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}
