package services

import (
	"context"
	"errors"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/repositories"
	"github.com/yoockh/jaanekhana/internal/utils"
)

// SessionService owns the per-user conversational state, including the
// concurrency guard flag.
type SessionService interface {
	// Get returns the stored session, or the default one for a new user.
	Get(ctx context.Context, userID string) (models.Session, error)
	Update(ctx context.Context, userID string, fn func(s *models.Session) error) (models.Session, error)
	// TryAcquire sets IsProcessing and reports true, or reports false when
	// a run already holds the guard.
	TryAcquire(ctx context.Context, userID string) (bool, error)
	Release(ctx context.Context, userID string) error
	// Forget drops the stored session.
	Forget(ctx context.Context, userID string) error
}

type sessionService struct {
	sessions repositories.KeyValue[models.Session]
}

func NewSessionService(sessions repositories.KeyValue[models.Session]) SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) Get(ctx context.Context, userID string) (models.Session, error) {
	const op = "SessionService.Get"

	if userID == "" {
		return models.Session{}, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	sess, _, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.Session{}, utils.E(utils.CodeUnavailable, op, "failed to load session", err)
	}
	return sess, nil
}

func (s *sessionService) Update(ctx context.Context, userID string, fn func(*models.Session) error) (models.Session, error) {
	const op = "SessionService.Update"

	if userID == "" {
		return models.Session{}, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	out, err := s.sessions.Update(ctx, userID, func(sess *models.Session, _ bool) error {
		return fn(sess)
	})
	if err != nil {
		var ae *utils.AppError
		if errors.As(err, &ae) {
			return out, err
		}
		return out, utils.E(utils.CodeUnavailable, op, "failed to update session", err)
	}
	return out, nil
}

var errBusy = utils.E(utils.CodeConflict, "SessionService.TryAcquire", "still processing", nil)

func (s *sessionService) TryAcquire(ctx context.Context, userID string) (bool, error) {
	_, err := s.Update(ctx, userID, func(sess *models.Session) error {
		if sess.IsProcessing {
			return errBusy
		}
		sess.IsProcessing = true
		return nil
	})
	if errors.Is(err, errBusy) {
		return false, nil
	}
	return err == nil, err
}

func (s *sessionService) Release(ctx context.Context, userID string) error {
	_, err := s.Update(ctx, userID, func(sess *models.Session) error {
		sess.IsProcessing = false
		return nil
	})
	return err
}

func (s *sessionService) Forget(ctx context.Context, userID string) error {
	const op = "SessionService.Forget"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to delete session", err)
	}
	return nil
}
