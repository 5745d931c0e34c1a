package services

import (
	"context"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/utils"
)

type LanguageService interface {
	// Select stores code as the user's language. Unsupported codes fail
	// with CodeInvalidArgument and leave the session untouched.
	Select(ctx context.Context, userID, code string) (models.Language, error)
	// Current reports the selected language, if any.
	Current(ctx context.Context, userID string) (models.Language, bool, error)
}

type languageService struct {
	sessions SessionService
}

func NewLanguageService(sessions SessionService) LanguageService {
	return &languageService{sessions: sessions}
}

func (s *languageService) Select(ctx context.Context, userID, code string) (models.Language, error) {
	const op = "LanguageService.Select"

	lang, ok := models.ParseLanguage(code)
	if !ok {
		return "", utils.E(utils.CodeInvalidArgument, op, "unsupported language", nil)
	}
	if _, err := s.sessions.Update(ctx, userID, func(sess *models.Session) error {
		sess.Language = lang
		return nil
	}); err != nil {
		return "", err
	}
	return lang, nil
}

func (s *languageService) Current(ctx context.Context, userID string) (models.Language, bool, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.DefaultLanguage, false, err
	}
	return sess.LanguageOrDefault(), sess.HasLanguage(), nil
}
