package services

import (
	"context"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/repositories"
	"github.com/yoockh/jaanekhana/internal/utils"
)

type ProfileService interface {
	// Get returns nil when the user has no saved profile.
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Has(ctx context.Context, userID string) (bool, error)
	// Save rejects incomplete profiles so readers never see one.
	Save(ctx context.Context, userID string, p models.UserProfile) error
}

type profileService struct {
	profiles repositories.KeyValue[models.UserProfile]
}

func NewProfileService(profiles repositories.KeyValue[models.UserProfile]) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	const op = "ProfileService.Get"

	p, found, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to load profile", err)
	}
	if !found || !p.Complete() {
		return nil, nil
	}
	return &p, nil
}

func (s *profileService) Has(ctx context.Context, userID string) (bool, error) {
	p, err := s.Get(ctx, userID)
	return p != nil, err
}

func (s *profileService) Save(ctx context.Context, userID string, p models.UserProfile) error {
	const op = "ProfileService.Save"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if !p.Complete() {
		return utils.E(utils.CodeInvalidArgument, op, "profile is incomplete", nil)
	}
	if err := s.profiles.Put(ctx, userID, p); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to save profile", err)
	}
	return nil
}
