package usecase

import (
	"context"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewProfileUseCase(profileRepo repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
	}
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, uid string) (*entity.Profile, error) {
	return uc.profileRepo.GetByID(ctx, uid)
}

type UpdateProfileInput struct {
	FullName  string
	AvatarURL string
}

func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, uid)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}
		// First write creates the profile row.
		profile = &entity.Profile{ID: uid}
	}

	profile.FullName = input.FullName
	profile.AvatarURL = input.AvatarURL

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (uc *ProfileUseCase) ListUsers(ctx context.Context) ([]entity.Profile, error) {
	return uc.profileRepo.List(ctx)
}
