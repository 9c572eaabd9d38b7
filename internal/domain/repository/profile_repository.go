package repository

import (
	"context"

	"promostore/internal/domain/entity"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	// GetByIDs resolves a set of profile ids in one round trip per batch.
	// Unknown ids are silently omitted from the result.
	GetByIDs(ctx context.Context, ids []string) ([]entity.Profile, error)
	List(ctx context.Context) ([]entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
}
