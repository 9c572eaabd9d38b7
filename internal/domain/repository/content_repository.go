package repository

import (
	"context"

	"promostore/internal/domain/entity"
)

type ContentRepository interface {
	GetByKey(ctx context.Context, key string) (*entity.ContentBlock, error)
	List(ctx context.Context) ([]entity.ContentBlock, error)
	Upsert(ctx context.Context, block *entity.ContentBlock) error
}
