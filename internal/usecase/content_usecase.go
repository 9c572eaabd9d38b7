package usecase

import (
	"context"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
)

type ContentUseCase struct {
	contentRepo repository.ContentRepository
}

func NewContentUseCase(contentRepo repository.ContentRepository) *ContentUseCase {
	return &ContentUseCase{
		contentRepo: contentRepo,
	}
}

func (uc *ContentUseCase) GetBlock(ctx context.Context, key string) (*entity.ContentBlock, error) {
	return uc.contentRepo.GetByKey(ctx, key)
}

func (uc *ContentUseCase) ListBlocks(ctx context.Context) ([]entity.ContentBlock, error) {
	return uc.contentRepo.List(ctx)
}

func (uc *ContentUseCase) SaveBlock(ctx context.Context, key, content string, orderIndex int) (*entity.ContentBlock, error) {
	block := &entity.ContentBlock{
		Key:        key,
		Content:    content,
		OrderIndex: orderIndex,
	}
	if err := uc.contentRepo.Upsert(ctx, block); err != nil {
		return nil, err
	}

	return block, nil
}
