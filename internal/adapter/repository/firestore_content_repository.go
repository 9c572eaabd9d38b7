package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

type firestoreContentRepository struct {
	client *firestore.Client
}

func NewFirestoreContentRepository(client *firestore.Client) repository.ContentRepository {
	return &firestoreContentRepository{
		client: client,
	}
}

func (r *firestoreContentRepository) GetByKey(ctx context.Context, key string) (*entity.ContentBlock, error) {
	doc, err := r.client.Collection("content_blocks").Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Content block", err)
		}
		return nil, errors.Internal("Failed to get content block", err)
	}

	var block entity.ContentBlock
	if err := doc.DataTo(&block); err != nil {
		return nil, errors.Internal("Failed to parse content block data", err)
	}
	block.ID = doc.Ref.ID

	return &block, nil
}

func (r *firestoreContentRepository) List(ctx context.Context) ([]entity.ContentBlock, error) {
	iter := r.client.Collection("content_blocks").
		OrderBy("orderIndex", firestore.Asc).
		Documents(ctx)

	blocks := []entity.ContentBlock{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list content blocks", err)
		}

		var block entity.ContentBlock
		if err := doc.DataTo(&block); err != nil {
			continue // Skip malformed documents
		}
		block.ID = doc.Ref.ID
		blocks = append(blocks, block)
	}

	return blocks, nil
}

func (r *firestoreContentRepository) Upsert(ctx context.Context, block *entity.ContentBlock) error {
	if block.ID == "" {
		block.ID = block.Key
	}
	block.UpdatedAt = time.Now()

	_, err := r.client.Collection("content_blocks").Doc(block.ID).Set(ctx, block)
	if err != nil {
		return errors.Internal("Failed to upsert content block", err)
	}

	return nil
}
