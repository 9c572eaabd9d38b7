package repository

import (
	"context"

	"promostore/internal/domain/entity"
)

type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.CartItem, error)
	GetByUserAndService(ctx context.Context, userID, serviceID string) (*entity.CartItem, error)
	Create(ctx context.Context, item *entity.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
