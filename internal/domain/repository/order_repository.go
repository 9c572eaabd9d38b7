package repository

import (
	"context"

	"promostore/internal/domain/entity"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	Create(ctx context.Context, order *entity.Order) error
	CreateItems(ctx context.Context, items []entity.OrderItem) error
	ListItems(ctx context.Context, orderID string) ([]entity.OrderItem, error)
	UpdateStatus(ctx context.Context, id, status, paymentStatus string) error
}
