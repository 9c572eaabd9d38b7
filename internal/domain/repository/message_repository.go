package repository

import (
	"context"

	"promostore/internal/domain/entity"
)

type MessageRepository interface {
	// ListByOrder returns all persisted messages for an order, ascending by
	// creation time. An order with no messages yields an empty slice, not an
	// error.
	ListByOrder(ctx context.Context, orderID string) ([]entity.Message, error)

	// Create persists the message and fills in the server-assigned ID and
	// CreatedAt on the passed entity.
	Create(ctx context.Context, message *entity.Message) error
}
