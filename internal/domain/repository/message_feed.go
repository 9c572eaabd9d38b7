package repository

import (
	"context"

	"promostore/internal/domain/entity"
)

// FeedStatus reports the lifecycle of a realtime subscription.
type FeedStatus string

const (
	FeedConnecting   FeedStatus = "connecting"
	FeedConnected    FeedStatus = "connected"
	FeedDisconnected FeedStatus = "disconnected"
)

// Subscription is a live change feed of message inserts for one order.
// Events and Status are closed when the subscription is released.
type Subscription interface {
	Events() <-chan entity.Message
	Status() <-chan FeedStatus
	Close()
}

// MessageFeed subscribes to insert events on the messages stream, filtered by
// order. Delivery may duplicate and reorder; consumers are expected to append
// idempotently.
type MessageFeed interface {
	Subscribe(ctx context.Context, orderID string) (Subscription, error)
}
