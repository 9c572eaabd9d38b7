package entity

import "time"

type CartItem struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	ServiceID string    `json:"service_id" firestore:"serviceId"`
	Quantity  int       `json:"quantity" firestore:"quantity"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`

	// Joined service data for display, not persisted with the row.
	Service *Service `json:"service,omitempty" firestore:"-"`
}
