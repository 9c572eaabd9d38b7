package entity

import "time"

// ContentBlock is an admin-editable piece of site content (home page sections,
// banners, payment instructions), addressed by key.
type ContentBlock struct {
	ID         string    `json:"id" firestore:"id"`
	Key        string    `json:"key" firestore:"key"`
	Content    string    `json:"content" firestore:"content"`
	OrderIndex int       `json:"order_index" firestore:"orderIndex"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}
