package entity

import "time"

// Service is a catalog item (a marketing service offered by the shop).
type Service struct {
	ID          string    `json:"id" firestore:"id"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Category    string    `json:"category" firestore:"category"`
	Price       float64   `json:"price" firestore:"price"`
	ImageURL    string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	IsActive    bool      `json:"is_active" firestore:"isActive"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
