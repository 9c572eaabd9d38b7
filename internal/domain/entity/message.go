package entity

import "time"

// Message is a single chat entry scoped to an order. Sender is resolved
// separately from the profiles collection and denormalized for display;
// it is never persisted with the message row.
type Message struct {
	ID          string    `json:"id" firestore:"id"`
	OrderID     string    `json:"order_id" firestore:"orderId"`
	SenderID    string    `json:"sender_id" firestore:"senderId"`
	Text        string    `json:"message" firestore:"message"`
	Attachments []string  `json:"attachments,omitempty" firestore:"attachments,omitempty"`
	IsRead      bool      `json:"is_read" firestore:"isRead"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	Sender      *Profile  `json:"sender,omitempty" firestore:"-"`
}

// HasContent reports whether the message satisfies the "text or attachments"
// invariant: a message never has both an empty body and zero attachments.
func (m *Message) HasContent() bool {
	return m.Text != "" || len(m.Attachments) > 0
}
