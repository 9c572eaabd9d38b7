package entity

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

type Order struct {
	ID            string    `json:"id" firestore:"id"`
	UserID        string    `json:"user_id" firestore:"userId"`
	TotalAmount   float64   `json:"total_amount" firestore:"totalAmount"`
	Status        string    `json:"status" firestore:"status"`
	PaymentStatus string    `json:"payment_status" firestore:"paymentStatus"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`

	Items []OrderItem `json:"items,omitempty" firestore:"-"`
}

type OrderItem struct {
	ID        string  `json:"id" firestore:"id"`
	OrderID   string  `json:"order_id" firestore:"orderId"`
	ServiceID string  `json:"service_id" firestore:"serviceId"`
	Quantity  int     `json:"quantity" firestore:"quantity"`
	Price     float64 `json:"price" firestore:"price"`
}
