package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection("orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}
	order.ID = doc.Ref.ID

	return &order, nil
}

func (r *firestoreOrderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	iter := r.client.Collection("orders").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	return collectOrders(iter)
}

func (r *firestoreOrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	iter := r.client.Collection("orders").
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	return collectOrders(iter)
}

func collectOrders(iter *firestore.DocumentIterator) ([]entity.Order, error) {
	orders := []entity.Order{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list orders", err)
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			continue // Skip malformed documents
		}
		order.ID = doc.Ref.ID
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to create order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) CreateItems(ctx context.Context, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := r.client.Batch()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		batch.Set(r.client.Collection("order_items").Doc(items[i].ID), items[i])
	}

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to create order items", err)
	}

	return nil
}

func (r *firestoreOrderRepository) ListItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	iter := r.client.Collection("order_items").
		Where("orderId", "==", orderID).
		Documents(ctx)

	items := []entity.OrderItem{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list order items", err)
		}

		var item entity.OrderItem
		if err := doc.DataTo(&item); err != nil {
			continue // Skip malformed documents
		}
		item.ID = doc.Ref.ID
		items = append(items, item)
	}

	return items, nil
}

func (r *firestoreOrderRepository) UpdateStatus(ctx context.Context, id, orderStatus, paymentStatus string) error {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: time.Now()},
	}
	if orderStatus != "" {
		updates = append(updates, firestore.Update{Path: "status", Value: orderStatus})
	}
	if paymentStatus != "" {
		updates = append(updates, firestore.Update{Path: "paymentStatus", Value: paymentStatus})
	}

	_, err := r.client.Collection("orders").Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Order", err)
		}
		return errors.Internal("Failed to update order status", err)
	}

	return nil
}
