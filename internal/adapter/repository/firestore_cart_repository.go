package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

type firestoreCartRepository struct {
	client *firestore.Client
}

func NewFirestoreCartRepository(client *firestore.Client) repository.CartRepository {
	return &firestoreCartRepository{
		client: client,
	}
}

func (r *firestoreCartRepository) ListByUser(ctx context.Context, userID string) ([]entity.CartItem, error) {
	iter := r.client.Collection("cart_items").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)

	items := []entity.CartItem{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list cart items", err)
		}

		var item entity.CartItem
		if err := doc.DataTo(&item); err != nil {
			continue // Skip malformed documents
		}
		item.ID = doc.Ref.ID
		items = append(items, item)
	}

	return items, nil
}

func (r *firestoreCartRepository) GetByUserAndService(ctx context.Context, userID, serviceID string) (*entity.CartItem, error) {
	iter := r.client.Collection("cart_items").
		Where("userId", "==", userID).
		Where("serviceId", "==", serviceID).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Cart item", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query cart item", err)
	}

	var item entity.CartItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse cart item data", err)
	}
	item.ID = doc.Ref.ID

	return &item, nil
}

func (r *firestoreCartRepository) Create(ctx context.Context, item *entity.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()

	_, err := r.client.Collection("cart_items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create cart item", err)
	}

	return nil
}

func (r *firestoreCartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	_, err := r.client.Collection("cart_items").Doc(id).Update(ctx, []firestore.Update{
		{Path: "quantity", Value: quantity},
	})
	if err != nil {
		return errors.Internal("Failed to update cart item quantity", err)
	}

	return nil
}

func (r *firestoreCartRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("cart_items").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete cart item", err)
	}

	return nil
}

func (r *firestoreCartRepository) DeleteByUser(ctx context.Context, userID string) error {
	iter := r.client.Collection("cart_items").
		Where("userId", "==", userID).
		Documents(ctx)

	batch := r.client.Batch()
	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate cart items", err)
		}
		batch.Delete(doc.Ref)
		count++
	}

	if count == 0 {
		return nil
	}

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to clear cart", err)
	}

	return nil
}
