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
	"promostore/pkg/logger"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

// messageDoc mirrors entity.Message but leaves attachments untyped so both
// the array and the positionally-keyed object shape decode without error.
type messageDoc struct {
	ID          string      `firestore:"id"`
	OrderID     string      `firestore:"orderId"`
	SenderID    string      `firestore:"senderId"`
	Text        string      `firestore:"message"`
	Attachments interface{} `firestore:"attachments"`
	IsRead      bool        `firestore:"isRead"`
	CreatedAt   time.Time   `firestore:"createdAt"`
}

func (d *messageDoc) toEntity() entity.Message {
	return entity.Message{
		ID:          d.ID,
		OrderID:     d.OrderID,
		SenderID:    d.SenderID,
		Text:        d.Text,
		Attachments: NormalizeAttachments(d.Attachments),
		IsRead:      d.IsRead,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *firestoreMessageRepository) ListByOrder(ctx context.Context, orderID string) ([]entity.Message, error) {
	iter := r.client.Collection("messages").
		Where("orderId", "==", orderID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)

	messages := []entity.Message{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for order %s: %v", orderID, err)
			return nil, errors.StoreError("Failed to load messages", err)
		}

		var md messageDoc
		if err := doc.DataTo(&md); err != nil {
			logger.Error("Error parsing message data for order %s: %v", orderID, err)
			return nil, errors.StoreError("Failed to parse message data", err)
		}

		messages = append(messages, md.toEntity())
	}

	return messages, nil
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.InsertFailed("Failed to create message", err)
	}

	return nil
}
