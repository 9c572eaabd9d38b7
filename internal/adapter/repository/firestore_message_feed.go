package repository

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/logger"
)

const (
	feedInitialBackoff = time.Second
	feedMaxBackoff     = 30 * time.Second
)

type firestoreMessageFeed struct {
	client *firestore.Client
}

// NewFirestoreMessageFeed wraps Firestore snapshot listeners as an explicit
// subscription object. A dropped listener is resubscribed with capped
// exponential backoff; the gap is reported on the status channel rather than
// surfaced as an error.
func NewFirestoreMessageFeed(client *firestore.Client) repository.MessageFeed {
	return &firestoreMessageFeed{
		client: client,
	}
}

func (f *firestoreMessageFeed) Subscribe(ctx context.Context, orderID string) (repository.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	sub := &firestoreSubscription{
		events: make(chan entity.Message, 32),
		status: make(chan repository.FeedStatus, 8),
		cancel: cancel,
	}

	sub.emitStatus(repository.FeedConnecting)
	go sub.run(ctx, f.client, orderID)

	return sub, nil
}

type firestoreSubscription struct {
	events    chan entity.Message
	status    chan repository.FeedStatus
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (s *firestoreSubscription) Events() <-chan entity.Message {
	return s.events
}

func (s *firestoreSubscription) Status() <-chan repository.FeedStatus {
	return s.status
}

// Close releases the subscription. Safe to call more than once and safe to
// call on a subscription whose listener never came up.
func (s *firestoreSubscription) Close() {
	s.closeOnce.Do(s.cancel)
}

func (s *firestoreSubscription) run(ctx context.Context, client *firestore.Client, orderID string) {
	defer close(s.events)
	defer close(s.status)

	backoff := feedInitialBackoff

	for {
		query := client.Collection("messages").
			Where("orderId", "==", orderID).
			OrderBy("createdAt", firestore.Asc)

		snapIter := query.Snapshots(ctx)
		connected := false

		for {
			snap, err := snapIter.Next()
			if err != nil {
				snapIter.Stop()
				if ctx.Err() != nil {
					return
				}

				logger.Warn("Message feed for order %s dropped: %v", orderID, err)
				s.emitStatus(repository.FeedDisconnected)

				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}
				backoff = min(backoff*2, feedMaxBackoff)
				break // resubscribe
			}

			if !connected {
				connected = true
				backoff = feedInitialBackoff
				s.emitStatus(repository.FeedConnected)
			}

			for _, change := range snap.Changes {
				if change.Kind != firestore.DocumentAdded {
					continue
				}

				var md messageDoc
				if err := change.Doc.DataTo(&md); err != nil {
					logger.Warn("Skipping malformed message document %s: %v", change.Doc.Ref.ID, err)
					continue
				}

				msg := md.toEntity()
				if msg.ID == "" {
					msg.ID = change.Doc.Ref.ID
				}

				select {
				case s.events <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (s *firestoreSubscription) emitStatus(st repository.FeedStatus) {
	select {
	case s.status <- st:
	default:
		// Slow consumer; stale status is droppable.
	}
}
