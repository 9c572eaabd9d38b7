package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

// MaxAttachmentSize is the hard per-file limit, checked before any network
// call. Exactly this size is accepted; one byte more is rejected.
const MaxAttachmentSize = 10 << 20 // 10 MiB

// Uploader is the blob-storage surface the chat store writes attachments to.
type Uploader interface {
	UploadChatAttachment(ctx context.Context, orderID, filename string, data []byte) (string, error)
}

// AttachmentInput is a file handed to the chat by the UI layer.
type AttachmentInput struct {
	Name string
	Data []byte
}

// ChatStore wraps the hosted backend for one concern: chat persistence. It
// holds no session state; every call is independent, so concurrent sessions
// (an admin and a customer on the same order) can share one instance.
type ChatStore struct {
	messages repository.MessageRepository
	profiles repository.ProfileRepository
	uploader Uploader
}

func NewChatStore(
	messages repository.MessageRepository,
	profiles repository.ProfileRepository,
	uploader Uploader,
) *ChatStore {
	return &ChatStore{
		messages: messages,
		profiles: profiles,
		uploader: uploader,
	}
}

// LoadHistory returns all messages for an order ascending by creation time,
// with sender profiles resolved in a second batched fetch and denormalized
// onto each message. An order with no messages yields an empty slice. If
// either fetch fails the whole load fails; no partial result is returned.
func (s *ChatStore) LoadHistory(ctx context.Context, orderID string) ([]entity.Message, error) {
	messages, err := s.messages.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return messages, nil
	}

	senderIDs := lo.Uniq(lo.Map(messages, func(m entity.Message, _ int) string {
		return m.SenderID
	}))

	profiles, err := s.profiles.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, errors.StoreError("Failed to resolve sender profiles", err)
	}

	byID := lo.KeyBy(profiles, func(p entity.Profile) string { return p.ID })
	for i := range messages {
		if profile, ok := byID[messages[i].SenderID]; ok {
			p := profile
			messages[i].Sender = &p
		}
	}

	return messages, nil
}

// UploadAttachment stores one file under the order's namespace and returns
// its public URL.
func (s *ChatStore) UploadAttachment(ctx context.Context, orderID string, file AttachmentInput) (string, error) {
	if len(file.Data) > MaxAttachmentSize {
		return "", errors.AttachmentTooLarge(
			fmt.Sprintf("%s exceeds the 10 MiB attachment limit", file.Name))
	}

	url, err := s.uploader.UploadChatAttachment(ctx, orderID, file.Name, file.Data)
	if err != nil {
		return "", errors.UploadFailed(fmt.Sprintf("Failed to upload %s", file.Name), err)
	}

	return url, nil
}

// InsertMessage persists a message row and returns it with the
// server-assigned id and timestamp. The "text or attachments" invariant is
// enforced here as a last line of defense; callers are expected to have
// checked already. The resolved sender profile is not included.
func (s *ChatStore) InsertMessage(ctx context.Context, orderID, senderID, text string, attachments []string) (*entity.Message, error) {
	message := &entity.Message{
		OrderID:     orderID,
		SenderID:    senderID,
		Text:        text,
		Attachments: attachments,
		IsRead:      false,
	}

	if !message.HasContent() {
		return nil, errors.BadRequest("Message must have text or attachments", nil)
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// ResolveProfile fetches one sender's display profile.
func (s *ChatStore) ResolveProfile(ctx context.Context, senderID string) (*entity.Profile, error) {
	return s.profiles.GetByID(ctx, senderID)
}
