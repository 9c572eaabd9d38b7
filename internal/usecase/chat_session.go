package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/logger"
)

// Body substituted when a message carries attachments but no text.
const attachmentPlaceholder = "📎 attachment(s)"

type SessionState string

const (
	StateLoading SessionState = "loading"
	StateReady   SessionState = "ready"
	StateSending SessionState = "sending"
)

type UpdateKind string

const (
	UpdateAppended   UpdateKind = "appended"
	UpdateReplaced   UpdateKind = "replaced"
	UpdateRemoved    UpdateKind = "removed"
	UpdateConnection UpdateKind = "connection"
)

// Update is one change to the session's view, consumed by the hosting layer
// (the chat websocket handler) to drive the client.
type Update struct {
	Kind       UpdateKind            `json:"kind"`
	Message    *entity.Message       `json:"message,omitempty"`
	TempID     string                `json:"temp_id,omitempty"`
	Connection repository.FeedStatus `json:"connection,omitempty"`
}

// ChatSession owns the live state of one order's conversation for one viewing
// user: the ordered message list, the pending-send set and the realtime
// subscription. A session is bound to a single order; when the hosting view
// switches orders it must Close this session and open a fresh one, so a prior
// subscription can never leak another order's messages into the list.
//
// The message list and pending set are owned exclusively by the session.
// Entries appended live land at the current tail regardless of their server
// timestamp; no re-sort happens after the initial load.
type ChatSession struct {
	store   *ChatStore
	feed    repository.MessageFeed
	orderID string
	user    entity.Profile

	mu         sync.Mutex
	messages   []entity.Message
	pending    map[string]struct{}
	connection repository.FeedStatus
	loaded     bool
	sending    int
	closed     bool

	sub     repository.Subscription
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	updates chan Update
}

func NewChatSession(store *ChatStore, feed repository.MessageFeed, orderID string, user entity.Profile) *ChatSession {
	return &ChatSession{
		store:      store,
		feed:       feed,
		orderID:    orderID,
		user:       user,
		pending:    make(map[string]struct{}),
		connection: repository.FeedConnecting,
		updates:    make(chan Update, 64),
	}
}

// Open loads the order's history and, concurrently, opens the realtime
// subscription. A history-load failure fails the whole session: there is no
// meaningful degraded state without it. A subscription failure does not; it
// is reported through the connection status instead.
func (s *ChatSession) Open(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.ctx = subCtx
	s.cancel = cancel
	s.mu.Unlock()

	sub, err := s.feed.Subscribe(subCtx, s.orderID)
	if err != nil {
		logger.Error("Failed to subscribe to messages for order %s: %v", s.orderID, err)
		s.setConnection(repository.FeedDisconnected)
	} else {
		s.mu.Lock()
		s.sub = sub
		s.mu.Unlock()

		s.wg.Add(1)
		go s.consume(sub)
	}

	history, err := s.store.LoadHistory(ctx, s.orderID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.messages = history
	s.loaded = true
	s.mu.Unlock()

	return nil
}

// SendMessage sends trimmed text plus zero or more files. A trivially empty
// send returns (nil, nil) with no side effect. Uploads are best-effort: a
// failed file is dropped when text or another attachment still makes the
// message sendable, and aborts the send otherwise. On insert failure the
// optimistic entry is rolled back and the error returned; no retry happens.
func (s *ChatSession) SendMessage(ctx context.Context, text string, files []AttachmentInput) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(files) == 0 {
		return nil, nil
	}

	s.beginSending()
	defer s.endSending()

	attachments, uploadErr := s.uploadAll(ctx, files)
	if uploadErr != nil {
		if text == "" && len(attachments) == 0 {
			return nil, uploadErr
		}
		logger.Warn("Sending with %d of %d attachments for order %s: %v",
			len(attachments), len(files), s.orderID, uploadErr)
	}

	body := text
	if body == "" {
		body = attachmentPlaceholder
	}

	tempID := "temp-" + uuid.New().String()
	self := s.user
	temp := entity.Message{
		ID:          tempID,
		OrderID:     s.orderID,
		SenderID:    s.user.ID,
		Text:        body,
		Attachments: attachments,
		CreatedAt:   time.Now(),
		Sender:      &self,
	}

	s.mu.Lock()
	s.messages = append(s.messages, temp)
	s.pending[tempID] = struct{}{}
	s.mu.Unlock()
	s.publish(Update{Kind: UpdateAppended, Message: &temp})

	persisted, err := s.store.InsertMessage(ctx, s.orderID, s.user.ID, body, attachments)
	if err != nil {
		s.mu.Lock()
		s.removeLocked(tempID)
		delete(s.pending, tempID)
		s.mu.Unlock()
		s.publish(Update{Kind: UpdateRemoved, TempID: tempID})
		return nil, err
	}

	// Own messages reconcile with the denormalized self profile; no profile
	// round trip is needed.
	persisted.Sender = &self

	s.mu.Lock()
	replaced := false
	if s.indexLocked(persisted.ID) >= 0 {
		// The realtime echo landed first; the persisted entry is already in
		// the list, so the temporary one just goes away.
		s.removeLocked(tempID)
	} else if idx := s.indexLocked(tempID); idx >= 0 {
		s.messages[idx] = *persisted
		replaced = true
	} else {
		s.messages = append(s.messages, *persisted)
	}
	delete(s.pending, tempID)
	s.mu.Unlock()

	if replaced {
		s.publish(Update{Kind: UpdateReplaced, TempID: tempID, Message: persisted})
	} else {
		s.publish(Update{Kind: UpdateRemoved, TempID: tempID})
	}

	return persisted, nil
}

// uploadAll runs every upload concurrently and returns the URLs of the ones
// that succeeded, in input order, plus the first error encountered.
func (s *ChatSession) uploadAll(ctx context.Context, files []AttachmentInput) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, len(files))
	var g errgroup.Group
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, err := s.store.UploadAttachment(ctx, s.orderID, file)
			if err != nil {
				logger.Warn("Attachment %s failed for order %s: %v", file.Name, s.orderID, err)
				return err
			}
			urls[i] = url
			return nil
		})
	}
	err := g.Wait()

	uploaded := make([]string, 0, len(files))
	for _, url := range urls {
		if url != "" {
			uploaded = append(uploaded, url)
		}
	}
	if len(uploaded) == 0 {
		uploaded = nil
	}

	return uploaded, err
}

func (s *ChatSession) consume(sub repository.Subscription) {
	defer s.wg.Done()

	events, status := sub.Events(), sub.Status()
	for events != nil || status != nil {
		select {
		case msg, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.handleArrival(msg)
		case st, ok := <-status:
			if !ok {
				status = nil
				continue
			}
			s.setConnection(st)
		}
	}
}

// handleArrival processes one realtime insert event. Events for pending sends
// and for the viewing user's own messages are discarded (they are echoes of
// writes reconciled locally); everything else is appended idempotently.
func (s *ChatSession) handleArrival(msg entity.Message) {
	s.mu.Lock()
	if _, inFlight := s.pending[msg.ID]; inFlight {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if msg.SenderID == s.user.ID {
		return
	}

	profile, err := s.store.ResolveProfile(s.ctx, msg.SenderID)
	if err != nil {
		logger.Warn("Failed to resolve profile %s for order %s: %v", msg.SenderID, s.orderID, err)
		profile = &entity.Profile{ID: msg.SenderID}
	}
	msg.Sender = profile

	s.mu.Lock()
	if s.indexLocked(msg.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.publish(Update{Kind: UpdateAppended, Message: &msg})
}

// Messages returns a snapshot of the current list.
func (s *ChatSession) Messages() []entity.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *ChatSession) ConnectionStatus() repository.FeedStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connection
}

func (s *ChatSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.loaded:
		return StateLoading
	case s.sending > 0:
		return StateSending
	default:
		return StateReady
	}
}

// Updates delivers view changes until the session is closed.
func (s *ChatSession) Updates() <-chan Update {
	return s.updates
}

// Close releases the realtime subscription and clears the pending set. It is
// a no-op on a session that never opened, and safe to call more than once.
func (s *ChatSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	cancel := s.cancel
	s.pending = make(map[string]struct{})
	s.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	s.mu.Lock()
	close(s.updates)
	s.mu.Unlock()
}

func (s *ChatSession) setConnection(st repository.FeedStatus) {
	s.mu.Lock()
	if s.connection == st {
		s.mu.Unlock()
		return
	}
	s.connection = st
	s.mu.Unlock()

	s.publish(Update{Kind: UpdateConnection, Connection: st})
}

// publish never blocks: a consumer that falls 64 updates behind loses the
// oldest view changes, which the next snapshot fetch repairs.
func (s *ChatSession) publish(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.updates <- u:
	default:
	}
}

func (s *ChatSession) beginSending() {
	s.mu.Lock()
	s.sending++
	s.mu.Unlock()
}

func (s *ChatSession) endSending() {
	s.mu.Lock()
	s.sending--
	s.mu.Unlock()
}

func (s *ChatSession) indexLocked(id string) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ChatSession) removeLocked(id string) {
	if idx := s.indexLocked(id); idx >= 0 {
		s.messages = append(s.messages[:idx], s.messages[idx+1:]...)
	}
}
