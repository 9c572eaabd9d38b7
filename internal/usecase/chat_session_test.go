package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

// --- fakes shared by the chat tests ---

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []entity.Message
	nextID    int
	listErr   error
	createErr error
	onCreate  func(m *entity.Message)
}

func (r *fakeMessageRepo) ListByOrder(_ context.Context, orderID string) ([]entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []entity.Message{}
	for _, m := range r.messages {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Create(_ context.Context, message *entity.Message) error {
	r.mu.Lock()
	if r.createErr != nil {
		r.mu.Unlock()
		return r.createErr
	}
	r.nextID++
	message.ID = fmt.Sprintf("msg-%d", r.nextID)
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	hook := r.onCreate
	r.mu.Unlock()

	if hook != nil {
		hook(message)
	}
	return nil
}

func (r *fakeMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

type fakeProfileRepo struct {
	mu          sync.Mutex
	profiles    map[string]entity.Profile
	getByIDsErr error
}

func newFakeProfileRepo(profiles ...entity.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: map[string]entity.Profile{}}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.NotFound("Profile", nil)
	}
	return &p, nil
}

func (r *fakeProfileRepo) GetByIDs(_ context.Context, ids []string) ([]entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getByIDsErr != nil {
		return nil, r.getByIDsErr
	}
	var out []entity.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) List(_ context.Context) ([]entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Profile
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = *profile
	return nil
}

type fakeUploader struct {
	mu       sync.Mutex
	calls    int
	uploadFn func(orderID, filename string, data []byte) (string, error)
}

func (u *fakeUploader) UploadChatAttachment(_ context.Context, orderID, filename string, data []byte) (string, error) {
	u.mu.Lock()
	u.calls++
	fn := u.uploadFn
	u.mu.Unlock()

	if fn != nil {
		return fn(orderID, filename, data)
	}
	return "https://cdn.test/" + filename, nil
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

type fakeSubscription struct {
	events chan entity.Message
	status chan repository.FeedStatus
	once   sync.Once
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		events: make(chan entity.Message, 16),
		status: make(chan repository.FeedStatus, 16),
	}
}

func (s *fakeSubscription) Events() <-chan entity.Message       { return s.events }
func (s *fakeSubscription) Status() <-chan repository.FeedStatus { return s.status }

func (s *fakeSubscription) Close() {
	s.once.Do(func() {
		close(s.events)
		close(s.status)
	})
}

type fakeFeed struct {
	sub *fakeSubscription
	err error
}

func (f *fakeFeed) Subscribe(context.Context, string) (repository.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

// --- helpers ---

var selfProfile = entity.Profile{ID: "user-1", FullName: "Customer"}

func newTestSession(t *testing.T, msgRepo *fakeMessageRepo, profRepo *fakeProfileRepo, uploader *fakeUploader, feed *fakeFeed) *ChatSession {
	t.Helper()
	if profRepo == nil {
		profRepo = newFakeProfileRepo(selfProfile)
	}
	if uploader == nil {
		uploader = &fakeUploader{}
	}
	if feed == nil {
		feed = &fakeFeed{sub: newFakeSubscription()}
	}
	store := NewChatStore(msgRepo, profRepo, uploader)
	return NewChatSession(store, feed, "order-1", selfProfile)
}

func drainUpdates(s *ChatSession) []Update {
	var out []Update
	for {
		select {
		case u, ok := <-s.Updates():
			if !ok {
				return out
			}
			out = append(out, u)
		default:
			return out
		}
	}
}

// --- tests ---

func TestSessionOpenLoadsHistory(t *testing.T) {
	admin := entity.Profile{ID: "admin-1", FullName: "Support", IsAdmin: true}
	msgRepo := &fakeMessageRepo{messages: []entity.Message{
		{ID: "m1", OrderID: "order-1", SenderID: "user-1", Text: "hello"},
		{ID: "m2", OrderID: "order-1", SenderID: "admin-1", Text: "hi there"},
		{ID: "m3", OrderID: "order-2", SenderID: "user-1", Text: "other order"},
	}}
	session := newTestSession(t, msgRepo, newFakeProfileRepo(selfProfile, admin), nil, nil)
	defer session.Close()

	require.NoError(t, session.Open(context.Background()))

	messages := session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	require.NotNil(t, messages[1].Sender)
	assert.Equal(t, "Support", messages[1].Sender.FullName)
	assert.Equal(t, StateReady, session.State())
}

func TestSessionOpenFailsOnHistoryError(t *testing.T) {
	msgRepo := &fakeMessageRepo{listErr: errors.StoreError("down", nil)}
	session := newTestSession(t, msgRepo, nil, nil, nil)
	defer session.Close()

	err := session.Open(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, "STORE_ERROR"))
	assert.Equal(t, StateLoading, session.State())
}

func TestSessionOpenSurvivesSubscribeFailure(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	session := newTestSession(t, msgRepo, nil, nil, &fakeFeed{err: errors.StoreError("no feed", nil)})
	defer session.Close()

	require.NoError(t, session.Open(context.Background()))
	assert.Equal(t, repository.FeedDisconnected, session.ConnectionStatus())
	assert.Equal(t, StateReady, session.State())
}

func TestSendMessagePersistsAndReconciles(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	session := newTestSession(t, msgRepo, nil, nil, nil)
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sent, err := session.SendMessage(context.Background(), "  hello  ", nil)
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "hello", sent.Text)
	assert.Equal(t, selfProfile.ID, sent.SenderID)
	require.NotNil(t, sent.Sender)
	assert.Equal(t, selfProfile.FullName, sent.Sender.FullName)

	// Exactly one entry remains, carrying the persisted id, not the temp one.
	messages := session.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, sent.ID, messages[0].ID)
	assert.NotContains(t, messages[0].ID, "temp-")
	assert.Equal(t, 1, msgRepo.count())

	updates := drainUpdates(session)
	require.Len(t, updates, 2)
	assert.Equal(t, UpdateAppended, updates[0].Kind)
	assert.Contains(t, updates[0].Message.ID, "temp-")
	assert.Equal(t, UpdateReplaced, updates[1].Kind)
	assert.Equal(t, updates[0].Message.ID, updates[1].TempID)
	assert.Equal(t, sent.ID, updates[1].Message.ID)
}

func TestSendMessageEmptyIsNoOp(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	session := newTestSession(t, msgRepo, nil, nil, nil)
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sent, err := session.SendMessage(context.Background(), "   ", nil)
	assert.NoError(t, err)
	assert.Nil(t, sent)
	assert.Empty(t, session.Messages())
	assert.Equal(t, 0, msgRepo.count())
	assert.Empty(t, drainUpdates(session))
}

func TestSendMessageRollsBackOnInsertFailure(t *testing.T) {
	msgRepo := &fakeMessageRepo{createErr: errors.InsertFailed("write failed", nil)}
	session := newTestSession(t, msgRepo, nil, nil, nil)
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sent, err := session.SendMessage(context.Background(), "hello", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INSERT_FAILED"))
	assert.Nil(t, sent)
	assert.Empty(t, session.Messages())

	updates := drainUpdates(session)
	require.Len(t, updates, 2)
	assert.Equal(t, UpdateAppended, updates[0].Kind)
	assert.Equal(t, UpdateRemoved, updates[1].Kind)
	assert.Equal(t, updates[0].Message.ID, updates[1].TempID)
}

func TestSendMessageAttachmentOnlyGetsPlaceholder(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	session := newTestSession(t, msgRepo, nil, nil, nil)
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sent, err := session.SendMessage(context.Background(), "", []AttachmentInput{
		{Name: "brief.pdf", Data: []byte("pdf")},
	})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "📎 attachment(s)", sent.Text)
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "https://cdn.test/brief.pdf", sent.Attachments[0])
}

func TestSendMessageAbortsWhenAllUploadsFailAndNoText(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	uploader := &fakeUploader{uploadFn: func(string, string, []byte) (string, error) {
		return "", errors.UploadFailed("bucket down", nil)
	}}
	session := newTestSession(t, msgRepo, nil, uploader, nil)
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sent, err := session.SendMessage(context.Background(), "", []AttachmentInput{
		{Name: "a.png", Data: []byte("a")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UPLOAD_FAILED"))
	assert.Nil(t, sent)
	assert.Equal(t, 0, msgRepo.count())
	assert.Empty(t, drainUpdates(session))
}

func TestSendMessageDropsFailedUploadWhenTextRemains(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	uploader := &fakeUploader{uploadFn: func(_, filename string, _ []byte) (string, error) {
		if filename == "bad.png" {
			return "", errors.UploadFailed("bucket down", nil)
		}
		return "https://cdn.test/" + filename, nil
	}}
	session := newTestSession(t, msgRepo, nil, uploader, nil)
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sent, err := session.SendMessage(context.Background(), "see attached", []AttachmentInput{
		{Name: "bad.png", Data: []byte("x")},
		{Name: "good.png", Data: []byte("y")},
	})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, []string{"https://cdn.test/good.png"}, sent.Attachments)
	assert.Equal(t, 1, msgRepo.count())
}

func TestSendMessageRejectsOversizedAttachmentBeforeUpload(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	uploader := &fakeUploader{}
	session := newTestSession(t, msgRepo, nil, uploader, nil)
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sent, err := session.SendMessage(context.Background(), "", []AttachmentInput{
		{Name: "huge.zip", Data: make([]byte, MaxAttachmentSize+1)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "ATTACHMENT_TOO_LARGE"))
	assert.Nil(t, sent)
	assert.Equal(t, 0, uploader.callCount())
	assert.Equal(t, 0, msgRepo.count())
}

func TestArrivalAppendsWithResolvedProfile(t *testing.T) {
	admin := entity.Profile{ID: "admin-1", FullName: "Support", IsAdmin: true}
	sub := newFakeSubscription()
	session := newTestSession(t, &fakeMessageRepo{}, newFakeProfileRepo(selfProfile, admin), nil, &fakeFeed{sub: sub})
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sub.events <- entity.Message{ID: "m10", OrderID: "order-1", SenderID: "admin-1", Text: "we are on it"}

	require.Eventually(t, func() bool {
		return len(session.Messages()) == 1
	}, time.Second, 5*time.Millisecond)

	messages := session.Messages()
	require.NotNil(t, messages[0].Sender)
	assert.Equal(t, "Support", messages[0].Sender.FullName)
}

func TestArrivalFallsBackToBareProfile(t *testing.T) {
	sub := newFakeSubscription()
	session := newTestSession(t, &fakeMessageRepo{}, newFakeProfileRepo(selfProfile), nil, &fakeFeed{sub: sub})
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sub.events <- entity.Message{ID: "m10", OrderID: "order-1", SenderID: "ghost", Text: "?"}

	require.Eventually(t, func() bool {
		return len(session.Messages()) == 1
	}, time.Second, 5*time.Millisecond)

	sender := session.Messages()[0].Sender
	require.NotNil(t, sender)
	assert.Equal(t, "ghost", sender.ID)
	assert.Empty(t, sender.FullName)
}

func TestArrivalSuppressesOwnEcho(t *testing.T) {
	sub := newFakeSubscription()
	session := newTestSession(t, &fakeMessageRepo{}, nil, nil, &fakeFeed{sub: sub})
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sub.events <- entity.Message{ID: "m10", OrderID: "order-1", SenderID: selfProfile.ID, Text: "echo"}
	sub.events <- entity.Message{ID: "m11", OrderID: "order-1", SenderID: "admin-1", Text: "real"}

	require.Eventually(t, func() bool {
		return len(session.Messages()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "m11", session.Messages()[0].ID)
}

func TestArrivalIsIdempotent(t *testing.T) {
	sub := newFakeSubscription()
	session := newTestSession(t, &fakeMessageRepo{}, nil, nil, &fakeFeed{sub: sub})
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	dup := entity.Message{ID: "m10", OrderID: "order-1", SenderID: "admin-1", Text: "once"}
	sub.events <- dup
	sub.events <- dup
	sub.events <- entity.Message{ID: "m11", OrderID: "order-1", SenderID: "admin-1", Text: "twice"}

	require.Eventually(t, func() bool {
		messages := session.Messages()
		return len(messages) == 2 && messages[1].ID == "m11"
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "m10", session.Messages()[0].ID)
}

func TestConnectionStatusPropagates(t *testing.T) {
	sub := newFakeSubscription()
	session := newTestSession(t, &fakeMessageRepo{}, nil, nil, &fakeFeed{sub: sub})
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	assert.Equal(t, repository.FeedConnecting, session.ConnectionStatus())

	sub.status <- repository.FeedConnected
	require.Eventually(t, func() bool {
		return session.ConnectionStatus() == repository.FeedConnected
	}, time.Second, 5*time.Millisecond)

	sub.status <- repository.FeedDisconnected
	require.Eventually(t, func() bool {
		return session.ConnectionStatus() == repository.FeedDisconnected
	}, time.Second, 5*time.Millisecond)

	var connectionUpdates []Update
	for _, u := range drainUpdates(session) {
		if u.Kind == UpdateConnection {
			connectionUpdates = append(connectionUpdates, u)
		}
	}
	require.Len(t, connectionUpdates, 2)
	assert.Equal(t, repository.FeedConnected, connectionUpdates[0].Connection)
	assert.Equal(t, repository.FeedDisconnected, connectionUpdates[1].Connection)
}

func TestCloseIsIdempotentAndClosesUpdates(t *testing.T) {
	session := newTestSession(t, &fakeMessageRepo{}, nil, nil, nil)
	require.NoError(t, session.Open(context.Background()))

	session.Close()
	session.Close()

	_, ok := <-session.Updates()
	assert.False(t, ok)
}

func TestSendAfterRealtimeEchoKeepsSingleEntry(t *testing.T) {
	// The insert ack and the realtime echo race; whichever lands second must
	// not produce a second copy of the message.
	sub := newFakeSubscription()
	msgRepo := &fakeMessageRepo{}
	msgRepo.onCreate = func(m *entity.Message) {
		sub.events <- *m
	}
	session := newTestSession(t, msgRepo, nil, nil, &fakeFeed{sub: sub})
	defer session.Close()
	require.NoError(t, session.Open(context.Background()))

	sent, err := session.SendMessage(context.Background(), "racy", nil)
	require.NoError(t, err)

	// Give the echo time to be consumed, then verify nothing was duplicated.
	time.Sleep(50 * time.Millisecond)
	messages := session.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, sent.ID, messages[0].ID)
}
