package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promostore/internal/domain/entity"
	"promostore/pkg/errors"
)

type fakeServiceRepo struct {
	mu       sync.Mutex
	services map[string]entity.Service
}

func newFakeServiceRepo(services ...entity.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{services: map[string]entity.Service{}}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, errors.NotFound("Service", nil)
	}
	return &s, nil
}

func (r *fakeServiceRepo) List(_ context.Context, activeOnly bool) ([]entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Service
	for _, s := range r.services {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeServiceRepo) Create(_ context.Context, service *entity.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	service.ID = fmt.Sprintf("svc-%d", len(r.services)+1)
	r.services[service.ID] = *service
	return nil
}

func (r *fakeServiceRepo) Update(_ context.Context, service *entity.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[service.ID] = *service
	return nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, id)
	return nil
}

type fakeCartRepo struct {
	mu     sync.Mutex
	items  []entity.CartItem
	nextID int
}

func (r *fakeCartRepo) ListByUser(_ context.Context, userID string) ([]entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) GetByUserAndService(_ context.Context, userID, serviceID string) (*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.UserID == userID && item.ServiceID == serviceID {
			found := item
			return &found, nil
		}
	}
	return nil, errors.NotFound("Cart item", nil)
}

func (r *fakeCartRepo) Create(_ context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = fmt.Sprintf("cart-%d", r.nextID)
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeCartRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Quantity = quantity
			return nil
		}
	}
	return errors.NotFound("Cart item", nil)
}

func (r *fakeCartRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return errors.NotFound("Cart item", nil)
}

func (r *fakeCartRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, item := range r.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

var activeService = entity.Service{ID: "svc-1", Title: "Social media kit", Price: 150, IsActive: true}

func TestCartAddItemCreatesNewEntry(t *testing.T) {
	uc := NewCartUseCase(&fakeCartRepo{}, newFakeServiceRepo(activeService))

	item, err := uc.AddItem(context.Background(), "user-1", "svc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	require.NotNil(t, item.Service)
	assert.Equal(t, "Social media kit", item.Service.Title)
}

func TestCartAddItemIncrementsExisting(t *testing.T) {
	cartRepo := &fakeCartRepo{}
	uc := NewCartUseCase(cartRepo, newFakeServiceRepo(activeService))
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "user-1", "svc-1")
	require.NoError(t, err)
	item, err := uc.AddItem(ctx, "user-1", "svc-1")
	require.NoError(t, err)

	assert.Equal(t, 2, item.Quantity)
	items, _ := cartRepo.ListByUser(ctx, "user-1")
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartAddItemRejectsInactiveService(t *testing.T) {
	inactive := entity.Service{ID: "svc-2", Title: "Retired", IsActive: false}
	uc := NewCartUseCase(&fakeCartRepo{}, newFakeServiceRepo(inactive))

	_, err := uc.AddItem(context.Background(), "user-1", "svc-2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCartUpdateQuantityZeroRemoves(t *testing.T) {
	cartRepo := &fakeCartRepo{}
	uc := NewCartUseCase(cartRepo, newFakeServiceRepo(activeService))
	ctx := context.Background()

	item, err := uc.AddItem(ctx, "user-1", "svc-1")
	require.NoError(t, err)

	require.NoError(t, uc.UpdateQuantity(ctx, "user-1", item.ID, 0))
	items, _ := cartRepo.ListByUser(ctx, "user-1")
	assert.Empty(t, items)
}

func TestCartUpdateQuantityChecksOwnership(t *testing.T) {
	cartRepo := &fakeCartRepo{}
	uc := NewCartUseCase(cartRepo, newFakeServiceRepo(activeService))
	ctx := context.Background()

	item, err := uc.AddItem(ctx, "user-1", "svc-1")
	require.NoError(t, err)

	err = uc.UpdateQuantity(ctx, "someone-else", item.ID, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestCartGetCartJoinsServices(t *testing.T) {
	cartRepo := &fakeCartRepo{}
	serviceRepo := newFakeServiceRepo(activeService)
	uc := NewCartUseCase(cartRepo, serviceRepo)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "user-1", "svc-1")
	require.NoError(t, err)

	items, err := uc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Service)
	assert.Equal(t, 150.0, items[0].Service.Price)
}
