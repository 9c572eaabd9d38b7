package usecase

import (
	"context"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

type CartUseCase struct {
	cartRepo    repository.CartRepository
	serviceRepo repository.ServiceRepository
}

func NewCartUseCase(cartRepo repository.CartRepository, serviceRepo repository.ServiceRepository) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		serviceRepo: serviceRepo,
	}
}

// AddItem puts one unit of a service into the user's cart, incrementing the
// quantity when the service is already there.
func (uc *CartUseCase) AddItem(ctx context.Context, userID, serviceID string) (*entity.CartItem, error) {
	service, err := uc.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !service.IsActive {
		return nil, errors.BadRequest("Service is not available", nil)
	}

	existing, err := uc.cartRepo.GetByUserAndService(ctx, userID, serviceID)
	if err == nil {
		if err := uc.cartRepo.UpdateQuantity(ctx, existing.ID, existing.Quantity+1); err != nil {
			return nil, err
		}
		existing.Quantity++
		existing.Service = service
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	item := &entity.CartItem{
		UserID:    userID,
		ServiceID: serviceID,
		Quantity:  1,
	}
	if err := uc.cartRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	item.Service = service

	return item, nil
}

// GetCart returns the user's cart with service data joined onto each item.
func (uc *CartUseCase) GetCart(ctx context.Context, userID string) ([]entity.CartItem, error) {
	items, err := uc.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		service, err := uc.serviceRepo.GetByID(ctx, items[i].ServiceID)
		if err != nil {
			continue // Service removed from catalog; leave the item bare
		}
		items[i].Service = service
	}

	return items, nil
}

// UpdateQuantity sets an item's quantity; zero or less removes the item.
func (uc *CartUseCase) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if err := uc.ensureOwnership(ctx, userID, itemID); err != nil {
		return err
	}

	if quantity <= 0 {
		return uc.cartRepo.Delete(ctx, itemID)
	}

	return uc.cartRepo.UpdateQuantity(ctx, itemID, quantity)
}

func (uc *CartUseCase) RemoveItem(ctx context.Context, userID, itemID string) error {
	if err := uc.ensureOwnership(ctx, userID, itemID); err != nil {
		return err
	}

	return uc.cartRepo.Delete(ctx, itemID)
}

func (uc *CartUseCase) ensureOwnership(ctx context.Context, userID, itemID string) error {
	items, err := uc.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == itemID {
			return nil
		}
	}
	return errors.NotFound("Cart item", nil)
}
