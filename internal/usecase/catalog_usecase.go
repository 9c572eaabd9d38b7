package usecase

import (
	"context"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

type CatalogUseCase struct {
	serviceRepo repository.ServiceRepository
}

func NewCatalogUseCase(serviceRepo repository.ServiceRepository) *CatalogUseCase {
	return &CatalogUseCase{
		serviceRepo: serviceRepo,
	}
}

// ListServices returns the catalog; non-admin callers only see active items.
func (uc *CatalogUseCase) ListServices(ctx context.Context, includeInactive bool) ([]entity.Service, error) {
	return uc.serviceRepo.List(ctx, !includeInactive)
}

func (uc *CatalogUseCase) GetService(ctx context.Context, id string) (*entity.Service, error) {
	return uc.serviceRepo.GetByID(ctx, id)
}

type ServiceInput struct {
	Title       string
	Description string
	Category    string
	Price       float64
	ImageURL    string
	IsActive    bool
}

func (uc *CatalogUseCase) CreateService(ctx context.Context, input ServiceInput) (*entity.Service, error) {
	if input.Price < 0 {
		return nil, errors.BadRequest("Price cannot be negative", nil)
	}

	service := &entity.Service{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		IsActive:    input.IsActive,
	}
	if err := uc.serviceRepo.Create(ctx, service); err != nil {
		return nil, err
	}

	return service, nil
}

func (uc *CatalogUseCase) UpdateService(ctx context.Context, id string, input ServiceInput) (*entity.Service, error) {
	if input.Price < 0 {
		return nil, errors.BadRequest("Price cannot be negative", nil)
	}

	service, err := uc.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	service.Title = input.Title
	service.Description = input.Description
	service.Category = input.Category
	service.Price = input.Price
	service.ImageURL = input.ImageURL
	service.IsActive = input.IsActive

	if err := uc.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}

	return service, nil
}

func (uc *CatalogUseCase) DeleteService(ctx context.Context, id string) error {
	if _, err := uc.serviceRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.serviceRepo.Delete(ctx, id)
}
