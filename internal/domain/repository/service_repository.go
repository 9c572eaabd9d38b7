package repository

import (
	"context"

	"promostore/internal/domain/entity"
)

type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	List(ctx context.Context, activeOnly bool) ([]entity.Service, error)
	Create(ctx context.Context, service *entity.Service) error
	Update(ctx context.Context, service *entity.Service) error
	Delete(ctx context.Context, id string) error
}
