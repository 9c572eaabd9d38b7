package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
)

type firestoreServiceRepository struct {
	client *firestore.Client
}

func NewFirestoreServiceRepository(client *firestore.Client) repository.ServiceRepository {
	return &firestoreServiceRepository{
		client: client,
	}
}

func (r *firestoreServiceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	doc, err := r.client.Collection("services").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Service", err)
		}
		return nil, errors.Internal("Failed to get service", err)
	}

	var service entity.Service
	if err := doc.DataTo(&service); err != nil {
		return nil, errors.Internal("Failed to parse service data", err)
	}
	service.ID = doc.Ref.ID

	return &service, nil
}

func (r *firestoreServiceRepository) List(ctx context.Context, activeOnly bool) ([]entity.Service, error) {
	query := r.client.Collection("services").Query
	if activeOnly {
		query = query.Where("isActive", "==", true)
	}

	iter := query.OrderBy("createdAt", firestore.Desc).Documents(ctx)

	services := []entity.Service{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list services", err)
		}

		var service entity.Service
		if err := doc.DataTo(&service); err != nil {
			continue // Skip malformed documents
		}
		service.ID = doc.Ref.ID
		services = append(services, service)
	}

	return services, nil
}

func (r *firestoreServiceRepository) Create(ctx context.Context, service *entity.Service) error {
	if service.ID == "" {
		service.ID = uuid.New().String()
	}

	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	_, err := r.client.Collection("services").Doc(service.ID).Set(ctx, service)
	if err != nil {
		return errors.Internal("Failed to create service", err)
	}

	return nil
}

func (r *firestoreServiceRepository) Update(ctx context.Context, service *entity.Service) error {
	service.UpdatedAt = time.Now()

	_, err := r.client.Collection("services").Doc(service.ID).Set(ctx, service)
	if err != nil {
		return errors.Internal("Failed to update service", err)
	}

	return nil
}

func (r *firestoreServiceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("services").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete service", err)
	}

	return nil
}
