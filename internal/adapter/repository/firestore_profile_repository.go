package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/samber/lo"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	"promostore/pkg/errors"
	"promostore/pkg/logger"
)

// Firestore caps "in" filters, so batch lookups are chunked.
const profileLookupChunkSize = 30

type firestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) repository.ProfileRepository {
	return &firestoreProfileRepository{
		client: client,
	}
}

func (r *firestoreProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	doc, err := r.client.Collection("profiles").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Profile", err)
		}
		return nil, errors.StoreError("Failed to get profile", err)
	}

	var profile entity.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.StoreError("Failed to parse profile data", err)
	}
	profile.ID = doc.Ref.ID

	return &profile, nil
}

func (r *firestoreProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Profile, error) {
	if len(ids) == 0 {
		return []entity.Profile{}, nil
	}

	profiles := []entity.Profile{}
	for _, chunk := range lo.Chunk(lo.Uniq(ids), profileLookupChunkSize) {
		iter := r.client.Collection("profiles").
			Where("id", "in", chunk).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, errors.StoreError("Failed to query profiles", err)
			}

			var profile entity.Profile
			if err := doc.DataTo(&profile); err != nil {
				logger.Warn("Skipping malformed profile document %s: %v", doc.Ref.ID, err)
				continue
			}
			profile.ID = doc.Ref.ID
			profiles = append(profiles, profile)
		}
	}

	return profiles, nil
}

func (r *firestoreProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	iter := r.client.Collection("profiles").
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	profiles := []entity.Profile{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.StoreError("Failed to list profiles", err)
		}

		var profile entity.Profile
		if err := doc.DataTo(&profile); err != nil {
			logger.Warn("Skipping malformed profile document %s: %v", doc.Ref.ID, err)
			continue
		}
		profile.ID = doc.Ref.ID
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func (r *firestoreProfileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	profile.UpdatedAt = time.Now()

	_, err := r.client.Collection("profiles").Doc(profile.ID).Set(ctx, profile)
	if err != nil {
		return errors.StoreError("Failed to update profile", err)
	}

	return nil
}
