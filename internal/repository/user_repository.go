package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"sekolah-backend/internal/store"
	"sekolah-backend/model"
)

const userCollection = "user"

type UserRepository struct {
	store store.Store
}

func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{store: s}
}

// UpsertAdmin creates or refreshes the admin user document for email,
// keeping at most one document per email.
func (r *UserRepository) UpsertAdmin(ctx context.Context, email string) error {
	now := time.Now().UTC()
	_, err := r.store.Update(ctx, userCollection,
		bson.M{"email": email},
		bson.M{"email": email, "name": "Admin Master", "role": model.RoleAdmin, "updated_at": now},
		bson.M{"created_at": now},
		true)
	return err
}

// FindByEmail returns the user document for email, or nil when none exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	doc, err := r.store.FindOne(ctx, userCollection, bson.M{"email": email})
	if err != nil || doc == nil {
		return nil, err
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := bson.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
