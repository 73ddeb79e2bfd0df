package bootstrap

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes backs the uniqueness invariants at the store level: one
// session per token, one user per email, one school page per key.
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []struct {
		collection string
		field      string
		name       string
	}{
		{"session", "token", "uniq_token"},
		{"user", "email", "uniq_email"},
		{"schoolpage", "key", "uniq_key"},
	}

	for _, idx := range indexes {
		_, err := db.Collection(idx.collection).Indexes().CreateOne(
			ctx,
			mongo.IndexModel{
				Keys:    bson.D{{Key: idx.field, Value: 1}},
				Options: options.Index().SetUnique(true).SetName(idx.name),
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
