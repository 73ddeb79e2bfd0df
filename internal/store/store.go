// Package store abstracts the document store behind an injectable interface
// so handlers can run against MongoDB in production and an in-memory fake in
// tests.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store is the document-store contract the dispatcher runs on. Documents are
// flat bson maps; identifiers are assigned by the store on insert.
type Store interface {
	// Insert adds one document and returns its assigned id.
	Insert(ctx context.Context, collection string, doc any) (bson.ObjectID, error)

	// Find returns documents matching filter. When sortField is non-empty the
	// result is sorted by that field, newest first. limit <= 0 means no limit.
	Find(ctx context.Context, collection string, filter bson.M, sortField string, limit int64) ([]bson.M, error)

	// FindOne returns the first document matching filter, or nil when none
	// matches.
	FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, error)

	// Update applies set to the first document matching filter and returns the
	// matched count. setOnInsert fields are written only when upsert creates
	// the document.
	Update(ctx context.Context, collection string, filter bson.M, set bson.M, setOnInsert bson.M, upsert bool) (int64, error)

	// Delete removes the first document matching filter and returns the
	// deleted count.
	Delete(ctx context.Context, collection string, filter bson.M) (int64, error)

	// CollectionNames lists collections that exist in the store.
	CollectionNames(ctx context.Context) ([]string, error)
}
