package store

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore keeps everything in memory. Documents round-trip through bson
// on the way in so stored value types (bson.DateTime, bson.ObjectID) match
// what the Mongo driver hands back, and handlers behave identically against
// either backend. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]bson.M)}
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func copyDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func matches(doc bson.M, filter bson.M) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

// sortValue maps a field value onto a comparable timeline.
func sortValue(v any) int64 {
	switch t := v.(type) {
	case bson.DateTime:
		return int64(t)
	case time.Time:
		return t.UnixMilli()
	case int64:
		return t
	case int32:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}

func (m *MemoryStore) Insert(ctx context.Context, collection string, v any) (bson.ObjectID, error) {
	doc, err := toDoc(v)
	if err != nil {
		return bson.NilObjectID, err
	}

	id, ok := doc["_id"].(bson.ObjectID)
	if !ok || id.IsZero() {
		id = bson.NewObjectID()
	}
	doc["_id"] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], doc)
	return id, nil
}

func (m *MemoryStore) Find(ctx context.Context, collection string, filter bson.M, sortField string, limit int64) ([]bson.M, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []bson.M{}
	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			out = append(out, copyDoc(doc))
		}
	}

	if sortField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return sortValue(out[i][sortField]) > sortValue(out[j][sortField])
		})
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) Update(ctx context.Context, collection string, filter bson.M, set bson.M, setOnInsert bson.M, upsert bool) (int64, error) {
	setDoc, err := toDoc(set)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			for k, v := range setDoc {
				doc[k] = v
			}
			return 1, nil
		}
	}

	if !upsert {
		return 0, nil
	}

	// Mongo upsert seeds the new document from the equality filter plus both
	// update sections.
	doc := bson.M{}
	for k, v := range filter {
		doc[k] = v
	}
	if len(setOnInsert) > 0 {
		onInsert, err := toDoc(setOnInsert)
		if err != nil {
			return 0, err
		}
		for k, v := range onInsert {
			doc[k] = v
		}
	}
	for k, v := range setDoc {
		doc[k] = v
	}
	doc["_id"] = bson.NewObjectID()
	m.collections[collection] = append(m.collections[collection], doc)
	return 0, nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection string, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i, doc := range docs {
		if matches(doc, filter) {
			m.collections[collection] = append(docs[:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MemoryStore) CollectionNames(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name, docs := range m.collections {
		if len(docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
