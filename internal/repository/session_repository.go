package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"sekolah-backend/internal/store"
	"sekolah-backend/model"
)

// ErrNoSession means no active session matches the presented token.
var ErrNoSession = errors.New("no active session")

const sessionCollection = "session"

// SessionRepository persists login sessions. Sessions are additive: each
// login inserts a new document, logout flips active to false, nothing is
// ever deleted.
type SessionRepository struct {
	store store.Store
}

func NewSessionRepository(s store.Store) *SessionRepository {
	return &SessionRepository{store: s}
}

// Create issues a fresh 192-bit random token and inserts an active session
// for email. Prior sessions for the same email stay valid.
func (r *SessionRepository) Create(ctx context.Context, email string) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	now := time.Now().UTC()
	_, err := r.store.Insert(ctx, sessionCollection, model.Session{
		Email:     email,
		Token:     token,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Deactivate marks the session for token inactive. Unknown or already
// inactive tokens are a no-op so logout never fails.
func (r *SessionRepository) Deactivate(ctx context.Context, token string) error {
	_, err := r.store.Update(ctx, sessionCollection,
		bson.M{"token": token},
		bson.M{"active": false, "updated_at": time.Now().UTC()},
		nil, false)
	return err
}

// ResolveActive returns the email owning an active session for token, or
// ErrNoSession. Tokens do not expire by time; deactivation is the only way
// they stop resolving.
func (r *SessionRepository) ResolveActive(ctx context.Context, token string) (string, error) {
	doc, err := r.store.FindOne(ctx, sessionCollection, bson.M{"token": token, "active": true})
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", ErrNoSession
	}
	email, _ := doc["email"].(string)
	return email, nil
}
