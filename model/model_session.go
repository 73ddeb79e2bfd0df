package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Session document stored in "session". One document per login; never
// deleted, only flipped to inactive on logout.
type Session struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string        `bson:"email" json:"email"`
	Token     string        `bson:"token" json:"token"`
	Active    bool          `bson:"active" json:"active"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
