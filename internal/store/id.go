package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrInvalidID marks a malformed id string. A well-formed hex id that matches
// no document is not this error; that case surfaces later as a zero matched
// count.
var ErrInvalidID = errors.New("invalid id")

// DecodeID parses an external hex id into the store's ObjectID.
func DecodeID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// EncodeID renders an ObjectID in its external hex form.
func EncodeID(id bson.ObjectID) string {
	return id.Hex()
}
