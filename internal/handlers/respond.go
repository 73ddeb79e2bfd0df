package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"sekolah-backend/dto"
	"sekolah-backend/internal/store"
)

// ErrorHandler renders every error as an ErrorResponse JSON body. Plug into
// fiber.Config.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Message: err.Error()})
}

// sanitizeDoc prepares a stored document for a JSON response: the id becomes
// its external hex string and bson datetimes become time.Time so they render
// as RFC 3339 rather than raw millisecond counts.
func sanitizeDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		switch t := v.(type) {
		case bson.ObjectID:
			out[k] = store.EncodeID(t)
		case bson.DateTime:
			out[k] = t.Time().UTC()
		default:
			out[k] = v
		}
	}
	return out
}
