package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"sekolah-backend/dto"
	"sekolah-backend/internal/schema"
	"sekolah-backend/internal/store"
)

const pageCollection = "schoolpage"

// PageHandler serves the keyed singleton school pages: at most one document
// per page key, written with upsert semantics.
type PageHandler struct {
	store store.Store
}

func NewPageHandler(s store.Store) *PageHandler {
	return &PageHandler{store: s}
}

// Get godoc
// @Summary      Fetch a school page
// @Description  Returns an empty page shell when the key has no stored document yet, so frontends never special-case absence.
// @Tags         pages
// @Produce      json
// @Param        key  path  string  true  "Page key"
// @Success      200  {object}  map[string]interface{}
// @Router       /public/page/{key} [get]
func (h *PageHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")

	doc, err := h.store.FindOne(c.Context(), pageCollection, bson.M{"key": key})
	if err != nil {
		return err
	}
	if doc == nil {
		return c.JSON(fiber.Map{"key": key, "title": "", "content": ""})
	}
	return c.JSON(sanitizeDoc(doc))
}

// Set godoc
// @Summary      Create or replace a school page
// @Description  Upserts on key. The route key always wins over any key in the payload.
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        Auth-Token  header    string        true  "Session token"
// @Param        key         path      string        true  "Page key"
// @Param        payload     body      dto.Document  true  "Page fields"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /admin/page/{key} [post]
func (h *PageHandler) Set(c *fiber.Ctx) error {
	key := c.Params("key")
	if !schema.IsPageKey(key) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Message: "validation failed",
			Errors:  []schema.FieldError{{Field: "key", Message: "unknown page key"}},
		})
	}

	var body dto.Document
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Data == nil {
		body.Data = map[string]any{}
	}
	// Route key overrides whatever the client sent.
	body.Data["key"] = key

	sch, _ := schema.Resolve(pageCollection)
	patch, ferrs := sch.ValidatePartial(body.Data)
	if len(ferrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(dto.ErrorResponse{Message: "validation failed", Errors: ferrs})
	}

	now := time.Now().UTC()
	patch["updated_at"] = now

	_, err := h.store.Update(c.Context(), pageCollection,
		bson.M{"key": key}, patch, bson.M{"created_at": now}, true)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "saved"})
}
