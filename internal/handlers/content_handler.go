package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"sekolah-backend/dto"
	"sekolah-backend/internal/schema"
	"sekolah-backend/internal/store"
)

// ContentHandler is the generic CRUD dispatcher. One handler set serves every
// content collection; the schema registry supplies the per-collection
// validation.
type ContentHandler struct {
	store store.Store
}

func NewContentHandler(s store.Store) *ContentHandler {
	return &ContentHandler{store: s}
}

// List godoc
// @Summary      List documents in a collection
// @Description  Newest first, capped at limit. Identical logic serves /public and /admin; the admin route additionally requires a session.
// @Tags         content
// @Produce      json
// @Param        collection  path   string  true   "Collection name"
// @Param        limit       query  int     false  "Max documents (default 50 public, 200 admin)"
// @Success      200  {array}   map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /public/{collection} [get]
func (h *ContentHandler) List(defaultLimit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("collection")
		if _, ok := schema.Resolve(name); !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown collection")
		}

		limit := int64(c.QueryInt("limit", defaultLimit))

		docs, err := h.store.Find(c.Context(), name, bson.M{}, "created_at", limit)
		if err != nil {
			return err
		}
		out := make([]bson.M, 0, len(docs))
		for _, doc := range docs {
			out = append(out, sanitizeDoc(doc))
		}
		return c.JSON(out)
	}
}

// Create godoc
// @Summary      Create a document
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        Auth-Token  header    string        true  "Session token"
// @Param        collection  path      string        true  "Collection name"
// @Param        payload     body      dto.Document  true  "Document payload"
// @Success      200  {object}  dto.CreatedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /admin/{collection} [post]
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	name := c.Params("collection")
	sch, ok := schema.Resolve(name)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown collection")
	}

	var body dto.Document
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	doc, ferrs := sch.Validate(body.Data)
	if len(ferrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(dto.ErrorResponse{Message: "validation failed", Errors: ferrs})
	}

	now := time.Now().UTC()
	doc["created_at"] = now
	doc["updated_at"] = now

	id, err := h.store.Insert(c.Context(), name, doc)
	if err != nil {
		return err
	}
	return c.JSON(dto.CreatedResponse{ID: store.EncodeID(id)})
}

// Update godoc
// @Summary      Partially update a document
// @Description  Merges only the supplied fields; everything else is left untouched.
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        Auth-Token  header    string        true  "Session token"
// @Param        collection  path      string        true  "Collection name"
// @Param        item_id     path      string        true  "Document id (hex)"
// @Param        payload     body      dto.Document  true  "Fields to merge"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /admin/{collection}/{item_id} [put]
func (h *ContentHandler) Update(c *fiber.Ctx) error {
	name := c.Params("collection")
	sch, ok := schema.Resolve(name)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown collection")
	}

	id, err := store.DecodeID(c.Params("item_id"))
	if errors.Is(err, store.ErrInvalidID) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var body dto.Document
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	patch, ferrs := sch.ValidatePartial(body.Data)
	if len(ferrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(dto.ErrorResponse{Message: "validation failed", Errors: ferrs})
	}
	patch["updated_at"] = time.Now().UTC()

	matched, err := h.store.Update(c.Context(), name, bson.M{"_id": id}, patch, nil, false)
	if err != nil {
		return err
	}
	if matched == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	return c.JSON(dto.MessageResponse{Message: "updated"})
}

// Delete godoc
// @Summary      Delete a document
// @Tags         content
// @Produce      json
// @Param        Auth-Token  header    string  true  "Session token"
// @Param        collection  path      string  true  "Collection name"
// @Param        item_id     path      string  true  "Document id (hex)"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/{collection}/{item_id} [delete]
func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	name := c.Params("collection")
	if _, ok := schema.Resolve(name); !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown collection")
	}

	id, err := store.DecodeID(c.Params("item_id"))
	if errors.Is(err, store.ErrInvalidID) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	deleted, err := h.store.Delete(c.Context(), name, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	return c.JSON(dto.MessageResponse{Message: "deleted"})
}
