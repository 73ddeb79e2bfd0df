package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sekolah-backend/config"
	"sekolah-backend/internal/store"
)

type HealthHandler struct {
	store store.Store
	cfg   config.Config
}

func NewHealthHandler(s store.Store, cfg config.Config) *HealthHandler {
	return &HealthHandler{store: s, cfg: cfg}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "School Management API is running"})
}

// Test reports backend and database status plus a sample of collection
// names, for quick deploy checks.
func (h *HealthHandler) Test(c *fiber.Ctx) error {
	report := fiber.Map{
		"backend":     "running",
		"database":    "not available",
		"mongo_uri":   h.cfg.MongoURI != "",
		"mongo_db":    h.cfg.MongoDB != "",
		"collections": []string{},
	}

	names, err := h.store.CollectionNames(c.Context())
	if err != nil {
		report["database"] = "error: " + err.Error()
		return c.JSON(report)
	}

	if len(names) > 20 {
		names = names[:20]
	}
	report["database"] = "connected"
	report["collections"] = names
	return c.JSON(report)
}
