package routes

import (
	"github.com/gofiber/fiber/v2"

	"sekolah-backend/config"
	"sekolah-backend/internal/handlers"
	"sekolah-backend/internal/middleware"
	"sekolah-backend/internal/repository"
	"sekolah-backend/internal/store"
)

type Deps struct {
	Store  store.Store
	Config config.Config
}

// Register wires every route group. The page routes must precede the generic
// collection routes so "page" is never taken for a collection name.
func Register(app *fiber.App, deps Deps) {
	sessions := repository.NewSessionRepository(deps.Store)
	users := repository.NewUserRepository(deps.Store)

	auth := handlers.NewAuthHandler(users, sessions, deps.Config.MasterAdminEmail)
	content := handlers.NewContentHandler(deps.Store)
	pages := handlers.NewPageHandler(deps.Store)
	health := handlers.NewHealthHandler(deps.Store, deps.Config)

	app.Get("/", health.Root)
	app.Get("/test", health.Test)

	app.Post("/auth/login", auth.Login)
	app.Post("/auth/logout", auth.Logout)

	app.Get("/public/page/:key", pages.Get)
	app.Get("/public/:collection", content.List(50))

	admin := app.Group("/admin", middleware.RequireAdmin(sessions))
	admin.Post("/page/:key", pages.Set)
	admin.Get("/:collection", content.List(200))
	admin.Post("/:collection", content.Create)
	admin.Put("/:collection/:item_id", content.Update)
	admin.Delete("/:collection/:item_id", content.Delete)
}
