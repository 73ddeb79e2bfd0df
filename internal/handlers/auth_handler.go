package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sekolah-backend/dto"
	"sekolah-backend/internal/middleware"
	"sekolah-backend/internal/repository"
)

type AuthHandler struct {
	users       *repository.UserRepository
	sessions    *repository.SessionRepository
	masterEmail string
}

func NewAuthHandler(users *repository.UserRepository, sessions *repository.SessionRepository, masterEmail string) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, masterEmail: masterEmail}
}

// Login godoc
// @Summary      Log in as the master admin
// @Description  Email-only login. Only the master admin address is accepted; a new session token is issued on every login.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      dto.LoginRequest  true  "Login payload"
// @Success      200      {object}  dto.AuthResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email != h.masterEmail {
		return fiber.NewError(fiber.StatusForbidden, "Anda tidak memiliki akses admin")
	}

	if err := h.users.UpsertAdmin(c.Context(), email); err != nil {
		return err
	}

	token, err := h.sessions.Create(c.Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{Token: token, Email: email})
}

// Logout godoc
// @Summary      Log out
// @Description  Deactivates the presented session token. Idempotent; always 200.
// @Tags         auth
// @Produce      json
// @Param        Auth-Token  header    string  false  "Session token"
// @Success      200         {object}  dto.MessageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Get(middleware.TokenHeader)
	if token == "" {
		return c.JSON(dto.MessageResponse{Message: "ok"})
	}

	if err := h.sessions.Deactivate(c.Context(), token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "logged out"})
}
