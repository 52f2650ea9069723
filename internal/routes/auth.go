package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/walletshare/walletshare/internal/auth"
)

// RegisterAuthRoutes wires registration and session endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, loginRateLimit fiber.Handler) {
	r.Post("/accounts/register", h.Register)
	r.Post("/auth/login", loginRateLimit, h.Login)
	r.Post("/auth/refresh", h.Refresh)
}
