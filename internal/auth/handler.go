package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/walletshare/walletshare/internal/account"
	"github.com/walletshare/walletshare/internal/wallet"
)

// Handler exposes registration and session endpoints.
type Handler struct {
	accounts *account.Service
	tokens   *Service
	wallets  *wallet.Service
}

// NewHandler builds the auth HTTP handler.
func NewHandler(accounts *account.Service, tokens *Service, wallets *wallet.Service) *Handler {
	return &Handler{accounts: accounts, tokens: tokens, wallets: wallets}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type surveyRequest struct {
	Payload map[string]any `json:"payload"`
}

// Register creates an account and provisions its first wallet.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	acct, err := h.accounts.Register(c.UserContext(), account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	w, err := h.wallets.Create(c.UserContext(), acct.ID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"account": fiber.Map{
			"id":           acct.ID,
			"name":         acct.Name,
			"email":        acct.Email,
			"base_address": acct.BaseAddress,
		},
		"wallet": fiber.Map{
			"id":           w.ID,
			"base_address": w.BaseAddress,
			"balance":      w.Balance,
		},
	})
}

// Login authenticates credentials and issues a token pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	acct, err := h.accounts.Authenticate(c.UserContext(), account.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}

	pair, err := h.tokens.Login(acct)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(pair)
}

// Refresh exchanges a refresh token for a new access token.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	access, expiresIn, err := h.tokens.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"access_token": access, "expires_in": expiresIn})
}

// Logout invalidates all tokens issued to the authenticated account.
func (h *Handler) Logout(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	if accountID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	if err := h.tokens.Logout(c.UserContext(), accountID); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// CompleteSurvey stores the onboarding survey for the authenticated account.
func (h *Handler) CompleteSurvey(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	if accountID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req surveyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.accounts.CompleteSurvey(c.UserContext(), accountID, c.Body()); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
