package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/walletshare/walletshare/internal/account"
	"github.com/walletshare/walletshare/internal/ledger"
	"github.com/walletshare/walletshare/internal/txlog"
)

// Handler exposes wallet ledger operations over HTTP.
type Handler struct {
	service   *Service
	directory account.Directory
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service, directory account.Directory) *Handler {
	return &Handler{service: service, directory: directory}
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type withdrawRequest struct {
	TargetEmail string `json:"target_email"`
	Amount      string `json:"amount"`
}

type contributorRequest struct {
	Email string `json:"email"`
}

type walletResponse struct {
	ID           string        `json:"id"`
	OwnerID      string        `json:"owner_id"`
	OwnerEmail   string        `json:"owner_email"`
	BaseAddress  string        `json:"base_address"`
	Balance      string        `json:"balance"`
	Contributors []Contributor `json:"contributors"`
}

// Create provisions a wallet owned by the authenticated account.
func (h *Handler) Create(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("account_id").(string)
	if ownerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.service.Create(c.UserContext(), ownerID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(w))
}

// Get returns a wallet with its current balance and contributor set.
func (h *Handler) Get(c *fiber.Ctx) error {
	w, err := h.service.Get(c.UserContext(), c.Params("walletId"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(w))
}

// List returns the authenticated account's wallets.
func (h *Handler) List(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("account_id").(string)
	if ownerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	wallets, err := h.service.ListByOwner(c.UserContext(), ownerID)
	if err != nil {
		return mapError(err)
	}
	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, toResponse(w))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"wallets": out})
}

// Transactions returns the wallet's transaction history.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	txns, err := h.service.Transactions(c.UserContext(), c.Params("walletId"))
	if err != nil {
		return mapError(err)
	}
	if txns == nil {
		txns = []txlog.Transaction{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": txns})
}

// Deposit credits the wallet from the authenticated account's address.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	source, err := h.currentAccount(c)
	if err != nil {
		return err
	}
	outcome, err := h.service.Deposit(c.UserContext(), c.Params("walletId"), source, req.Amount)
	if err != nil {
		return mapError(err)
	}
	return respond(c, outcome)
}

// Withdraw debits the wallet towards the target account's address.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	outcome, err := h.service.Withdraw(c.UserContext(), c.Params("walletId"), req.TargetEmail, req.Amount)
	if err != nil {
		return mapError(err)
	}
	return respond(c, outcome)
}

// AddContributor grants contributor access to the account behind the email.
func (h *Handler) AddContributor(c *fiber.Ctx) error {
	var req contributorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	outcome, err := h.service.AddContributor(c.UserContext(), c.Params("walletId"), req.Email)
	if err != nil {
		return mapError(err)
	}
	return respond(c, outcome)
}

// RemoveContributor revokes contributor access; removing an absent email is
// still a success.
func (h *Handler) RemoveContributor(c *fiber.Ctx) error {
	outcome, err := h.service.RemoveContributor(c.UserContext(), c.Params("walletId"), c.Params("email"))
	if err != nil {
		return mapError(err)
	}
	return respond(c, outcome)
}

func (h *Handler) currentAccount(c *fiber.Ctx) (account.Account, error) {
	id, _ := c.Locals("account_id").(string)
	if id == "" {
		return account.Account{}, fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	acct, err := h.directory.FindByID(c.UserContext(), id)
	if err != nil {
		return account.Account{}, fiber.NewError(http.StatusUnauthorized, "account not found")
	}
	return acct, nil
}

func respond(c *fiber.Ctx, outcome Outcome) error {
	if !outcome.OK() {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"errors": outcome.Errors})
	}
	return c.Status(http.StatusOK).JSON(outcome)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, account.ErrNotFound), errors.Is(err, ledger.ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

func toResponse(w Wallet) walletResponse {
	contributors := w.Contributors
	if contributors == nil {
		contributors = []Contributor{}
	}
	return walletResponse{
		ID:           w.ID,
		OwnerID:      w.OwnerID,
		OwnerEmail:   w.OwnerEmail,
		BaseAddress:  w.BaseAddress,
		Balance:      w.Balance,
		Contributors: contributors,
	}
}
