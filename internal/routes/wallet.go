package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/walletshare/walletshare/internal/wallet"
)

// RegisterWalletRoutes wires the ledger operations and read accessors.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets", h.List)
	r.Get("/wallets/:walletId", h.Get)
	r.Get("/wallets/:walletId/transactions", h.Transactions)
	r.Post("/wallets/:walletId/deposit", h.Deposit)
	r.Post("/wallets/:walletId/withdraw", h.Withdraw)
	r.Post("/wallets/:walletId/contributors", h.AddContributor)
	r.Delete("/wallets/:walletId/contributors/:email", h.RemoveContributor)
}
