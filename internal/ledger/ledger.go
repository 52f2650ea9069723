package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/walletshare/walletshare/internal/txlog"
)

var (
	// ErrInsufficientFunds occurs when a debit would drive the wallet balance
	// below zero. Balances are kept non-negative by the ledger.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrWalletNotFound indicates the ledger holds no balance record for the
	// wallet.
	ErrWalletNotFound = errors.New("wallet not found in ledger")
)

// Receipt captures the outcome of a posting: the appended transaction and the
// wallet balance after it.
type Receipt struct {
	Transaction txlog.Transaction
	NewBalance  string
}

// Ledger is the posting backend implemented by Postgres and in-memory
// variants. Credit and Debit apply the transaction append and the balance
// update as one atomic unit, serialized per wallet; on any failure the wallet
// is observably unchanged.
type Ledger interface {
	EnsureWallet(ctx context.Context, walletID string) error
	Balance(ctx context.Context, walletID string) (string, error)
	Credit(ctx context.Context, walletID, fromAddress, toAddress string, amount decimal.Decimal) (Receipt, error)
	Debit(ctx context.Context, walletID, fromAddress, toAddress string, amount decimal.Decimal) (Receipt, error)
}
