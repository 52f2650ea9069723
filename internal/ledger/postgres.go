package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/walletshare/walletshare/internal/money"
	"github.com/walletshare/walletshare/internal/txlog"
)

// PostgresLedger posts transactions and balance updates in a single database
// transaction, holding the balance row lock for the duration so concurrent
// postings against the same wallet serialize.
type PostgresLedger struct {
	db  *pgxpool.Pool
	txs *txlog.PostgresStore
}

// NewPostgresLedger constructs a Postgres-backed ledger.
func NewPostgresLedger(db *pgxpool.Pool, txs *txlog.PostgresStore) *PostgresLedger {
	return &PostgresLedger{db: db, txs: txs}
}

// EnsureWallet guarantees a zero balance record exists for the wallet.
func (l *PostgresLedger) EnsureWallet(ctx context.Context, walletID string) error {
	id, err := uuid.Parse(walletID)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(ctx, `INSERT INTO balances (wallet_id, amount) VALUES ($1, '0')
        ON CONFLICT (wallet_id) DO NOTHING`, id)
	return err
}

// Balance returns the wallet's current base-unit balance string.
func (l *PostgresLedger) Balance(ctx context.Context, walletID string) (string, error) {
	id, err := uuid.Parse(walletID)
	if err != nil {
		return "", ErrWalletNotFound
	}
	var balance string
	if err := l.db.QueryRow(ctx, `SELECT amount FROM balances WHERE wallet_id = $1`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrWalletNotFound
		}
		return "", err
	}
	return balance, nil
}

// Credit atomically appends the transaction and adds amount to the wallet
// balance.
func (l *PostgresLedger) Credit(ctx context.Context, walletID, fromAddress, toAddress string, amount decimal.Decimal) (Receipt, error) {
	return l.post(ctx, walletID, fromAddress, toAddress, amount, false)
}

// Debit atomically appends the transaction and subtracts amount from the
// wallet balance, failing with ErrInsufficientFunds if the balance would go
// negative.
func (l *PostgresLedger) Debit(ctx context.Context, walletID, fromAddress, toAddress string, amount decimal.Decimal) (Receipt, error) {
	return l.post(ctx, walletID, fromAddress, toAddress, amount, true)
}

func (l *PostgresLedger) post(ctx context.Context, walletID, fromAddress, toAddress string, amount decimal.Decimal, debit bool) (Receipt, error) {
	if amount.Sign() <= 0 {
		return Receipt{}, fmt.Errorf("amount must be positive")
	}
	id, err := uuid.Parse(walletID)
	if err != nil {
		return Receipt{}, ErrWalletNotFound
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Receipt{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var balance string
	if err := tx.QueryRow(ctx, `SELECT amount FROM balances WHERE wallet_id = $1 FOR UPDATE`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Receipt{}, ErrWalletNotFound
		}
		return Receipt{}, err
	}

	var newBalance string
	if debit {
		cmp, err := money.Compare(balance, amount)
		if err != nil {
			return Receipt{}, err
		}
		if cmp < 0 {
			return Receipt{}, ErrInsufficientFunds
		}
		newBalance, err = money.Subtract(balance, amount)
		if err != nil {
			return Receipt{}, err
		}
	} else {
		newBalance, err = money.Add(balance, amount)
		if err != nil {
			return Receipt{}, err
		}
	}

	txn, err := l.txs.InsertTx(ctx, tx, fromAddress, toAddress, amount.String())
	if err != nil {
		return Receipt{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE balances SET amount = $1 WHERE wallet_id = $2`, newBalance, id); err != nil {
		return Receipt{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Receipt{}, err
	}

	return Receipt{Transaction: txn, NewBalance: newBalance}, nil
}
