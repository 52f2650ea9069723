package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/walletshare/walletshare/internal/money"
	"github.com/walletshare/walletshare/internal/txlog"
)

type inMemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]string
	txs      txlog.Store
}

// NewInMemory creates a concurrency-safe in-memory ledger posting to the
// given transaction log. Useful for unit tests and running without Postgres.
func NewInMemory(txs txlog.Store) Ledger {
	return &inMemoryLedger{
		balances: make(map[string]string),
		txs:      txs,
	}
}

func (l *inMemoryLedger) EnsureWallet(_ context.Context, walletID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.balances[walletID]; !exists {
		l.balances[walletID] = "0"
	}
	return nil
}

func (l *inMemoryLedger) Balance(_ context.Context, walletID string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	balance, exists := l.balances[walletID]
	if !exists {
		return "", ErrWalletNotFound
	}
	return balance, nil
}

func (l *inMemoryLedger) Credit(ctx context.Context, walletID, fromAddress, toAddress string, amount decimal.Decimal) (Receipt, error) {
	return l.post(ctx, walletID, fromAddress, toAddress, amount, false)
}

func (l *inMemoryLedger) Debit(ctx context.Context, walletID, fromAddress, toAddress string, amount decimal.Decimal) (Receipt, error) {
	return l.post(ctx, walletID, fromAddress, toAddress, amount, true)
}

// post holds the mutex across the transaction append and the balance write so
// the pair is atomic and per-wallet mutations serialize.
func (l *inMemoryLedger) post(ctx context.Context, walletID, fromAddress, toAddress string, amount decimal.Decimal, debit bool) (Receipt, error) {
	if amount.Sign() <= 0 {
		return Receipt{}, fmt.Errorf("amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, exists := l.balances[walletID]
	if !exists {
		return Receipt{}, ErrWalletNotFound
	}

	var newBalance string
	var err error
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

	txn, err := l.txs.Insert(ctx, fromAddress, toAddress, amount.String())
	if err != nil {
		return Receipt{}, err
	}

	l.balances[walletID] = newBalance
	return Receipt{Transaction: txn, NewBalance: newBalance}, nil
}
