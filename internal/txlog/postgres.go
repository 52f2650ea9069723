package txlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists transactions in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed transaction store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert appends a transaction record standalone, outside any ledger posting.
func (s *PostgresStore) Insert(ctx context.Context, fromAddress, toAddress, amount string) (Transaction, error) {
	txn := newTransaction(fromAddress, toAddress, amount)
	if _, err := s.db.Exec(ctx, insertSQL, uuid.MustParse(txn.ID), txn.FromAddress, txn.ToAddress, txn.Amount, txn.CreatedAt); err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return txn, nil
}

// InsertTx appends a transaction record inside the caller's database
// transaction so the append commits atomically with a balance update.
func (s *PostgresStore) InsertTx(ctx context.Context, tx pgx.Tx, fromAddress, toAddress, amount string) (Transaction, error) {
	txn := newTransaction(fromAddress, toAddress, amount)
	if _, err := tx.Exec(ctx, insertSQL, uuid.MustParse(txn.ID), txn.FromAddress, txn.ToAddress, txn.Amount, txn.CreatedAt); err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return txn, nil
}

// ListByAddress returns transactions where the address is sender or receiver,
// oldest first.
func (s *PostgresStore) ListByAddress(ctx context.Context, address string) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `SELECT id, from_address, to_address, amount, created_at
        FROM transactions WHERE from_address = $1 OR to_address = $1
        ORDER BY created_at, id`, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			id        uuid.UUID
			createdAt time.Time
			txn       Transaction
		)
		if err := rows.Scan(&id, &txn.FromAddress, &txn.ToAddress, &txn.Amount, &createdAt); err != nil {
			return nil, err
		}
		txn.ID = id.String()
		txn.CreatedAt = createdAt.UTC()
		out = append(out, txn)
	}
	return out, rows.Err()
}

const insertSQL = `INSERT INTO transactions (id, from_address, to_address, amount, created_at)
        VALUES ($1, $2, $3, $4, $5)`

func newTransaction(fromAddress, toAddress, amount string) Transaction {
	return Transaction{
		ID:          uuid.New().String(),
		FromAddress: fromAddress,
		ToAddress:   toAddress,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
	}
}
