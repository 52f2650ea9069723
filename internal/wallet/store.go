package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the wallet does not exist.
var ErrNotFound = errors.New("wallet not found")

// Store persists wallet metadata and the contributor set. Balances are owned
// by the ledger backend, not the store.
type Store interface {
	Create(ctx context.Context, w Wallet) error
	FindByID(ctx context.Context, id string) (Wallet, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Wallet, error)
	UpdateContributors(ctx context.Context, id string, contributors []Contributor) error
}

// PostgresStore stores wallets in PostgreSQL. The contributor set is a JSONB
// document on the wallet row, mirroring its embedded-snapshot semantics.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed wallet store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a wallet record with an empty contributor set.
func (s *PostgresStore) Create(ctx context.Context, w Wallet) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(w.OwnerID)
	if err != nil {
		return err
	}
	contributors, err := json.Marshal(w.Contributors)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, owner_email, base_address, contributors, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		walletID, ownerID, w.OwnerEmail, w.BaseAddress, contributors, w.CreatedAt.UTC())
	return err
}

// FindByID fetches a wallet by identifier.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (Wallet, error) {
	walletID, err := uuid.Parse(id)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT id, owner_id, owner_email, base_address, contributors, created_at
        FROM wallets WHERE id = $1`, walletID)
	return scanWallet(row)
}

// FindByOwner lists the wallets owned by an account.
func (s *PostgresStore) FindByOwner(ctx context.Context, ownerID string) ([]Wallet, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `SELECT id, owner_id, owner_email, base_address, contributors, created_at
        FROM wallets WHERE owner_id = $1 ORDER BY created_at`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// UpdateContributors replaces the wallet's contributor set.
func (s *PostgresStore) UpdateContributors(ctx context.Context, id string, contributors []Contributor) error {
	walletID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	payload, err := json.Marshal(contributors)
	if err != nil {
		return err
	}
	cmd, err := s.db.Exec(ctx, `UPDATE wallets SET contributors = $1 WHERE id = $2`, payload, walletID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		id           uuid.UUID
		ownerID      uuid.UUID
		contributors []byte
		createdAt    time.Time
		w            Wallet
	)
	if err := row.Scan(&id, &ownerID, &w.OwnerEmail, &w.BaseAddress, &contributors, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	if len(contributors) > 0 {
		if err := json.Unmarshal(contributors, &w.Contributors); err != nil {
			return Wallet{}, err
		}
	}
	w.ID = id.String()
	w.OwnerID = ownerID.String()
	w.CreatedAt = createdAt.UTC()
	return w, nil
}
