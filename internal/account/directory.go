package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no account matches the requested identifier or email.
var ErrNotFound = errors.New("account not found")

// Directory resolves and persists canonical accounts.
type Directory interface {
	Create(ctx context.Context, acct Account) error
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	UpdateSurvey(ctx context.Context, id string, payload []byte) error
	UpdateTokenVersion(ctx context.Context, id string, version int) error
}

// PostgresDirectory implements Directory using PostgreSQL.
type PostgresDirectory struct {
	db *pgxpool.Pool
}

// NewPostgresDirectory builds a Postgres-backed account directory.
func NewPostgresDirectory(db *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// Create inserts a new account.
func (d *PostgresDirectory) Create(ctx context.Context, acct Account) error {
	acctID, err := uuid.Parse(acct.ID)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(ctx, `INSERT INTO accounts (id, name, email, password_hash, base_address, survey_completed, survey, token_version, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		acctID, acct.Name, acct.Email, acct.PasswordHash, acct.BaseAddress, acct.SurveyCompleted, acct.Survey, acct.TokenVersion, acct.CreatedAt.UTC())
	return err
}

// FindByEmail fetches an account by its unique email.
func (d *PostgresDirectory) FindByEmail(ctx context.Context, email string) (Account, error) {
	row := d.db.QueryRow(ctx, `SELECT id, name, email, password_hash, base_address, survey_completed, survey, token_version, created_at
        FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByID fetches an account by identifier.
func (d *PostgresDirectory) FindByID(ctx context.Context, id string) (Account, error) {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := d.db.QueryRow(ctx, `SELECT id, name, email, password_hash, base_address, survey_completed, survey, token_version, created_at
        FROM accounts WHERE id = $1`, acctID)
	return scanAccount(row)
}

// UpdateSurvey stores the completed survey payload.
func (d *PostgresDirectory) UpdateSurvey(ctx context.Context, id string, payload []byte) error {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := d.db.Exec(ctx, `UPDATE accounts SET survey = $1, survey_completed = TRUE WHERE id = $2`, payload, acctID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTokenVersion bumps the token version used to invalidate issued tokens.
func (d *PostgresDirectory) UpdateTokenVersion(ctx context.Context, id string, version int) error {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := d.db.Exec(ctx, `UPDATE accounts SET token_version = $1 WHERE id = $2`, version, acctID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		acct      Account
	)
	if err := row.Scan(&id, &acct.Name, &acct.Email, &acct.PasswordHash, &acct.BaseAddress, &acct.SurveyCompleted, &acct.Survey, &acct.TokenVersion, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	acct.ID = id.String()
	acct.CreatedAt = createdAt.UTC()
	return acct, nil
}
