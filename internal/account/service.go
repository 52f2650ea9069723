package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Service manages account lifecycle: registration, authentication and survey
// completion.
type Service struct {
	directory Directory
}

// NewService creates a new account service.
func NewService(directory Directory) *Service {
	return &Service{directory: directory}
}

// RegisterInput captures the data required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account with a hashed password and a freshly
// generated base address.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return Account{}, errors.New("a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return Account{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	address, err := NewBaseAddress()
	if err != nil {
		return Account{}, err
	}

	acct := Account{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		BaseAddress:  address,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.directory.Create(ctx, acct); err != nil {
		return Account{}, err
	}

	return acct, nil
}

// Authenticate verifies credentials against the stored password hash.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Account, error) {
	acct, err := s.directory.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		return Account{}, err
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(creds.Password)); err != nil {
		return Account{}, errors.New("invalid credentials")
	}
	return acct, nil
}

// CompleteSurvey records the onboarding survey payload for an account.
func (s *Service) CompleteSurvey(ctx context.Context, id string, payload []byte) error {
	return s.directory.UpdateSurvey(ctx, id, payload)
}

// NewBaseAddress generates a random 20-byte hex address in the 0x form the
// ledger uses to associate transactions with wallets and accounts.
func NewBaseAddress() (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(raw), nil
}
