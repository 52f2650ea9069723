package account

import "time"

// Account is the canonical record for a registered user. Wallet contributor
// entries embed a copied snapshot of this data, not a reference; later edits
// here do not propagate into wallets.
type Account struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    []byte
	BaseAddress     string
	SurveyCompleted bool
	Survey          []byte
	TokenVersion    int
	CreatedAt       time.Time
}

// Credentials carries a login request.
type Credentials struct {
	Email    string
	Password string
}
