package wallet

import "time"

// Contributor is the immutable snapshot of an account embedded in a wallet
// when the account is granted contributor access. It is a value copied at add
// time; later edits to the canonical account do not propagate here.
type Contributor struct {
	AccountID       string    `json:"account_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	BaseAddress     string    `json:"base_address"`
	Identicon       string    `json:"identicon"`
	SurveyCompleted bool      `json:"survey_completed"`
	Survey          []byte    `json:"survey,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// Wallet is a shared ledger account: one owner, zero or more contributors,
// a base address transactions are matched against, and a base-unit balance.
type Wallet struct {
	ID          string
	OwnerID     string
	OwnerEmail  string
	BaseAddress string
	// Balance is the integer base-unit balance as a decimal string, filled in
	// from the ledger backend at read time.
	Balance      string
	Contributors []Contributor
	CreatedAt    time.Time
}
