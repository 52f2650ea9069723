package wallet

import (
	"errors"
	"strings"

	"github.com/walletshare/walletshare/internal/account"
)

var (
	// ErrOwnerConflict rejects adding the wallet owner as a contributor.
	ErrOwnerConflict = errors.New("owner cannot be a contributor")

	// ErrDuplicateContributor rejects an email already present in this
	// wallet's contributor set. Uniqueness is scoped per wallet.
	ErrDuplicateContributor = errors.New("contributor already added")
)

// CanAdd reports whether the candidate account may join the wallet's
// contributor set.
func CanAdd(w Wallet, candidate account.Account) error {
	email := normalizeEmail(candidate.Email)
	if email == normalizeEmail(w.OwnerEmail) {
		return ErrOwnerConflict
	}
	for _, c := range w.Contributors {
		if normalizeEmail(c.Email) == email {
			return ErrDuplicateContributor
		}
	}
	return nil
}

// AppendContributor returns the contributor set with c added. Set semantics
// hold even without a prior CanAdd: an email already present is never added
// twice.
func AppendContributor(w Wallet, c Contributor) []Contributor {
	email := normalizeEmail(c.Email)
	for _, existing := range w.Contributors {
		if normalizeEmail(existing.Email) == email {
			return w.Contributors
		}
	}
	out := make([]Contributor, len(w.Contributors), len(w.Contributors)+1)
	copy(out, w.Contributors)
	return append(out, c)
}

// RemoveContributor returns the contributor set without the entry matching
// email, and whether anything was removed. Removing an absent email is a
// no-op.
func RemoveContributor(w Wallet, email string) ([]Contributor, bool) {
	target := normalizeEmail(email)
	out := make([]Contributor, 0, len(w.Contributors))
	removed := false
	for _, c := range w.Contributors {
		if !removed && normalizeEmail(c.Email) == target {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out, removed
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
