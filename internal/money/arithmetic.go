package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// parseBalance interprets a stored balance string. Balances are integer
// base-unit amounts serialized as decimal strings and may exceed the native
// 64-bit range.
func parseBalance(balance string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(balance)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse balance %q: %w", balance, ErrMalformedAmount)
	}
	if !d.IsInteger() {
		return decimal.Decimal{}, fmt.Errorf("balance %q is not an integer base-unit amount: %w", balance, ErrMalformedAmount)
	}
	return d, nil
}

// Add returns balance + amount as a decimal string. Pure, exact, no side
// effects.
func Add(balance string, amount decimal.Decimal) (string, error) {
	b, err := parseBalance(balance)
	if err != nil {
		return "", err
	}
	return b.Add(amount).String(), nil
}

// Subtract returns balance - amount as a decimal string. The result may be
// negative; whether that is acceptable is the caller's policy.
func Subtract(balance string, amount decimal.Decimal) (string, error) {
	b, err := parseBalance(balance)
	if err != nil {
		return "", err
	}
	return b.Sub(amount).String(), nil
}

// Compare reports -1, 0 or 1 as balance is less than, equal to or greater
// than amount.
func Compare(balance string, amount decimal.Decimal) (int, error) {
	b, err := parseBalance(balance)
	if err != nil {
		return 0, err
	}
	return b.Cmp(amount), nil
}
