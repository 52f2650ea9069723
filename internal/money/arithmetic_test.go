package money

import (
	"errors"
	"testing"
)

func TestAddSubtractRoundTrip(t *testing.T) {
	balances := []string{"0", "1500000000000000000", "99999999999999999999999999999999999999"}
	amounts := []string{"0.5", "1", "123456.000000000000000001"}

	for _, balance := range balances {
		for _, raw := range amounts {
			amount, err := ToBaseUnits(raw)
			if err != nil {
				t.Fatalf("ToBaseUnits(%q): %v", raw, err)
			}
			credited, err := Add(balance, amount)
			if err != nil {
				t.Fatalf("Add(%q, %s): %v", balance, amount, err)
			}
			back, err := Subtract(credited, amount)
			if err != nil {
				t.Fatalf("Subtract(%q, %s): %v", credited, amount, err)
			}
			if back != balance {
				t.Fatalf("subtract(add(%q, %s)) = %q, want original balance", balance, amount, back)
			}
		}
	}
}

func TestSubtractMayGoNegative(t *testing.T) {
	amount, err := ToBaseUnits("2")
	if err != nil {
		t.Fatalf("ToBaseUnits: %v", err)
	}
	got, err := Subtract("1000000000000000000", amount)
	if err != nil {
		t.Fatalf("Subtract: %v", err)
	}
	if got != "-1000000000000000000" {
		t.Fatalf("expected negative result, got %q", got)
	}
}

func TestCompare(t *testing.T) {
	amount, _ := ToBaseUnits("1")
	cases := []struct {
		balance string
		want    int
	}{
		{"999999999999999999", -1},
		{"1000000000000000000", 0},
		{"1000000000000000001", 1},
	}
	for _, tc := range cases {
		got, err := Compare(tc.balance, amount)
		if err != nil {
			t.Fatalf("Compare(%q): %v", tc.balance, err)
		}
		if got != tc.want {
			t.Fatalf("Compare(%q, 1e18) = %d, want %d", tc.balance, got, tc.want)
		}
	}
}

func TestArithmeticRejectsMalformedBalance(t *testing.T) {
	amount, _ := ToBaseUnits("1")
	if _, err := Add("not-a-number", amount); !errors.Is(err, ErrMalformedAmount) {
		t.Fatalf("Add with malformed balance: %v", err)
	}
	if _, err := Subtract("1.5", amount); !errors.Is(err, ErrMalformedAmount) {
		t.Fatalf("Subtract with fractional balance: %v", err)
	}
}
