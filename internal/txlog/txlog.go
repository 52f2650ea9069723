package txlog

import (
	"context"
	"time"
)

// Transaction is one value movement between two addresses. Records are
// immutable once appended; nothing in this package updates or deletes them.
type Transaction struct {
	ID          string
	FromAddress string
	ToAddress   string
	// Amount is a positive integer base-unit amount serialized as a decimal
	// string; it may exceed the 64-bit range.
	Amount    string
	CreatedAt time.Time
}

// Store is the append-only transaction log. Insert assigns the id and
// timestamp; ListByAddress returns every transaction touching an address on
// either side, oldest first.
type Store interface {
	Insert(ctx context.Context, fromAddress, toAddress, amount string) (Transaction, error)
	ListByAddress(ctx context.Context, address string) ([]Transaction, error)
}
