package ledger

// SeedBalance is a test helper that sets a wallet's balance directly when
// using the in-memory ledger.
func SeedBalance(l Ledger, walletID, balance string) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balances[walletID] = balance
	}
}
