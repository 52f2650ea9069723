package wallet

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/walletshare/walletshare/internal/account"
	"github.com/walletshare/walletshare/internal/identicon"
	"github.com/walletshare/walletshare/internal/ledger"
	"github.com/walletshare/walletshare/internal/notify"
	"github.com/walletshare/walletshare/internal/txlog"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *capturePublisher) WalletChanged(_ context.Context, event notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) all() []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Event(nil), p.events...)
}

type testEnv struct {
	svc    *Service
	dir    account.Directory
	txs    *txlog.MemoryStore
	led    ledger.Ledger
	events *capturePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	txs := txlog.NewMemoryStore()
	led := ledger.NewInMemory(txs)
	dir := account.NewMemoryDirectory()
	events := &capturePublisher{}
	svc := NewService(NewMemoryStore(), led, txs, dir, identicon.New(), events)
	return &testEnv{svc: svc, dir: dir, txs: txs, led: led, events: events}
}

func (e *testEnv) registerAccount(t *testing.T, name, email string) account.Account {
	t.Helper()
	address, err := account.NewBaseAddress()
	if err != nil {
		t.Fatalf("new address: %v", err)
	}
	acct := account.Account{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		BaseAddress: address,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.dir.Create(context.Background(), acct); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return acct
}

func (e *testEnv) createWallet(t *testing.T, owner account.Account) Wallet {
	t.Helper()
	w, err := e.svc.Create(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	return w
}

func TestDepositScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	source := env.registerAccount(t, "Source", "source@example.com")
	w := env.createWallet(t, owner)

	outcome, err := env.svc.Deposit(ctx, w.ID, source, "1.5")
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !outcome.OK() || outcome.Message != "Balance deposited successfully." {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.Balance != "1500000000000000000" {
		t.Fatalf("expected balance 1500000000000000000, got %s", outcome.Balance)
	}

	txns, err := env.svc.Transactions(ctx, w.ID)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Amount != "1500000000000000000" || txns[0].ToAddress != w.BaseAddress || txns[0].FromAddress != source.BaseAddress {
		t.Fatalf("unexpected transaction: %+v", txns[0])
	}

	events := env.events.all()
	if len(events) != 1 || events[0].Kind != notify.KindBalance {
		t.Fatalf("expected one balance change event, got %+v", events)
	}
}

func TestWithdrawScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	target := env.registerAccount(t, "Target", "target@example.com")
	w := env.createWallet(t, owner)
	ledger.SeedBalance(env.led, w.ID, "1500000000000000000")

	outcome, err := env.svc.Withdraw(ctx, w.ID, "target@example.com", "0.5")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !outcome.OK() || outcome.Message != "Balance withdrawn successfully." {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.Balance != "1000000000000000000" {
		t.Fatalf("expected balance 1000000000000000000, got %s", outcome.Balance)
	}

	txns, _ := env.svc.Transactions(ctx, w.ID)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].FromAddress != w.BaseAddress || txns[0].ToAddress != target.BaseAddress {
		t.Fatalf("unexpected transaction direction: %+v", txns[0])
	}
}

func TestDepositRejectsNonPositiveAmounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	source := env.registerAccount(t, "Source", "source@example.com")
	w := env.createWallet(t, owner)

	for _, amount := range []string{"0", "", "-1", "abc", "0.00"} {
		outcome, err := env.svc.Deposit(ctx, w.ID, source, amount)
		if err != nil {
			t.Fatalf("deposit %q: %v", amount, err)
		}
		if outcome.OK() {
			t.Fatalf("deposit %q unexpectedly succeeded", amount)
		}
		if outcome.Errors[0] != "Amount should be greater than 0" {
			t.Fatalf("deposit %q: unexpected error %q", amount, outcome.Errors[0])
		}
	}

	// No mutation happened on any rejected path.
	got, err := env.svc.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Balance != "0" {
		t.Fatalf("balance mutated by rejected deposits: %s", got.Balance)
	}
	txns, _ := env.svc.Transactions(ctx, w.ID)
	if len(txns) != 0 {
		t.Fatalf("transactions appended by rejected deposits: %+v", txns)
	}
}

func TestDepositRejectsOverPreciseAmount(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	source := env.registerAccount(t, "Source", "source@example.com")
	w := env.createWallet(t, owner)

	outcome, err := env.svc.Deposit(context.Background(), w.ID, source, "0.0000000000000000001")
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if outcome.OK() || outcome.Errors[0] != "Amount must not have more than 18 decimal places" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	env.registerAccount(t, "Target", "target@example.com")
	w := env.createWallet(t, owner)
	ledger.SeedBalance(env.led, w.ID, "1000000000000000000")

	outcome, err := env.svc.Withdraw(ctx, w.ID, "target@example.com", "2")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if outcome.OK() || outcome.Errors[0] != "Not enough balance" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	got, _ := env.svc.Get(ctx, w.ID)
	if got.Balance != "1000000000000000000" {
		t.Fatalf("balance mutated by rejected withdrawal: %s", got.Balance)
	}
}

func TestWithdrawUnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	w := env.createWallet(t, owner)
	ledger.SeedBalance(env.led, w.ID, "1000000000000000000")

	outcome, err := env.svc.Withdraw(context.Background(), w.ID, "ghost@example.com", "0.5")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if outcome.OK() {
		t.Fatal("withdraw to unknown target unexpectedly succeeded")
	}
	if !strings.Contains(outcome.Errors[0], "Target account not found") {
		t.Fatalf("unexpected error: %q", outcome.Errors[0])
	}
}

func TestAddContributorOwnerConflict(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	w := env.createWallet(t, owner)

	outcome, err := env.svc.AddContributor(context.Background(), w.ID, "owner@example.com")
	if err != nil {
		t.Fatalf("add contributor: %v", err)
	}
	if outcome.OK() || outcome.Errors[0] != "You cannot add owner of wallet as contributor." {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	got, _ := env.svc.Get(context.Background(), w.ID)
	if len(got.Contributors) != 0 {
		t.Fatalf("contributor set mutated: %+v", got.Contributors)
	}
}

func TestAddContributorDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	env.registerAccount(t, "Alice", "alice@example.com")
	w := env.createWallet(t, owner)

	first, err := env.svc.AddContributor(ctx, w.ID, "alice@example.com")
	if err != nil || !first.OK() {
		t.Fatalf("first add: outcome=%+v err=%v", first, err)
	}

	second, err := env.svc.AddContributor(ctx, w.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.OK() || second.Errors[0] != "Contributor is already added in wallet." {
		t.Fatalf("unexpected outcome: %+v", second)
	}

	got, _ := env.svc.Get(ctx, w.ID)
	if len(got.Contributors) != 1 {
		t.Fatalf("expected exactly one contributor entry, got %d", len(got.Contributors))
	}
}

func TestAddContributorUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	w := env.createWallet(t, owner)

	outcome, err := env.svc.AddContributor(context.Background(), w.ID, "ghost@example.com")
	if err != nil {
		t.Fatalf("add contributor: %v", err)
	}
	if outcome.OK() || !strings.Contains(outcome.Errors[0], "Contributor not found") {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestAddContributorBuildsSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	alice := env.registerAccount(t, "Alice", "alice@example.com")
	w := env.createWallet(t, owner)

	outcome, err := env.svc.AddContributor(ctx, w.ID, "alice@example.com")
	if err != nil || !outcome.OK() {
		t.Fatalf("add contributor: outcome=%+v err=%v", outcome, err)
	}

	got, _ := env.svc.Get(ctx, w.ID)
	c := got.Contributors[0]
	if c.AccountID != alice.ID || c.Email != alice.Email || c.BaseAddress != alice.BaseAddress {
		t.Fatalf("snapshot does not match account: %+v", c)
	}
	if !strings.HasPrefix(c.Identicon, "data:image/png;base64,") {
		t.Fatalf("expected identicon data URL, got %q", c.Identicon[:min(len(c.Identicon), 40)])
	}

	// The snapshot is a copy: later profile changes do not propagate.
	if err := env.dir.UpdateSurvey(ctx, alice.ID, []byte(`{"done":true}`)); err != nil {
		t.Fatalf("update survey: %v", err)
	}
	got, _ = env.svc.Get(ctx, w.ID)
	if got.Contributors[0].SurveyCompleted {
		t.Fatal("snapshot followed canonical account update")
	}
}

func TestRemoveContributorIdempotentAtService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	env.registerAccount(t, "Alice", "alice@example.com")
	w := env.createWallet(t, owner)

	if outcome, err := env.svc.AddContributor(ctx, w.ID, "alice@example.com"); err != nil || !outcome.OK() {
		t.Fatalf("add: outcome=%+v err=%v", outcome, err)
	}

	for i := 0; i < 2; i++ {
		outcome, err := env.svc.RemoveContributor(ctx, w.ID, "alice@example.com")
		if err != nil {
			t.Fatalf("remove #%d: %v", i+1, err)
		}
		if !outcome.OK() || !strings.Contains(outcome.Message, "alice@example.com") {
			t.Fatalf("remove #%d: unexpected outcome %+v", i+1, outcome)
		}
	}

	got, _ := env.svc.Get(ctx, w.ID)
	if len(got.Contributors) != 0 {
		t.Fatalf("expected empty contributor set, got %+v", got.Contributors)
	}
}

func TestConcurrentDeposits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerAccount(t, "Owner", "owner@example.com")
	source := env.registerAccount(t, "Source", "source@example.com")
	w := env.createWallet(t, owner)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := env.svc.Deposit(ctx, w.ID, source, "1")
			if err != nil || !outcome.OK() {
				t.Errorf("concurrent deposit failed: outcome=%+v err=%v", outcome, err)
			}
		}()
	}
	wg.Wait()

	got, err := env.svc.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Balance != "20000000000000000000" {
		t.Fatalf("expected 20000000000000000000 after %d deposits, got %s", workers, got.Balance)
	}
	txns, _ := env.svc.Transactions(ctx, w.ID)
	if len(txns) != workers {
		t.Fatalf("expected %d transactions, got %d", workers, len(txns))
	}
}

func TestDepositUnknownWallet(t *testing.T) {
	env := newTestEnv(t)
	source := env.registerAccount(t, "Source", "source@example.com")

	if _, err := env.svc.Deposit(context.Background(), "missing", source, "1"); err == nil {
		t.Fatal("expected error for unknown wallet")
	}
}
