package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/walletshare/walletshare/internal/account"
	"github.com/walletshare/walletshare/internal/identicon"
	"github.com/walletshare/walletshare/internal/ledger"
	"github.com/walletshare/walletshare/internal/money"
	"github.com/walletshare/walletshare/internal/notify"
	"github.com/walletshare/walletshare/internal/txlog"
)

// User-facing messages, rendered verbatim by callers.
const (
	msgAmountNotPositive    = "Amount should be greater than 0"
	msgAmountTooPrecise     = "Amount must not have more than 18 decimal places"
	msgNotEnoughBalance     = "Not enough balance"
	msgTargetNotFound       = "Target account not found. Please recheck the email and try again."
	msgContributorNotFound  = "Contributor not found. Please recheck contributor's email and try again."
	msgOwnerConflict        = "You cannot add owner of wallet as contributor."
	msgDuplicateContributor = "Contributor is already added in wallet."
	msgDeposited            = "Balance deposited successfully."
	msgWithdrawn            = "Balance withdrawn successfully."
	msgContributorAdded     = "Contributor added successfully."
)

// Service orchestrates the wallet ledger: it validates raw inputs, delegates
// conversion and arithmetic, posts through the ledger backend and maintains
// the contributor set. Domain failures come back inside the Outcome; returned
// errors are reserved for missing wallets and store/ledger faults.
type Service struct {
	store      Store
	ledger     ledger.Ledger
	txs        txlog.Store
	directory  account.Directory
	identicons identicon.Generator
	events     notify.Publisher

	// contributor updates are read-modify-write over the stored set, so they
	// serialize per wallet; balance postings serialize inside the ledger.
	contribLocks sync.Map
}

// NewService builds a wallet service instance.
func NewService(store Store, ledgerBackend ledger.Ledger, txs txlog.Store, directory account.Directory, identicons identicon.Generator, events notify.Publisher) *Service {
	return &Service{
		store:      store,
		ledger:     ledgerBackend,
		txs:        txs,
		directory:  directory,
		identicons: identicons,
		events:     events,
	}
}

// Create provisions a wallet for the owner account with a fresh base address
// and a zero ledger balance.
func (s *Service) Create(ctx context.Context, ownerID string) (Wallet, error) {
	owner, err := s.directory.FindByID(ctx, ownerID)
	if err != nil {
		return Wallet{}, err
	}

	address, err := account.NewBaseAddress()
	if err != nil {
		return Wallet{}, err
	}

	w := Wallet{
		ID:          uuid.New().String(),
		OwnerID:     owner.ID,
		OwnerEmail:  owner.Email,
		BaseAddress: address,
		Balance:     "0",
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Create(ctx, w); err != nil {
		return Wallet{}, err
	}
	if err := s.ledger.EnsureWallet(ctx, w.ID); err != nil {
		return Wallet{}, err
	}
	return w, nil
}

// Get retrieves a wallet with its current ledger balance.
func (s *Service) Get(ctx context.Context, id string) (Wallet, error) {
	w, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Wallet{}, err
	}
	balance, err := s.ledger.Balance(ctx, w.ID)
	if err != nil {
		return Wallet{}, err
	}
	w.Balance = balance
	return w, nil
}

// ListByOwner returns the wallets owned by an account, balances included.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Wallet, error) {
	wallets, err := s.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range wallets {
		balance, err := s.ledger.Balance(ctx, wallets[i].ID)
		if err != nil {
			return nil, err
		}
		wallets[i].Balance = balance
	}
	return wallets, nil
}

// Transactions returns the wallet's transaction history: every record whose
// from or to address matches the wallet's base address.
func (s *Service) Transactions(ctx context.Context, id string) ([]txlog.Transaction, error) {
	w, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.txs.ListByAddress(ctx, w.BaseAddress)
}

// Deposit moves value from the source account's address into the wallet.
// Validation failures are returned in the Outcome with no mutation performed.
func (s *Service) Deposit(ctx context.Context, walletID string, source account.Account, amount string) (Outcome, error) {
	units, validation := parseAmount(amount)
	if len(validation) > 0 {
		return rejected(validation...), nil
	}

	w, err := s.store.FindByID(ctx, walletID)
	if err != nil {
		return Outcome{}, err
	}

	receipt, err := s.ledger.Credit(ctx, w.ID, source.BaseAddress, w.BaseAddress, units)
	if err != nil {
		return Outcome{}, fmt.Errorf("post deposit: %w", err)
	}

	s.publish(ctx, notify.Event{WalletID: w.ID, Kind: notify.KindBalance, Balance: receipt.NewBalance})
	return Outcome{Message: msgDeposited, Balance: receipt.NewBalance}, nil
}

// Withdraw moves value from the wallet to the account registered under
// targetEmail. Debits that would drive the balance negative are rejected.
func (s *Service) Withdraw(ctx context.Context, walletID, targetEmail, amount string) (Outcome, error) {
	units, validation := parseAmount(amount)
	if len(validation) > 0 {
		return rejected(validation...), nil
	}

	w, err := s.store.FindByID(ctx, walletID)
	if err != nil {
		return Outcome{}, err
	}

	target, err := s.directory.FindByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return rejected(msgTargetNotFound), nil
		}
		return Outcome{}, err
	}

	receipt, err := s.ledger.Debit(ctx, w.ID, w.BaseAddress, target.BaseAddress, units)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return rejected(msgNotEnoughBalance), nil
		}
		return Outcome{}, fmt.Errorf("post withdrawal: %w", err)
	}

	s.publish(ctx, notify.Event{WalletID: w.ID, Kind: notify.KindBalance, Balance: receipt.NewBalance})
	return Outcome{Message: msgWithdrawn, Balance: receipt.NewBalance}, nil
}

// AddContributor resolves the email, applies the membership rules and embeds
// an immutable snapshot of the account, identicon included, into the wallet.
func (s *Service) AddContributor(ctx context.Context, walletID, email string) (Outcome, error) {
	unlock := s.lockContributors(walletID)
	defer unlock()

	w, err := s.store.FindByID(ctx, walletID)
	if err != nil {
		return Outcome{}, err
	}

	candidate, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return rejected(msgContributorNotFound), nil
		}
		return Outcome{}, err
	}

	switch err := CanAdd(w, candidate); {
	case errors.Is(err, ErrOwnerConflict):
		return rejected(msgOwnerConflict), nil
	case errors.Is(err, ErrDuplicateContributor):
		return rejected(msgDuplicateContributor), nil
	case err != nil:
		return Outcome{}, err
	}

	image, err := s.identicons.Generate(candidate.BaseAddress)
	if err != nil {
		return Outcome{}, fmt.Errorf("generate identicon: %w", err)
	}

	snapshot := Contributor{
		AccountID:       candidate.ID,
		Name:            candidate.Name,
		Email:           candidate.Email,
		BaseAddress:     candidate.BaseAddress,
		Identicon:       image,
		SurveyCompleted: candidate.SurveyCompleted,
		Survey:          candidate.Survey,
		AddedAt:         time.Now().UTC(),
	}

	if err := s.store.UpdateContributors(ctx, w.ID, AppendContributor(w, snapshot)); err != nil {
		return Outcome{}, fmt.Errorf("update contributors: %w", err)
	}

	s.publish(ctx, notify.Event{WalletID: w.ID, Kind: notify.KindContributors})
	return Outcome{Message: msgContributorAdded}, nil
}

// RemoveContributor drops the matching entry from the wallet. Removing an
// absent email succeeds without effect.
func (s *Service) RemoveContributor(ctx context.Context, walletID, email string) (Outcome, error) {
	unlock := s.lockContributors(walletID)
	defer unlock()

	w, err := s.store.FindByID(ctx, walletID)
	if err != nil {
		return Outcome{}, err
	}

	contributors, removed := RemoveContributor(w, email)
	if removed {
		if err := s.store.UpdateContributors(ctx, w.ID, contributors); err != nil {
			return Outcome{}, fmt.Errorf("update contributors: %w", err)
		}
		s.publish(ctx, notify.Event{WalletID: w.ID, Kind: notify.KindContributors})
	}

	return Outcome{Message: fmt.Sprintf("Contributor (email: %s) removed from wallet successfully.", email)}, nil
}

func (s *Service) publish(ctx context.Context, event notify.Event) {
	if s.events == nil {
		return
	}
	// Change events are best-effort; the ledger mutation already committed.
	_ = s.events.WalletChanged(ctx, event)
}

func (s *Service) lockContributors(walletID string) func() {
	v, _ := s.contribLocks.LoadOrStore(walletID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// parseAmount converts a raw user-entered amount into base units, collecting
// field errors in presentation order.
func parseAmount(amount string) (decimal.Decimal, []string) {
	units, err := money.ToBaseUnits(amount)
	switch {
	case errors.Is(err, money.ErrTooPrecise):
		return decimal.Decimal{}, []string{msgAmountTooPrecise}
	case err != nil:
		return decimal.Decimal{}, []string{msgAmountNotPositive}
	case units.Sign() == 0:
		return decimal.Decimal{}, []string{msgAmountNotPositive}
	}
	return units, nil
}
