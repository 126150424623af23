package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/infrastructure/metrics"
)

// LedgerUseCase is the sole authority for mutating account balances. Every
// balance change goes through Post, which records exactly one entry whose
// BalanceAfter equals the account balance immediately after it.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	outboxRepo  OutboxRepository
	retrier     Retrier
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier, cache and metrics
// may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	retrier Retrier,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		outboxRepo:  outboxRepo,
		retrier:     retrier,
		cache:       cache,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// PostInput represents one debit or credit against an account.
type PostInput struct {
	AccountID   string
	Kind        domain.EntryKind
	Amount      domain.Amount
	Description string
	// Reference is an optional caller-supplied idempotency token. Reposting
	// with the same reference returns the originally committed entry without
	// reapplying the effect.
	Reference string
}

// PostResult carries the account and entry as committed.
type PostResult struct {
	Account *domain.Account
	Entry   *domain.Entry
	// Duplicate is set when the reference matched a prior entry and no new
	// effect was applied.
	Duplicate bool
}

// Post applies a single debit or credit atomically: either both the balance
// update and the entry are durably recorded, or neither is. Operations on the
// same account serialize on the account row lock; different accounts proceed
// independently.
func (uc *LedgerUseCase) Post(ctx context.Context, input PostInput) (*PostResult, error) {
	// Validate before touching storage; a failed Post leaves no state change.
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidEntryKind
	}

	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", domain.ErrInvalidAmount, input.Amount)
	}

	if input.Amount.Int64() > MaxEntryAmount {
		return nil, fmt.Errorf("%w: %s exceeds maximum of %d", domain.ErrInvalidAmount, input.Amount, int64(MaxEntryAmount))
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if len(input.Reference) > domain.MaxReferenceLength {
		return nil, fmt.Errorf("%w: reference exceeds %d characters", domain.ErrInvalidAmount, domain.MaxReferenceLength)
	}

	var result *PostResult

	operation := func() error {
		r, err := uc.post(ctx, input)
		if err != nil {
			return err
		}

		result = r

		return nil
	}

	start := time.Now()

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	if err != nil {
		if uc.metrics != nil {
			uc.metrics.EntryErrors.WithLabelValues(entryErrorType(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		if result.Duplicate {
			uc.metrics.DuplicateReplays.Inc()
		} else {
			uc.metrics.EntriesPosted.WithLabelValues(string(input.Kind)).Inc()
			uc.metrics.EntryAmount.Observe(float64(input.Amount.Int64()))
		}
		uc.metrics.EntryDuration.Observe(time.Since(start).Seconds())
	}

	if uc.cache != nil && !result.Duplicate {
		// Best effort: a stale cached account self-heals via TTL.
		_ = uc.cache.Delete(ctx, accountCacheKey(result.Account.ID))
	}

	return result, nil
}

func (uc *LedgerUseCase) post(ctx context.Context, input PostInput) (*PostResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	// Idempotency check runs under the account lock so a concurrent retry
	// cannot slip past between check and insert.
	if input.Reference != "" {
		existing, err := uc.entryRepo.FindByReference(ctx, tx, account.ID, input.Reference)
		if err == nil {
			return &PostResult{Account: account, Entry: existing, Duplicate: true}, nil
		}

		if !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, err
		}
	}

	var newBalance domain.Amount

	switch input.Kind {
	case domain.EntryKindDebit:
		if err := account.ValidateDebit(input.Amount); err != nil {
			return nil, err
		}

		newBalance, err = account.ApplyDebit(input.Amount)
	case domain.EntryKindCredit:
		newBalance, err = account.ApplyCredit(input.Amount)
	}

	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	entry := &domain.Entry{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Seq:          account.Version + 1,
		Kind:         input.Kind,
		Amount:       input.Amount,
		Description:  input.Description,
		Reference:    input.Reference,
		BalanceAfter: newBalance,
		CreatedAt:    now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, entry.Seq, now); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   account.ID,
			AggregateType: domain.AggregateTypeAccount,
			EventType:     domain.EventTypeEntryPosted,
			Payload: map[string]any{
				"entry_id":      entry.ID,
				"account_id":    account.ID,
				"kind":          string(entry.Kind),
				"amount":        entry.Amount.Int64(),
				"balance_after": entry.BalanceAfter.Int64(),
				"currency":      account.Currency,
				"reference":     entry.Reference,
			},
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.Version = entry.Seq
	account.UpdatedAt = now

	return &PostResult{Account: account, Entry: entry}, nil
}

// GetBalance returns the current balance of an account.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountID string) (domain.Amount, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return domain.Zero, err
	}

	return account.Balance, nil
}

// GetHistoryInput represents input for listing an account's entries.
type GetHistoryInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetHistory lists the account's entries in commit order, newest first.
func (uc *LedgerUseCase) GetHistory(ctx context.Context, input GetHistoryInput) ([]*domain.Entry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

func accountCacheKey(accountID string) string {
	return "account:" + accountID
}

func entryErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrAmountOverflow):
		return "overflow"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "other"
	}
}
