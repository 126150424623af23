package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase verifies that every account balance can be rebuilt
// by folding its entry history. A mismatch means the atomic persist step was
// violated somewhere and is flagged rather than silently accepted.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	metrics     *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. metrics may
// be nil.
func NewReconciliationUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		metrics:     metrics,
	}
}

// ReconciliationResult compares a stored balance against the folded history.
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   domain.Amount
	CalculatedBalance domain.Amount
	Difference        domain.Amount
	EntryCount        int64
	IsReconciled      bool
	CheckedAt         time.Time
}

// ReconcileAccount folds the account's entries and compares the result with
// the stored balance.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	start := time.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Hold the account row lock while folding the history. Postings hold
	// the same lock, so no entry can commit between the balance read and
	// the sum.
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.entryRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	count, err := uc.entryRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	difference, err := account.Balance.Sub(calculated)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		uc.metrics.ReconciliationDuration.Observe(time.Since(start).Seconds())
		if !difference.IsZero() {
			uc.metrics.BalanceDiscrepancies.Inc()
		}
	}

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        difference,
		EntryCount:        count,
		IsReconciled:      difference.IsZero(),
		CheckedAt:         time.Now().UTC(),
	}, nil
}

// RepairAccount resets a drifted stored balance to the value folded from the
// entry history, under the account lock. The entry history is the source of
// truth; the stored balance is derived state.
func (uc *ReconciliationUseCase) RepairAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.entryRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	count, err := uc.entryRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	difference, err := account.Balance.Sub(calculated)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if !difference.IsZero() {
		if err := uc.accountRepo.UpdateBalance(ctx, tx, accountID, calculated, account.Version+1, now); err != nil {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.BalanceRepairsApplied.Inc()
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   calculated,
		CalculatedBalance: calculated,
		Difference:        difference,
		EntryCount:        count,
		IsReconciled:      true,
		CheckedAt:         now,
	}, nil
}

// ReconciliationReport summarizes a sweep across all accounts.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// ReconcileAllAccounts reconciles every account and reports discrepancies.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) (*ReconciliationReport, error) {
	limit, offset := domain.ValidatePagination(1000, 0)

	report := &ReconciliationReport{
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for {
		accounts, err := uc.accountRepo.List(ctx, limit, offset)
		if err != nil {
			return nil, err
		}

		if len(accounts) == 0 {
			break
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}

			report.TotalAccounts++
			if result.IsReconciled {
				report.ReconciledAccounts++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		offset += limit
	}

	return report, nil
}
