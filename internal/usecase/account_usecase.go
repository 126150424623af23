package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/peoplesbank/ledger/internal/domain"
)

// AccountUseCase handles account lifecycle. Balances are opened at zero and
// change only through the ledger.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase. cache may be nil.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		idGen:       idGen,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	OwnerID       string
	AccountNumber string
	Type          domain.AccountType
	Currency      string
	Overdraft     domain.OverdraftPolicy
}

// OpenAccount opens a new account with a zero balance.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("unknown account type %q", input.Type)
	}

	if err := domain.ValidateAccountNumber(input.AccountNumber); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account := newAccount(uc.idGen.Generate(), input)

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		if err := uc.outboxRepo.Create(ctx, tx, accountOpenedEvent(uc.idGen.Generate(), account)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// OpenAccountTx opens an account inside a caller-owned transaction. Used by
// registration, which creates the user and the default account atomically.
func (uc *AccountUseCase) OpenAccountTx(ctx context.Context, tx Transaction, input OpenAccountInput) (*domain.Account, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("unknown account type %q", input.Type)
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	account := newAccount(uc.idGen.Generate(), input)

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		if err := uc.outboxRepo.Create(ctx, tx, accountOpenedEvent(uc.idGen.Generate(), account)); err != nil {
			return nil, err
		}
	}

	return account, nil
}

// GetAccount retrieves an account by ID, serving from cache when possible.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, accountCacheKey(id)); err == nil {
			var account domain.Account
			if err := json.Unmarshal(data, &account); err == nil {
				return &account, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(account); err == nil {
			_ = uc.cache.Set(ctx, accountCacheKey(id), data, DefaultAccountCacheTTL)
		}
	}

	return account, nil
}

// GetAccountByNumber retrieves an account by its human-facing number.
func (uc *AccountUseCase) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, accountNumber)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ListAccounts lists accounts, scoped to an owner when OwnerID is set.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.OwnerID != "" {
		return uc.accountRepo.ListByOwner(ctx, input.OwnerID, limit, offset)
	}

	return uc.accountRepo.List(ctx, limit, offset)
}

func newAccount(id string, input OpenAccountInput) *domain.Account {
	now := time.Now().UTC()

	return &domain.Account{
		ID:            id,
		OwnerID:       input.OwnerID,
		AccountNumber: input.AccountNumber,
		Type:          input.Type,
		Balance:       domain.Zero,
		Currency:      input.Currency,
		Overdraft:     input.Overdraft,
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func accountOpenedEvent(id string, account *domain.Account) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            id,
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountOpened,
		Payload: map[string]any{
			"account_id":     account.ID,
			"owner_id":       account.OwnerID,
			"account_number": account.AccountNumber,
			"account_type":   string(account.Type),
			"currency":       account.Currency,
		},
		CreatedAt: account.CreatedAt,
	}
}
