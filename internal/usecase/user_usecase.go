package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/peoplesbank/ledger/internal/domain"
)

// UserUseCase handles customer registration and authentication.
type UserUseCase struct {
	txManager  TransactionManager
	userRepo   UserRepository
	accountUC  *AccountUseCase
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
}

// NewUserUseCase creates a new UserUseCase. outboxRepo and auditRepo may be
// nil.
func NewUserUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	accountUC *AccountUseCase,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *UserUseCase {
	return &UserUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		accountUC:  accountUC,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
	}
}

// RegisterInput represents input for registering a customer.
type RegisterInput struct {
	AccountNumber string
	Name          string
	Email         string
	Phone         string
	Password      string
	Currency      string
}

// RegisterResult carries the new user and their default account.
type RegisterResult struct {
	User    *domain.User
	Account *domain.Account
}

// Register creates a user and their default current account in one
// transaction. Duplicate email or account number is rejected.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := domain.ValidateAccountNumber(input.AccountNumber); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "ZAR"
	}

	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, domain.ErrDuplicateUser
	}

	if existing, err := uc.userRepo.GetByAccountNumber(ctx, input.AccountNumber); err == nil && existing != nil {
		return nil, domain.ErrDuplicateUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:             uc.idGen.Generate(),
		AccountNumber:  input.AccountNumber,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		HashedPassword: string(hashed),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.userRepo.Create(ctx, tx, user); err != nil {
		return nil, err
	}

	account, err := uc.accountUC.OpenAccountTx(ctx, tx, OpenAccountInput{
		OwnerID:       user.ID,
		AccountNumber: input.AccountNumber,
		Type:          domain.AccountTypeCurrent,
		Currency:      currency,
	})
	if err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   user.ID,
			AggregateType: domain.AggregateTypeUser,
			EventType:     domain.EventTypeUserRegistered,
			Payload: map[string]any{
				"user_id":        user.ID,
				"account_number": user.AccountNumber,
				"email":          user.Email,
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

	uc.audit(ctx, user.ID, domain.AuditActionUserRegister, domain.AggregateTypeUser, user.ID, nil, domain.MarshalState(user), domain.AuditStatusSuccess, "")

	user.HashedPassword = ""

	return &RegisterResult{User: user, Account: account}, nil
}

// AuthenticateInput represents login credentials.
type AuthenticateInput struct {
	AccountNumber string
	Password      string
}

// Authenticate verifies credentials and returns the user. Failures are
// reported uniformly as ErrUnauthorized so callers cannot probe for
// registered account numbers.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByAccountNumber(ctx, input.AccountNumber)
	if err != nil {
		uc.audit(ctx, "", domain.AuditActionUserLogin, domain.AggregateTypeUser, input.AccountNumber, nil, nil, domain.AuditStatusFailure, "unknown account number")
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		uc.audit(ctx, user.ID, domain.AuditActionUserLogin, domain.AggregateTypeUser, user.ID, nil, nil, domain.AuditStatusFailure, "bad password")
		return nil, domain.ErrUnauthorized
	}

	uc.audit(ctx, user.ID, domain.AuditActionUserLogin, domain.AggregateTypeUser, user.ID, nil, nil, domain.AuditStatusSuccess, "")

	user.HashedPassword = ""

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

func (uc *UserUseCase) audit(ctx context.Context, userID string, action domain.AuditAction, resourceType, resourceID string, before, after domain.JSON, status domain.AuditStatus, errMsg string) {
	if uc.auditRepo == nil {
		return
	}

	// Audit failures never fail the audited operation.
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   after,
		Status:       string(status),
		ErrorMessage: errMsg,
		CreatedAt:    time.Now().UTC(),
	})
}
