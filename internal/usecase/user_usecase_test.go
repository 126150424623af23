package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/usecase"
	"github.com/peoplesbank/ledger/internal/usecase/mocks"
)

func newUserFixture(t *testing.T) (*usecase.UserUseCase, *mocks.MockUserRepository, *mocks.MockAuditRepository, *mocks.MockAccountRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	accountRepo := mocks.NewMockAccountRepository()

	accountUC := usecase.NewAccountUseCase(
		mocks.NewMockTransactionManager(),
		accountRepo,
		mocks.NewMockOutboxRepository(),
		nil,
		mocks.NewMockIDGenerator(),
	)

	uc := usecase.NewUserUseCase(
		mocks.NewMockTransactionManager(),
		userRepo,
		accountUC,
		mocks.NewMockOutboxRepository(),
		auditRepo,
		mocks.NewMockIDGenerator(),
	)

	return uc, userRepo, auditRepo, accountRepo
}

func validRegisterInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		AccountNumber: "62000012345",
		Name:          "Thabo Mokoena",
		Email:         "thabo@example.co.za",
		Phone:         "+27821234567",
		Password:      "Str0ngPass",
	}
}

func TestUserUseCase_Register(t *testing.T) {
	uc, userRepo, auditRepo, accountRepo := newUserFixture(t)

	userRepo.EXPECT().GetByEmail(gomock.Any(), "thabo@example.co.za").Return(nil, domain.ErrUserNotFound)
	userRepo.EXPECT().GetByAccountNumber(gomock.Any(), "62000012345").Return(nil, domain.ErrUserNotFound)
	userRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	result, err := uc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.User.HashedPassword != "" {
		t.Error("hashed password leaked in result")
	}
	if result.Account == nil {
		t.Fatal("registration did not open a default account")
	}
	if result.Account.Type != domain.AccountTypeCurrent {
		t.Errorf("default account type = %s, want current", result.Account.Type)
	}
	if !result.Account.Balance.IsZero() {
		t.Errorf("default account balance = %d, want 0", result.Account.Balance)
	}
	if result.Account.Currency != "ZAR" {
		t.Errorf("default currency = %s, want ZAR", result.Account.Currency)
	}

	if _, err := accountRepo.GetByNumber(context.Background(), "62000012345"); err != nil {
		t.Errorf("default account not persisted: %v", err)
	}
}

func TestUserUseCase_Register_DuplicateEmail(t *testing.T) {
	uc, userRepo, _, _ := newUserFixture(t)

	userRepo.EXPECT().GetByEmail(gomock.Any(), "thabo@example.co.za").
		Return(&domain.User{ID: "user-1"}, nil)

	_, err := uc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestUserUseCase_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*usecase.RegisterInput)
	}{
		{name: "bad account number", mutate: func(in *usecase.RegisterInput) { in.AccountNumber = "12" }},
		{name: "bad email", mutate: func(in *usecase.RegisterInput) { in.Email = "nope" }},
		{name: "weak password", mutate: func(in *usecase.RegisterInput) { in.Password = "short" }},
		{name: "bad currency", mutate: func(in *usecase.RegisterInput) { in.Currency = "QQQ" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _, _ := newUserFixture(t)

			input := validRegisterInput()
			tt.mutate(&input)

			if _, err := uc.Register(context.Background(), input); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestUserUseCase_Authenticate(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Str0ngPass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := &domain.User{
		ID:             "user-1",
		AccountNumber:  "62000012345",
		HashedPassword: string(hashed),
	}

	t.Run("valid credentials", func(t *testing.T) {
		uc, userRepo, auditRepo, _ := newUserFixture(t)

		cp := *stored
		userRepo.EXPECT().GetByAccountNumber(gomock.Any(), "62000012345").Return(&cp, nil)
		auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		user, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			AccountNumber: "62000012345",
			Password:      "Str0ngPass",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "user-1" {
			t.Errorf("got user %s, want user-1", user.ID)
		}
		if user.HashedPassword != "" {
			t.Error("hashed password leaked")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, userRepo, auditRepo, _ := newUserFixture(t)

		cp := *stored
		userRepo.EXPECT().GetByAccountNumber(gomock.Any(), "62000012345").Return(&cp, nil)
		auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			AccountNumber: "62000012345",
			Password:      "WrongPass1",
		})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown account number", func(t *testing.T) {
		uc, userRepo, auditRepo, _ := newUserFixture(t)

		userRepo.EXPECT().GetByAccountNumber(gomock.Any(), "00000000").Return(nil, domain.ErrUserNotFound)
		auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			AccountNumber: "00000000",
			Password:      "Str0ngPass",
		})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserUseCase_GetUser(t *testing.T) {
	uc, userRepo, _, _ := newUserFixture(t)

	userRepo.EXPECT().GetByID(gomock.Any(), "user-1").
		Return(&domain.User{ID: "user-1", HashedPassword: "secret"}, nil)

	user, err := uc.GetUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.HashedPassword != "" {
		t.Error("hashed password leaked")
	}
}
