package dto

import (
	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/usecase"
)

// RegisterRequest represents a request to register a customer.
type RegisterRequest struct {
	AccountNumber string `json:"account_number"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	Currency      string `json:"currency,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		AccountNumber: r.AccountNumber,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Password:      r.Password,
		Currency:      r.Currency,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	AccountNumber string `json:"account_number"`
	Password      string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		AccountNumber: r.AccountNumber,
		Password:      r.Password,
	}
}

// OpenAccountRequest represents a request to open an additional account.
type OpenAccountRequest struct {
	AccountNumber        string `json:"account_number"`
	Type                 string `json:"type"`
	Currency             string `json:"currency"`
	AllowNegativeBalance bool   `json:"allow_negative_balance"`
	OverdraftLimit       int64  `json:"overdraft_limit"`
}

// ToUseCaseInput converts to use case input. The owner comes from the
// authenticated user, never from the request body.
func (r *OpenAccountRequest) ToUseCaseInput(ownerID string) usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		OwnerID:       ownerID,
		AccountNumber: r.AccountNumber,
		Type:          domain.AccountType(r.Type),
		Currency:      r.Currency,
		Overdraft: domain.OverdraftPolicy{
			AllowNegativeBalance: r.AllowNegativeBalance,
			OverdraftLimit:       domain.Amount(r.OverdraftLimit),
		},
	}
}

// PostEntryRequest represents a request to post a debit or credit. Amount is
// in minor units.
type PostEntryRequest struct {
	Kind        string `json:"kind"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput(accountID string) usecase.PostInput {
	return usecase.PostInput{
		AccountID:   accountID,
		Kind:        domain.EntryKind(r.Kind),
		Amount:      domain.Amount(r.Amount),
		Description: r.Description,
		Reference:   r.Reference,
	}
}
