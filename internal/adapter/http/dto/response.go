package dto

import (
	"time"

	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/usecase"
)

// AccountResponse represents an account in API responses. Balance is in
// minor units; BalanceDisplay is the decimal form for presentation only.
type AccountResponse struct {
	ID             string    `json:"id"`
	AccountNumber  string    `json:"account_number"`
	Type           string    `json:"type"`
	Balance        int64     `json:"balance"`
	BalanceDisplay string    `json:"balance_display"`
	Currency       string    `json:"currency"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		AccountNumber:  a.AccountNumber,
		Type:           string(a.Type),
		Balance:        a.Balance.Int64(),
		BalanceDisplay: a.Balance.Display(domain.CurrencyExponent(a.Currency)).String(),
		Currency:       a.Currency,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID                  string    `json:"id"`
	AccountID           string    `json:"account_id"`
	Seq                 int64     `json:"seq"`
	Kind                string    `json:"kind"`
	Amount              int64     `json:"amount"`
	AmountDisplay       string    `json:"amount_display"`
	Description         string    `json:"description,omitempty"`
	Reference           string    `json:"reference,omitempty"`
	BalanceAfter        int64     `json:"balance_after"`
	BalanceAfterDisplay string    `json:"balance_after_display"`
	CreatedAt           time.Time `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry, currency string) *EntryResponse {
	exp := domain.CurrencyExponent(currency)

	return &EntryResponse{
		ID:                  e.ID,
		AccountID:           e.AccountID,
		Seq:                 e.Seq,
		Kind:                string(e.Kind),
		Amount:              e.Amount.Int64(),
		AmountDisplay:       e.Amount.Display(exp).String(),
		Description:         e.Description,
		Reference:           e.Reference,
		BalanceAfter:        e.BalanceAfter.Int64(),
		BalanceAfterDisplay: e.BalanceAfter.Display(exp).String(),
		CreatedAt:           e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry, currency string) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e, currency)
	}
	return result
}

// PostEntryResponse wraps a posted entry and the resulting balance.
type PostEntryResponse struct {
	Entry     *EntryResponse `json:"entry"`
	Duplicate bool           `json:"duplicate"`
}

// BalanceResponse represents an account balance.
type BalanceResponse struct {
	AccountID      string `json:"account_id"`
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
	Currency       string `json:"currency"`
}

// HistoryResponse wraps a page of entries.
type HistoryResponse struct {
	AccountID string           `json:"account_id"`
	Entries   []*EntryResponse `json:"entries"`
	Total     int64            `json:"total"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		AccountNumber: u.AccountNumber,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		CreatedAt:     u.CreatedAt,
	}
}

// RegisterResponse represents a successful registration.
type RegisterResponse struct {
	User    *UserResponse    `json:"user"`
	Account *AccountResponse `json:"account"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ReconciliationResponse represents a single account reconciliation.
type ReconciliationResponse struct {
	AccountID         string    `json:"account_id"`
	RecordedBalance   int64     `json:"recorded_balance"`
	CalculatedBalance int64     `json:"calculated_balance"`
	Difference        int64     `json:"difference"`
	EntryCount        int64     `json:"entry_count"`
	IsReconciled      bool      `json:"is_reconciled"`
	CheckedAt         time.Time `json:"checked_at"`
}

// ReconciliationFromResult converts a use case result to a response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance.Int64(),
		CalculatedBalance: r.CalculatedBalance.Int64(),
		Difference:        r.Difference.Int64(),
		EntryCount:        r.EntryCount,
		IsReconciled:      r.IsReconciled,
		CheckedAt:         r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
