package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/peoplesbank/ledger/internal/adapter/http/dto"
	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Post(ctx context.Context, input usecase.PostInput) (*usecase.PostResult, error)
	GetBalance(ctx context.Context, accountID string) (domain.Amount, error)
	GetHistory(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.Entry, error)
}

// LedgerHandler handles posting entries and reading balances and history.
type LedgerHandler struct {
	ledgerUC  LedgerService
	accountUC AccountService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, accountUC AccountService) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC:  ledgerUC,
		accountUC: accountUC,
	}
}

// Post applies a debit or credit to the account in the URL. Reposting with a
// reference already on the account replays the original entry with status 200
// instead of creating a new one.
func (h *LedgerHandler) Post(w http.ResponseWriter, r *http.Request) {
	account, ok := requireOwnedAccount(w, r, h.accountUC)
	if !ok {
		return
	}

	var req dto.PostEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Post(r.Context(), req.ToUseCaseInput(account.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to post entry", err.Error())

		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.PostEntryResponse{
		Entry:     dto.EntryFromDomain(result.Entry, result.Account.Currency),
		Duplicate: result.Duplicate,
	})
}

// GetBalance returns the account's balance as stored, bypassing the account
// cache.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account, ok := requireOwnedAccount(w, r, h.accountUC)
	if !ok {
		return
	}

	balance, err := h.ledgerUC.GetBalance(r.Context(), account.ID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID:      account.ID,
		Balance:        balance.Int64(),
		BalanceDisplay: balance.Display(domain.CurrencyExponent(account.Currency)).String(),
		Currency:       account.Currency,
	})
}

// GetHistory lists the account's entries, newest first.
func (h *LedgerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	account, ok := requireOwnedAccount(w, r, h.accountUC)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.ledgerUC.GetHistory(r.Context(), usecase.GetHistoryInput{
		AccountID: account.ID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list entries", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		AccountID: account.ID,
		Entries:   dto.EntriesFromDomain(entries, account.Currency),
		Total:     int64(len(entries)),
	})
}
