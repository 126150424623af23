package handler

import (
	"context"
	"net/http"

	"github.com/peoplesbank/ledger/internal/adapter/http/dto"
	"github.com/peoplesbank/ledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	RepairAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
}

// ReconciliationHandler exposes balance verification for an account.
type ReconciliationHandler struct {
	reconUC   ReconciliationService
	accountUC AccountService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC ReconciliationService, accountUC AccountService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconUC:   reconUC,
		accountUC: accountUC,
	}
}

// Reconcile compares the account's stored balance against its entry history.
func (h *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	account, ok := requireOwnedAccount(w, r, h.accountUC)
	if !ok {
		return
	}

	result, err := h.reconUC.ReconcileAccount(r.Context(), account.ID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reconcile account", err.Error())

		return
	}

	status := http.StatusOK
	if !result.IsReconciled {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ReconciliationFromResult(result))
}

// Repair resets the stored balance to the folded entry history when they
// disagree.
func (h *ReconciliationHandler) Repair(w http.ResponseWriter, r *http.Request) {
	account, ok := requireOwnedAccount(w, r, h.accountUC)
	if !ok {
		return
	}

	result, err := h.reconUC.RepairAccount(r.Context(), account.ID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to repair account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}
