package domain

import "errors"

var (
	// Ledger errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds for debit")
	ErrAmountOverflow     = errors.New("amount arithmetic overflow")
	ErrInvalidEntryKind   = errors.New("entry kind must be debit or credit")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrBalanceMismatch    = errors.New("account balance does not match entry history")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user with this email or account number already exists")
)
