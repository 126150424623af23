package domain

import "time"

// AccountType classifies a customer account.
type AccountType string

const (
	AccountTypeCurrent AccountType = "current"
	AccountTypeSavings AccountType = "savings"
)

var validAccountTypes = map[AccountType]bool{
	AccountTypeCurrent: true,
	AccountTypeSavings: true,
}

// IsValid checks if the account type is known.
func (t AccountType) IsValid() bool {
	return validAccountTypes[t]
}

// OverdraftPolicy controls how far a debit may take the balance below zero.
type OverdraftPolicy struct {
	AllowNegativeBalance bool
	OverdraftLimit       Amount
}

// Account represents a customer account holding a balance in minor units.
// Balance is mutated only through the ledger; it always equals the
// BalanceAfter of the most recent committed entry, or zero if none exist.
type Account struct {
	ID            string
	OwnerID       string
	AccountNumber string
	Type          AccountType
	Balance       Amount
	Currency      string
	Overdraft     OverdraftPolicy
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateDebit checks whether debiting amount would violate the account's
// overdraft policy.
func (a *Account) ValidateDebit(amount Amount) error {
	newBalance, err := a.Balance.Sub(amount)
	if err != nil {
		return err
	}

	if !newBalance.IsNegative() {
		return nil
	}

	if !a.Overdraft.AllowNegativeBalance {
		return ErrInsufficientFunds
	}

	limit, err := a.Overdraft.OverdraftLimit.Neg()
	if err != nil {
		return err
	}

	if newBalance.Compare(limit) < 0 {
		return ErrInsufficientFunds
	}

	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount Amount) (Amount, error) {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount Amount) (Amount, error) {
	return a.Balance.Add(amount)
}
