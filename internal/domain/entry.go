package domain

import "time"

// EntryKind marks which direction an entry moves the balance.
type EntryKind string

const (
	EntryKindDebit  EntryKind = "debit"
	EntryKindCredit EntryKind = "credit"
)

// IsValid checks if the kind is debit or credit.
func (k EntryKind) IsValid() bool {
	return k == EntryKindDebit || k == EntryKindCredit
}

// Signed returns the amount with the sign the kind implies.
func (k EntryKind) Signed(amount Amount) (Amount, error) {
	if k == EntryKindDebit {
		return amount.Neg()
	}
	return amount, nil
}

// Entry is an immutable record of one balance-affecting operation.
// Amount is always positive; the sign is carried by Kind. Seq is the
// account's version at commit time and gives entries a total order per
// account that wall-clock timestamps alone cannot.
type Entry struct {
	ID           string
	AccountID    string
	Seq          int64
	Kind         EntryKind
	Amount       Amount
	Description  string
	Reference    string
	BalanceAfter Amount
	CreatedAt    time.Time
}
