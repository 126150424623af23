package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/usecase"
)

const entryColumns = `id, account_id, seq, kind, amount, description, reference, balance_after, created_at`

// EntryRepository implements usecase.EntryRepository. The entries table is
// append-only; no update or delete statements exist here.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a new entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Seq,
		string(entry.Kind),
		int64(entry.Amount),
		entry.Description,
		entry.Reference,
		int64(entry.BalanceAfter),
		entry.CreatedAt,
	)

	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	return scanEntry(r.pool.QueryRow(ctx, query, id))
}

// FindByReference looks up an entry by its client reference, inside the
// transaction holding the account lock so duplicate submissions cannot race.
func (r *EntryRepository) FindByReference(ctx context.Context, tx usecase.Transaction, accountID, reference string) (*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE account_id = $1 AND reference = $2
	`

	return scanEntry(tx.(*Tx).PgxTx().QueryRow(ctx, query, accountID, reference))
}

// ListByAccount lists entries for an account, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE account_id = $1
		ORDER BY seq DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.Entry, 0)

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumByAccount folds the account's full history into a signed balance.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (domain.Amount, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'debit' THEN -amount ELSE amount END), 0)
		FROM entries
		WHERE account_id = $1
	`

	var sum int64
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return domain.Zero, err
	}

	return domain.Amount(sum), nil
}

// CountByAccount counts entries for an account.
func (r *EntryRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	query := `SELECT COUNT(*) FROM entries WHERE account_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry        domain.Entry
		kind         string
		amount       int64
		balanceAfter int64
	)

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Seq,
		&kind,
		&amount,
		&entry.Description,
		&entry.Reference,
		&balanceAfter,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Kind = domain.EntryKind(kind)
	entry.Amount = domain.Amount(amount)
	entry.BalanceAfter = domain.Amount(balanceAfter)

	return &entry, nil
}
