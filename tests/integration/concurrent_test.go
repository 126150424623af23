package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/peoplesbank/ledger/internal/adapter/repository/postgres"
	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/usecase"
	"github.com/peoplesbank/ledger/tests/testutil"
)

func TestConcurrentPosts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	accountRepo := postgres.NewAccountRepository(testDB.Pool)
	entryRepo := postgres.NewEntryRepository(testDB.Pool)
	txManager := postgres.NewTxManager(testDB.Pool)
	outboxRepo := postgres.NewNullOutboxRepository()
	retrier := postgres.NewRetrier(zerolog.Nop())
	idGen := postgres.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, outboxRepo, retrier, nil, idGen, nil)

	t.Run("100 concurrent debits drain the account exactly", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		user := testDB.CreateTestUser(ctx, "2000000001", "drain@example.com")
		account := testDB.CreateTestAccount(ctx, user.ID, "2000000001", domain.Amount(1000), domain.OverdraftPolicy{})

		numPosts := 100

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numPosts)

		for i := 0; i < numPosts; i++ {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.Post(ctx, usecase.PostInput{
					AccountID: account.ID,
					Kind:      domain.EntryKindDebit,
					Amount:    domain.Amount(10),
				})
				if err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != int32(numPosts) {
			t.Errorf("expected %d successful debits, got %d (errors: %d)", numPosts, successCount.Load(), errorCount.Load())
		}

		stored, _ := accountRepo.GetByID(ctx, account.ID)
		if stored.Balance.Int64() != 0 {
			t.Errorf("expected balance 0, got %d", stored.Balance.Int64())
		}
		if stored.Version != int64(numPosts) {
			t.Errorf("expected version %d, got %d", numPosts, stored.Version)
		}

		// Every entry must carry a distinct seq
		count, err := entryRepo.CountByAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("failed to count entries: %v", err)
		}
		if count != int64(numPosts) {
			t.Errorf("expected %d entries, got %d", numPosts, count)
		}
	})

	t.Run("concurrent debits never overdraw", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		user := testDB.CreateTestUser(ctx, "2000000002", "overdraw@example.com")
		account := testDB.CreateTestAccount(ctx, user.ID, "2000000002", domain.Amount(100), domain.OverdraftPolicy{})

		numPosts := 20 // 20 * 10 = 200 > 100

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numPosts)

		for i := 0; i < numPosts; i++ {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.Post(ctx, usecase.PostInput{
					AccountID: account.ID,
					Kind:      domain.EntryKindDebit,
					Amount:    domain.Amount(10),
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 10 {
			t.Errorf("expected 10 successful debits, got %d", successCount.Load())
		}

		stored, _ := accountRepo.GetByID(ctx, account.ID)
		if stored.Balance.Int64() != 0 {
			t.Errorf("expected balance 0, got %d", stored.Balance.Int64())
		}
	})

	t.Run("concurrent posts with the same reference apply once", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		user := testDB.CreateTestUser(ctx, "2000000003", "once@example.com")
		account := testDB.CreateTestAccount(ctx, user.ID, "2000000003", domain.Zero, domain.OverdraftPolicy{})

		numPosts := 10

		var (
			wg             sync.WaitGroup
			duplicateCount atomic.Int32
			errorCount     atomic.Int32
		)

		wg.Add(numPosts)

		for i := 0; i < numPosts; i++ {
			go func() {
				defer wg.Done()

				result, err := ledgerUC.Post(ctx, usecase.PostInput{
					AccountID: account.ID,
					Kind:      domain.EntryKindCredit,
					Amount:    domain.Amount(500),
					Reference: "salary-2026-08",
				})
				if err != nil {
					errorCount.Add(1)
					return
				}
				if result.Duplicate {
					duplicateCount.Add(1)
				}
			}()
		}

		wg.Wait()

		// The row lock serializes the posts; whichever lands first creates
		// the entry and the rest replay it.
		stored, _ := accountRepo.GetByID(ctx, account.ID)
		if stored.Balance.Int64() != 500 {
			t.Errorf("expected effect applied once, balance 500, got %d", stored.Balance.Int64())
		}

		count, err := entryRepo.CountByAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("failed to count entries: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single entry, got %d", count)
		}
	})

	t.Run("posts on different accounts proceed independently", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		user := testDB.CreateTestUser(ctx, "2000000004", "parallel@example.com")
		a := testDB.CreateTestAccount(ctx, user.ID, "2000000004", domain.Zero, domain.OverdraftPolicy{})
		b := testDB.CreateTestAccount(ctx, user.ID, "2000000005", domain.Zero, domain.OverdraftPolicy{})

		numPosts := 50

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numPosts * 2)

		for i := 0; i < numPosts; i++ {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.Post(ctx, usecase.PostInput{
					AccountID: a.ID,
					Kind:      domain.EntryKindCredit,
					Amount:    domain.Amount(10),
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
			go func() {
				defer wg.Done()

				_, err := ledgerUC.Post(ctx, usecase.PostInput{
					AccountID: b.ID,
					Kind:      domain.EntryKindCredit,
					Amount:    domain.Amount(10),
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != int32(numPosts*2) {
			t.Errorf("expected %d successful posts, got %d", numPosts*2, successCount.Load())
		}

		aAcc, _ := accountRepo.GetByID(ctx, a.ID)
		bAcc, _ := accountRepo.GetByID(ctx, b.ID)

		if aAcc.Balance.Int64() != int64(numPosts*10) {
			t.Errorf("expected a balance %d, got %d", numPosts*10, aAcc.Balance.Int64())
		}
		if bAcc.Balance.Int64() != int64(numPosts*10) {
			t.Errorf("expected b balance %d, got %d", numPosts*10, bAcc.Balance.Int64())
		}
	})
}
