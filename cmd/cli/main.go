package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	postgresRepo "github.com/peoplesbank/ledger/internal/adapter/repository/postgres"
	"github.com/peoplesbank/ledger/internal/infrastructure/config"
	"github.com/peoplesbank/ledger/internal/infrastructure/logger"
	"github.com/peoplesbank/ledger/internal/infrastructure/postgres"
	"github.com/peoplesbank/ledger/internal/usecase"
)

var migrationsPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger operations tool",
		Long:  `A command line interface for ledger database migrations and balance reconciliation.`,
	}

	rootCmd.PersistentFlags().StringVar(&migrationsPath, "migrations", "migrations", "Path to migration files")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(newLogger(cfg), cfg.DatabaseURL, migrationsPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(newLogger(cfg), cfg.DatabaseURL, migrationsPath)
		},
	})

	return cmd
}

func reconcileCmd() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Verify stored balances against entry history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			defer pool.Close()

			txManager := postgresRepo.NewTxManager(pool)
			accountRepo := postgresRepo.NewAccountRepository(pool)
			entryRepo := postgresRepo.NewEntryRepository(pool)
			reconciliationUC := usecase.NewReconciliationUseCase(txManager, accountRepo, entryRepo, nil)

			report, err := reconciliationUC.ReconcileAllAccounts(ctx)
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}

			fmt.Printf("Checked %d accounts, %d reconciled, %d discrepancies\n",
				report.TotalAccounts, report.ReconciledAccounts, len(report.Discrepancies))

			for _, d := range report.Discrepancies {
				fmt.Printf("  account %s: recorded=%d calculated=%d difference=%d entries=%d\n",
					d.AccountID, d.RecordedBalance.Int64(), d.CalculatedBalance.Int64(),
					d.Difference.Int64(), d.EntryCount)
			}

			if len(report.Discrepancies) == 0 {
				return nil
			}

			if !repair {
				os.Exit(1)
			}

			for _, d := range report.Discrepancies {
				result, err := reconciliationUC.RepairAccount(ctx, d.AccountID)
				if err != nil {
					return fmt.Errorf("repair account %s: %w", d.AccountID, err)
				}
				fmt.Printf("  repaired %s: balance now %d\n", result.AccountID, result.RecordedBalance.Int64())
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "Reset drifted balances to the entry history")

	return cmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account inspection",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [account-number]",
		Short: "Look up an account by its number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			defer pool.Close()

			txManager := postgresRepo.NewTxManager(pool)
			accountRepo := postgresRepo.NewAccountRepository(pool)
			accountUC := usecase.NewAccountUseCase(txManager, accountRepo, nil, nil, nil)

			account, err := accountUC.GetAccountByNumber(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("id=%s number=%s owner=%s type=%s currency=%s balance=%d version=%d\n",
				account.ID, account.AccountNumber, account.OwnerID, account.Type,
				account.Currency, account.Balance.Int64(), account.Version)

			return nil
		},
	})

	return cmd
}

// Swappable for tests; bcrypt is deliberately slow.
var bcryptGenerate = bcrypt.GenerateFromPassword

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}
