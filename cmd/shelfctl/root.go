package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/msomdec/shelfmate/internal/config"
	"github.com/msomdec/shelfmate/internal/domain"
	"github.com/msomdec/shelfmate/internal/repository"
	"github.com/msomdec/shelfmate/internal/service"
	"github.com/spf13/cobra"
)

type app struct {
	store    domain.Store
	accounts *service.AccountService
	books    *service.BookService
	friends  *service.FriendService
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "shelfctl",
		Short:        "Maintenance commands for the shelfmate API store",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file to load before reading the environment")

	open := func(ctx context.Context) (*app, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

		store, err := repository.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &app{
			store:    store,
			accounts: service.NewAccountService(store.Users(), store.Books(), cfg.BcryptCost),
			books:    service.NewBookService(store.Users(), store.Books()),
			friends:  service.NewFriendService(store.Users(), store.Books()),
		}, nil
	}

	root.AddCommand(
		newMigrateCmd(open),
		newSeedCmd(open),
		newResetPasswordCmd(open),
	)
	return root
}

type opener func(ctx context.Context) (*app, error)

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.store.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
