package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply catalog and order schema migrations and load the seed menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			repo, err := openCatalog(ctx, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()
			logger.Info("catalog migrated", zap.String("path", cfg.CatalogDBPath))

			store, err := openOrderStore(ctx, cfg, true, logger)
			if err != nil {
				return err
			}
			defer store.Close()
			logger.Info("orders migrated", zap.String("backend", cfg.OrderStore))
			return nil
		},
	}
}
