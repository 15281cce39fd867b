package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/priorityflow-backend/internal/adapter/repository/postgres"
)

func newImportCmd() *cobra.Command {
	var assetsSpec, eventsSpec string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a portfolio and an event stream into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.factory.Close()
			ctx := cmd.Context()

			db, err := a.factory.Postgres(ctx)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}

			if assetsSpec != "" {
				src, err := a.factory.AssetRepository(ctx, assetsSpec)
				if err != nil {
					return err
				}
				assets, err := src.LoadAssets(ctx)
				if err != nil {
					return err
				}
				if err := postgres.NewAssetRepository(db).SaveAssets(ctx, assets); err != nil {
					return err
				}
				a.logger.Info("assets imported", "assets", len(assets), "from", assetsSpec)
			}

			if eventsSpec != "" {
				src, err := a.factory.EventSource(ctx, eventsSpec)
				if err != nil {
					return err
				}
				events, err := src.ReadAll(ctx)
				if err != nil {
					return err
				}
				if err := postgres.NewEventRepository(db).Append(ctx, events...); err != nil {
					return err
				}
				a.logger.Info("events imported", "events", len(events), "from", eventsSpec)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsSpec, "assets-from", "", "asset source spec to import")
	cmd.Flags().StringVar(&eventsSpec, "events-from", "", "event source spec to import")
	return cmd
}
