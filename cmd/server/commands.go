package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/app"
	"github.com/n0nuser/gin-archetype/internal/config"
)

const defaultConfigPath = "configs/config.yaml"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "server",
		Short:         "Customer and office REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd, configPath)
			},
		},
		newSeedCmd(&configPath),
	)

	return root
}

func newSeedCmd(configPath *string) *cobra.Command {
	var (
		count int
		drop  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with sample customers and offices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seed(cmd, *configPath, count, drop)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of customers and offices to create")
	cmd.Flags().BoolVar(&drop, "drop", false, "drop all tables before migrating and seeding")
	return cmd
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	if err := a.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func migrate(cmd *cobra.Command, configPath string) error {
	return withDatabase(configPath, func(db *gorm.DB) error {
		if err := app.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
		return nil
	})
}

func seed(cmd *cobra.Command, configPath string, count int, drop bool) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}
	return withDatabase(configPath, func(db *gorm.DB) error {
		if drop {
			if err := app.DropTables(db); err != nil {
				return err
			}
		}
		if err := app.Migrate(db); err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		res, err := app.Seed(ctx, db, count)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d customers and %d offices\n", res.Customers, res.Offices)
		return nil
	})
}

// withDatabase opens the configured database for a one-shot command and
// closes it when fn returns.
func withDatabase(configPath string, fn func(*gorm.DB) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer log.Close()

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return fmt.Errorf("setup database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	return fn(db)
}
