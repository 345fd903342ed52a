// Package migrate provides schema migration subcommands for operators who
// want to manage the database outside of server startup.
package migrate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixamint/pixamint/internal/infrastructure/config"
	"github.com/pixamint/pixamint/internal/infrastructure/database"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/migrations"
	"github.com/pixamint/pixamint/internal/shared/biztime"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newUpCommand())
	cmd.AddCommand(newDownCommand())
	cmd.AddCommand(newStatusCommand())

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initEnv()
			if err != nil {
				return err
			}
			defer database.Close()

			return migrations.Run(database.Get(), cfg.Database.Driver, log)
		},
	}
}

func newDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initEnv()
			if err != nil {
				return err
			}
			defer database.Close()

			return migrations.Down(database.Get(), cfg.Database.Driver, log)
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := initEnv()
			if err != nil {
				return err
			}
			defer database.Close()

			version, dirty, err := migrations.Version(database.Get(), cfg.Database.Driver)
			if err != nil {
				return err
			}

			fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
			return nil
		},
	}
}

func initEnv() (*config.Config, logger.Interface, error) {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}
