package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pixamint/pixamint/internal/interfaces/cli/migrate"
	"github.com/pixamint/pixamint/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pixamint",
		Short: "Pixamint - AI image generation platform",
		Long:  `Pixamint is the backend for an AI image generation service with credit metering, subscription plans, and billing reconciliation.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
