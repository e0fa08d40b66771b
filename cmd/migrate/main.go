package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Dan9191/finance-service/internal/logging"
	"github.com/Dan9191/finance-service/internal/repository"
)

var (
	databaseURL string
	rootCmd     = &cobra.Command{
		Use:   "migrate",
		Short: "Manage the finance service database schema",
		Long: `Apply, roll back and inspect the embedded schema migrations.

The database is taken from --database-url, falling back to DATABASE_URL
(a .env file in the working directory is read if present).`,
		SilenceUsage:      true,
		PersistentPreRunE: resolveDatabaseURL,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres connection string")
	rootCmd.AddCommand(upCmd(), downCmd(), versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveDatabaseURL(_ *cobra.Command, _ []string) error {
	if databaseURL != "" {
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	databaseURL = os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return errors.New("DATABASE_URL is required (or pass --database-url)")
	}
	return nil
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New(os.Getenv("LOG_LEVEL"))
			if err := repository.RunMigrations(databaseURL); err != nil {
				return err
			}
			log.Info("Migrations applied")
			return nil
		},
	}
}

func downCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			log := logging.New(os.Getenv("LOG_LEVEL"))
			if err := repository.RollbackMigrations(databaseURL, steps); err != nil {
				return err
			}
			log.WithField("steps", steps).Info("Migrations rolled back")
			return nil
		},
	}
	cmd.Flags().Int("steps", 1, "number of migrations to roll back")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, dirty, err := repository.MigrationVersion(databaseURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d", version)
			if dirty {
				fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
