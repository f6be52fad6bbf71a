package main

import (
	"context"
	"fmt"
	"os"

	"yatube/internal/config"
	"yatube/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Yatube maintenance commands",
	Long: `Manage groups, administrators and the page cache of a Yatube deployment.

Examples:
  admin cache clear
  admin group create --title "Cats" --slug cats
  admin group import groups.yml
  admin user promote leo`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func openDB() (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
