//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-rentalgen.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-rentalgen/internal/config"
	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/season"
	"github.com/pgEdge/pgedge-rentalgen/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	envFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-rentalgen",
		Short: "Vehicle rental history generator and star schema ETL",
		Long: `pgedge-rentalgen populates a PostgreSQL row store with a simulated,
multi-year history of a vehicle rental business (branches, clients,
vehicles, rentals, invoices and maintenance events), then extracts that
history, reshapes it into a star schema and loads it into an analytical
warehouse schema.

Every ETL stage can be archived as parquet files, locally and optionally
mirrored to S3.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-rentalgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"environment file with RENTALGEN_* variables (default: ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"row store PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(etlCmd)
	rootCmd.AddCommand(profilesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile, envFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available season profiles",
	Long: `List the season profiles that scale the number of rentals simulated
per day. Select one with --season-profile or generate.season_profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println("Available season profiles:")
		cmd.Println()
		for _, name := range season.List() {
			p, err := season.Get(name, "UTC")
			if err != nil {
				return err
			}
			marker := ""
			if name == season.DefaultProfile {
				marker = " (default)"
			}
			cmd.Printf("  %-10s - %s%s\n", p.Name(), p.Description(), marker)
		}
		return nil
	},
}
