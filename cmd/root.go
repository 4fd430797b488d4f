package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wealthnav/internal/config"
	"github.com/abhisek/wealthnav/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "wealthnav",
	Short: "Financial stress-test chat bot",
	Long:  "WealthNav runs an eight-question financial stress test over LINE, or locally in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRehearse(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WEALTHNAV_DB env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment from this file instead of ./.env")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rehearseCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment, honouring --env-file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	return config.Load(envFile)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then WEALTHNAV_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = cfg.DBPath
	}
	if p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore loads config (so an env file may set WEALTHNAV_DB) and opens
// the database.
func openStore(cmd *cobra.Command) (config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, st, nil
}
