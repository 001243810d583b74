// Package cli wires the contaudit commands: audit, rules, serve, and
// import. Command implementations stay thin; the real work lives in the
// audit engine and the infra packages.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/validators"
	"github.com/contaudit/contaudit/internal/infra/config"
	"github.com/contaudit/contaudit/internal/infra/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "contaudit",
	Short: "Financial integrity audit engine",
	Long: `contaudit runs rule-based integrity audits over accounting snapshots:
registry hygiene, receivables cross-checks, double-entry balance, fiscal
heuristics, and bank reconciliation. Findings are advisory; the engine
never mutates the books.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $CONTAUDIT_HOME/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "sqlite database path (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the effective configuration for a command.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Database.Path = db
	}
	return cfg, nil
}

// openEngine opens the database and builds an engine from the config.
// The caller must Close the returned DB.
func openEngine(cfg config.Config) (*audit.Engine, *sqlite.DB, error) {
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	engine := audit.NewEngine(db, validators.DefaultRegistry(cfg.Thresholds))
	return engine, db, nil
}
