package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/report"
)

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().Int("year", 0, "restrict the audit to one year")
	auditCmd.Flags().Int("month", 0, "restrict the audit to one month (requires --year)")
	auditCmd.Flags().StringSlice("modules", nil, "validator modules to run (default all)")
	auditCmd.Flags().StringP("format", "f", "text", "output format: text, table, document, json")
	auditCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	auditCmd.Flags().Bool("dry-run", false, "record the run as a dry run")
	auditCmd.Flags().Bool("partial", false, "continue past validator failures, reporting them as findings")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the integrity audit and print the report",
	Long: `Run the configured validators over the snapshot database and render
the findings. The exit status is non-zero when error-severity findings
exist, so the command can gate a close-of-month script.`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	if month != 0 && year == 0 {
		return fmt.Errorf("--month requires --year")
	}
	if month < 0 || month > 12 {
		return fmt.Errorf("--month must be 1-12")
	}

	engine, db, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	params := audit.DefaultRunParams()
	params.Scope = audit.Scope{Year: year, Month: time.Month(month)}
	params.Modules, _ = cmd.Flags().GetStringSlice("modules")
	params.DryRun, _ = cmd.Flags().GetBool("dry-run")
	params.FailFast = cfg.Engine.FailFast
	if partial, _ := cmd.Flags().GetBool("partial"); partial {
		params.FailFast = false
	}

	ctx := cmd.Context()
	if cfg.Engine.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Engine.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	result, err := engine.Run(ctx, params)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.Render(out, result, format); err != nil {
		return err
	}

	if result.HasErrors() {
		return fmt.Errorf("audit found %d error-severity findings",
			result.Summary.BySeverity["error"])
	}
	return nil
}
