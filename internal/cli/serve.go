package cli

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/contaudit/contaudit/internal/api"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "listen host (overrides config)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the audit engine over HTTP: POST /v1/audits runs an audit,
GET /v1/rules lists the catalog, /metrics exposes Prometheus metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	engine, db, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	server := api.NewServer(engine)
	if cfg.Server.MetricsEnabled {
		server.EnableMetrics()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("[serve] listening on %s (db=%s)", addr, cfg.Database.Path)
	return http.ListenAndServe(addr, server.Handler())
}
