package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/contaudit/contaudit/internal/gateway/csvimport"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importRawdataCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import source data into the snapshot database",
}

var importRawdataCmd = &cobra.Command{
	Use:   "rawdata FILE...",
	Short: "Import legacy monthly CSV spreadsheets as frozen raw rows",
	Long: `Load legacy monthly spreadsheets (semicolon-separated, pt-BR amounts,
dd/mm/yyyy dates) into the raw import table. Rows are stored verbatim;
the receivables validator cross-checks them against the current books.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImportRawdata,
}

func runImportRawdata(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, db, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	total := 0
	for _, path := range args {
		rows, err := csvimport.ReadFile(path)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := db.InsertRawRow(row); err != nil {
				return err
			}
		}
		log.Printf("[import] %s: %d rows", path, len(rows))
		total += len(rows)
	}

	fmt.Printf("imported %d raw rows from %d file(s)\n", total, len(args))
	return nil
}
