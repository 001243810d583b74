package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/contaudit/contaudit/internal/audit/catalog"
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringP("module", "m", "", "only rules of one module")
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the audit rule catalog",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	module, _ := cmd.Flags().GetString("module")

	rules := catalog.Rules
	if module != "" {
		rules = catalog.ByModule(module)
		if len(rules) == 0 {
			return fmt.Errorf("unknown module %q (available: %v)", module, catalog.Modules())
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODULE\tSEVERITY\tNAME")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Module, r.Severity, r.Name)
	}
	return tw.Flush()
}
