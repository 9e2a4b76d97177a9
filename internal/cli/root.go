package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dryRun  bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "issueops",
	Short: "Deterministic AI issue triage",
	Long: `issueops turns unstructured issue reports into structured metadata and
deterministic triage decisions.

An LLM extracts a fixed metadata schema from each issue; everything after
that point (priority, labels, duplicate handling) is decided by an auditable
rule engine, so the same metadata always yields the same decision.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "skip all GitHub writes")

	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newDecideCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newActionCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("issueops version %s\n", version)
		},
	}
}
