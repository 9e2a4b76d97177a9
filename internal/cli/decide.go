package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issueops/issueops/internal/triage"
)

func newDecideCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "decide FILE",
		Short: "Extract metadata and run the triage rules over it",
		Long: `Read raw issue text from FILE (use "-" for stdin), extract metadata,
evaluate the triage rules against it and print both as JSON. The decision
is deterministic: identical metadata always yields identical output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			text, err := readTextArg(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			extractor, provider, err := createExtractor(cfg)
			if err != nil {
				return err
			}
			defer provider.Close()

			engine := loadEngine(rulesPath, cfg)
			svc := triage.NewService(extractor, engine)

			md, action, err := svc.Analyze(ctx, text)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			out, err := json.MarshalIndent(map[string]any{
				"metadata": md,
				"decision": action,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode decision: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "triage rule file (default: rules.yaml)")

	return cmd
}
