package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract structured metadata from raw issue text",
		Long: `Read raw issue text from FILE (use "-" for stdin) and print the
extracted metadata as JSON. Repeated runs over identical text are served
from the extraction cache.`,
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

			md, err := extractor.Extract(ctx, text)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			out, err := json.MarshalIndent(md, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode metadata: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	return cmd
}

// readTextArg reads issue text from a file path or stdin ("-").
func readTextArg(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("failed to read issue text: %w", err)
	}
	return string(data), nil
}
