package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/issueops/issueops/internal/github"
	"github.com/issueops/issueops/internal/triage"
)

func newAuditCmd() *cobra.Command {
	var (
		limit      int
		rulesPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "audit OWNER/REPO",
		Short: "Export triage decisions to CSV for human review",
		Long: `Analyze open issues and write every decision to a CSV sheet with empty
columns for a human reviewer's own difficulty, priority and notes. Comparing
the two sides measures how well the extraction and rules track reality.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			org, repo, err := github.ParseRepo(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			gh, err := createGitHubClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}

			issues, err := gh.ListOpenIssues(ctx, org, repo, limit)
			if err != nil {
				return fmt.Errorf("failed to list issues: %w", err)
			}
			fmt.Printf("Auditing %d open issues in %s/%s\n", len(issues), org, repo)

			extractor, provider, err := createExtractor(cfg)
			if err != nil {
				return err
			}
			defer provider.Close()

			engine := loadEngine(rulesPath, cfg)
			svc := triage.NewService(extractor, engine)

			results := svc.AnalyzeBatch(ctx, issues, triage.BatchOptions{
				MaxInFlight: cfg.Batch.MaxInFlight,
				Delay:       time.Duration(cfg.Batch.DelayMs) * time.Millisecond,
			})

			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("failed to create audit file: %w", err)
			}
			defer f.Close()

			w := csv.NewWriter(f)
			header := []string{"id", "title", "ai_difficulty", "ai_priority", "ai_skills", "human_difficulty", "human_priority", "notes"}
			if err := w.Write(header); err != nil {
				return fmt.Errorf("failed to write audit header: %w", err)
			}

			rows := 0
			for _, res := range results {
				if res.Err != nil {
					fmt.Printf("  #%d: analysis failed: %v\n", res.Issue.Number, res.Err)
					continue
				}
				row := []string{
					strconv.Itoa(res.Issue.Number),
					res.Issue.Title,
					res.Metadata.Difficulty,
					strconv.Itoa(res.Action.PriorityScore),
					strings.Join(res.Metadata.RequiredSkills, ";"),
					"", "", "",
				}
				if err := w.Write(row); err != nil {
					return fmt.Errorf("failed to write audit row: %w", err)
				}
				rows++
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return fmt.Errorf("failed to flush audit file: %w", err)
			}

			fmt.Printf("Wrote %d rows to %s\n", rows, outputPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "max issues to audit")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "triage rule file (default: rules.yaml)")
	cmd.Flags().StringVar(&outputPath, "output", "triage_audit.csv", "output CSV path")

	return cmd
}
