package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/issueops/issueops/internal/github"
	"github.com/issueops/issueops/internal/triage"
)

func newScanCmd() *cobra.Command {
	var (
		limit     int
		role      string
		rulesPath string
		apply     bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "scan OWNER/REPO",
		Short: "Triage the open issues of a repository",
		Long: `Fetch open issues, extract metadata for each and run the triage rules.
The --role filter narrows the listing to what that audience cares about:
maintainers see high priority issues (P4+), contributors see accessible
ones (P1-P2). With --apply the decided labels are written back to GitHub.`,
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
			if len(issues) == 0 {
				fmt.Println("No open issues to triage")
				return nil
			}
			fmt.Printf("Scanning %d open issues in %s/%s\n", len(issues), org, repo)

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

			shown := 0
			var applicable []triage.BatchResult
			for _, res := range results {
				if res.Err != nil {
					fmt.Printf("  #%d: analysis failed: %v\n", res.Issue.Number, res.Err)
					continue
				}
				applicable = append(applicable, res)
				if !roleWants(role, res.Action.PriorityScore) {
					continue
				}
				shown++
				printDecision(res)
			}
			if shown == 0 {
				fmt.Printf("No issues matched the %q filter\n", role)
			}

			if !apply {
				return nil
			}
			if dryRun {
				fmt.Println("Dry run: skipping label application")
				return nil
			}
			if !yes && !confirm(fmt.Sprintf("Apply labels to %d issues?", len(applicable))) {
				fmt.Println("Aborted")
				return nil
			}

			for _, res := range applicable {
				if len(res.Action.Labels) == 0 {
					continue
				}
				if err := gh.AddLabels(ctx, org, repo, res.Issue.Number, res.Action.Labels); err != nil {
					fmt.Printf("  #%d: failed to apply labels: %v\n", res.Issue.Number, err)
					continue
				}
				fmt.Printf("  #%d: applied %v\n", res.Issue.Number, res.Action.Labels)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "max issues to scan")
	cmd.Flags().StringVar(&role, "role", "all", "audience filter: all, maintainer or contributor")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "triage rule file (default: rules.yaml)")
	cmd.Flags().BoolVar(&apply, "apply", false, "write decided labels back to GitHub")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the apply confirmation prompt")

	return cmd
}

// roleWants filters decisions by audience. Maintainers care about urgent
// work, contributors about accessible work.
func roleWants(role string, priority int) bool {
	switch role {
	case "maintainer":
		return priority >= 4
	case "contributor":
		return priority >= 1 && priority <= 2
	default:
		return true
	}
}

func printDecision(res triage.BatchResult) {
	fmt.Printf("\n#%d %s\n", res.Issue.Number, res.Issue.Title)
	fmt.Printf("  Priority: P%d  Labels: %s\n", res.Action.PriorityScore, strings.Join(res.Action.Labels, ", "))
	fmt.Printf("  Reasoning: %s\n", res.Action.Reasoning)
	if res.Metadata != nil {
		fmt.Printf("  Difficulty: %s  Area: %s  Confidence: %.2f\n",
			res.Metadata.Difficulty, res.Metadata.PrimaryArea, res.Metadata.ExtractionConfidence)
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
