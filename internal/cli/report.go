package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/issueops/issueops/internal/github"
	"github.com/issueops/issueops/internal/report"
	"github.com/issueops/issueops/internal/triage"
)

func newReportCmd() *cobra.Command {
	var (
		limit       int
		delayMs     int
		concurrency int
		rulesPath   string
		boardPath   string
		feedPath    string
	)

	cmd := &cobra.Command{
		Use:   "report OWNER/REPO",
		Short: "Generate the contributor job board and its Atom feed",
		Long: `Analyze open issues and render a static HTML job board plus an Atom
feed of contributor-friendly work. Only accessible issues (priority P1-P2)
make it onto the board.`,
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
			if concurrency == 0 {
				concurrency = cfg.Batch.MaxInFlight
			}
			if delayMs < 0 {
				delayMs = cfg.Batch.DelayMs
			}

			gh, err := createGitHubClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}

			issues, err := gh.ListOpenIssues(ctx, org, repo, limit)
			if err != nil {
				return fmt.Errorf("failed to list issues: %w", err)
			}
			fmt.Printf("Analyzing %d open issues in %s/%s\n", len(issues), org, repo)

			extractor, provider, err := createExtractor(cfg)
			if err != nil {
				return err
			}
			defer provider.Close()

			engine := loadEngine(rulesPath, cfg)
			svc := triage.NewService(extractor, engine)

			results := svc.AnalyzeBatch(ctx, issues, triage.BatchOptions{
				MaxInFlight: concurrency,
				Delay:       time.Duration(delayMs) * time.Millisecond,
			})

			var items []report.BoardItem
			for _, res := range results {
				if res.Err != nil {
					fmt.Printf("  #%d: analysis failed: %v\n", res.Issue.Number, res.Err)
					continue
				}
				if res.Action.PriorityScore > 2 {
					continue
				}
				items = append(items, report.NewBoardItem(res.Issue, res.Metadata))
			}
			fmt.Printf("%d issues qualify for the job board\n", len(items))

			reporter, err := report.New()
			if err != nil {
				return fmt.Errorf("failed to build reporter: %w", err)
			}

			siteURL := fmt.Sprintf("https://github.com/%s/%s", org, repo)
			boardOut, err := reporter.WriteBoard(items, boardPath, siteURL)
			if err != nil {
				return fmt.Errorf("failed to write board: %w", err)
			}
			feedOut, err := reporter.WriteFeed(items, feedPath, siteURL)
			if err != nil {
				return fmt.Errorf("failed to write feed: %w", err)
			}

			fmt.Printf("Board: %s\nFeed:  %s\n", boardOut, feedOut)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "max issues to analyze")
	cmd.Flags().IntVar(&delayMs, "delay", -1, "delay between dispatches in ms (default: from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max concurrent analyses (default: from config)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "triage rule file (default: rules.yaml)")
	cmd.Flags().StringVar(&boardPath, "board", "board.html", "output path for the job board HTML")
	cmd.Flags().StringVar(&feedPath, "feed", "feed.xml", "output path for the Atom feed")

	return cmd
}
