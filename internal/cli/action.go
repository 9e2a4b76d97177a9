package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/issueops/issueops/internal/config"
	"github.com/issueops/issueops/internal/duplicate"
	"github.com/issueops/issueops/internal/github"
	"github.com/issueops/issueops/internal/rules"
	"github.com/issueops/issueops/internal/triage"
	"github.com/issueops/issueops/pkg/models"
)

// Rule sources tried in order when running inside a workflow. Repos keep
// triage rules either under .github/ or at the root.
var actionRuleSources = []string{
	".github/issueops.yaml",
	".github/triage.yaml",
	rules.DefaultSource,
}

func newActionCmd() *cobra.Command {
	var (
		eventPath string
		apply     bool
	)

	cmd := &cobra.Command{
		Use:   "action",
		Short: "Triage the issue from a GitHub Actions event",
		Long: `Entry point for a GitHub Actions workflow. Reads the triggering event,
runs duplicate detection and the triage pipeline on the new issue, and
optionally writes labels and comments back.

A high-confidence duplicate short-circuits triage: the issue is labeled
"duplicate", a comment points at the original, and no rules run. A
possible duplicate only gets an informational comment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if eventPath == "" {
				eventPath = os.Getenv("GITHUB_EVENT_PATH")
			}
			if eventPath == "" {
				return fmt.Errorf("no event file: pass --event-path or set GITHUB_EVENT_PATH")
			}

			event, err := github.ParseEventFile(eventPath)
			if err != nil {
				return fmt.Errorf("failed to parse event: %w", err)
			}
			if !event.IsIssueEvent() || !(event.IsOpenedEvent() || event.IsEditedEvent()) {
				fmt.Println("Skipped: not an issue opened/edited event")
				return nil
			}
			issue := event.ToIssue()
			if issue == nil {
				return fmt.Errorf("failed to extract issue from event")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			gh, err := createGitHubClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}

			extractor, provider, err := createExtractor(cfg)
			if err != nil {
				return err
			}
			defer provider.Close()

			fmt.Printf("Triaging issue #%d: %s\n", issue.Number, issue.Title)

			// Duplicate detection runs before rule triage: a certain
			// duplicate needs no priority decision of its own.
			if cfg.DuplicateEnabled() {
				checker := duplicate.NewChecker(extractor, gh)
				result := checker.Check(ctx, issue.Org, issue.Repo, issue.Title, issue.Body, issue.Number)
				done, err := handleDuplicate(ctx, gh, issue, result, apply)
				if err != nil {
					return err
				}
				if done {
					return nil
				}
			}

			engine := rules.Load(rulesSourcesFor(cfg)...)
			svc := triage.NewService(extractor, engine)

			md, action, err := svc.Analyze(ctx, issue.Text())
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			fmt.Printf("Decision: P%d %v\n", action.PriorityScore, action.Labels)
			fmt.Printf("Reasoning: %s\n", action.Reasoning)
			fmt.Printf("Extraction confidence: %.2f\n", md.ExtractionConfidence)

			if !apply || dryRun {
				fmt.Println("Analyze only: no labels written")
				return nil
			}
			if len(action.Labels) > 0 {
				if err := gh.AddLabels(ctx, issue.Org, issue.Repo, issue.Number, action.Labels); err != nil {
					return fmt.Errorf("failed to apply labels: %w", err)
				}
				fmt.Printf("Applied labels: %v\n", action.Labels)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&eventPath, "event-path", "", "path to GitHub event JSON file (default: $GITHUB_EVENT_PATH)")
	cmd.Flags().BoolVar(&apply, "apply", false, "write labels and comments back to GitHub")

	return cmd
}

// rulesSourcesFor prepends the configured rule path to the workflow
// discovery chain.
func rulesSourcesFor(cfg *config.Config) []string {
	if cfg.Rules.Path != "" {
		return append([]string{cfg.Rules.Path}, actionRuleSources...)
	}
	return actionRuleSources
}

// handleDuplicate applies the band policy for a duplicate result. It
// reports whether triage should stop here.
func handleDuplicate(ctx context.Context, gh *github.Client, issue *models.Issue, result *models.DuplicateResult, apply bool) (bool, error) {
	band := duplicate.BandFor(result)
	if band == duplicate.BandNone {
		return false, nil
	}

	comment := duplicateComment(result, band)
	fmt.Printf("Duplicate check: %s of #%d (confidence %.2f)\n", band, *result.DuplicateNumber, result.Confidence)

	if !apply || dryRun {
		return band == duplicate.BandCertain, nil
	}

	if err := gh.PostComment(ctx, issue.Org, issue.Repo, issue.Number, comment); err != nil {
		return false, fmt.Errorf("failed to post duplicate comment: %w", err)
	}
	if band == duplicate.BandCertain {
		if err := gh.AddLabels(ctx, issue.Org, issue.Repo, issue.Number, []string{"duplicate"}); err != nil {
			return false, fmt.Errorf("failed to add duplicate label: %w", err)
		}
		return true, nil
	}
	return false, nil
}

func duplicateComment(result *models.DuplicateResult, band duplicate.Band) string {
	var sb strings.Builder
	if band == duplicate.BandCertain {
		fmt.Fprintf(&sb, "This issue appears to be a duplicate of #%d.\n\n", *result.DuplicateNumber)
	} else {
		fmt.Fprintf(&sb, "This issue may be a duplicate of #%d.\n\n", *result.DuplicateNumber)
	}
	if result.MatchedIssueState != nil && *result.MatchedIssueState == "closed" {
		sb.WriteString("The matched issue is closed; it may already contain a resolution.\n\n")
	}
	fmt.Fprintf(&sb, "%s\n\n*Confidence: %.0f%%*", result.Reasoning, result.Confidence*100)
	return sb.String()
}
