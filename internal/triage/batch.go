package triage

import (
	"context"
	"time"

	"github.com/issueops/issueops/pkg/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BatchOptions bounds the in-flight work of a batch run. MaxInFlight caps
// concurrent pipelines; Delay spaces out dispatches to respect upstream
// rate limits. Both are backpressure knobs, not correctness requirements.
type BatchOptions struct {
	MaxInFlight int
	Delay       time.Duration
}

// BatchResult is the outcome for a single issue in a batch. A failed issue
// carries its error; it never aborts the rest of the batch.
type BatchResult struct {
	Issue    *models.Issue
	Metadata *models.Metadata
	Action   models.TriageAction
	Err      error
}

// AnalyzeBatch runs each issue's pipeline concurrently, bounded by the
// options. The three stages within one issue stay strictly ordered; only
// distinct issues overlap. Results are returned in input order.
func (s *Service) AnalyzeBatch(ctx context.Context, issues []*models.Issue, opts BatchOptions) []BatchResult {
	results := make([]BatchResult, len(issues))

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxInFlight > 0 {
		g.SetLimit(opts.MaxInFlight)
	}

	for i, issue := range issues {
		results[i].Issue = issue

		if err := limiter.Wait(ctx); err != nil {
			results[i].Err = err
			continue
		}

		i, issue := i, issue
		g.Go(func() error {
			md, action, err := s.Analyze(gctx, issue.Text())
			results[i].Metadata = md
			results[i].Action = action
			results[i].Err = err
			return nil
		})
	}

	_ = g.Wait()
	return results
}
