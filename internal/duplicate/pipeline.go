// Package duplicate orchestrates the three-stage duplicate detection
// pipeline: keyword extraction, candidate search, and semantic
// verification. Every stage failure degrades to a zero-confidence result
// with a stage-specific reasoning string; the pipeline never returns an
// error to the caller.
package duplicate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/issueops/issueops/pkg/models"
)

const defaultCandidateLimit = 5

// Analyzer is the language capability the pipeline needs: turning issue
// text into a search query, and verifying candidates semantically.
type Analyzer interface {
	GenerateSearchKeywords(ctx context.Context, text string) (string, error)
	FindSemanticDuplicate(ctx context.Context, text string, candidates []models.Candidate) (*models.DuplicateResult, error)
}

// Searcher is the tracker search surface used to gather candidates.
type Searcher interface {
	SearchCandidates(ctx context.Context, org, repo, keywords string, limit int) ([]models.Candidate, error)
}

// Checker runs the duplicate detection pipeline for one issue at a time.
// Checkers are stateless; one instance may serve concurrent pipelines.
type Checker struct {
	analyzer Analyzer
	searcher Searcher
	limit    int
}

// NewChecker creates a duplicate checker.
func NewChecker(analyzer Analyzer, searcher Searcher) *Checker {
	return &Checker{
		analyzer: analyzer,
		searcher: searcher,
		limit:    defaultCandidateLimit,
	}
}

// Check runs the three stages in order for the given issue. selfNumber is
// the issue being triaged; it is removed from its own candidate list since
// an issue can never be its own duplicate.
func (c *Checker) Check(ctx context.Context, org, repo, title, body string, selfNumber int) *models.DuplicateResult {
	fullText := title + "\n" + body

	// Stage 1: derive a search query
	keywords, err := c.analyzer.GenerateSearchKeywords(ctx, fullText)
	if err != nil {
		log.Printf("Warning: keyword generation failed: %v", err)
		return noMatch("Keyword generation failed")
	}
	if strings.TrimSpace(keywords) == "" {
		return noMatch("No keywords found")
	}
	log.Printf("Generated search keywords: %s", keywords)

	// Stage 2: gather candidates, excluding the issue itself
	found, err := c.searcher.SearchCandidates(ctx, org, repo, keywords, c.limit)
	if err != nil {
		log.Printf("Warning: candidate search failed: %v", err)
		return noMatch("Search API failed")
	}
	candidates := make([]models.Candidate, 0, len(found))
	for _, cand := range found {
		if cand.Number != selfNumber {
			candidates = append(candidates, cand)
		}
	}
	log.Printf("Found %d candidates (excluding self)", len(candidates))
	if len(candidates) == 0 {
		return noMatch("No candidates found")
	}

	// Stage 3: semantic verification
	result, err := c.analyzer.FindSemanticDuplicate(ctx, fullText, candidates)
	if err != nil || result == nil {
		log.Printf("Warning: verification failed: %v", err)
		return noMatch("Verification failed")
	}

	// Enrich with the matched candidate's state. A verifier naming a
	// candidate absent from the stage-2 list leaves the state unset.
	if result.DuplicateNumber != nil {
		for _, cand := range candidates {
			if cand.Number == *result.DuplicateNumber {
				state := cand.State
				result.MatchedIssueState = &state
				break
			}
		}
	}

	log.Printf("Duplicate result: number=%s state=%s confidence=%.2f",
		formatIntPtr(result.DuplicateNumber), formatStrPtr(result.MatchedIssueState), result.Confidence)
	return result
}

func noMatch(reasoning string) *models.DuplicateResult {
	return &models.DuplicateResult{Confidence: 0.0, Reasoning: reasoning}
}

func formatIntPtr(v *int) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *v)
}

func formatStrPtr(v *string) string {
	if v == nil {
		return "none"
	}
	return *v
}
