// Package extract turns unstructured issue text into structured metadata
// using an LLM provider, with a content-addressed cache short-circuiting
// repeat extractions. It also hosts the two duplicate-pipeline
// capabilities that need an LLM: search keyword generation and semantic
// duplicate verification.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/issueops/issueops/internal/cache"
	"github.com/issueops/issueops/pkg/models"
)

// Text windows submitted to the provider. Inputs are hashed for caching
// before truncation, so texts differing only beyond the window remain
// distinct cache keys.
const (
	maxExtractChars = 10000
	maxKeywordChars = 2000
	maxVerifyChars  = 3000
)

const extractionSystem = `You are a technical screener for an Open Source Project.
Your job is to analyze the issue below and extract structured metadata for two audiences:
1. MAINTAINERS: Who need to know if it's a critical crash or security risk.
2. CONTRIBUTORS: Who need to know if it's a "Good First Issue" (easy, clear skills).`

const retrySuffix = "\n\nError: Invalid JSON returned. Please fix and output ONLY standard JSON."

// Extractor converts raw issue text into validated Metadata records.
type Extractor struct {
	provider Provider
	cache    *cache.Store // nil disables caching
}

// New creates an extractor. Passing a nil store disables caching.
func New(provider Provider, store *cache.Store) *Extractor {
	return &Extractor{provider: provider, cache: store}
}

// Extract returns the metadata for the given issue text. Byte-identical
// text after a first successful extraction is served from the cache
// without touching the provider. A malformed provider response is retried
// once with an explicit corrective instruction.
func (e *Extractor) Extract(ctx context.Context, text string) (*models.Metadata, error) {
	if e.cache != nil {
		if md, ok := e.cache.Get(text); ok {
			log.Printf("Cache hit: skipping extraction")
			return md, nil
		}
	}

	prompt := buildExtractionPrompt(text)

	md, err := e.generateMetadata(ctx, prompt)
	if err != nil {
		log.Printf("Warning: extraction failed (attempt 1): %v. Retrying...", err)
		md, err = e.generateMetadata(ctx, prompt+retrySuffix)
		if err != nil {
			return nil, fmt.Errorf("failed to extract metadata: %w", err)
		}
	}

	if e.cache != nil {
		e.cache.Put(text, md)
		if err := e.cache.Persist(); err != nil {
			log.Printf("Warning: failed to persist cache: %v", err)
		}
	}

	return md, nil
}

func (e *Extractor) generateMetadata(ctx context.Context, prompt string) (*models.Metadata, error) {
	response, err := e.provider.CompleteWithSystem(ctx, extractionSystem, prompt)
	if err != nil {
		return nil, err
	}
	if response == "" {
		return nil, fmt.Errorf("empty response from provider")
	}

	var md models.Metadata
	if err := json.Unmarshal([]byte(stripFences(response)), &md); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := md.Validate(); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return &md, nil
}

// GenerateSearchKeywords derives a short, high-signal search query from the
// issue text. May legitimately return an empty string when the text has no
// distinctive terms.
func (e *Extractor) GenerateSearchKeywords(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`You are a search query optimizer.
Extract 3-5 unique technical keywords from the issue below to find duplicates.
PRIORITY:
1. Hex codes, Error Constants, Exception Names.
2. Distinctive terms (deadlock, race condition).
3. EXCLUDE generic words (bug, error, help, crash).

Output ONLY the space-separated keywords string.

ISSUE:
%s`, truncateText(text, maxKeywordChars))

	response, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate keywords: %w", err)
	}

	return strings.ReplaceAll(strings.TrimSpace(response), `"`, ""), nil
}

// FindSemanticDuplicate compares the issue text against the candidate list
// and returns the provider's best match with a confidence score.
func (e *Extractor) FindSemanticDuplicate(ctx context.Context, text string, candidates []models.Candidate) (*models.DuplicateResult, error) {
	if len(candidates) == 0 {
		return &models.DuplicateResult{Confidence: 0.0, Reasoning: "No candidates found."}, nil
	}

	var sb strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&sb, "Candidate #%d (%s): %s\n%s...\n", c.Number, c.State, c.Title, c.BodySnippet)
	}

	prompt := fmt.Sprintf(`You are a Senior QA Engineer. Compare the NEW ISSUE to CANDIDATES.
Identify if any candidate describes the EXACT SAME root cause.

SCORING:
- 1.0: Identical stack trace / error code.
- 0.8: Strong match (same behavior, different words).
- <0.5: Vague similarity.

STRICT JSON OUTPUT:
{
  "duplicate_number": <int|null>,
  "confidence": <float 0.0-1.0>,
  "reasoning": "<string>"
}

NEW ISSUE:
%s

CANDIDATES:
%s`, truncateText(text, maxVerifyChars), sb.String())

	response, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to verify duplicate: %w", err)
	}

	var result models.DuplicateResult
	if err := json.Unmarshal([]byte(stripFences(response)), &result); err != nil {
		return nil, fmt.Errorf("invalid verification JSON: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid verification result: %w", err)
	}
	return &result, nil
}

func buildExtractionPrompt(text string) string {
	return fmt.Sprintf(`STRICT INSTRUCTIONS:
1. Output ONLY valid JSON.
2. For 'difficulty':
   - "easy": Typos, documentation, simple CSS/Text changes.
   - "medium": isolated bug fix, single function change.
   - "hard": Architectural change, race conditions, core logic.
3. For 'required_skills': specific languages or tools (e.g. "go", "react", "sql"). Lowercase only.
4. For 'summary': A single, simple sentence describing the goal (e.g. "Fix crash when clicking login button").

SCHEMA REFERENCE:
- has_reproduction_steps, has_stacktrace, has_logs (bool)
- is_crash, is_security_issue, is_blocker (bool)
- operating_system (str|null), environment (str)
- summary (str): Non-technical summary.
- difficulty (str): "easy", "medium", "hard", "unknown"
- required_skills (list of str): e.g. ["go", "docker"]
- primary_area (str): "frontend", "backend", "database", "devops", "documentation", "unknown"
- extraction_confidence (float): 0.0 to 1.0

ISSUE TEXT:
%s`, truncateText(text, maxExtractChars))
}

// stripFences removes markdown code fences models sometimes wrap around
// JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// truncateText limits text length
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen]
}
