// Package triage wires the extraction step to the rule engine and runs
// batches of issues through the pipeline with bounded concurrency.
package triage

import (
	"context"

	"github.com/issueops/issueops/internal/rules"
	"github.com/issueops/issueops/pkg/models"
)

// MetadataExtractor is the upstream capability turning raw text into a
// structured record.
type MetadataExtractor interface {
	Extract(ctx context.Context, text string) (*models.Metadata, error)
}

// Service runs the extract-then-decide pipeline.
type Service struct {
	extractor MetadataExtractor
	engine    *rules.Engine
}

// NewService creates a triage service.
func NewService(extractor MetadataExtractor, engine *rules.Engine) *Service {
	return &Service{extractor: extractor, engine: engine}
}

// Analyze extracts metadata from issue text and evaluates the rule set
// against it. Extraction failures are returned to the caller; the rule
// evaluation itself always produces a decision.
func (s *Service) Analyze(ctx context.Context, text string) (*models.Metadata, models.TriageAction, error) {
	md, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, models.TriageAction{}, err
	}
	return md, s.engine.Decide(md), nil
}
