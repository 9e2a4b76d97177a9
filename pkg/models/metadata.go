package models

import (
	"encoding/json"
	"fmt"
)

// Difficulty levels an issue can be classified as.
var validDifficulties = map[string]bool{
	"easy":    true,
	"medium":  true,
	"hard":    true,
	"unknown": true,
}

// Architectural areas an issue can belong to.
var validAreas = map[string]bool{
	"frontend":      true,
	"backend":       true,
	"database":      true,
	"devops":        true,
	"documentation": true,
	"unknown":       true,
}

// Metadata is the structured representation of an unstructured issue report.
// It carries both maintainer signals (severity) and contributor signals
// (accessibility) extracted from the raw text.
type Metadata struct {
	HasReproductionSteps bool `json:"has_reproduction_steps"`
	HasStacktrace        bool `json:"has_stacktrace"`
	HasLogs              bool `json:"has_logs"`

	IsCrash         bool `json:"is_crash"`
	IsSecurityIssue bool `json:"is_security_issue"`
	IsBlocker       bool `json:"is_blocker"`

	OperatingSystem *string `json:"operating_system"`
	Environment     string  `json:"environment"`

	Summary        string   `json:"summary"`
	Difficulty     string   `json:"difficulty"`
	RequiredSkills []string `json:"required_skills"`
	PrimaryArea    string   `json:"primary_area"`

	VerificationHint     *string `json:"verification_hint,omitempty"`
	RelatedClosedIssueID *int    `json:"related_closed_issue_id,omitempty"`

	ExtractionConfidence float64 `json:"extraction_confidence"`
}

// Validate checks the structural invariants: confidence bounded to [0,1]
// and enumerations restricted to their closed sets. A Metadata failing
// validation must be rejected at construction, never used.
func (m *Metadata) Validate() error {
	if m.ExtractionConfidence < 0.0 || m.ExtractionConfidence > 1.0 {
		return fmt.Errorf("extraction_confidence must be between 0.0 and 1.0 (got %.2f)", m.ExtractionConfidence)
	}
	if !validDifficulties[m.Difficulty] {
		return fmt.Errorf("invalid difficulty: %q", m.Difficulty)
	}
	if !validAreas[m.PrimaryArea] {
		return fmt.Errorf("invalid primary_area: %q", m.PrimaryArea)
	}
	return nil
}

// Record flattens the metadata into a generic key/value map keyed by the
// JSON field names, the form consumed by condition evaluation.
func (m *Metadata) Record() map[string]any {
	data, err := json.Marshal(m)
	if err != nil {
		return map[string]any{}
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return map[string]any{}
	}
	return record
}
