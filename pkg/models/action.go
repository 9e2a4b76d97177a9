package models

import "fmt"

// TriageAction is the decision output of the rules engine: a priority,
// the labels to apply, and a human-readable explanation of why.
type TriageAction struct {
	PriorityScore int      `json:"priority_score" yaml:"priority_score"`
	Labels        []string `json:"labels" yaml:"labels"`
	Reasoning     string   `json:"reasoning" yaml:"reasoning"`
}

// Validate checks that the action satisfies its invariants.
func (a *TriageAction) Validate() error {
	if a.PriorityScore < 1 || a.PriorityScore > 5 {
		return fmt.Errorf("priority_score must be between 1 and 5 (got %d)", a.PriorityScore)
	}
	if a.Reasoning == "" {
		return fmt.Errorf("reasoning is required")
	}
	return nil
}
