package models

import "fmt"

// Candidate is a lightweight search hit considered as a possible duplicate.
type Candidate struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	State       string `json:"state"` // "open" or "closed"
	BodySnippet string `json:"body_snippet"`
}

// DuplicateResult is the outcome of semantic duplicate verification.
// MatchedIssueState is only ever set when DuplicateNumber is set, and
// reflects the state of the specific candidate that was matched.
type DuplicateResult struct {
	DuplicateNumber   *int    `json:"duplicate_number"`
	MatchedIssueState *string `json:"matched_issue_state,omitempty"`
	Confidence        float64 `json:"confidence"`
	Reasoning         string  `json:"reasoning"`
}

// Validate checks the structural invariants of the result.
func (r *DuplicateResult) Validate() error {
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0 (got %.2f)", r.Confidence)
	}
	if r.MatchedIssueState != nil && r.DuplicateNumber == nil {
		return fmt.Errorf("matched_issue_state set without duplicate_number")
	}
	return nil
}
