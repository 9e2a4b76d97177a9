package duplicate

import "github.com/issueops/issueops/pkg/models"

// Confidence-band thresholds. Each is the inclusive lower bound of its
// band, so 0.90 is certain and 0.70 is possible.
const (
	CertainThreshold  = 0.9
	PossibleThreshold = 0.7
)

// Band is the discrete duplicate-handling action a confidence score maps
// to. The three bands partition [0,1] totally and without overlap.
type Band int

const (
	// BandNone: no side effect.
	BandNone Band = iota
	// BandPossible: comment only, no label.
	BandPossible
	// BandCertain: label as duplicate and comment with the reference.
	BandCertain
)

// String returns a readable band name.
func (b Band) String() string {
	switch b {
	case BandCertain:
		return "certain-duplicate"
	case BandPossible:
		return "possible-duplicate"
	}
	return "no-action"
}

// BandFor maps a duplicate result to its action band. A result without a
// duplicate number is always BandNone regardless of confidence.
func BandFor(result *models.DuplicateResult) Band {
	if result == nil || result.DuplicateNumber == nil {
		return BandNone
	}
	switch {
	case result.Confidence >= CertainThreshold:
		return BandCertain
	case result.Confidence >= PossibleThreshold:
		return BandPossible
	}
	return BandNone
}
