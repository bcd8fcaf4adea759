package engine

import "math"

// DefaultTolerance is the absolute difference below which the model's
// result counts as verified.
const DefaultTolerance = 1e-4

// Confidence tiers. Five fixed scores by design, not a continuous
// function of the discrepancy.
const (
	ConfidenceHigh       = 1.0 // d <= tol
	ConfidenceMediumHigh = 0.7 // d <= 10*tol
	ConfidenceLowMedium  = 0.4 // d <= 100*tol
	ConfidenceLow        = 0.1 // everything else
	ConfidenceUnverified = 0.5 // no local result available
)

// ConfidenceScorer maps the discrepancy between the model's result and
// the local result to a discrete confidence tier.
type ConfidenceScorer struct {
	Tolerance float64
}

// NewConfidenceScorer creates a scorer with the given tolerance.
// tolerance <= 0 falls back to DefaultTolerance.
func NewConfidenceScorer(tolerance float64) *ConfidenceScorer {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &ConfidenceScorer{Tolerance: tolerance}
}

// Score returns the confidence tier for a model result given the local
// result. localAvailable=false fixes the score at ConfidenceUnverified:
// cannot confirm, cannot deny. Tier boundaries are inclusive.
func (s *ConfidenceScorer) Score(modelResult, localResult float64, localAvailable bool) float64 {
	if !localAvailable {
		return ConfidenceUnverified
	}
	d := math.Abs(modelResult - localResult)
	switch {
	case d <= s.Tolerance:
		return ConfidenceHigh
	case d <= s.Tolerance*10:
		return ConfidenceMediumHigh
	case d <= s.Tolerance*100:
		return ConfidenceLowMedium
	default:
		return ConfidenceLow
	}
}

// Verified reports whether the model's result agrees with the local
// result. Unlike Score, the comparison is strict (d < tol), and an
// unavailable local result is never verified.
func (s *ConfidenceScorer) Verified(modelResult, localResult float64, localAvailable bool) bool {
	return localAvailable && math.Abs(modelResult-localResult) < s.Tolerance
}
