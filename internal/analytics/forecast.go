package analytics

import (
	"math"
	"time"
)

const (
	// fallbackDaysRemaining is used when no velocity can be derived yet.
	fallbackDaysRemaining = 30.0

	confidenceFloor = 0.3
	confidenceCeil  = 0.9
)

// forecastCompletion is the single source of the velocity projection and the
// confidence formula. Both the timeline extractor and the completion predictor
// call it; the two must never diverge.
//
// Velocity is completion percent per elapsed day. Confidence decays linearly
// with overdue days and is clamped to [0.3, 0.9].
func forecastCompletion(completionPct float64, currentDurationDays, daysOverdue int, now time.Time) (time.Time, float64) {
	velocity := completionPct / math.Max(1, float64(currentDurationDays))
	remainingWork := 100 - completionPct

	daysRemaining := fallbackDaysRemaining
	if velocity > 0 {
		daysRemaining = remainingWork / velocity
	}

	predicted := now.Add(time.Duration(daysRemaining * 24 * float64(time.Hour)))
	confidence := clamp(1-float64(daysOverdue)/30, confidenceFloor, confidenceCeil)

	return predicted, confidence
}

// daysCeil returns the number of whole days from a to b, rounded up, never
// negative.
func daysCeil(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
