package flashcard

import "math"

// Percent returns round(100*part/total) clamped to [0, 100].
// A zero or negative total yields 0.
func Percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// LearnedPercent is the share of a deck's cards whose latest answer was
// "remembered". Cards never answered count as not learned.
func LearnedPercent(remembered, total int) int {
	return Percent(remembered, total)
}
