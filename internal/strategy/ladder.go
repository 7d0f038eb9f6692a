package strategy

import "math"

// ProfitLadder decides when a leveraged position's unrealized gain has
// crossed a new milestone rung. Start and Spacing are gain percentages.
type ProfitLadder struct {
	Start   float64
	Spacing float64
}

// NextMilestone returns the highest rung newly crossed at gainPercent
// given the last realized milestone. If the price gaps through several
// rungs in one day, only the highest one is returned; intermediate rungs
// are intentionally skipped.
func (l ProfitLadder) NextMilestone(gainPercent, lastMilestone float64) (float64, bool) {
	if gainPercent < l.Start {
		return 0, false
	}
	milestone := math.Floor((gainPercent-l.Start)/l.Spacing)*l.Spacing + l.Start
	if milestone < l.Start || milestone <= lastMilestone {
		return 0, false
	}
	return milestone, true
}
