package strategy

// StopLossResult reports whether the stop fired and the price the exit is
// assumed to fill at.
type StopLossResult struct {
	Triggered bool
	ExecPrice float64
}

// CheckStopLoss evaluates the day's open/low/close against a reference
// price (normally the position's weighted-average cost, or the gap-entry
// reference after a sneak entry) and a stop fraction.
//
// Fill policy models gap risk conservatively: a gap-down open fills at the
// open, an intraday breach fills at the stop target, and a close-only
// breach fills at the close.
func CheckStopLoss(open, low, close, reference, fraction float64) StopLossResult {
	if reference <= 0 {
		return StopLossResult{ExecPrice: close}
	}

	stopTarget := reference * (1 - fraction)

	switch {
	case open <= stopTarget:
		return StopLossResult{Triggered: true, ExecPrice: open}
	case low <= stopTarget:
		return StopLossResult{Triggered: true, ExecPrice: stopTarget}
	case close <= stopTarget:
		return StopLossResult{Triggered: true, ExecPrice: close}
	}

	return StopLossResult{ExecPrice: close}
}
