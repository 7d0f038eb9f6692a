package domain

// Regime is the market condition derived from the leveraged close vs its
// trailing moving average.
type Regime string

const (
	RegimeDecline  Regime = "DECLINE"
	RegimeInvest   Regime = "INVEST"
	RegimeOverheat Regime = "OVERHEAT"
)
