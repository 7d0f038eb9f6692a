// Package strategy holds the pure decision rules of the rotation
// strategy: market-regime classification, stop-loss evaluation, and the
// profit-taking ladder. Nothing in here mutates portfolio state.
package strategy

import "trendrotate/internal/domain"

// overheatBand is the multiple of the moving average above which the
// market is considered overheated.
const overheatBand = 1.05

// Classify maps the leveraged close and its trailing moving average to a
// market regime. A non-positive moving average means there is not enough
// history yet and always classifies as DECLINE.
func Classify(price, movingAverage float64) domain.Regime {
	if movingAverage <= 0 {
		return domain.RegimeDecline
	}
	if price < movingAverage {
		return domain.RegimeDecline
	}
	if price < movingAverage*overheatBand {
		return domain.RegimeInvest
	}
	return domain.RegimeOverheat
}
