package domain

import "time"

type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

// PriceBar is one trading day of assembled market data: the leveraged
// instrument's open/low/close, the auxiliary instrument closes, and the
// trailing moving average. MovingAverage is 0 until enough history exists.
type PriceBar struct {
	Date             time.Time
	LeveragedClose   float64
	LeveragedOpen    float64
	LeveragedLow     float64
	ProfitAssetClose float64
	SafeAssetClose   float64
	MovingAverage    float64
}
