package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySnapshot is recorded once per bar, unconditionally.
type DailySnapshot struct {
	Date               time.Time `json:"date"`
	TotalValue         float64   `json:"totalValue"`
	LeveragedMarkValue float64   `json:"leveragedValue"`
	ProfitAssetValue   float64   `json:"profitAssetValue"`
	SafeAssetValue     float64   `json:"safeAssetValue"`
	Cash               float64   `json:"cash"`
	Regime             Regime    `json:"regime"`
	LeveragedPrice     float64   `json:"leveragedPrice"`
	MovingAverage      float64   `json:"movingAverage"`
}

// SimulationResult is the full output of one run.
type SimulationResult struct {
	FinalValue         float64         `json:"finalValue"`
	TotalContributed   float64         `json:"totalContributed"`
	TotalReturnPercent float64         `json:"totalReturnPercent"`
	CAGRPercent        float64         `json:"cagrPercent"`
	MaxDrawdownPercent float64         `json:"maxDrawdownPercent"`
	AnnualizedStdev    float64         `json:"annualizedStdev"`
	SharpeRatio        float64         `json:"sharpeRatio"`
	Snapshots          []DailySnapshot `json:"snapshots"`
	Trades             []TradeEvent    `json:"trades"`
}

// Round2 rounds a display value to 2 decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
