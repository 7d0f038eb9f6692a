package service

import (
	"time"
)

const (
	// SafeAssetTicker is the defensive instrument held during DECLINE.
	SafeAssetTicker = "SGOV"
	// ProfitAssetTicker receives ladder proceeds and OVERHEAT deployments.
	ProfitAssetTicker = "SPYM"
	// safeFallbackTicker backfills SGOV before its listing date.
	safeFallbackTicker = "BIL"
	// marketPulseTicker doubles as a stock-market-open signal for crypto
	// instruments that trade on weekends.
	marketPulseTicker = "QQQ"
)

// BenchmarkTickers are the default buy-and-hold comparison instruments.
var BenchmarkTickers = []string{"QQQ", "QLD", "TQQQ"}

type TickerInfo struct {
	Ticker       string `json:"ticker"`
	Description  string `json:"description"`
	EarliestDate string `json:"earliest_date"`
}

var leveragedTickers = []TickerInfo{
	{Ticker: "TQQQ", Description: "Nasdaq-100 3x leveraged", EarliestDate: "2010-02-11"},
	{Ticker: "BITU", Description: "Bitcoin 2x leveraged", EarliestDate: "2022-06-22"},
	{Ticker: "SOLT", Description: "Solana 2x leveraged", EarliestDate: "2024-02-22"},
	{Ticker: "ETHU", Description: "Ethereum 2x leveraged", EarliestDate: "2022-10-04"},
	{Ticker: "BULZ", Description: "US top-15 innovation 3x leveraged", EarliestDate: "2021-08-18"},
	{Ticker: "BTC-USD", Description: "Bitcoin spot", EarliestDate: "2014-09-17"},
	{Ticker: "ETH-USD", Description: "Ethereum spot", EarliestDate: "2017-11-09"},
}

// AvailableTickers lists the leveraged instruments the service knows how
// to backtest.
func AvailableTickers() []TickerInfo {
	out := make([]TickerInfo, len(leveragedTickers))
	copy(out, leveragedTickers)
	return out
}

func earliestListing(symbol string) (time.Time, bool) {
	for _, t := range leveragedTickers {
		if t.Ticker == symbol {
			d, err := time.ParseInLocation("2006-01-02", t.EarliestDate, time.UTC)
			if err != nil {
				return time.Time{}, false
			}
			return d, true
		}
	}
	return time.Time{}, false
}
