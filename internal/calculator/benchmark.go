package calculator

import (
	"fmt"
	"sort"
	"time"

	"trendrotate/internal/domain"
	"trendrotate/internal/util"
)

type BenchmarkInput struct {
	Prices              []domain.AssetPrice
	InitialCapital      float64
	MonthlyContribution float64
	// ContributionDayFloor gates monthly contributions to the first
	// trading day at or after this day of month.
	ContributionDayFloor int
}

type BenchmarkPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BuyAndHold replays a simple buy-and-hold of one instrument: all capital
// in at the first price, optional monthly contributions buying more shares
// at that day's price. No fees and no regime logic, so it serves as a
// pure reference curve.
func BuyAndHold(in BenchmarkInput) ([]BenchmarkPoint, error) {
	prices := make([]domain.AssetPrice, 0, len(in.Prices))
	for _, p := range in.Prices {
		if p.Price > 0 {
			prices = append(prices, p)
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no prices to benchmark")
	}
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})

	shares := in.InitialCapital / prices[0].Price
	lastContribMonth := util.MonthKey(prices[0].Date)
	out := make([]BenchmarkPoint, 0, len(prices))

	for i, p := range prices {
		ym := util.MonthKey(p.Date)
		if i > 0 && in.MonthlyContribution > 0 && ym != lastContribMonth && p.Date.Day() >= in.ContributionDayFloor {
			shares += in.MonthlyContribution / p.Price
			lastContribMonth = ym
		}
		out = append(out, BenchmarkPoint{Date: p.Date, Value: shares * p.Price})
	}

	return out, nil
}
