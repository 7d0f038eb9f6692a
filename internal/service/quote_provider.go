package service

import (
	"fmt"
	"time"

	"trendrotate/internal/repository"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// QuoteProvider hands back daily bars for one symbol. Implemented against
// Yahoo Finance; mocked in tests.
type QuoteProvider interface {
	DailyBars(symbol string, start, end time.Time) ([]repository.AdjustedPrice, error)
}

type yahooQuoteProvider struct{}

func NewYahooQuoteProvider() QuoteProvider {
	return yahooQuoteProvider{}
}

func (yahooQuoteProvider) DailyBars(symbol string, start, end time.Time) ([]repository.AdjustedPrice, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	out := []repository.AdjustedPrice{}
	for iter.Next() {
		bar := iter.Bar()
		ts := time.Unix(int64(bar.Timestamp), 0).UTC()
		out = append(out, repository.AdjustedPrice{
			Symbol:   symbol,
			Date:     time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Open:     bar.Open.InexactFloat64(),
			High:     bar.High.InexactFloat64(),
			Low:      bar.Low.InexactFloat64(),
			Close:    bar.Close.InexactFloat64(),
			AdjClose: bar.AdjClose.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	return out, nil
}
