// Package service assembles the market data the simulation engine
// consumes: it fetches daily bars (through a local SQLite cache), merges
// the instruments by date, computes the trailing moving average, and
// forward-fills gaps in the auxiliary series.
package service

import (
	"fmt"
	"sort"
	"time"

	"trendrotate/internal/domain"
	"trendrotate/internal/repository"
	"trendrotate/internal/util"

	"github.com/markcheno/go-talib"
	"go.uber.org/zap"
)

const DefaultMAPeriod = 200

type AssembleBarsInput struct {
	LeveragedTicker string
	Start           time.Time
	End             time.Time
	MAPeriod        int
}

type PriceService interface {
	// AssembleBars builds the date-sorted PriceBar sequence for a
	// backtest, including enough leading history for the moving average.
	AssembleBars(in AssembleBarsInput) ([]domain.PriceBar, error)
	// ListPrices returns the adjusted close series of one symbol, used
	// for buy-and-hold benchmarks.
	ListPrices(symbol string, start, end time.Time) ([]domain.AssetPrice, error)
}

type priceServiceHandler struct {
	Provider           QuoteProvider
	AdjPriceRepository repository.AdjustedPriceRepository
	Log                *zap.SugaredLogger
}

func NewPriceService(provider QuoteProvider, adjPriceRepository repository.AdjustedPriceRepository, log *zap.SugaredLogger) PriceService {
	return &priceServiceHandler{
		Provider:           provider,
		AdjPriceRepository: adjPriceRepository,
		Log:                log,
	}
}

// getDailyBars serves from the cache only when a prior fetch covered the
// whole window. A widened window always falls through to the provider;
// rows cached for a narrower request are never treated as full coverage.
func (h *priceServiceHandler) getDailyBars(symbol string, start, end time.Time) ([]repository.AdjustedPrice, error) {
	covered, err := h.AdjPriceRepository.HasCoverage(symbol, start, end)
	if err != nil {
		return nil, err
	}
	if covered {
		return h.AdjPriceRepository.List(symbol, start, end)
	}

	fetched, err := h.Provider.DailyBars(symbol, start, end)
	if err != nil {
		return nil, err
	}
	if err := h.AdjPriceRepository.Add(fetched); err != nil {
		// cache write failures are not fatal for the request
		h.Log.Warnw("failed to cache prices", "symbol", symbol, "error", err)
		return fetched, nil
	}
	if err := h.AdjPriceRepository.MarkCovered(symbol, start, end); err != nil {
		h.Log.Warnw("failed to record cache coverage", "symbol", symbol, "error", err)
	}
	return fetched, nil
}

// mergedEntry is one calendar day's view across all fetched instruments.
type mergedEntry struct {
	closes    map[string]float64
	leverOpen float64
	leverLow  float64
}

func (h *priceServiceHandler) AssembleBars(in AssembleBarsInput) ([]domain.PriceBar, error) {
	maPeriod := in.MAPeriod
	if maPeriod <= 0 {
		maPeriod = DefaultMAPeriod
	}

	start := in.Start
	if earliest, ok := earliestListing(in.LeveragedTicker); ok && earliest.After(start) {
		start = earliest
	}
	// fetch extra leading history so the moving average is valid from the
	// first reported day
	warmupStart := start.AddDate(0, 0, -maPeriod*2)

	symbols := []string{in.LeveragedTicker, SafeAssetTicker, ProfitAssetTicker, safeFallbackTicker, marketPulseTicker}
	merged := map[string]*mergedEntry{}

	for _, symbol := range uniqueStrings(symbols) {
		bars, err := h.getDailyBars(symbol, warmupStart, in.End)
		if err != nil {
			if symbol == in.LeveragedTicker {
				return nil, fmt.Errorf("failed to fetch %s: %w", symbol, err)
			}
			// auxiliary instruments are allowed to fail; the gaps are
			// filled below
			h.Log.Warnw("skipping auxiliary instrument", "symbol", symbol, "error", err)
			continue
		}
		for _, b := range bars {
			if b.AdjClose <= 0 {
				continue
			}
			key := b.Date.Format(time.DateOnly)
			entry, ok := merged[key]
			if !ok {
				entry = &mergedEntry{closes: map[string]float64{}}
				merged[key] = entry
			}
			entry.closes[b.Symbol] = b.AdjClose
			if b.Symbol == in.LeveragedTicker {
				entry.leverOpen = b.Open
				entry.leverLow = b.Low
			}
		}
	}

	dates := make([]string, 0, len(merged))
	for d := range merged {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	endKey := in.End.Format(time.DateOnly)
	bars := []domain.PriceBar{}
	closes := []float64{}
	for _, dateStr := range dates {
		entry := merged[dateStr]
		leverPrice, ok := entry.closes[in.LeveragedTicker]
		if !ok {
			continue
		}

		// crypto instruments trade on weekends; this is a stock-ETF
		// exchange strategy, so keep stock trading days only
		stockMarketOpen := false
		for _, s := range []string{ProfitAssetTicker, SafeAssetTicker, safeFallbackTicker, marketPulseTicker} {
			if entry.closes[s] > 0 {
				stockMarketOpen = true
				break
			}
		}
		if !stockMarketOpen && dateStr < endKey {
			continue
		}

		date, err := time.ParseInLocation(time.DateOnly, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse merged date %q: %w", dateStr, err)
		}

		closes = append(closes, leverPrice)
		open := entry.leverOpen
		if open <= 0 {
			open = leverPrice
		}
		low := entry.leverLow
		if low <= 0 {
			low = leverPrice
		}
		safePrice := entry.closes[SafeAssetTicker]
		if safePrice <= 0 {
			safePrice = entry.closes[safeFallbackTicker]
		}
		bars = append(bars, domain.PriceBar{
			Date:             date,
			LeveragedClose:   leverPrice,
			LeveragedOpen:    open,
			LeveragedLow:     low,
			ProfitAssetClose: entry.closes[ProfitAssetTicker],
			SafeAssetClose:   safePrice,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no data for %s between %s and %s", in.LeveragedTicker, in.Start.Format(time.DateOnly), in.End.Format(time.DateOnly))
	}

	if len(closes) >= maPeriod {
		ma := talib.Sma(closes, maPeriod)
		for i := range bars {
			bars[i].MovingAverage = ma[i]
		}
	}

	h.fillAuxiliary(bars, in.LeveragedTicker)

	// drop the warm-up prefix
	out := bars[:0:0]
	for _, b := range bars {
		if util.DateLte(start, b.Date) {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no data for %s between %s and %s", in.LeveragedTicker, in.Start.Format(time.DateOnly), in.End.Format(time.DateOnly))
	}

	return out, nil
}

// fillAuxiliary forward-fills gaps in the safe and profit series. A series
// with no coverage at all is substituted (constant 1.0 for the safe asset,
// the leveraged price for the profit asset) and flagged, since the
// substitution changes return attribution.
func (h *priceServiceHandler) fillAuxiliary(bars []domain.PriceBar, leveragedTicker string) {
	lastSafe := 0.0
	for _, b := range bars {
		if b.SafeAssetClose > 0 {
			lastSafe = b.SafeAssetClose
			break
		}
	}
	if lastSafe <= 0 {
		lastSafe = 1.0
		h.Log.Warnw("safe-asset series has no coverage in window; substituting constant price",
			"symbol", SafeAssetTicker, "price", 1.0)
	}

	profitCovered := false
	for _, b := range bars {
		if b.ProfitAssetClose > 0 {
			profitCovered = true
			break
		}
	}
	if !profitCovered {
		h.Log.Warnw("profit-asset series has no coverage in window; substituting leveraged price",
			"symbol", ProfitAssetTicker, "substitute", leveragedTicker)
	}

	for i := range bars {
		if bars[i].SafeAssetClose > 0 {
			lastSafe = bars[i].SafeAssetClose
		} else {
			bars[i].SafeAssetClose = lastSafe
		}
		if bars[i].ProfitAssetClose <= 0 {
			bars[i].ProfitAssetClose = bars[i].LeveragedClose
		}
	}
}

func (h *priceServiceHandler) ListPrices(symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	bars, err := h.getDailyBars(symbol, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]domain.AssetPrice, 0, len(bars))
	for _, b := range bars {
		if b.AdjClose <= 0 {
			continue
		}
		out = append(out, domain.AssetPrice{Symbol: b.Symbol, Date: b.Date, Price: b.AdjClose})
	}
	return out, nil
}

func uniqueStrings(in []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
