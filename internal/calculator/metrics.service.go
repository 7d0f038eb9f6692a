package calculator

import (
	"math"
	"time"

	"trendrotate/internal/domain"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

type Metrics struct {
	TotalReturnPercent float64
	CAGRPercent        float64
	MaxDrawdownPercent float64
	AnnualizedStdev    float64
	SharpeRatio        float64
}

// CalculateMetrics derives performance statistics from the snapshot value
// series. Degenerate inputs (no snapshots, zero contributed capital, zero
// elapsed time) short-circuit the affected metric to 0 rather than erroring,
// so a single-day run still produces a result.
func CalculateMetrics(snapshots []domain.DailySnapshot, totalContributed float64) Metrics {
	if len(snapshots) == 0 || totalContributed <= 0 {
		return Metrics{}
	}

	values := make([]float64, len(snapshots))
	for i, s := range snapshots {
		values[i] = s.TotalValue
	}
	finalValue := values[len(values)-1]

	m := Metrics{
		TotalReturnPercent: (finalValue - totalContributed) / totalContributed * 100,
		CAGRPercent:        cagrPercent(finalValue, totalContributed, snapshots[0].Date, snapshots[len(snapshots)-1].Date),
		MaxDrawdownPercent: MaxDrawdownPercent(values),
	}

	if stdev, err := stats.StandardDeviationSample(dailyReturns(values)); err == nil && stdev > 0 {
		m.AnnualizedStdev = stdev * math.Sqrt(tradingDaysPerYear)
		m.SharpeRatio = m.CAGRPercent / 100 / stdev
	}

	return m
}

func cagrPercent(finalValue, totalContributed float64, start, end time.Time) float64 {
	years := end.Sub(start).Hours() / 24 / 365.25
	if years <= 0 {
		return 0
	}
	return (math.Pow(finalValue/totalContributed, 1/years) - 1) * 100
}

// MaxDrawdownPercent reports the most negative peak-to-trough decline over
// the value series, as a percentage (0 if the series never dips below a
// prior peak).
func MaxDrawdownPercent(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	runMax := values[0]
	mdd := 0.0
	for _, v := range values {
		if v > runMax {
			runMax = v
		}
		if dd := (v - runMax) / runMax * 100; dd < mdd {
			mdd = dd
		}
	}
	return mdd
}

func dailyReturns(values []float64) []float64 {
	returns := []float64{}
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns = append(returns, (values[i]-values[i-1])/values[i-1])
		}
	}
	return returns
}
