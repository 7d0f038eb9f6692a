package api

import (
	"fmt"
	"time"

	"trendrotate/internal/app"
	"trendrotate/internal/calculator"
	"trendrotate/internal/domain"
	"trendrotate/internal/logger"
	"trendrotate/internal/service"

	"github.com/gin-gonic/gin"
)

type backtestRequest struct {
	Ticker              string   `json:"ticker"`
	Start               string   `json:"start"`
	End                 string   `json:"end"`
	InitialCapital      float64  `json:"initialCapital"`
	MonthlyContribution float64  `json:"monthlyContribution"`
	MAPeriod            int      `json:"maPeriod"`
	StopLossPercent     *float64 `json:"stopLossPercent"`
	ProfitTaking        *bool    `json:"profitTaking"`
	ProfitStart         *float64 `json:"profitStart"`
	ProfitSpacing       *float64 `json:"profitSpacing"`
	ProfitRatio         *float64 `json:"profitRatio"`
	ConfirmCross        *bool    `json:"confirmCross"`
}

type tradeEventResponse struct {
	Date             string                  `json:"date"`
	Action           domain.ActionKind       `json:"action"`
	Regime           domain.Regime           `json:"regime"`
	TotalValue       float64                 `json:"totalValue"`
	TotalContributed float64                 `json:"totalContributed"`
	Gain             float64                 `json:"gain"`
	GainPercent      float64                 `json:"gainPercent"`
	Detail           domain.TradeDetail      `json:"detail"`
	PortfolioStatus  []domain.PositionStatus `json:"portfolioStatus,omitempty"`
}

type snapshotResponse struct {
	Date           string        `json:"date"`
	TotalValue     float64       `json:"totalValue"`
	LeveragedValue float64       `json:"leveragedValue"`
	ProfitValue    float64       `json:"profitAssetValue"`
	SafeValue      float64       `json:"safeAssetValue"`
	Cash           float64       `json:"cash"`
	Regime         domain.Regime `json:"regime"`
	LeveragedPrice float64       `json:"leveragedPrice"`
	MovingAverage  float64       `json:"movingAverage"`
}

type benchmarkPointResponse struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type backtestResponse struct {
	Ticker             string                              `json:"ticker"`
	FinalValue         float64                             `json:"finalValue"`
	TotalContributed   float64                             `json:"totalContributed"`
	TotalReturnPercent float64                             `json:"totalReturnPercent"`
	CAGRPercent        float64                             `json:"cagrPercent"`
	MaxDrawdownPercent float64                             `json:"maxDrawdownPercent"`
	AnnualizedStdev    float64                             `json:"annualizedStdev"`
	SharpeRatio        float64                             `json:"sharpeRatio"`
	Snapshots          []snapshotResponse                  `json:"snapshots"`
	Trades             []tradeEventResponse                `json:"trades"`
	Benchmarks         map[string][]benchmarkPointResponse `json:"benchmarks"`
}

// parseBacktestRequest validates the request and folds it over the default
// simulation configuration.
func parseBacktestRequest(requestBody backtestRequest) (app.SimulationConfig, time.Time, time.Time, error) {
	cfg := app.DefaultSimulationConfig(requestBody.Ticker)

	if requestBody.Ticker == "" {
		return cfg, time.Time{}, time.Time{}, fmt.Errorf("ticker is required")
	}
	start, err := time.Parse("2006-01-02", requestBody.Start)
	if err != nil {
		return cfg, time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", requestBody.End)
	if err != nil {
		return cfg, time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return cfg, time.Time{}, time.Time{}, fmt.Errorf("end date precedes start date")
	}

	if requestBody.InitialCapital != 0 {
		cfg.InitialCapital = requestBody.InitialCapital
	}
	cfg.MonthlyContribution = requestBody.MonthlyContribution
	if requestBody.StopLossPercent != nil {
		cfg.StopLossFraction = *requestBody.StopLossPercent / 100
	}
	if requestBody.ProfitTaking != nil {
		cfg.ProfitTaking = *requestBody.ProfitTaking
	}
	if requestBody.ProfitStart != nil {
		cfg.ProfitStart = *requestBody.ProfitStart
	}
	if requestBody.ProfitSpacing != nil {
		cfg.ProfitSpacing = *requestBody.ProfitSpacing
	}
	if requestBody.ProfitRatio != nil {
		cfg.ProfitRatio = *requestBody.ProfitRatio
	}
	if requestBody.ConfirmCross != nil {
		cfg.ConfirmCross = *requestBody.ConfirmCross
	}

	return cfg, start, end, nil
}

func (m ApiHandler) runBacktest(requestBody backtestRequest) (*domain.SimulationResult, app.SimulationConfig, time.Time, time.Time, error) {
	cfg, start, end, err := parseBacktestRequest(requestBody)
	if err != nil {
		return nil, cfg, start, end, err
	}

	engine, err := app.NewSimulationEngine(cfg)
	if err != nil {
		return nil, cfg, start, end, err
	}

	bars, err := m.PriceService.AssembleBars(service.AssembleBarsInput{
		LeveragedTicker: requestBody.Ticker,
		Start:           start,
		End:             end,
		MAPeriod:        requestBody.MAPeriod,
	})
	if err != nil {
		return nil, cfg, start, end, err
	}

	result, err := engine.Run(bars)
	return result, cfg, start, end, err
}

func (m ApiHandler) backtest(c *gin.Context) {
	var requestBody backtestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	result, cfg, start, end, err := m.runBacktest(requestBody)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to run backtest: %w", err), c)
		return
	}

	log := logger.FromContext(c)
	benchmarks := map[string][]benchmarkPointResponse{}
	for _, symbol := range service.BenchmarkTickers {
		prices, err := m.PriceService.ListPrices(symbol, start, end)
		if err != nil {
			log.Warnw("skipping benchmark", "symbol", symbol, "error", err)
			continue
		}
		points, err := calculator.BuyAndHold(calculator.BenchmarkInput{
			Prices:               prices,
			InitialCapital:       cfg.InitialCapital,
			MonthlyContribution:  cfg.MonthlyContribution,
			ContributionDayFloor: cfg.ContributionDayFloor,
		})
		if err != nil {
			log.Warnw("skipping benchmark", "symbol", symbol, "error", err)
			continue
		}
		benchmarks[symbol] = toBenchmarkResponse(points)
	}

	c.JSON(200, toBacktestResponse(requestBody.Ticker, result, benchmarks))
}

func toBacktestResponse(ticker string, result *domain.SimulationResult, benchmarks map[string][]benchmarkPointResponse) backtestResponse {
	snapshots := make([]snapshotResponse, 0, len(result.Snapshots))
	for _, s := range result.Snapshots {
		snapshots = append(snapshots, snapshotResponse{
			Date:           s.Date.Format("2006-01-02"),
			TotalValue:     domain.Round2(s.TotalValue),
			LeveragedValue: domain.Round2(s.LeveragedMarkValue),
			ProfitValue:    domain.Round2(s.ProfitAssetValue),
			SafeValue:      domain.Round2(s.SafeAssetValue),
			Cash:           domain.Round2(s.Cash),
			Regime:         s.Regime,
			LeveragedPrice: domain.Round2(s.LeveragedPrice),
			MovingAverage:  domain.Round2(s.MovingAverage),
		})
	}

	trades := make([]tradeEventResponse, 0, len(result.Trades))
	for _, t := range result.Trades {
		trades = append(trades, tradeEventResponse{
			Date:             t.Date.Format("2006-01-02"),
			Action:           t.Action,
			Regime:           t.Regime,
			TotalValue:       domain.Round2(t.TotalValue),
			TotalContributed: domain.Round2(t.TotalContributed),
			Gain:             domain.Round2(t.Gain),
			GainPercent:      domain.Round2(t.GainPercent),
			Detail:           t.Detail,
			PortfolioStatus:  t.PortfolioStatus,
		})
	}

	return backtestResponse{
		Ticker:             ticker,
		FinalValue:         domain.Round2(result.FinalValue),
		TotalContributed:   domain.Round2(result.TotalContributed),
		TotalReturnPercent: domain.Round2(result.TotalReturnPercent),
		CAGRPercent:        domain.Round2(result.CAGRPercent),
		MaxDrawdownPercent: domain.Round2(result.MaxDrawdownPercent),
		AnnualizedStdev:    domain.Round2(result.AnnualizedStdev),
		SharpeRatio:        domain.Round2(result.SharpeRatio),
		Snapshots:          snapshots,
		Trades:             trades,
		Benchmarks:         benchmarks,
	}
}

func toBenchmarkResponse(points []calculator.BenchmarkPoint) []benchmarkPointResponse {
	out := make([]benchmarkPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, benchmarkPointResponse{
			Date:  p.Date.Format("2006-01-02"),
			Value: domain.Round2(p.Value),
		})
	}
	return out
}
