package api

import (
	"fmt"

	"trendrotate/internal/display"
	"trendrotate/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

type tradeCsvRow struct {
	Date             string  `csv:"date"`
	Action           string  `csv:"action"`
	Regime           string  `csv:"regime"`
	Label            string  `csv:"label"`
	TotalValue       float64 `csv:"total_value"`
	TotalContributed float64 `csv:"total_contributed"`
	Gain             float64 `csv:"gain"`
	GainPercent      float64 `csv:"gain_percent"`
}

// exportBacktest runs the same simulation as /backtest and streams the
// trade ledger as CSV.
func (m ApiHandler) exportBacktest(c *gin.Context) {
	var requestBody backtestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	result, _, _, _, err := m.runBacktest(requestBody)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to run backtest: %w", err), c)
		return
	}

	rows := make([]tradeCsvRow, 0, len(result.Trades))
	for _, t := range result.Trades {
		rows = append(rows, tradeCsvRow{
			Date:             t.Date.Format("2006-01-02"),
			Action:           string(t.Action),
			Regime:           string(t.Regime),
			Label:            display.DescribeTrade(t, requestBody.Ticker),
			TotalValue:       domain.Round2(t.TotalValue),
			TotalContributed: domain.Round2(t.TotalContributed),
			Gain:             domain.Round2(t.Gain),
			GainPercent:      domain.Round2(t.GainPercent),
		})
	}

	csvBody, err := gocsv.MarshalString(&rows)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to marshal csv: %w", err), c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_trades.csv", requestBody.Ticker))
	c.Data(200, "text/csv", []byte(csvBody))
}
