package api

import (
	"fmt"
	"time"

	"trendrotate/internal/app"
	"trendrotate/internal/calculator"

	"github.com/gin-gonic/gin"
)

type benchmarkRequest struct {
	Symbol              string  `json:"symbol"`
	Start               string  `json:"start"`
	End                 string  `json:"end"`
	InitialCapital      float64 `json:"initialCapital"`
	MonthlyContribution float64 `json:"monthlyContribution"`
}

type benchmarkResponse struct {
	Symbol string                   `json:"symbol"`
	Points []benchmarkPointResponse `json:"points"`
}

func (m ApiHandler) benchmark(c *gin.Context) {
	var requestBody benchmarkRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	start, err := time.Parse("2006-01-02", requestBody.Start)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid start date: %w", err), c, 400)
		return
	}
	end, err := time.Parse("2006-01-02", requestBody.End)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid end date: %w", err), c, 400)
		return
	}

	initialCapital := requestBody.InitialCapital
	if initialCapital == 0 {
		initialCapital = 10000
	}

	prices, err := m.PriceService.ListPrices(requestBody.Symbol, start, end)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	points, err := calculator.BuyAndHold(calculator.BenchmarkInput{
		Prices:               prices,
		InitialCapital:       initialCapital,
		MonthlyContribution:  requestBody.MonthlyContribution,
		ContributionDayFloor: app.DefaultContributionDayFloor,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, benchmarkResponse{
		Symbol: requestBody.Symbol,
		Points: toBenchmarkResponse(points),
	})
}
