package api

import (
	"trendrotate/internal/service"

	"github.com/gin-gonic/gin"
)

type tickersResponse struct {
	Tickers []service.TickerInfo `json:"tickers"`
}

func (m ApiHandler) tickers(c *gin.Context) {
	c.JSON(200, tickersResponse{Tickers: service.AvailableTickers()})
}
