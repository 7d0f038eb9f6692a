package api

import (
	"database/sql"
	"fmt"
	"time"

	"trendrotate/internal/logger"
	"trendrotate/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Db           *sql.DB
	PriceService service.PriceService
	Log          *zap.SugaredLogger
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to trendrotate"})
	})
	router.GET("/tickers", m.tickers)
	router.POST("/backtest", m.backtest)
	router.POST("/backtest/export", m.exportBacktest)
	router.POST("/benchmark", m.benchmark)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// logRequestMiddleware scopes the logger to the request and makes it
// retrievable downstream via logger.FromContext.
func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.New()
	log := m.Log.With("requestID", requestID)
	ctx.Set(logger.ContextKey, log)
	start := time.Now().UTC()

	ctx.Next()

	log.Infow("request",
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}
