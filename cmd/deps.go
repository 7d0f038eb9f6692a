package cmd

import (
	"fmt"
	"log"
	"os"

	"trendrotate/api"
	"trendrotate/internal/logger"
	"trendrotate/internal/repository"
	"trendrotate/internal/service"
)

const defaultDbPath = "data/prices.db"

func InitializeDependencies() (*api.ApiHandler, error) {
	sugar := logger.New()

	dbPath := os.Getenv("TRENDROTATE_DB")
	if dbPath == "" {
		dbPath = defaultDbPath
	}
	db, err := repository.NewDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open price cache: %w", err)
	}

	adjPriceRepository := repository.NewAdjustedPriceRepository(db)
	priceService := service.NewPriceService(
		service.NewYahooQuoteProvider(),
		adjPriceRepository,
		sugar,
	)

	return &api.ApiHandler{
		Db:           db,
		PriceService: priceService,
		Log:          sugar,
	}, nil
}

func CloseDependencies(handler *api.ApiHandler) {
	if err := handler.Db.Close(); err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}
