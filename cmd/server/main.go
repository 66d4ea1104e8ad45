package main

import (
	"context"

	"github.com/finlytics/ledger-analytics-service/internal/cache"
	"github.com/finlytics/ledger-analytics-service/internal/config"
	"github.com/finlytics/ledger-analytics-service/internal/database"
	"github.com/finlytics/ledger-analytics-service/internal/forecast"
	"github.com/finlytics/ledger-analytics-service/internal/handler"
	"github.com/finlytics/ledger-analytics-service/internal/logger"
	"github.com/finlytics/ledger-analytics-service/internal/repository"
	"github.com/finlytics/ledger-analytics-service/internal/server"
	"github.com/finlytics/ledger-analytics-service/internal/service"
)

// @title Ledger Analytics Service API
// @version 1.0
// @description Spending behavior analytics, statistical budget suggestions, and cash-flow forecasting over a transaction ledger.
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	transactionRepo := repository.NewPostgresTransactionRepository(db.GetPool())
	categoryRepo := repository.NewPostgresCategoryRepository(db.GetPool())
	budgetRepo := repository.NewPostgresBudgetRepository(db.GetPool())
	cacheStore := cache.NewStore(db.GetPool(), cfg.CacheTTL, log)

	var generator forecast.Generator
	if cfg.ForecastAPIURL != "" {
		generator = forecast.NewClient(cfg.ForecastAPIURL)
	} else {
		generator = forecast.NewStatisticalGenerator()
	}

	analyticsService := service.NewAnalyticsService(transactionRepo, log)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, service.SuggestionWindow{
		MinMonths: cfg.SuggestionMinMonths,
		MaxMonths: cfg.SuggestionMaxMonths,
	}, service.BaselineConfig{
		Months:        cfg.AnalysisWindowMonths,
		MinConfidence: cfg.BaselineMinConfidence,
		MaxCandidates: cfg.BaselineMaxBudgets,
	}, log)
	forecastService := service.NewForecastService(transactionRepo, generator, log)

	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, categoryRepo, cacheStore)
	budgetHandler := handler.NewBudgetHandler(budgetService, cacheStore)
	forecastHandler := handler.NewForecastHandler(forecastService, cfg.ForecastMonths)

	appServer := server.NewServer(cfg, log)
	appServer.RegisterHandlers(analyticsHandler, budgetHandler, forecastHandler)

	if err := appServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
