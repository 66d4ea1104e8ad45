package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/forecast"
	"github.com/finlytics/ledger-analytics-service/internal/repository"
)

// historyDays is the trailing window of daily net flow fed to the chart
// and to the local scenario generator.
const historyDays = 90

// ForecastService produces the merged cash-flow projection chart.
type ForecastService interface {
	GetCashFlowProjection(ctx context.Context, months int) (*domain.CashFlowProjection, error)
}

// ForecastServiceImpl implements ForecastService
type ForecastServiceImpl struct {
	transactions repository.TransactionRepository
	generator    forecast.Generator
	log          zerolog.Logger
	now          func() time.Time
}

// NewForecastService creates a new ForecastService
func NewForecastService(transactions repository.TransactionRepository, generator forecast.Generator, log zerolog.Logger) *ForecastServiceImpl {
	return &ForecastServiceImpl{
		transactions: transactions,
		generator:    generator,
		log:          log,
		now:          time.Now,
	}
}

// GetCashFlowProjection merges the trailing 90 days of actual net flow
// with three generated percentile scenarios over the requested horizon.
func (s *ForecastServiceImpl) GetCashFlowProjection(ctx context.Context, months int) (*domain.CashFlowProjection, error) {
	if months < 1 || months > 12 {
		return nil, fmt.Errorf("%w: horizon must be between 1 and 12 months, got %d", domain.ErrInvalidParameter, months)
	}

	now := s.now()
	start := now.AddDate(0, 0, -historyDays)

	history, err := s.transactions.GetDailyNetFlow(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily net flow: %w", err)
	}
	history = forecast.FillGaps(history)

	balance, err := s.transactions.GetCurrentBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current balance: %w", err)
	}

	scenarios, err := s.generator.GenerateScenarios(ctx, history, months)
	if err != nil {
		return nil, fmt.Errorf("scenario generation failed: %w", err)
	}

	series := forecast.MergeScenarioSeries(forecast.MergeInput{
		History:        history,
		CurrentBalance: balance,
		Scenarios:      scenarios,
		Now:            now,
	})

	projection := &domain.CashFlowProjection{
		Series:         series,
		CurrentBalance: balance,
		Summaries: []domain.ScenarioSummary{
			forecast.Summarize(domain.ScenarioPessimistic, scenarios.Pessimistic, balance),
			forecast.Summarize(domain.ScenarioBase, scenarios.Base, balance),
			forecast.Summarize(domain.ScenarioOptimistic, scenarios.Optimistic, balance),
		},
	}

	s.log.Debug().
		Int("months", months).
		Int("historyDays", len(history)).
		Int("points", len(series)).
		Msg("cash flow projection built")

	return projection, nil
}
