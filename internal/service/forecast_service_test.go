package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/forecast"
)

// fakeGenerator returns a canned scenario set.
type fakeGenerator struct {
	set forecast.ScenarioSet
	err error
}

func (f *fakeGenerator) GenerateScenarios(_ context.Context, _ []domain.DailyNetFlow, _ int) (forecast.ScenarioSet, error) {
	return f.set, f.err
}

func forecastDay(date string, income, expenses float64) domain.ForecastDay {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.ForecastDay{Date: d, Income: income, Expenses: expenses}
}

func TestGetCashFlowProjectionHorizonValidation(t *testing.T) {
	svc := NewForecastService(&fakeTransactionRepo{}, &fakeGenerator{}, zerolog.Nop())

	_, err := svc.GetCashFlowProjection(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = svc.GetCashFlowProjection(context.Background(), 13)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestGetCashFlowProjectionMergesHistoryAndScenarios(t *testing.T) {
	history := []domain.DailyNetFlow{
		{Date: mustDay("2025-06-18"), NetFlow: 100},
		{Date: mustDay("2025-06-19"), NetFlow: -30},
	}
	transactions := &fakeTransactionRepo{
		getDailyNetFlow: func(_ context.Context, _, _ time.Time) ([]domain.DailyNetFlow, error) {
			return history, nil
		},
		getCurrentBalance: func(_ context.Context) (float64, error) {
			return 1000, nil
		},
	}
	generator := &fakeGenerator{
		set: forecast.ScenarioSet{
			Pessimistic: []domain.ForecastDay{forecastDay("2025-06-20", 0, 50)},
			Base:        []domain.ForecastDay{forecastDay("2025-06-20", 20, 40)},
			Optimistic:  []domain.ForecastDay{forecastDay("2025-06-20", 50, 20)},
		},
	}
	svc := NewForecastService(transactions, generator, zerolog.Nop())
	svc.now = fixedNow("2025-06-19")

	projection, err := svc.GetCashFlowProjection(context.Background(), 3)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, projection.CurrentBalance, 1e-9)
	// Two historical days plus one forecast day.
	require.Len(t, projection.Series, 3)

	last := projection.Series[len(projection.Series)-1]
	require.NotNil(t, last.P10Cumulative)
	require.NotNil(t, last.P50Cumulative)
	require.NotNil(t, last.P90Cumulative)
	assert.InDelta(t, 950.0, *last.P10Cumulative, 1e-9)
	assert.InDelta(t, 980.0, *last.P50Cumulative, 1e-9)
	assert.InDelta(t, 1030.0, *last.P90Cumulative, 1e-9)

	// The last historical point is anchored to the current balance.
	bridge := projection.Series[1]
	require.NotNil(t, bridge.HistoricalCumulative)
	assert.InDelta(t, 1000.0, *bridge.HistoricalCumulative, 1e-9)

	require.Len(t, projection.Summaries, 3)
	assert.Equal(t, domain.ScenarioPessimistic, projection.Summaries[0].Name)
	assert.InDelta(t, 950.0, projection.Summaries[0].EndBalance, 1e-9)
	assert.InDelta(t, 980.0, projection.Summaries[1].EndBalance, 1e-9)
	assert.InDelta(t, 1030.0, projection.Summaries[2].EndBalance, 1e-9)
}

func TestGetCashFlowProjectionGeneratorFailure(t *testing.T) {
	svc := NewForecastService(&fakeTransactionRepo{}, &fakeGenerator{err: assert.AnError}, zerolog.Nop())
	svc.now = fixedNow("2025-06-19")

	_, err := svc.GetCashFlowProjection(context.Background(), 3)
	assert.ErrorIs(t, err, assert.AnError)
}

func mustDay(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
