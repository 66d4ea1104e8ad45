package forecast

import (
	"context"
	"time"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/stats"
)

// Generator produces the three percentile scenario series for a requested
// horizon. Implementations may ignore the supplied history (a remote
// generator owns its own data).
type Generator interface {
	GenerateScenarios(ctx context.Context, history []domain.DailyNetFlow, horizonMonths int) (ScenarioSet, error)
}

// StatisticalGenerator is the local fallback used when no remote forecast
// service is configured. It projects flat percentile curves from the
// historical daily flow distribution. Deterministic: the same history
// always yields the same scenarios.
type StatisticalGenerator struct {
	// Spread widens the pessimistic/optimistic branches as a fraction
	// of the daily flow, scaled by the observed dispersion.
	Spread float64
}

// NewStatisticalGenerator returns a generator with the default spread.
func NewStatisticalGenerator() *StatisticalGenerator {
	return &StatisticalGenerator{Spread: 0.25}
}

// GenerateScenarios splits history into daily income and expense means and
// extends them over the horizon, starting the day after the last
// historical day.
func (g *StatisticalGenerator) GenerateScenarios(_ context.Context, history []domain.DailyNetFlow, horizonMonths int) (ScenarioSet, error) {
	var incomes, expenses []float64
	for _, day := range history {
		if day.NetFlow >= 0 {
			incomes = append(incomes, day.NetFlow)
			expenses = append(expenses, 0)
		} else {
			incomes = append(incomes, 0)
			expenses = append(expenses, -day.NetFlow)
		}
	}

	meanIncome := stats.Mean(incomes)
	meanExpense := stats.Mean(expenses)

	spread := g.Spread
	if cv, err := stats.PopulationCV(expenses); err == nil && cv < 1 {
		spread = g.Spread * cv
	}

	start := time.Now().AddDate(0, 0, 1)
	if len(history) > 0 {
		start = history[len(history)-1].Date.AddDate(0, 0, 1)
	}
	end := start.AddDate(0, horizonMonths, 0)

	var set ScenarioSet
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		set.Pessimistic = append(set.Pessimistic, domain.ForecastDay{
			Date:     d,
			Income:   meanIncome * (1 - spread),
			Expenses: meanExpense * (1 + spread),
		})
		set.Base = append(set.Base, domain.ForecastDay{
			Date:     d,
			Income:   meanIncome,
			Expenses: meanExpense,
		})
		set.Optimistic = append(set.Optimistic, domain.ForecastDay{
			Date:     d,
			Income:   meanIncome * (1 + spread),
			Expenses: meanExpense * (1 - spread),
		})
	}
	return set, nil
}
