package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func flows(pairs ...interface{}) []domain.DailyNetFlow {
	var out []domain.DailyNetFlow
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, domain.DailyNetFlow{
			Date:    day(pairs[i].(string)),
			NetFlow: pairs[i+1].(float64),
		})
	}
	return out
}

func forecastDays(income, expenses float64, dates ...string) []domain.ForecastDay {
	var out []domain.ForecastDay
	for _, d := range dates {
		out = append(out, domain.ForecastDay{Date: day(d), Income: income, Expenses: expenses})
	}
	return out
}

func TestMergeAnchorsLastHistoricalPointToBalance(t *testing.T) {
	in := MergeInput{
		History:        flows("2024-05-01", 100.0, "2024-05-02", -30.0, "2024-05-03", 50.0),
		CurrentBalance: 1050,
	}

	series := MergeScenarioSeries(in)
	require.Len(t, series, 3)

	// Start = 1050 - 120 = 930, then +100, -30, +50.
	require.NotNil(t, series[0].HistoricalCumulative)
	assert.InDelta(t, 1030.0, *series[0].HistoricalCumulative, 1e-9)
	assert.InDelta(t, 1000.0, *series[1].HistoricalCumulative, 1e-9)
	assert.InDelta(t, 1050.0, *series[2].HistoricalCumulative, 1e-9)
}

func TestMergeSingleDayAnchor(t *testing.T) {
	in := MergeInput{
		History:        flows("2024-05-03", 50.0),
		CurrentBalance: 1050,
	}

	series := MergeScenarioSeries(in)
	require.Len(t, series, 1)
	assert.InDelta(t, 1050.0, *series[0].HistoricalCumulative, 1e-9)
}

func TestMergeBridgePointSharedByAllScenarios(t *testing.T) {
	in := MergeInput{
		History:        flows("2024-05-01", 0.0, "2024-05-02", 100.0),
		CurrentBalance: 500,
		Scenarios: ScenarioSet{
			Pessimistic: forecastDays(10, 40, "2024-05-03", "2024-05-04"),
			Base:        forecastDays(20, 20, "2024-05-03", "2024-05-04"),
			Optimistic:  forecastDays(40, 10, "2024-05-03", "2024-05-04"),
		},
	}

	series := MergeScenarioSeries(in)
	require.Len(t, series, 4)

	bridge := series[1]
	assert.Equal(t, day("2024-05-02"), bridge.Date)
	assert.InDelta(t, 500.0, *bridge.HistoricalCumulative, 1e-9)
	assert.InDelta(t, 500.0, *bridge.P10Cumulative, 1e-9)
	assert.InDelta(t, 500.0, *bridge.P50Cumulative, 1e-9)
	assert.InDelta(t, 500.0, *bridge.P90Cumulative, 1e-9)

	// Curves diverge from the shared start.
	next := series[2]
	assert.Nil(t, next.HistoricalCumulative)
	assert.InDelta(t, 470.0, *next.P10Cumulative, 1e-9)
	assert.InDelta(t, 500.0, *next.P50Cumulative, 1e-9)
	assert.InDelta(t, 530.0, *next.P90Cumulative, 1e-9)

	last := series[3]
	assert.InDelta(t, 440.0, *last.P10Cumulative, 1e-9)
	assert.InDelta(t, 500.0, *last.P50Cumulative, 1e-9)
	assert.InDelta(t, 560.0, *last.P90Cumulative, 1e-9)
}

func TestMergeMisalignedScenarioDates(t *testing.T) {
	in := MergeInput{
		History:        flows("2024-05-01", 0.0),
		CurrentBalance: 100,
		Scenarios: ScenarioSet{
			Pessimistic: forecastDays(0, 10, "2024-05-02", "2024-05-04"),
			Base:        forecastDays(0, 5, "2024-05-02", "2024-05-03", "2024-05-04"),
			Optimistic:  forecastDays(5, 0, "2024-05-03"),
		},
	}

	series := MergeScenarioSeries(in)
	require.Len(t, series, 4) // bridge + 3 forecast dates

	byDate := map[string]domain.ChartPoint{}
	for _, p := range series {
		byDate[p.Date.Format("2006-01-02")] = p
	}

	p2 := byDate["2024-05-02"]
	require.NotNil(t, p2.P10Cumulative)
	require.NotNil(t, p2.P50Cumulative)
	assert.Nil(t, p2.P90Cumulative)

	p3 := byDate["2024-05-03"]
	assert.Nil(t, p3.P10Cumulative)
	require.NotNil(t, p3.P90Cumulative)
	assert.InDelta(t, 105.0, *p3.P90Cumulative, 1e-9)

	// Sorted ascending by date.
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Date.Before(series[i].Date))
	}
}

func TestMergeEmptyHistorySynthesizesBridge(t *testing.T) {
	now := day("2024-06-15")
	in := MergeInput{
		CurrentBalance: 2500,
		Now:            now,
		Scenarios: ScenarioSet{
			Base: forecastDays(100, 50, "2024-06-16"),
		},
	}

	series := MergeScenarioSeries(in)
	require.Len(t, series, 2)

	bridge := series[0]
	assert.Equal(t, now, bridge.Date)
	assert.InDelta(t, 2500.0, *bridge.HistoricalCumulative, 1e-9)
	assert.InDelta(t, 2500.0, *bridge.P50Cumulative, 1e-9)

	assert.InDelta(t, 2550.0, *series[1].P50Cumulative, 1e-9)
}

func TestMergeBaseCarriesDailyFlows(t *testing.T) {
	in := MergeInput{
		History:        flows("2024-05-01", 0.0),
		CurrentBalance: 0,
		Scenarios: ScenarioSet{
			Base: forecastDays(100, 40, "2024-05-02"),
		},
	}

	series := MergeScenarioSeries(in)
	require.Len(t, series, 2)
	require.NotNil(t, series[1].Income)
	assert.InDelta(t, 100.0, *series[1].Income, 1e-9)
	assert.InDelta(t, 40.0, *series[1].Expenses, 1e-9)
	assert.Nil(t, series[0].Income)
}

func TestFillGaps(t *testing.T) {
	sparse := flows("2024-05-01", 10.0, "2024-05-04", -5.0)
	dense := FillGaps(sparse)

	require.Len(t, dense, 4)
	assert.Equal(t, 10.0, dense[0].NetFlow)
	assert.Equal(t, 0.0, dense[1].NetFlow)
	assert.Equal(t, 0.0, dense[2].NetFlow)
	assert.Equal(t, -5.0, dense[3].NetFlow)
}

func TestFillGapsEmpty(t *testing.T) {
	assert.Nil(t, FillGaps(nil))
}

func TestSummarize(t *testing.T) {
	days := []domain.ForecastDay{
		{Date: day("2024-05-02"), Income: 100, Expenses: 30},
		{Date: day("2024-05-03"), Income: 0, Expenses: 70},
	}

	s := Summarize(domain.ScenarioBase, days, 1000)
	assert.Equal(t, domain.ScenarioBase, s.Name)
	assert.InDelta(t, 100.0, s.TotalIncome, 1e-9)
	assert.InDelta(t, 100.0, s.TotalExpenses, 1e-9)
	assert.InDelta(t, 0.0, s.NetCashFlow, 1e-9)
	assert.InDelta(t, 1000.0, s.EndBalance, 1e-9)
}

func TestStatisticalGeneratorDeterministic(t *testing.T) {
	history := FillGaps(flows("2024-05-01", 200.0, "2024-05-30", -100.0))
	gen := NewStatisticalGenerator()

	a, err := gen.GenerateScenarios(t.Context(), history, 2)
	require.NoError(t, err)
	b, err := gen.GenerateScenarios(t.Context(), history, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	require.NotEmpty(t, a.Base)
	assert.Equal(t, day("2024-05-31"), a.Base[0].Date)
	assert.Equal(t, len(a.Base), len(a.Pessimistic))
	assert.Equal(t, len(a.Base), len(a.Optimistic))

	// Pessimistic never out-earns the base branch.
	for i := range a.Base {
		assert.LessOrEqual(t, a.Pessimistic[i].Income-a.Pessimistic[i].Expenses, a.Base[i].Income-a.Base[i].Expenses)
	}
}
