package domain

import "time"

// ScenarioName identifies one of the three forecast percentile branches.
type ScenarioName string

const (
	ScenarioPessimistic ScenarioName = "pessimistic"
	ScenarioBase        ScenarioName = "base"
	ScenarioOptimistic  ScenarioName = "optimistic"
)

// ForecastDay is one generated day of a scenario series.
type ForecastDay struct {
	Date     time.Time `json:"date"`
	Income   float64   `json:"income"`
	Expenses float64   `json:"expenses"`
}

// ScenarioSeries is one percentile branch from the forecast generator.
type ScenarioSeries struct {
	Name ScenarioName  `json:"name"`
	Days []ForecastDay `json:"days"`
}

// ChartPoint is one date in the merged history+forecast chart series.
// Exactly one cumulative family is set per point, except at the bridge
// date where the three forecast families all equal the last historical
// cumulative value.
type ChartPoint struct {
	Date                 time.Time `json:"date"`
	Income               *float64  `json:"income,omitempty"`
	Expenses             *float64  `json:"expenses,omitempty"`
	HistoricalCumulative *float64  `json:"historicalCumulative,omitempty"`
	P10Cumulative        *float64  `json:"p10Cumulative,omitempty"`
	P50Cumulative        *float64  `json:"p50Cumulative,omitempty"`
	P90Cumulative        *float64  `json:"p90Cumulative,omitempty"`
}

// ScenarioSummary aggregates one branch over the forecast horizon.
type ScenarioSummary struct {
	Name          ScenarioName `json:"name"`
	TotalIncome   float64      `json:"totalIncome"`
	TotalExpenses float64      `json:"totalExpenses"`
	NetCashFlow   float64      `json:"netCashFlow"`
	EndBalance    float64      `json:"endBalance"`
}

// CashFlowProjection is the full chart payload: merged series plus the
// three named scenario summaries.
type CashFlowProjection struct {
	Series         []ChartPoint      `json:"series"`
	CurrentBalance float64           `json:"currentBalance"`
	Summaries      []ScenarioSummary `json:"summaries"`
}
