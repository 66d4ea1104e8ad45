// Package forecast merges historical cash flow with generated percentile
// scenarios into a single chart-ready series. The daily scenario generator
// itself is a collaborator behind the Generator interface.
package forecast

import (
	"sort"
	"time"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

// ScenarioSet is the three percentile branches returned by a Generator.
type ScenarioSet struct {
	Pessimistic []domain.ForecastDay
	Base        []domain.ForecastDay
	Optimistic  []domain.ForecastDay
}

// MergeInput carries everything the merger needs. History must be a
// chronological daily net-flow series with gap days already zero-filled.
type MergeInput struct {
	History        []domain.DailyNetFlow
	CurrentBalance float64
	Scenarios      ScenarioSet
	Now            time.Time
}

const dayKeyLayout = "2006-01-02"

// MergeScenarioSeries anchors the historical cumulative series so its last
// point equals the current balance, starts all three forecast curves from
// that shared bridge value, and merges everything into one series sorted
// by date. With no history at all, a single bridge point dated Now is
// synthesized from the current balance alone.
func MergeScenarioSeries(in MergeInput) []domain.ChartPoint {
	points := make(map[string]*domain.ChartPoint)
	var keys []string

	at := func(date time.Time) *domain.ChartPoint {
		key := date.Format(dayKeyLayout)
		if p, ok := points[key]; ok {
			return p
		}
		p := &domain.ChartPoint{Date: date}
		points[key] = p
		keys = append(keys, key)
		return p
	}

	var bridgeDate time.Time
	var bridgeValue float64

	if len(in.History) == 0 {
		bridgeDate = in.Now
		bridgeValue = in.CurrentBalance
		p := at(bridgeDate)
		p.HistoricalCumulative = f64(bridgeValue)
	} else {
		// Work the anchor backward: the series must end exactly at the
		// known current balance, so it starts at balance minus the
		// window's total net flow.
		var totalNet float64
		for _, day := range in.History {
			totalNet += day.NetFlow
		}
		running := in.CurrentBalance - totalNet
		for _, day := range in.History {
			running += day.NetFlow
			p := at(day.Date)
			p.HistoricalCumulative = f64(running)
		}
		bridgeDate = in.History[len(in.History)-1].Date
		bridgeValue = running
	}

	// All three forecast curves share the bridge point.
	bridge := at(bridgeDate)
	bridge.P10Cumulative = f64(bridgeValue)
	bridge.P50Cumulative = f64(bridgeValue)
	bridge.P90Cumulative = f64(bridgeValue)

	mergeScenario(at, in.Scenarios.Pessimistic, bridgeValue, func(p *domain.ChartPoint, v float64) {
		p.P10Cumulative = f64(v)
	}, false)
	mergeScenario(at, in.Scenarios.Base, bridgeValue, func(p *domain.ChartPoint, v float64) {
		p.P50Cumulative = f64(v)
	}, true)
	mergeScenario(at, in.Scenarios.Optimistic, bridgeValue, func(p *domain.ChartPoint, v float64) {
		p.P90Cumulative = f64(v)
	}, false)

	sort.Strings(keys)
	series := make([]domain.ChartPoint, 0, len(keys))
	for _, key := range keys {
		series = append(series, *points[key])
	}
	return series
}

// mergeScenario accumulates one branch's daily net flow forward from the
// bridge value, matching rows by date. Only the base branch contributes
// the per-day income/expenses columns so shared rows stay unambiguous.
func mergeScenario(at func(time.Time) *domain.ChartPoint, days []domain.ForecastDay, start float64, set func(*domain.ChartPoint, float64), carryFlows bool) {
	running := start
	for _, day := range days {
		running += day.Income - day.Expenses
		p := at(day.Date)
		set(p, running)
		if carryFlows {
			p.Income = f64(day.Income)
			p.Expenses = f64(day.Expenses)
		}
	}
}

// Summarize aggregates one branch over the horizon.
func Summarize(name domain.ScenarioName, days []domain.ForecastDay, startBalance float64) domain.ScenarioSummary {
	s := domain.ScenarioSummary{Name: name}
	for _, day := range days {
		s.TotalIncome += day.Income
		s.TotalExpenses += day.Expenses
	}
	s.NetCashFlow = s.TotalIncome - s.TotalExpenses
	s.EndBalance = startBalance + s.NetCashFlow
	return s
}

// FillGaps expands a sparse daily series into a dense one between the
// first and last observed day, inserting zero-flow days for the gaps.
func FillGaps(days []domain.DailyNetFlow) []domain.DailyNetFlow {
	if len(days) == 0 {
		return nil
	}
	byDay := make(map[string]float64, len(days))
	for _, d := range days {
		byDay[d.Date.Format(dayKeyLayout)] += d.NetFlow
	}
	first := days[0].Date
	last := days[len(days)-1].Date

	var filled []domain.DailyNetFlow
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		filled = append(filled, domain.DailyNetFlow{
			Date:    d,
			NetFlow: byDay[d.Format(dayKeyLayout)],
		})
	}
	return filled
}

func f64(v float64) *float64 {
	return &v
}
