package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/stats"
)

const (
	// maxCategories caps the category report.
	maxCategories = 15

	// recurringCategoryCV is looser than the pattern-level bound: a
	// category is "recurring" when its spread stays under 30%.
	recurringCategoryCV = 0.30
)

type categoryGroup struct {
	name      string
	icon      string
	amounts   []float64
	recurring int
	months    map[string]struct{}
}

// AggregateCategories groups the same transaction window by resolved
// category name. The weekly average divides by the number of distinct
// ISO weeks spanned by the whole input set, not by the category's own
// activity; the monthly average divides by the category's own distinct
// month count. Output is sorted descending by monthly average and
// truncated to the top 15.
func AggregateCategories(transactions []domain.Transaction, patternKeys map[string]struct{}) []domain.CategoryAverage {
	groups := make(map[string]*categoryGroup)
	var order []string
	weeks := make(map[string]struct{})

	for _, tx := range transactions {
		if !tx.Countable() || !tx.IsExpense() {
			continue
		}

		year, week := tx.Date.ISOWeek()
		weeks[fmt.Sprintf("%d-W%02d", year, week)] = struct{}{}

		name := tx.ResolvedCategory()
		g, ok := groups[name]
		if !ok {
			g = &categoryGroup{
				name:   name,
				months: make(map[string]struct{}),
			}
			groups[name] = g
			order = append(order, name)
		}
		g.amounts = append(g.amounts, math.Abs(tx.Amount))
		g.months[tx.Date.Format("2006-01")] = struct{}{}
		if g.icon == "" {
			g.icon = tx.CategoryIcon
		}
		if _, ok := patternKeys[tx.NormalizedName()]; ok {
			g.recurring++
		}
	}

	weekCount := len(weeks)
	averages := make([]domain.CategoryAverage, 0, len(order))
	for _, name := range order {
		g := groups[name]
		total := 0.0
		for _, a := range g.amounts {
			total += a
		}

		avg := domain.CategoryAverage{
			CategoryName:     g.name,
			Icon:             g.icon,
			TotalAmount:      total,
			AverageAmount:    total / float64(len(g.amounts)),
			TransactionCount: len(g.amounts),
			WeekCount:        weekCount,
			MonthCount:       len(g.months),
		}
		if weekCount > 0 {
			avg.WeeklyAverage = total / float64(weekCount)
		}
		if len(g.months) > 0 {
			avg.MonthlyAverage = total / float64(len(g.months))
		}
		avg.RecurringShare = float64(g.recurring) / float64(len(g.amounts)) * 100

		if cv, err := stats.PopulationCV(g.amounts); err == nil {
			avg.IsRecurring = cv < recurringCategoryCV && len(g.months) >= 2
		}

		averages = append(averages, avg)
	}

	sort.SliceStable(averages, func(i, j int) bool {
		if averages[i].MonthlyAverage != averages[j].MonthlyAverage {
			return averages[i].MonthlyAverage > averages[j].MonthlyAverage
		}
		return averages[i].CategoryName < averages[j].CategoryName
	})

	if len(averages) > maxCategories {
		averages = averages[:maxCategories]
	}
	return averages
}
