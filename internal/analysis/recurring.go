// Package analysis derives behavioral views (recurring charges, category
// averages) from a window of raw ledger transactions.
package analysis

import (
	"math"
	"sort"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/stats"
)

const (
	// maxPatterns caps the report at the heaviest contributors.
	maxPatterns = 20

	// fixedAmountCV is the dispersion bound below which a pattern's
	// amount is considered fixed.
	fixedAmountCV = 0.10
)

type merchantGroup struct {
	key         string
	displayName string
	amounts     []float64
	months      map[string]struct{}
}

// DetectRecurringPatterns groups expense transactions by normalized
// merchant name and flags groups seen in at least two distinct calendar
// months. Output is sorted descending by total contribution
// (average x occurrences) and truncated to the top 20. Given the same
// input the result is exactly reproducible.
func DetectRecurringPatterns(transactions []domain.Transaction) []domain.RecurringPattern {
	groups := make(map[string]*merchantGroup)
	var order []string

	for _, tx := range transactions {
		if !tx.Countable() || !tx.IsExpense() {
			continue
		}
		key := tx.NormalizedName()
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			name := tx.Name
			if name == "" {
				name = tx.Merchant
			}
			g = &merchantGroup{
				key:         key,
				displayName: name,
				months:      make(map[string]struct{}),
			}
			groups[key] = g
			order = append(order, key)
		}
		g.amounts = append(g.amounts, math.Abs(tx.Amount))
		g.months[tx.Date.Format("2006-01")] = struct{}{}
	}

	patterns := make([]domain.RecurringPattern, 0, len(order))
	for _, key := range order {
		g := groups[key]
		// Single-month spikes are never recurring.
		if len(g.months) < 2 {
			continue
		}
		cv, err := stats.SampleCV(g.amounts)
		if err != nil {
			continue
		}
		patterns = append(patterns, domain.RecurringPattern{
			Key:             g.key,
			DisplayName:     g.displayName,
			Amounts:         g.amounts,
			AverageAmount:   stats.Mean(g.amounts),
			OccurrenceCount: len(g.amounts),
			MonthsObserved:  len(g.months),
			Frequency:       classifyFrequency(len(g.amounts), len(g.months)),
			IsFixedAmount:   cv < fixedAmountCV,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		ci, cj := patterns[i].TotalContribution(), patterns[j].TotalContribution()
		if ci != cj {
			return ci > cj
		}
		return patterns[i].Key < patterns[j].Key
	})

	if len(patterns) > maxPatterns {
		patterns = patterns[:maxPatterns]
	}
	return patterns
}

// classifyFrequency buckets occurrences-per-observed-month into a
// frequency class.
func classifyFrequency(occurrences, months int) domain.FrequencyClass {
	if months == 0 {
		return domain.FrequencyVariable
	}
	perMonth := float64(occurrences) / float64(months)
	switch {
	case perMonth >= 0.8 && perMonth <= 1.2:
		return domain.FrequencyMonthly
	case perMonth >= 1.8 && perMonth <= 2.2:
		return domain.FrequencyBiweekly
	case perMonth >= 3.5 && perMonth <= 4.5:
		return domain.FrequencyWeekly
	default:
		return domain.FrequencyVariable
	}
}

// PatternKeys returns the set of normalized merchant keys, used by the
// category aggregator to count recurring transactions.
func PatternKeys(patterns []domain.RecurringPattern) map[string]struct{} {
	keys := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		keys[p.Key] = struct{}{}
	}
	return keys
}
