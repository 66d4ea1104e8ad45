package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

func tx(name string, amount float64, date string) domain.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		ID:     fmt.Sprintf("%s-%s", name, date),
		Name:   name,
		Amount: amount,
		Date:   d,
		Status: domain.StatusCompleted,
	}
}

func TestDetectExcludesSingleMonthGroups(t *testing.T) {
	// Perfectly consistent amounts, but all charges land in one month.
	txs := []domain.Transaction{
		tx("Gym", -29.99, "2024-03-01"),
		tx("Gym", -29.99, "2024-03-15"),
		tx("Gym", -29.99, "2024-03-29"),
	}

	patterns := DetectRecurringPatterns(txs)
	assert.Empty(t, patterns)
}

func TestDetectFixedMonthlyPattern(t *testing.T) {
	txs := []domain.Transaction{
		tx("Netflix", -100, "2024-01-05"),
		tx("Netflix", -100, "2024-02-05"),
		tx("Netflix", -100, "2024-03-05"),
	}

	patterns := DetectRecurringPatterns(txs)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, "netflix", p.Key)
	assert.Equal(t, 100.0, p.AverageAmount)
	assert.Equal(t, 3, p.OccurrenceCount)
	assert.Equal(t, 3, p.MonthsObserved)
	assert.True(t, p.IsFixedAmount)
	assert.Equal(t, domain.FrequencyMonthly, p.Frequency)
}

func TestDetectNameNormalization(t *testing.T) {
	txs := []domain.Transaction{
		tx("  Spotify ", -9.99, "2024-01-03"),
		tx("SPOTIFY", -9.99, "2024-02-03"),
	}

	patterns := DetectRecurringPatterns(txs)
	require.Len(t, patterns, 1)
	assert.Equal(t, "spotify", patterns[0].Key)
}

func TestDetectFallsBackToMerchant(t *testing.T) {
	txs := []domain.Transaction{
		{ID: "1", Merchant: "Acme Corp", Amount: -50, Date: mustDate("2024-01-10"), Status: domain.StatusCompleted},
		{ID: "2", Merchant: "Acme Corp", Amount: -50, Date: mustDate("2024-02-10"), Status: domain.StatusCompleted},
	}

	patterns := DetectRecurringPatterns(txs)
	require.Len(t, patterns, 1)
	assert.Equal(t, "acme corp", patterns[0].Key)
	assert.Equal(t, "Acme Corp", patterns[0].DisplayName)
}

func TestDetectSkipsExcludedAndIncome(t *testing.T) {
	txs := []domain.Transaction{
		tx("Salary", 3000, "2024-01-25"),
		tx("Salary", 3000, "2024-02-25"),
		{ID: "x1", Name: "Refunded Sub", Amount: -15, Date: mustDate("2024-01-02"), Status: domain.StatusExcluded},
		{ID: "x2", Name: "Refunded Sub", Amount: -15, Date: mustDate("2024-02-02"), Status: domain.StatusExcluded},
	}

	assert.Empty(t, DetectRecurringPatterns(txs))
}

func TestDetectFrequencyClasses(t *testing.T) {
	var txs []domain.Transaction
	// Biweekly: 2 charges per month over 3 months.
	for _, d := range []string{"2024-01-01", "2024-01-15", "2024-02-01", "2024-02-15", "2024-03-01", "2024-03-15"} {
		txs = append(txs, tx("Cleaner", -80, d))
	}
	// Weekly: 4 charges per month over 2 months.
	for _, d := range []string{
		"2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23",
		"2024-02-06", "2024-02-13", "2024-02-20", "2024-02-27",
	} {
		txs = append(txs, tx("Groceries Run", -60, d))
	}
	// Variable: 3 charges in one month, 1 in the next.
	for _, d := range []string{"2024-01-03", "2024-01-12", "2024-01-28", "2024-02-20"} {
		txs = append(txs, tx("Coffee", -5, d))
	}

	patterns := DetectRecurringPatterns(txs)
	require.Len(t, patterns, 3)

	byKey := map[string]domain.RecurringPattern{}
	for _, p := range patterns {
		byKey[p.Key] = p
	}
	assert.Equal(t, domain.FrequencyBiweekly, byKey["cleaner"].Frequency)
	assert.Equal(t, domain.FrequencyWeekly, byKey["groceries run"].Frequency)
	assert.Equal(t, domain.FrequencyVariable, byKey["coffee"].Frequency)
}

func TestDetectOrderAndTruncation(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 25; i++ {
		name := fmt.Sprintf("Merchant %02d", i)
		amount := -float64(10 + i)
		txs = append(txs, tx(name, amount, "2024-01-10"), tx(name, amount, "2024-02-10"))
	}

	patterns := DetectRecurringPatterns(txs)
	require.Len(t, patterns, 20)

	// Descending by total contribution.
	for i := 1; i < len(patterns); i++ {
		assert.GreaterOrEqual(t, patterns[i-1].TotalContribution(), patterns[i].TotalContribution())
	}

	// Deterministic: a second run produces the identical slice.
	again := DetectRecurringPatterns(txs)
	assert.Equal(t, patterns, again)
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
