package repository

import (
	"context"
	"time"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

// TransactionRepository is the read surface over the ledger that the
// analytics engines consume.
type TransactionRepository interface {
	// ListTransactions retrieves ledger rows with filters and pagination
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.PaginatedTransactions, error)

	// GetTransactionsInWindow returns all countable rows (completed or
	// pending, not excluded) in [start, end], with category names resolved
	GetTransactionsInWindow(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)

	// GetCategoryMonthlyTotals returns per-category absolute outflow
	// totals per calendar month in [start, end)
	GetCategoryMonthlyTotals(ctx context.Context, start, end time.Time) ([]domain.CategorySample, error)

	// GetCategorySpend returns the absolute outflow for one category in
	// [start, end]
	GetCategorySpend(ctx context.Context, categoryID string, start, end time.Time) (float64, error)

	// GetSpendByCategory returns absolute outflow per category id in
	// [start, end], in one pass
	GetSpendByCategory(ctx context.Context, start, end time.Time) (map[string]float64, error)

	// GetDailyNetFlow returns income minus expenses per day in [start, end];
	// days without transactions are absent from the result
	GetDailyNetFlow(ctx context.Context, start, end time.Time) ([]domain.DailyNetFlow, error)

	// GetCurrentBalance returns the signed sum over all countable rows
	GetCurrentBalance(ctx context.Context) (float64, error)

	// GetSpendingTrends returns outflow totals grouped by calendar period
	GetSpendingTrends(ctx context.Context, period string, startDate, endDate *time.Time) (*domain.SpendingTrends, error)
}

// CategoryRepository resolves the category directory: leaf/parent
// relationships and localized display names.
type CategoryRepository interface {
	ListExpenseCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
}
