package repository

import (
	"context"
	"time"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

// SuggestionFilter narrows suggestion listings.
type SuggestionFilter struct {
	PeriodType    domain.PeriodType
	MinConfidence float64
	ExcludeActive bool
}

// BudgetRepository is the persistence surface for the suggestion
// lifecycle: suggestions are upserted by (category, period type), budgets
// keep at most one active row per key, and trajectory snapshots are
// append-only.
type BudgetRepository interface {
	// Suggestions
	UpsertSuggestion(ctx context.Context, suggestion *domain.BudgetSuggestion) error
	ListSuggestions(ctx context.Context, filter SuggestionFilter) ([]domain.BudgetSuggestion, error)
	GetSuggestionByID(ctx context.Context, suggestionID string) (*domain.BudgetSuggestion, error)
	MarkSuggestionActive(ctx context.Context, suggestionID string, activatedAt time.Time) error

	// Budgets
	GetBudgetByID(ctx context.Context, budgetID string) (*domain.CategoryBudget, error)
	GetActiveBudget(ctx context.Context, categoryID string, periodType domain.PeriodType) (*domain.CategoryBudget, error)
	ListActiveBudgets(ctx context.Context, periodType domain.PeriodType) ([]domain.CategoryBudget, error)
	CountActiveBudgets(ctx context.Context, periodType domain.PeriodType) (int, error)
	InsertBudget(ctx context.Context, budget *domain.CategoryBudget) error
	UpdateBudgetLimit(ctx context.Context, budgetID string, limit float64, suggestionID string) error

	// Trajectory snapshots
	InsertSnapshot(ctx context.Context, snapshot *domain.TrajectorySnapshot) error
}
