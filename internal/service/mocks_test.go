package service

import (
	"context"
	"time"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/repository"
)

// fakeTransactionRepo is a hand-rolled TransactionRepository double.
// Unset funcs return zero values so tests only wire what they assert on.
type fakeTransactionRepo struct {
	listTransactions         func(ctx context.Context, filter domain.TransactionFilter) (*domain.PaginatedTransactions, error)
	getTransactionsInWindow  func(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)
	getCategoryMonthlyTotals func(ctx context.Context, start, end time.Time) ([]domain.CategorySample, error)
	getCategorySpend         func(ctx context.Context, categoryID string, start, end time.Time) (float64, error)
	getSpendByCategory       func(ctx context.Context, start, end time.Time) (map[string]float64, error)
	getDailyNetFlow          func(ctx context.Context, start, end time.Time) ([]domain.DailyNetFlow, error)
	getCurrentBalance        func(ctx context.Context) (float64, error)
	getSpendingTrends        func(ctx context.Context, period string, startDate, endDate *time.Time) (*domain.SpendingTrends, error)
}

func (f *fakeTransactionRepo) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.PaginatedTransactions, error) {
	if f.listTransactions == nil {
		return &domain.PaginatedTransactions{}, nil
	}
	return f.listTransactions(ctx, filter)
}

func (f *fakeTransactionRepo) GetTransactionsInWindow(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	if f.getTransactionsInWindow == nil {
		return nil, nil
	}
	return f.getTransactionsInWindow(ctx, start, end)
}

func (f *fakeTransactionRepo) GetCategoryMonthlyTotals(ctx context.Context, start, end time.Time) ([]domain.CategorySample, error) {
	if f.getCategoryMonthlyTotals == nil {
		return nil, nil
	}
	return f.getCategoryMonthlyTotals(ctx, start, end)
}

func (f *fakeTransactionRepo) GetCategorySpend(ctx context.Context, categoryID string, start, end time.Time) (float64, error) {
	if f.getCategorySpend == nil {
		return 0, nil
	}
	return f.getCategorySpend(ctx, categoryID, start, end)
}

func (f *fakeTransactionRepo) GetSpendByCategory(ctx context.Context, start, end time.Time) (map[string]float64, error) {
	if f.getSpendByCategory == nil {
		return map[string]float64{}, nil
	}
	return f.getSpendByCategory(ctx, start, end)
}

func (f *fakeTransactionRepo) GetDailyNetFlow(ctx context.Context, start, end time.Time) ([]domain.DailyNetFlow, error) {
	if f.getDailyNetFlow == nil {
		return nil, nil
	}
	return f.getDailyNetFlow(ctx, start, end)
}

func (f *fakeTransactionRepo) GetCurrentBalance(ctx context.Context) (float64, error) {
	if f.getCurrentBalance == nil {
		return 0, nil
	}
	return f.getCurrentBalance(ctx)
}

func (f *fakeTransactionRepo) GetSpendingTrends(ctx context.Context, period string, startDate, endDate *time.Time) (*domain.SpendingTrends, error) {
	if f.getSpendingTrends == nil {
		return &domain.SpendingTrends{}, nil
	}
	return f.getSpendingTrends(ctx, period, startDate, endDate)
}

// fakeBudgetRepo is an in-memory BudgetRepository double that records
// all writes so tests can assert on ordering and row provenance.
type fakeBudgetRepo struct {
	suggestions map[string]*domain.BudgetSuggestion
	budgets     map[string]*domain.CategoryBudget
	snapshots   []domain.TrajectorySnapshot
	upserted    []string
	activated   []string

	upsertErr   error
	snapshotErr error
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{
		suggestions: make(map[string]*domain.BudgetSuggestion),
		budgets:     make(map[string]*domain.CategoryBudget),
	}
}

func (f *fakeBudgetRepo) UpsertSuggestion(_ context.Context, suggestion *domain.BudgetSuggestion) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	// Upsert key is (category, period type): replace in place.
	for id, existing := range f.suggestions {
		if existing.CategoryID == suggestion.CategoryID && existing.PeriodType == suggestion.PeriodType {
			suggestion.ID = id
			break
		}
	}
	clone := *suggestion
	f.suggestions[suggestion.ID] = &clone
	f.upserted = append(f.upserted, suggestion.CategoryID)
	return nil
}

func (f *fakeBudgetRepo) ListSuggestions(_ context.Context, filter repository.SuggestionFilter) ([]domain.BudgetSuggestion, error) {
	var out []domain.BudgetSuggestion
	for _, s := range f.suggestions {
		if s.PeriodType != filter.PeriodType || s.Confidence < filter.MinConfidence {
			continue
		}
		if filter.ExcludeActive && f.hasActiveBudget(s.CategoryID, s.PeriodType) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeBudgetRepo) GetSuggestionByID(_ context.Context, suggestionID string) (*domain.BudgetSuggestion, error) {
	s, ok := f.suggestions[suggestionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeBudgetRepo) MarkSuggestionActive(_ context.Context, suggestionID string, activatedAt time.Time) error {
	s, ok := f.suggestions[suggestionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.IsActive = true
	s.ActivatedAt = &activatedAt
	f.activated = append(f.activated, suggestionID)
	return nil
}

func (f *fakeBudgetRepo) GetBudgetByID(_ context.Context, budgetID string) (*domain.CategoryBudget, error) {
	b, ok := f.budgets[budgetID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBudgetRepo) GetActiveBudget(_ context.Context, categoryID string, periodType domain.PeriodType) (*domain.CategoryBudget, error) {
	for _, b := range f.budgets {
		if b.CategoryID == categoryID && b.PeriodType == periodType && b.IsActive {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBudgetRepo) ListActiveBudgets(_ context.Context, periodType domain.PeriodType) ([]domain.CategoryBudget, error) {
	var out []domain.CategoryBudget
	for _, b := range f.budgets {
		if b.PeriodType == periodType && b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBudgetRepo) CountActiveBudgets(_ context.Context, periodType domain.PeriodType) (int, error) {
	budgets, _ := f.ListActiveBudgets(context.Background(), periodType)
	return len(budgets), nil
}

func (f *fakeBudgetRepo) InsertBudget(_ context.Context, budget *domain.CategoryBudget) error {
	clone := *budget
	f.budgets[budget.ID] = &clone
	return nil
}

func (f *fakeBudgetRepo) UpdateBudgetLimit(_ context.Context, budgetID string, limit float64, suggestionID string) error {
	b, ok := f.budgets[budgetID]
	if !ok {
		return domain.ErrNotFound
	}
	b.LimitAmount = limit
	b.IsAutoSuggested = true
	b.SuggestionID = suggestionID
	return nil
}

func (f *fakeBudgetRepo) InsertSnapshot(_ context.Context, snapshot *domain.TrajectorySnapshot) error {
	if f.snapshotErr != nil {
		return f.snapshotErr
	}
	f.snapshots = append(f.snapshots, *snapshot)
	return nil
}

func (f *fakeBudgetRepo) hasActiveBudget(categoryID string, periodType domain.PeriodType) bool {
	_, err := f.GetActiveBudget(context.Background(), categoryID, periodType)
	return err == nil
}
