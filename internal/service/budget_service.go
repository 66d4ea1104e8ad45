package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finlytics/ledger-analytics-service/internal/budget"
	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/repository"
	"github.com/finlytics/ledger-analytics-service/internal/stats"
)

// variabilityBuffer is the headroom added on top of the historical mean
// when suggesting a limit.
const variabilityBuffer = 1.10

// BaselineConfig controls the auto-provisioning of starter budgets.
type BaselineConfig struct {
	Months        int
	MinConfidence float64
	MaxCandidates int
}

// SuggestionWindow bounds the trailing analysis window callers may
// request when generating suggestions.
type SuggestionWindow struct {
	MinMonths int
	MaxMonths int
}

// BudgetService drives the suggestion lifecycle
// (no-suggestion -> suggested -> activated) and budget trajectory
// projections.
type BudgetService interface {
	GenerateSuggestions(ctx context.Context, months int, periodType domain.PeriodType) ([]domain.BudgetSuggestion, error)
	ListSuggestions(ctx context.Context, minConfidence float64, periodType domain.PeriodType, excludeActive bool) ([]domain.BudgetSuggestion, error)
	ActivateSuggestion(ctx context.Context, suggestionID string) (*domain.CategoryBudget, error)
	EnsureBaseline(ctx context.Context, cfg BaselineConfig, periodType domain.PeriodType)
	GetTrajectoryByBudgetID(ctx context.Context, budgetID string) (*domain.TrajectorySnapshot, error)
	GetTrajectoryByCategory(ctx context.Context, categoryID string, periodType domain.PeriodType) (*domain.TrajectorySnapshot, error)
	GetBudgetHealth(ctx context.Context) (*domain.BudgetHealthSummary, error)
}

// BudgetServiceImpl implements BudgetService
type BudgetServiceImpl struct {
	budgets      repository.BudgetRepository
	transactions repository.TransactionRepository
	window       SuggestionWindow
	baseline     BaselineConfig
	log          zerolog.Logger
	now          func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgets repository.BudgetRepository, transactions repository.TransactionRepository, window SuggestionWindow, baseline BaselineConfig, log zerolog.Logger) *BudgetServiceImpl {
	if window.MinMonths <= 0 {
		window.MinMonths = 3
	}
	if window.MaxMonths < window.MinMonths {
		window.MaxMonths = 12
	}
	return &BudgetServiceImpl{
		budgets:      budgets,
		transactions: transactions,
		window:       window,
		baseline:     baseline,
		log:          log,
		now:          time.Now,
	}
}

// GenerateSuggestions scores every expense category with at least two
// months of history over the trailing window and upserts one suggestion
// per (category, period type). Categories whose dispersion cannot be
// scored are skipped, not failed.
func (s *BudgetServiceImpl) GenerateSuggestions(ctx context.Context, months int, periodType domain.PeriodType) ([]domain.BudgetSuggestion, error) {
	if months < s.window.MinMonths || months > s.window.MaxMonths {
		return nil, fmt.Errorf("%w: window must be between %d and %d months, got %d",
			domain.ErrInvalidParameter, s.window.MinMonths, s.window.MaxMonths, months)
	}
	if periodType == "" {
		periodType = domain.PeriodMonthly
	}

	// The window covers full calendar months only: the in-progress month
	// would read as an artificially low sample and drag the mean down.
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := monthStart.AddDate(0, -months, 0)

	samples, err := s.transactions.GetCategoryMonthlyTotals(ctx, start, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly totals: %w", err)
	}

	type categoryHistory struct {
		name    string
		amounts []float64
	}
	histories := make(map[string]*categoryHistory)
	var order []string
	for _, sample := range samples {
		h, ok := histories[sample.CategoryID]
		if !ok {
			h = &categoryHistory{name: sample.CategoryName}
			histories[sample.CategoryID] = h
			order = append(order, sample.CategoryID)
		}
		h.amounts = append(h.amounts, sample.Total)
	}
	sort.Strings(order)

	suggestions := []domain.BudgetSuggestion{}
	for _, categoryID := range order {
		h := histories[categoryID]
		if len(h.amounts) < 2 {
			continue
		}

		cv, err := stats.PopulationCV(h.amounts)
		if err != nil {
			// Zero mean: nothing to suggest for this category.
			continue
		}

		mean := stats.Mean(h.amounts)
		limit := mean * variabilityBuffer
		if limit == 0 {
			continue
		}

		suggestion := domain.BudgetSuggestion{
			ID:             uuid.NewString(),
			CategoryID:     categoryID,
			CategoryName:   h.name,
			PeriodType:     periodType,
			SuggestedLimit: limit,
			Confidence:     stats.ConfidenceFromCV(cv),
			Variability:    cv,
			SampleMonths:   len(h.amounts),
			MonthlyAmounts: h.amounts,
			Calculation: domain.SuggestionCalculation{
				Mean:              mean,
				StdDev:            stats.PopulationStdDev(h.amounts),
				VariabilityBuffer: variabilityBuffer,
				WindowMonths:      months,
			},
		}

		if err := s.budgets.UpsertSuggestion(ctx, &suggestion); err != nil {
			return nil, fmt.Errorf("failed to save suggestion for category %s: %w", categoryID, err)
		}
		suggestions = append(suggestions, suggestion)
	}

	s.log.Info().
		Int("months", months).
		Int("categories", len(histories)).
		Int("suggestions", len(suggestions)).
		Msg("budget suggestions generated")

	return suggestions, nil
}

// ListSuggestions returns stored suggestions at or above the confidence
// threshold, optionally hiding categories that already have a live budget.
func (s *BudgetServiceImpl) ListSuggestions(ctx context.Context, minConfidence float64, periodType domain.PeriodType, excludeActive bool) ([]domain.BudgetSuggestion, error) {
	if minConfidence <= 0 {
		minConfidence = 0.5
	}
	if periodType == "" {
		periodType = domain.PeriodMonthly
	}
	return s.budgets.ListSuggestions(ctx, repository.SuggestionFilter{
		PeriodType:    periodType,
		MinConfidence: minConfidence,
		ExcludeActive: excludeActive,
	})
}

// ActivateSuggestion turns a suggestion into a live budget. When an active
// budget already exists for the category and period it is updated in
// place, so re-activating never duplicates rows. The budget row is written
// before the suggestion is stamped active.
func (s *BudgetServiceImpl) ActivateSuggestion(ctx context.Context, suggestionID string) (*domain.CategoryBudget, error) {
	suggestion, err := s.budgets.GetSuggestionByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.budgets.GetActiveBudget(ctx, suggestion.CategoryID, suggestion.PeriodType)
	switch {
	case err == nil:
		if err := s.budgets.UpdateBudgetLimit(ctx, existing.ID, suggestion.SuggestedLimit, suggestion.ID); err != nil {
			return nil, err
		}
		existing.LimitAmount = suggestion.SuggestedLimit
		existing.IsAutoSuggested = true
		existing.SuggestionID = suggestion.ID
	case errors.Is(err, domain.ErrNotFound):
		existing = &domain.CategoryBudget{
			ID:              uuid.NewString(),
			CategoryID:      suggestion.CategoryID,
			CategoryName:    suggestion.CategoryName,
			PeriodType:      suggestion.PeriodType,
			LimitAmount:     suggestion.SuggestedLimit,
			IsActive:        true,
			IsAutoSuggested: true,
			SuggestionID:    suggestion.ID,
		}
		if err := s.budgets.InsertBudget(ctx, existing); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.budgets.MarkSuggestionActive(ctx, suggestion.ID, s.now()); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("suggestion", suggestion.ID).
		Str("budget", existing.ID).
		Float64("limit", existing.LimitAmount).
		Msg("suggestion activated")

	return existing, nil
}

// EnsureBaseline auto-provisions starter budgets on a fresh install. It is
// a no-op as soon as any active budget exists for the period type, and all
// failures are logged rather than propagated: callers must still get their
// primary response.
func (s *BudgetServiceImpl) EnsureBaseline(ctx context.Context, cfg BaselineConfig, periodType domain.PeriodType) {
	if periodType == "" {
		periodType = domain.PeriodMonthly
	}

	count, err := s.budgets.CountActiveBudgets(ctx, periodType)
	if err != nil {
		s.log.Warn().Err(err).Msg("baseline: failed to count active budgets")
		return
	}
	if count > 0 {
		return
	}

	if _, err := s.GenerateSuggestions(ctx, cfg.Months, periodType); err != nil {
		s.log.Warn().Err(err).Msg("baseline: suggestion generation failed")
		return
	}

	suggestions, err := s.ListSuggestions(ctx, cfg.MinConfidence, periodType, true)
	if err != nil {
		s.log.Warn().Err(err).Msg("baseline: failed to list suggestions")
		return
	}

	activated := 0
	for _, suggestion := range suggestions {
		if activated >= cfg.MaxCandidates {
			break
		}
		if suggestion.IsActive {
			continue
		}
		if _, err := s.ActivateSuggestion(ctx, suggestion.ID); err != nil {
			s.log.Warn().Err(err).Str("suggestion", suggestion.ID).Msg("baseline: activation failed")
			continue
		}
		activated++
	}

	if activated > 0 {
		s.log.Info().Int("budgets", activated).Msg("baseline budgets provisioned")
	}
}

// GetTrajectoryByBudgetID projects one budget through the end of the
// current month.
func (s *BudgetServiceImpl) GetTrajectoryByBudgetID(ctx context.Context, budgetID string) (*domain.TrajectorySnapshot, error) {
	b, err := s.budgets.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	return s.projectAndRecord(ctx, b)
}

// GetTrajectoryByCategory projects the active budget for a category and
// period type.
func (s *BudgetServiceImpl) GetTrajectoryByCategory(ctx context.Context, categoryID string, periodType domain.PeriodType) (*domain.TrajectorySnapshot, error) {
	if periodType == "" {
		periodType = domain.PeriodMonthly
	}
	b, err := s.budgets.GetActiveBudget(ctx, categoryID, periodType)
	if err != nil {
		return nil, err
	}
	return s.projectAndRecord(ctx, b)
}

func (s *BudgetServiceImpl) projectAndRecord(ctx context.Context, b *domain.CategoryBudget) (*domain.TrajectorySnapshot, error) {
	now := s.now()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	spent, err := s.transactions.GetCategorySpend(ctx, b.CategoryID, periodStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load category spend: %w", err)
	}

	snapshot := budget.ComputeTrajectory(*b, spent, now)
	snapshot.ID = uuid.NewString()
	snapshot.Metadata = map[string]string{
		"categoryName": b.CategoryName,
		"periodType":   string(b.PeriodType),
	}

	// Audit trail: every projection call appends a snapshot. A failed
	// write must not block the response itself.
	if err := s.budgets.InsertSnapshot(ctx, &snapshot); err != nil {
		s.log.Warn().Err(err).Str("budget", b.ID).Msg("failed to record trajectory snapshot")
	}

	return &snapshot, nil
}

// GetBudgetHealth projects all active monthly budgets in one pass and
// rolls them up. Baseline provisioning runs first, best-effort, so a
// fresh install has something to evaluate.
func (s *BudgetServiceImpl) GetBudgetHealth(ctx context.Context) (*domain.BudgetHealthSummary, error) {
	s.EnsureBaseline(ctx, s.baseline, domain.PeriodMonthly)

	budgets, err := s.budgets.ListActiveBudgets(ctx, domain.PeriodMonthly)
	if err != nil {
		return nil, fmt.Errorf("failed to list active budgets: %w", err)
	}

	now := s.now()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	spendByCategory, err := s.transactions.GetSpendByCategory(ctx, periodStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load period spend: %w", err)
	}

	summary := &domain.BudgetHealthSummary{
		Budgets: []domain.BudgetHealthEntry{},
	}

	for _, b := range budgets {
		snapshot := budget.ComputeTrajectory(b, spendByCategory[b.CategoryID], now)
		entry := domain.BudgetHealthEntry{
			BudgetID:       b.ID,
			CategoryID:     b.CategoryID,
			CategoryName:   b.CategoryName,
			LimitAmount:    b.LimitAmount,
			SpentToDate:    snapshot.SpentToDate,
			PercentUsed:    snapshot.PercentUsed,
			ProjectedTotal: snapshot.ProjectedTotal,
			Status:         budget.ClassifyHealth(snapshot),
		}
		summary.Budgets = append(summary.Budgets, entry)
		summary.TotalBudget += b.LimitAmount
		summary.TotalSpent += snapshot.SpentToDate

		switch entry.Status {
		case domain.HealthOnTrack:
			summary.OnTrackCount++
		case domain.HealthWarning:
			summary.WarningCount++
		case domain.HealthExceeded:
			summary.ExceededCount++
		}
	}

	summary.OverallStatus = budget.OverallStatus(summary.Budgets)

	return summary, nil
}
