package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/finlytics/ledger-analytics-service/internal/analysis"
	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/repository"
)

// AnalyticsService defines the behavioral analytics surface: the raw
// ledger views plus the derived pattern report.
type AnalyticsService interface {
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.PaginatedTransactions, error)
	GetBehaviorReport(ctx context.Context, months int) (*domain.BehaviorReport, error)
	GetSpendingTrends(ctx context.Context, period string, startDate, endDate *time.Time) (*domain.SpendingTrends, error)
}

// AnalyticsServiceImpl implements AnalyticsService
type AnalyticsServiceImpl struct {
	transactions repository.TransactionRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(transactions repository.TransactionRepository, log zerolog.Logger) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		transactions: transactions,
		log:          log,
		now:          time.Now,
	}
}

// ListTransactions proxies the paginated ledger read
func (s *AnalyticsServiceImpl) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.PaginatedTransactions, error) {
	return s.transactions.ListTransactions(ctx, filter)
}

// GetBehaviorReport builds the programmed-vs-impulse report over a rolling
// window of whole months ending now.
func (s *AnalyticsServiceImpl) GetBehaviorReport(ctx context.Context, months int) (*domain.BehaviorReport, error) {
	if months < 1 || months > 12 {
		return nil, fmt.Errorf("%w: months must be between 1 and 12, got %d", domain.ErrInvalidParameter, months)
	}

	end := s.now()
	start := end.AddDate(0, -months, 0)

	transactions, err := s.transactions.GetTransactionsInWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction window: %w", err)
	}

	patterns := analysis.DetectRecurringPatterns(transactions)
	patternKeys := analysis.PatternKeys(patterns)
	averages := analysis.AggregateCategories(transactions, patternKeys)

	report := &domain.BehaviorReport{
		RecurringPatterns: patterns,
		CategoryAverages:  averages,
	}

	for _, tx := range transactions {
		if !tx.Countable() || !tx.IsExpense() {
			continue
		}
		if _, ok := patternKeys[tx.NormalizedName()]; ok {
			report.ProgrammedAmount += math.Abs(tx.Amount)
		} else {
			report.ImpulseAmount += math.Abs(tx.Amount)
		}
	}

	total := report.ProgrammedAmount + report.ImpulseAmount
	if total > 0 {
		report.ProgrammedPercent = report.ProgrammedAmount / total * 100
		report.ImpulsePercent = report.ImpulseAmount / total * 100
	}

	s.log.Debug().
		Int("months", months).
		Int("transactions", len(transactions)).
		Int("patterns", len(patterns)).
		Msg("behavior report built")

	return report, nil
}

// GetSpendingTrends proxies the grouped outflow series
func (s *AnalyticsServiceImpl) GetSpendingTrends(ctx context.Context, period string, startDate, endDate *time.Time) (*domain.SpendingTrends, error) {
	return s.transactions.GetSpendingTrends(ctx, period, startDate, endDate)
}
