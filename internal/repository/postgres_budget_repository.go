package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

// PostgresBudgetRepository implements BudgetRepository using PostgreSQL
type PostgresBudgetRepository struct {
	db *pgxpool.Pool
}

// NewPostgresBudgetRepository creates a new PostgreSQL budget repository
func NewPostgresBudgetRepository(db *pgxpool.Pool) *PostgresBudgetRepository {
	return &PostgresBudgetRepository{
		db: db,
	}
}

// UpsertSuggestion inserts or updates the one suggestion row per
// (category, period type)
func (r *PostgresBudgetRepository) UpsertSuggestion(ctx context.Context, s *domain.BudgetSuggestion) error {
	historicalData, err := json.Marshal(s.MonthlyAmounts)
	if err != nil {
		return fmt.Errorf("failed to marshal historical data: %w", err)
	}
	calculation, err := json.Marshal(s.Calculation)
	if err != nil {
		return fmt.Errorf("failed to marshal calculation metadata: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO budget_suggestions (
			id, category_id, period_type, suggested_limit, confidence,
			variability, sample_months, historical_data, calculation_metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (category_id, period_type) DO UPDATE SET
			suggested_limit = EXCLUDED.suggested_limit,
			confidence = EXCLUDED.confidence,
			variability = EXCLUDED.variability,
			sample_months = EXCLUDED.sample_months,
			historical_data = EXCLUDED.historical_data,
			calculation_metadata = EXCLUDED.calculation_metadata,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, s.ID, s.CategoryID, s.PeriodType, s.SuggestedLimit, s.Confidence,
		s.Variability, s.SampleMonths, historicalData, calculation,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert suggestion: %w", err)
	}

	return nil
}

const suggestionColumns = `
	s.id, s.category_id, COALESCE(c.name, ''), s.period_type, s.suggested_limit,
	s.confidence, s.variability, s.sample_months, s.historical_data,
	s.calculation_metadata, s.is_active, s.activated_at,
	(b.id IS NOT NULL) as has_active_budget, s.created_at, s.updated_at`

const suggestionJoins = `
	FROM budget_suggestions s
	LEFT JOIN categories c ON s.category_id = c.id
	LEFT JOIN category_budgets b
		ON b.category_id = s.category_id
		AND b.period_type = s.period_type
		AND b.is_active`

// ListSuggestions returns suggestions at or above a confidence threshold,
// ordered by confidence then suggested limit, both descending
func (r *PostgresBudgetRepository) ListSuggestions(ctx context.Context, filter SuggestionFilter) ([]domain.BudgetSuggestion, error) {
	conditions := []string{"s.period_type = $1", "s.confidence >= $2"}
	args := []interface{}{filter.PeriodType, filter.MinConfidence}

	if filter.ExcludeActive {
		conditions = append(conditions, "b.id IS NULL")
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY s.confidence DESC, s.suggested_limit DESC
	`, suggestionColumns, suggestionJoins, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []domain.BudgetSuggestion{}
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}

	return suggestions, nil
}

// GetSuggestionByID retrieves one suggestion by its id
func (r *PostgresBudgetRepository) GetSuggestionByID(ctx context.Context, suggestionID string) (*domain.BudgetSuggestion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE s.id = $1
	`, suggestionColumns, suggestionJoins)

	rows, err := r.db.Query(ctx, query, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestion: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get suggestion: %w", err)
		}
		return nil, fmt.Errorf("suggestion %s: %w", suggestionID, domain.ErrNotFound)
	}

	return scanSuggestion(rows)
}

func scanSuggestion(rows pgx.Rows) (*domain.BudgetSuggestion, error) {
	var s domain.BudgetSuggestion
	var historicalData, calculation []byte
	if err := rows.Scan(
		&s.ID, &s.CategoryID, &s.CategoryName, &s.PeriodType, &s.SuggestedLimit,
		&s.Confidence, &s.Variability, &s.SampleMonths, &historicalData,
		&calculation, &s.IsActive, &s.ActivatedAt,
		&s.HasActiveBudget, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan suggestion: %w", err)
	}

	if len(historicalData) > 0 {
		if err := json.Unmarshal(historicalData, &s.MonthlyAmounts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal historical data: %w", err)
		}
	}
	if len(calculation) > 0 {
		if err := json.Unmarshal(calculation, &s.Calculation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal calculation metadata: %w", err)
		}
	}

	return &s, nil
}

// MarkSuggestionActive stamps a suggestion as activated
func (r *PostgresBudgetRepository) MarkSuggestionActive(ctx context.Context, suggestionID string, activatedAt time.Time) error {
	commandTag, err := r.db.Exec(ctx, `
		UPDATE budget_suggestions
		SET is_active = true, activated_at = $2, updated_at = NOW()
		WHERE id = $1
	`, suggestionID, activatedAt)
	if err != nil {
		return fmt.Errorf("failed to mark suggestion active: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return fmt.Errorf("suggestion %s: %w", suggestionID, domain.ErrNotFound)
	}
	return nil
}

const budgetColumns = `
	b.id, b.category_id, COALESCE(c.name, ''), b.period_type, b.limit_amount,
	b.is_active, b.is_auto_suggested, COALESCE(b.suggestion_id::text, ''),
	b.created_at, b.updated_at`

// GetBudgetByID retrieves one budget by its id
func (r *PostgresBudgetRepository) GetBudgetByID(ctx context.Context, budgetID string) (*domain.CategoryBudget, error) {
	var b domain.CategoryBudget
	err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s
		FROM category_budgets b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.id = $1
	`, budgetColumns), budgetID).Scan(
		&b.ID, &b.CategoryID, &b.CategoryName, &b.PeriodType, &b.LimitAmount,
		&b.IsActive, &b.IsAutoSuggested, &b.SuggestionID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("budget %s: %w", budgetID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &b, nil
}

// GetActiveBudget retrieves the single active budget for a category and
// period type
func (r *PostgresBudgetRepository) GetActiveBudget(ctx context.Context, categoryID string, periodType domain.PeriodType) (*domain.CategoryBudget, error) {
	var b domain.CategoryBudget
	err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s
		FROM category_budgets b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.category_id = $1 AND b.period_type = $2 AND b.is_active
	`, budgetColumns), categoryID, periodType).Scan(
		&b.ID, &b.CategoryID, &b.CategoryName, &b.PeriodType, &b.LimitAmount,
		&b.IsActive, &b.IsAutoSuggested, &b.SuggestionID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("active budget for category %s: %w", categoryID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active budget: %w", err)
	}
	return &b, nil
}

// ListActiveBudgets returns all active budgets for a period type
func (r *PostgresBudgetRepository) ListActiveBudgets(ctx context.Context, periodType domain.PeriodType) ([]domain.CategoryBudget, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM category_budgets b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.period_type = $1 AND b.is_active
		ORDER BY b.limit_amount DESC
	`, budgetColumns), periodType)
	if err != nil {
		return nil, fmt.Errorf("failed to query active budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.CategoryBudget{}
	for rows.Next() {
		var b domain.CategoryBudget
		if err := rows.Scan(
			&b.ID, &b.CategoryID, &b.CategoryName, &b.PeriodType, &b.LimitAmount,
			&b.IsActive, &b.IsAutoSuggested, &b.SuggestionID, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// CountActiveBudgets counts active budgets for a period type
func (r *PostgresBudgetRepository) CountActiveBudgets(ctx context.Context, periodType domain.PeriodType) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM category_budgets
		WHERE period_type = $1 AND is_active
	`, periodType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active budgets: %w", err)
	}
	return count, nil
}

// InsertBudget saves a new budget row
func (r *PostgresBudgetRepository) InsertBudget(ctx context.Context, b *domain.CategoryBudget) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO category_budgets (
			id, category_id, period_type, limit_amount, is_active,
			is_auto_suggested, suggestion_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING created_at, updated_at
	`, b.ID, b.CategoryID, b.PeriodType, b.LimitAmount, b.IsActive,
		b.IsAutoSuggested, b.SuggestionID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// UpdateBudgetLimit updates an existing budget's limit in place and stamps
// the suggestion that produced the new value
func (r *PostgresBudgetRepository) UpdateBudgetLimit(ctx context.Context, budgetID string, limit float64, suggestionID string) error {
	commandTag, err := r.db.Exec(ctx, `
		UPDATE category_budgets
		SET limit_amount = $2, is_auto_suggested = true,
			suggestion_id = NULLIF($3, '')::uuid, updated_at = NOW()
		WHERE id = $1
	`, budgetID, limit, suggestionID)
	if err != nil {
		return fmt.Errorf("failed to update budget limit: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return fmt.Errorf("budget %s: %w", budgetID, domain.ErrNotFound)
	}
	return nil
}

// InsertSnapshot appends one trajectory snapshot. Snapshots are never
// updated.
func (r *PostgresBudgetRepository) InsertSnapshot(ctx context.Context, s *domain.TrajectorySnapshot) error {
	metadata, err := json.Marshal(s.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot metadata: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO budget_trajectory_snapshots (
			id, budget_id, period_start, period_end, limit_amount,
			spent_to_date, remaining, percent_used, days_in_period,
			days_passed, days_remaining, daily_average, recommended_pace,
			projected_total, is_on_track, risk, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at
	`, s.ID, s.BudgetID, s.PeriodStart, s.PeriodEnd, s.LimitAmount,
		s.SpentToDate, s.Remaining, s.PercentUsed, s.DaysInPeriod,
		s.DaysPassed, s.DaysRemaining, s.DailyAverage, s.RecommendedPace,
		s.ProjectedTotal, s.IsOnTrack, s.Risk, metadata,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trajectory snapshot: %w", err)
	}
	return nil
}
