package repository

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

// countableStatuses limits analytics to settled or settling rows.
const countableStatuses = "('completed', 'pending')"

// PostgresTransactionRepository implements TransactionRepository using PostgreSQL
type PostgresTransactionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresTransactionRepository creates a new PostgreSQL transaction repository
func NewPostgresTransactionRepository(db *pgxpool.Pool) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{
		db: db,
	}
}

// ListTransactions retrieves ledger rows with optional filters and pagination
func (r *PostgresTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.PaginatedTransactions, error) {
	result := &domain.PaginatedTransactions{
		Data:       []domain.Transaction{},
		Pagination: domain.Pagination{},
	}

	// Set default pagination values if not provided
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	// Build query conditions
	conditions := []string{}
	args := []interface{}{}
	argCount := 1

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("t.date >= $%d", argCount))
		args = append(args, filter.StartDate)
		argCount++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("t.date <= $%d", argCount))
		args = append(args, filter.EndDate)
		argCount++
	}
	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("t.category_id = $%d", argCount))
		args = append(args, filter.CategoryID)
		argCount++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argCount))
		args = append(args, filter.Status)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total items
	var totalItems int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM transactions t %s`, whereClause)
	err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalItems)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	result.Pagination.TotalItems = totalItems
	result.Pagination.Limit = filter.Limit
	result.Pagination.CurrentPage = filter.Page
	result.Pagination.TotalPages = int(math.Ceil(float64(totalItems) / float64(filter.Limit)))

	if totalItems == 0 {
		return result, nil
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	query := fmt.Sprintf(`
		SELECT t.id, t.date, t.name, t.merchant, t.amount, t.status,
			COALESCE(t.category_id::text, ''), COALESCE(c.name, ''), COALESCE(p.name, ''), COALESCE(c.icon, '')
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		LEFT JOIN categories p ON c.parent_id = p.id
		%s
		ORDER BY t.date DESC, t.id
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.Date, &tx.Name, &tx.Merchant, &tx.Amount, &tx.Status,
			&tx.CategoryID, &tx.CategoryName, &tx.ParentCategory, &tx.CategoryIcon,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result.Data = append(result.Data, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return result, nil
}

// GetTransactionsInWindow returns countable rows in [start, end] with
// category names resolved
func (r *PostgresTransactionRepository) GetTransactionsInWindow(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT t.id, t.date, t.name, t.merchant, t.amount, t.status,
			COALESCE(t.category_id::text, ''), COALESCE(c.name, ''), COALESCE(p.name, ''), COALESCE(c.icon, '')
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		LEFT JOIN categories p ON c.parent_id = p.id
		WHERE t.date >= $1 AND t.date <= $2
			AND t.status IN %s
		ORDER BY t.date, t.id
	`, countableStatuses), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction window: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.Date, &tx.Name, &tx.Merchant, &tx.Amount, &tx.Status,
			&tx.CategoryID, &tx.CategoryName, &tx.ParentCategory, &tx.CategoryIcon,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction window: %w", err)
	}

	return transactions, nil
}

// GetCategoryMonthlyTotals returns per-category absolute outflow totals per
// calendar month in [start, end)
func (r *PostgresTransactionRepository) GetCategoryMonthlyTotals(ctx context.Context, start, end time.Time) ([]domain.CategorySample, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT t.category_id, COALESCE(c.name, 'Uncategorized'),
			TO_CHAR(t.date, 'YYYY-MM') as month,
			COALESCE(SUM(ABS(t.amount)), 0) as total
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.date >= $1 AND t.date < $2
			AND t.amount < 0
			AND t.status IN %s
			AND t.category_id IS NOT NULL
		GROUP BY t.category_id, c.name, month
		ORDER BY t.category_id, month
	`, countableStatuses), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer rows.Close()

	samples := []domain.CategorySample{}
	for rows.Next() {
		var s domain.CategorySample
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.Month, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}

	return samples, nil
}

// GetCategorySpend returns the absolute outflow for one category in [start, end]
func (r *PostgresTransactionRepository) GetCategorySpend(ctx context.Context, categoryID string, start, end time.Time) (float64, error) {
	var spend float64
	err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT COALESCE(SUM(ABS(amount)), 0)
		FROM transactions
		WHERE category_id = $1
			AND date >= $2 AND date <= $3
			AND amount < 0
			AND status IN %s
	`, countableStatuses), categoryID, start, end).Scan(&spend)
	if err != nil {
		return 0, fmt.Errorf("failed to get category spend: %w", err)
	}
	return spend, nil
}

// GetSpendByCategory returns absolute outflow per category id in one pass
func (r *PostgresTransactionRepository) GetSpendByCategory(ctx context.Context, start, end time.Time) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT category_id, COALESCE(SUM(ABS(amount)), 0)
		FROM transactions
		WHERE date >= $1 AND date <= $2
			AND amount < 0
			AND status IN %s
			AND category_id IS NOT NULL
		GROUP BY category_id
	`, countableStatuses), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query spend by category: %w", err)
	}
	defer rows.Close()

	spend := make(map[string]float64)
	for rows.Next() {
		var categoryID string
		var amount float64
		if err := rows.Scan(&categoryID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category spend: %w", err)
		}
		spend[categoryID] = amount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category spend: %w", err)
	}

	return spend, nil
}

// GetDailyNetFlow returns income minus expenses per day in [start, end]
func (r *PostgresTransactionRepository) GetDailyNetFlow(ctx context.Context, start, end time.Time) ([]domain.DailyNetFlow, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT DATE(date) as day, COALESCE(SUM(amount), 0) as net_flow
		FROM transactions
		WHERE date >= $1 AND date <= $2
			AND status IN %s
		GROUP BY day
		ORDER BY day
	`, countableStatuses), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily net flow: %w", err)
	}
	defer rows.Close()

	flows := []domain.DailyNetFlow{}
	for rows.Next() {
		var f domain.DailyNetFlow
		if err := rows.Scan(&f.Date, &f.NetFlow); err != nil {
			return nil, fmt.Errorf("failed to scan daily net flow: %w", err)
		}
		flows = append(flows, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily net flow: %w", err)
	}

	return flows, nil
}

// GetCurrentBalance returns the signed sum over all countable rows
func (r *PostgresTransactionRepository) GetCurrentBalance(ctx context.Context) (float64, error) {
	var balance float64
	err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE status IN %s
	`, countableStatuses)).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to get current balance: %w", err)
	}
	return balance, nil
}

// GetSpendingTrends retrieves outflow totals grouped by calendar period
func (r *PostgresTransactionRepository) GetSpendingTrends(ctx context.Context, period string, startDate, endDate *time.Time) (*domain.SpendingTrends, error) {
	if period == "" {
		period = "monthly"
	}

	validPeriods := map[string]bool{
		"daily":   true,
		"weekly":  true,
		"monthly": true,
		"yearly":  true,
	}
	if !validPeriods[period] {
		return nil, fmt.Errorf("%w: invalid period %q", domain.ErrInvalidParameter, period)
	}

	conditions := []string{fmt.Sprintf("amount < 0 AND status IN %s", countableStatuses)}
	args := []interface{}{}
	argCount := 1

	if startDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argCount))
		args = append(args, startDate)
		argCount++
	}
	if endDate != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argCount))
		args = append(args, endDate)
		argCount++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var dateGrouping string
	switch period {
	case "daily":
		dateGrouping = "TO_CHAR(date, 'YYYY-MM-DD')"
	case "weekly":
		dateGrouping = "TO_CHAR(date, 'IYYY-IW')"
	case "monthly":
		dateGrouping = "TO_CHAR(date, 'YYYY-MM')"
	case "yearly":
		dateGrouping = "TO_CHAR(date, 'YYYY')"
	}

	query := fmt.Sprintf(`
		SELECT
			%s as period_date,
			COALESCE(SUM(ABS(amount)), 0) as amount
		FROM transactions
		%s
		GROUP BY period_date
		ORDER BY period_date
	`, dateGrouping, whereClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spending trends: %w", err)
	}
	defer rows.Close()

	trends := &domain.SpendingTrends{
		Period: period,
		Data:   []domain.SpendingTrendPoint{},
	}

	for rows.Next() {
		var item domain.SpendingTrendPoint
		if err := rows.Scan(&item.Date, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan spending trend: %w", err)
		}
		trends.Data = append(trends.Data, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spending trends: %w", err)
	}

	return trends, nil
}
