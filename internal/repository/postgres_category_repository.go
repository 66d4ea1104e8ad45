package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

// PostgresCategoryRepository implements CategoryRepository using PostgreSQL
type PostgresCategoryRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCategoryRepository creates a new PostgreSQL category repository
func NewPostgresCategoryRepository(db *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{
		db: db,
	}
}

// ListExpenseCategories returns all active expense categories with parent
// names resolved
func (r *PostgresCategoryRepository) ListExpenseCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, COALESCE(c.parent_id::text, ''), COALESCE(p.name, ''), COALESCE(c.icon, ''), c.is_expense
		FROM categories c
		LEFT JOIN categories p ON c.parent_id = p.id
		WHERE c.is_expense AND NOT c.is_archived
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.ParentName, &c.Icon, &c.IsExpense); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetCategoryByID retrieves one category with its parent name resolved
func (r *PostgresCategoryRepository) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.name, COALESCE(c.parent_id::text, ''), COALESCE(p.name, ''), COALESCE(c.icon, ''), c.is_expense
		FROM categories c
		LEFT JOIN categories p ON c.parent_id = p.id
		WHERE c.id = $1
	`, categoryID).Scan(&c.ID, &c.Name, &c.ParentID, &c.ParentName, &c.Icon, &c.IsExpense)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}
