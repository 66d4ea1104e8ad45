package domain

import (
	"strings"
	"time"
)

// TransactionStatus is the settlement state of a ledger transaction
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusExcluded  TransactionStatus = "excluded"
)

// Transaction represents a single dated ledger entry.
// Amounts are signed: expenses are negative, income is positive.
type Transaction struct {
	ID             string            `json:"id"`
	Date           time.Time         `json:"date"`
	Name           string            `json:"name"`
	Merchant       string            `json:"merchant,omitempty"`
	Amount         float64           `json:"amount"`
	Status         TransactionStatus `json:"status"`
	CategoryID     string            `json:"categoryId,omitempty"`
	CategoryName   string            `json:"categoryName,omitempty"`
	ParentCategory string            `json:"parentCategory,omitempty"`
	CategoryIcon   string            `json:"categoryIcon,omitempty"`
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Countable reports whether the transaction participates in analytics:
// only completed or pending rows are considered.
func (t Transaction) Countable() bool {
	return t.Status == StatusCompleted || t.Status == StatusPending
}

// NormalizedName returns the trimmed, case-folded grouping key for
// merchant-level pattern detection. Falls back to the merchant string
// when the display name is empty.
func (t Transaction) NormalizedName() string {
	name := t.Name
	if strings.TrimSpace(name) == "" {
		name = t.Merchant
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolvedCategory returns the category display name, falling back to the
// parent category and finally "Uncategorized".
func (t Transaction) ResolvedCategory() string {
	if t.CategoryName != "" {
		return t.CategoryName
	}
	if t.ParentCategory != "" {
		return t.ParentCategory
	}
	return "Uncategorized"
}

// TransactionFilter represents filters for querying the ledger
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID string
	Status     string
	Page       int
	Limit      int
}

// Pagination represents pagination metadata
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// PaginatedTransactions represents a paginated slice of the ledger
type PaginatedTransactions struct {
	Data       []Transaction `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// DailyNetFlow is one day of aggregated income minus expense.
type DailyNetFlow struct {
	Date    time.Time `json:"date"`
	NetFlow float64   `json:"netFlow"`
}

// CategorySample is one month of aggregated spend for one category.
type CategorySample struct {
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Month        string  `json:"month"` // YYYY-MM
	Total        float64 `json:"total"` // absolute outflow
}

// SpendingTrendPoint is one bucket of the spending trend series.
type SpendingTrendPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// SpendingTrends represents outflow totals grouped by calendar period.
type SpendingTrends struct {
	Period string               `json:"period"`
	Data   []SpendingTrendPoint `json:"data"`
}

// Category is a directory entry resolving leaf/parent relationships and
// the localized display name.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"parentId,omitempty"`
	ParentName string `json:"parentName,omitempty"`
	Icon       string `json:"icon,omitempty"`
	IsExpense  bool   `json:"isExpense"`
}
