package domain

import "time"

// PeriodType is the budgeting cadence. Only monthly is supported today.
type PeriodType string

const PeriodMonthly PeriodType = "monthly"

// SuggestionCalculation is the persisted metadata explaining how a
// suggested limit was derived.
type SuggestionCalculation struct {
	Mean              float64 `json:"mean"`
	StdDev            float64 `json:"stdDev"`
	VariabilityBuffer float64 `json:"variabilityBuffer"`
	WindowMonths      int     `json:"windowMonths"`
}

// BudgetSuggestion is one statistically-scored limit proposal per
// (category, period type). Upserted, never duplicated.
type BudgetSuggestion struct {
	ID              string                `json:"id"`
	CategoryID      string                `json:"categoryId"`
	CategoryName    string                `json:"categoryName"`
	PeriodType      PeriodType            `json:"periodType"`
	SuggestedLimit  float64               `json:"suggestedLimit"`
	Confidence      float64               `json:"confidence"`
	Variability     float64               `json:"variability"` // coefficient of variation
	SampleMonths    int                   `json:"sampleMonths"`
	MonthlyAmounts  []float64             `json:"monthlyAmounts"`
	Calculation     SuggestionCalculation `json:"calculation"`
	IsActive        bool                  `json:"isActive"`
	ActivatedAt     *time.Time            `json:"activatedAt,omitempty"`
	HasActiveBudget bool                  `json:"hasActiveBudget"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// CategoryBudget is a live spending limit. At most one active row per
// (category, period type).
type CategoryBudget struct {
	ID              string     `json:"id"`
	CategoryID      string     `json:"categoryId"`
	CategoryName    string     `json:"categoryName"`
	PeriodType      PeriodType `json:"periodType"`
	LimitAmount     float64    `json:"limitAmount"`
	IsActive        bool       `json:"isActive"`
	IsAutoSuggested bool       `json:"isAutoSuggested"`
	SuggestionID    string     `json:"suggestionId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// RiskTier grades projected overrun, escalating from none to critical.
type RiskTier string

const (
	RiskNone     RiskTier = "none"
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)

// TrajectorySnapshot is an append-only point-in-time projection of a
// budget's pace through the current calendar month.
type TrajectorySnapshot struct {
	ID              string            `json:"id"`
	BudgetID        string            `json:"budgetId"`
	PeriodStart     time.Time         `json:"periodStart"`
	PeriodEnd       time.Time         `json:"periodEnd"`
	LimitAmount     float64           `json:"limitAmount"`
	SpentToDate     float64           `json:"spentToDate"`
	Remaining       float64           `json:"remaining"`
	PercentUsed     float64           `json:"percentUsed"`
	DaysInPeriod    int               `json:"daysInPeriod"`
	DaysPassed      int               `json:"daysPassed"`
	DaysRemaining   int               `json:"daysRemaining"`
	DailyAverage    float64           `json:"dailyAverage"`
	RecommendedPace float64           `json:"recommendedPace"`
	ProjectedTotal  float64           `json:"projectedTotal"`
	IsOnTrack       bool              `json:"isOnTrack"`
	Risk            RiskTier          `json:"risk"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// BudgetHealthStatus classifies one budget inside the health summary.
type BudgetHealthStatus string

const (
	HealthOnTrack  BudgetHealthStatus = "on_track"
	HealthWarning  BudgetHealthStatus = "warning"
	HealthExceeded BudgetHealthStatus = "exceeded"
)

// BudgetHealthEntry is one budget's projection inside the summary.
type BudgetHealthEntry struct {
	BudgetID       string             `json:"budgetId"`
	CategoryID     string             `json:"categoryId"`
	CategoryName   string             `json:"categoryName"`
	LimitAmount    float64            `json:"limitAmount"`
	SpentToDate    float64            `json:"spentToDate"`
	PercentUsed    float64            `json:"percentUsed"`
	ProjectedTotal float64            `json:"projectedTotal"`
	Status         BudgetHealthStatus `json:"status"`
}

// BudgetHealthSummary rolls all active monthly budgets up into one report.
type BudgetHealthSummary struct {
	Budgets       []BudgetHealthEntry `json:"budgets"`
	OverallStatus string              `json:"overallStatus"` // good, warning, critical
	OnTrackCount  int                 `json:"onTrackCount"`
	WarningCount  int                 `json:"warningCount"`
	ExceededCount int                 `json:"exceededCount"`
	TotalBudget   float64             `json:"totalBudget"`
	TotalSpent    float64             `json:"totalSpent"`
}
