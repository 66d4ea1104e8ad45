package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

func testBudget(limit float64) domain.CategoryBudget {
	return domain.CategoryBudget{
		ID:          "b1",
		CategoryID:  "c1",
		PeriodType:  domain.PeriodMonthly,
		LimitAmount: limit,
		IsActive:    true,
	}
}

func TestComputeTrajectoryOverspendProjection(t *testing.T) {
	// Day 20 of a 30-day month, 900 of 1000 spent. Not yet over the
	// limit, but the projected total (900/20)*30 = 1350 exceeds 1100.
	now := time.Date(2024, time.April, 20, 12, 0, 0, 0, time.UTC)
	snap := ComputeTrajectory(testBudget(1000), 900, now)

	assert.Equal(t, 30, snap.DaysInPeriod)
	assert.Equal(t, 20, snap.DaysPassed)
	assert.Equal(t, 10, snap.DaysRemaining)
	assert.InDelta(t, 90.0, snap.PercentUsed, 1e-9)
	assert.InDelta(t, 45.0, snap.DailyAverage, 1e-9)
	assert.InDelta(t, 1350.0, snap.ProjectedTotal, 1e-9)
	assert.InDelta(t, 100.0, snap.Remaining, 1e-9)
	assert.InDelta(t, 10.0, snap.RecommendedPace, 1e-9)
	assert.False(t, snap.IsOnTrack)
	assert.Equal(t, domain.RiskHigh, snap.Risk)
}

func TestComputeTrajectoryRiskTiers(t *testing.T) {
	now := time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		limit float64
		spent float64
		want  domain.RiskTier
	}{
		{"spent over limit", 1000, 1100, domain.RiskCritical},
		{"projected far over", 1000, 900, domain.RiskHigh},
		// spent 700 -> projected 1050, over limit but under 1.1x.
		{"projected slightly over", 1000, 700, domain.RiskMedium},
		// 82.5% used on day 20 still projects past 1.1x the limit.
		{"mostly used mid-month", 4000, 3300, domain.RiskHigh},
		{"comfortable", 1000, 200, domain.RiskNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := ComputeTrajectory(testBudget(tt.limit), tt.spent, now)
			assert.Equal(t, tt.want, snap.Risk)
		})
	}
}

func TestComputeTrajectoryLowRisk(t *testing.T) {
	// Last day of the month, 85% used: projection equals spend, under
	// the limit, but usage is past 80%.
	now := time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)
	snap := ComputeTrajectory(testBudget(1000), 850, now)

	assert.InDelta(t, 850.0, snap.ProjectedTotal, 1e-9)
	assert.True(t, snap.IsOnTrack)
	assert.Equal(t, domain.RiskLow, snap.Risk)
}

func TestComputeTrajectoryFirstOfMonth(t *testing.T) {
	now := time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC)
	snap := ComputeTrajectory(testBudget(500), 0, now)

	assert.Equal(t, 29, snap.DaysInPeriod) // leap February
	assert.Equal(t, 1, snap.DaysPassed)
	assert.Equal(t, 0.0, snap.DailyAverage)
	assert.Equal(t, 0.0, snap.ProjectedTotal)
	assert.Equal(t, domain.RiskNone, snap.Risk)
}

func TestComputeTrajectoryLastDayNoPace(t *testing.T) {
	now := time.Date(2024, time.April, 30, 23, 0, 0, 0, time.UTC)
	snap := ComputeTrajectory(testBudget(1000), 400, now)

	assert.Equal(t, 0, snap.DaysRemaining)
	assert.Equal(t, 0.0, snap.RecommendedPace)
}

func TestComputeTrajectoryNegativeRemaining(t *testing.T) {
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	snap := ComputeTrajectory(testBudget(300), 450, now)

	assert.InDelta(t, -150.0, snap.Remaining, 1e-9)
	assert.Equal(t, domain.RiskCritical, snap.Risk)
	assert.False(t, snap.IsOnTrack)
}

func TestClassifyHealth(t *testing.T) {
	tests := []struct {
		name string
		snap domain.TrajectorySnapshot
		want domain.BudgetHealthStatus
	}{
		{"exceeded", domain.TrajectorySnapshot{LimitAmount: 100, SpentToDate: 100}, domain.HealthExceeded},
		{"projected over", domain.TrajectorySnapshot{LimitAmount: 100, SpentToDate: 50, ProjectedTotal: 120, PercentUsed: 50}, domain.HealthWarning},
		{"mostly used", domain.TrajectorySnapshot{LimitAmount: 100, SpentToDate: 80, ProjectedTotal: 90, PercentUsed: 80}, domain.HealthWarning},
		{"on track", domain.TrajectorySnapshot{LimitAmount: 100, SpentToDate: 30, ProjectedTotal: 60, PercentUsed: 30}, domain.HealthOnTrack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyHealth(tt.snap))
		})
	}
}

func TestOverallStatus(t *testing.T) {
	ok := domain.BudgetHealthEntry{Status: domain.HealthOnTrack}
	warn := domain.BudgetHealthEntry{Status: domain.HealthWarning}
	over := domain.BudgetHealthEntry{Status: domain.HealthExceeded}

	assert.Equal(t, "good", OverallStatus(nil))
	assert.Equal(t, "good", OverallStatus([]domain.BudgetHealthEntry{ok, ok}))
	assert.Equal(t, "warning", OverallStatus([]domain.BudgetHealthEntry{ok, warn}))
	assert.Equal(t, "critical", OverallStatus([]domain.BudgetHealthEntry{warn, over, ok}))
}
