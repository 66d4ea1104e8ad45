// Package budget holds the pure projection math behind budget trajectories
// and the health summary. Persistence and lookups live in the service layer.
package budget

import (
	"time"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

// ComputeTrajectory projects a budget's spend pace through the end of the
// current calendar month. spent is the absolute outflow in the budget's
// category from the first of the month through now.
func ComputeTrajectory(b domain.CategoryBudget, spent float64, now time.Time) domain.TrajectorySnapshot {
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	periodEnd := periodStart.AddDate(0, 1, -1)
	daysInPeriod := periodEnd.Day()
	daysPassed := now.Day()
	daysRemaining := daysInPeriod - daysPassed

	snapshot := domain.TrajectorySnapshot{
		BudgetID:      b.ID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		LimitAmount:   b.LimitAmount,
		SpentToDate:   spent,
		Remaining:     b.LimitAmount - spent,
		DaysInPeriod:  daysInPeriod,
		DaysPassed:    daysPassed,
		DaysRemaining: daysRemaining,
	}

	if b.LimitAmount > 0 {
		snapshot.PercentUsed = spent / b.LimitAmount * 100
	}
	if daysPassed > 0 {
		snapshot.DailyAverage = spent / float64(daysPassed)
	}
	snapshot.ProjectedTotal = snapshot.DailyAverage * float64(daysInPeriod)
	if daysRemaining > 0 {
		snapshot.RecommendedPace = snapshot.Remaining / float64(daysRemaining)
	}

	snapshot.IsOnTrack = snapshot.ProjectedTotal <= b.LimitAmount
	snapshot.Risk = classifyRisk(spent, b.LimitAmount, snapshot.ProjectedTotal, snapshot.PercentUsed)

	return snapshot
}

// classifyRisk grades overrun risk. The tiers are evaluated in priority
// order: an actual overspend always wins over a projected one.
func classifyRisk(spent, limit, projected, percentUsed float64) domain.RiskTier {
	switch {
	case spent > limit:
		return domain.RiskCritical
	case projected > limit*1.1:
		return domain.RiskHigh
	case projected > limit:
		return domain.RiskMedium
	case percentUsed > 80:
		return domain.RiskLow
	default:
		return domain.RiskNone
	}
}

// ClassifyHealth buckets one budget for the health summary: exceeded when
// spend has already met the limit, warning when the projection runs over
// or 80% of the limit is gone, on_track otherwise.
func ClassifyHealth(snapshot domain.TrajectorySnapshot) domain.BudgetHealthStatus {
	switch {
	case snapshot.SpentToDate >= snapshot.LimitAmount:
		return domain.HealthExceeded
	case snapshot.ProjectedTotal > snapshot.LimitAmount || snapshot.PercentUsed >= 80:
		return domain.HealthWarning
	default:
		return domain.HealthOnTrack
	}
}

// OverallStatus rolls individual budget classifications up: critical if
// any budget is exceeded, warning if any is in warning, else good.
func OverallStatus(entries []domain.BudgetHealthEntry) string {
	status := "good"
	for _, e := range entries {
		switch e.Status {
		case domain.HealthExceeded:
			return "critical"
		case domain.HealthWarning:
			status = "warning"
		}
	}
	return status
}
