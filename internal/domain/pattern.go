package domain

// FrequencyClass buckets how often a recurring charge lands.
type FrequencyClass string

const (
	FrequencyWeekly   FrequencyClass = "weekly"
	FrequencyBiweekly FrequencyClass = "biweekly"
	FrequencyMonthly  FrequencyClass = "monthly"
	FrequencyVariable FrequencyClass = "variable"
)

// RecurringPattern is a merchant-name group that appears in at least two
// distinct months. Built fresh per analysis window, never mutated.
type RecurringPattern struct {
	Key             string         `json:"key"`
	DisplayName     string         `json:"displayName"`
	Amounts         []float64      `json:"amounts"`
	AverageAmount   float64        `json:"averageAmount"`
	OccurrenceCount int            `json:"occurrenceCount"`
	MonthsObserved  int            `json:"monthsObserved"`
	Frequency       FrequencyClass `json:"frequency"`
	IsFixedAmount   bool           `json:"isFixedAmount"`
}

// TotalContribution is the sort weight for pattern ranking.
func (p RecurringPattern) TotalContribution() float64 {
	return p.AverageAmount * float64(p.OccurrenceCount)
}

// CategoryAverage is the per-category view over one analysis window.
type CategoryAverage struct {
	CategoryName     string  `json:"categoryName"`
	Icon             string  `json:"icon,omitempty"`
	TotalAmount      float64 `json:"totalAmount"`
	AverageAmount    float64 `json:"averageAmount"`
	WeeklyAverage    float64 `json:"weeklyAverage"`
	MonthlyAverage   float64 `json:"monthlyAverage"`
	TransactionCount int     `json:"transactionCount"`
	WeekCount        int     `json:"weekCount"`
	MonthCount       int     `json:"monthCount"`
	RecurringShare   float64 `json:"recurringShare"` // percent of transactions matching a recurring pattern
	IsRecurring      bool    `json:"isRecurring"`
}

// BehaviorReport splits a transaction window into programmed (recurring)
// and impulse spend, with the backing pattern and category breakdowns.
type BehaviorReport struct {
	ProgrammedAmount  float64            `json:"programmedAmount"`
	ImpulseAmount     float64            `json:"impulseAmount"`
	ProgrammedPercent float64            `json:"programmedPercent"`
	ImpulsePercent    float64            `json:"impulsePercent"`
	RecurringPatterns []RecurringPattern `json:"recurringPatterns"`
	CategoryAverages  []CategoryAverage  `json:"categoryAverages"`
}
