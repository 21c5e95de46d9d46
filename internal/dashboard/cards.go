package dashboard

import "validprop/internal/domain"

// ChangeType colors the change badge of a stat card.
type ChangeType string

const (
	ChangePositive ChangeType = "positive"
	ChangeNegative ChangeType = "negative"
	ChangeNeutral  ChangeType = "neutral"
)

// StatCard is the presentational model of one statistic.
type StatCard struct {
	Title       string
	Value       string
	Icon        string
	Change      string
	ChangeType  ChangeType
	Description string
}

// Cards derives the six stat cards from a stats snapshot, in display order.
// The change badges are static trend labels.
func Cards(s domain.DashboardStats) []StatCard {
	return []StatCard{
		{
			Title:       "Total Providers",
			Value:       FormatCount(s.TotalProviders),
			Icon:        "users",
			Change:      "+12.5%",
			ChangeType:  ChangePositive,
			Description: "Total providers in system",
		},
		{
			Title:       "Validated",
			Value:       FormatCount(s.Validated),
			Icon:        "check-circle",
			Change:      "+8.2%",
			ChangeType:  ChangePositive,
			Description: "Successfully validated",
		},
		{
			Title:       "Needs Review",
			Value:       FormatCount(s.NeedsReview),
			Icon:        "alert-triangle",
			Change:      "+3.1%",
			ChangeType:  ChangeNegative,
			Description: "Requires manual review",
		},
		{
			Title:       "Processing",
			Value:       FormatCount(s.Processing),
			Icon:        "clock",
			Change:      "+15.3%",
			ChangeType:  ChangeNeutral,
			Description: "Currently being processed",
		},
		{
			Title:       "Accuracy Rate",
			Value:       FormatPercent(s.AccuracyRate),
			Icon:        "trending-up",
			Change:      "+2.4%",
			ChangeType:  ChangePositive,
			Description: "Validation accuracy",
		},
		{
			Title:       "Avg Processing Time",
			Value:       FormatSeconds(s.AvgProcessingTime),
			Icon:        "file-text",
			Change:      "-12.7%",
			ChangeType:  ChangePositive,
			Description: "Average validation time",
		},
	}
}

// Slice is one bar of the validation status distribution.
type Slice struct {
	Label   string
	Key     string
	Count   float64
	Percent float64
}

// Display returns the count as shown next to the bar.
func (s Slice) Display() string {
	return FormatCount(s.Count)
}

// Distribution breaks total providers down by validation status. Percent
// is 0 for every slice when the total is not positive.
func Distribution(s domain.DashboardStats) []Slice {
	slices := []Slice{
		{Label: "Validated", Key: "validated", Count: s.Validated},
		{Label: "Needs Review", Key: "needs-review", Count: s.NeedsReview},
		{Label: "Processing", Key: "processing", Count: s.Processing},
	}
	if s.TotalProviders <= 0 {
		return slices
	}
	for i := range slices {
		pct := slices[i].Count / s.TotalProviders * 100
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		slices[i].Percent = pct
	}
	return slices
}
