package model

// AnalyticsSnapshot is the derived aggregate view of one user's applications.
// It is computed on demand and never persisted — there is nothing to invalidate.
type AnalyticsSnapshot struct {
	Totals   Totals        `json:"totals"`
	ByStatus []StatusCount `json:"byStatus"` // always 4 entries, in Statuses order
	ByMonth  []MonthCount  `json:"byMonth"`  // ascending by month key
}

// Totals carries the headline numbers for the dashboard cards.
// Rates are percentages rounded to one decimal place; both are 0 (not NaN,
// not an error) when the user has no applications yet.
type Totals struct {
	Total         int     `json:"total"`
	Interviews    int     `json:"interviews"`
	Offers        int     `json:"offers"`
	OfferRate     float64 `json:"offerRate"`
	InterviewRate float64 `json:"interviewRate"`
}

// StatusCount is one bar of the by-status chart. Every enumerated status gets
// an entry even at zero, so the chart never has to special-case missing
// categories.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// MonthCount is one point of the by-month chart. Month is the YYYY-MM prefix
// of the applied date, so lexicographic order is chronological order.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
