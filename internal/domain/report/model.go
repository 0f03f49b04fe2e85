package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindtrack/mindtrack/internal/domain/dailylog"
	"github.com/mindtrack/mindtrack/internal/domain/medication"
)

// Date-range selectors a share link can be minted with.
const (
	RangeWeek        = "week"
	RangeMonth       = "month"
	RangeThreeMonths = "3months"
)

// rangeDays maps a selector to its trailing-day window.
var rangeDays = map[string]int{
	RangeWeek:        7,
	RangeMonth:       30,
	RangeThreeMonths: 90,
}

// MoodStats summarizes mood scores over a range. Average is formatted to one
// decimal and is "0.0" when no logs exist.
type MoodStats struct {
	Average   string `json:"average"`
	TotalLogs int    `json:"totalLogs"`
}

// AdherenceStats summarizes intake logs over a range. Percentage is
// round(100 * taken / total), 0 when total is 0.
type AdherenceStats struct {
	Percentage int `json:"percentage"`
	Taken      int `json:"taken"`
	Total      int `json:"total"`
}

type SymptomCount struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

// Stats is the GET /reports/stats payload.
type Stats struct {
	Mood        MoodStats      `json:"mood"`
	Adherence   AdherenceStats `json:"adherence"`
	TopSymptoms []SymptomCount `json:"topSymptoms"`
}

// SharedReport is a share-token row. The token is the sole credential for
// the unauthenticated shared-report route, so it never appears in list
// responses; only the mint response carries it.
type SharedReport struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     uuid.UUID  `db:"user_id" json:"userId"`
	ShareToken string     `db:"share_token" json:"-"`
	DateRange  string     `db:"date_range" json:"dateRange"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expiresAt"`
	AccessedAt *time.Time `db:"accessed_at" json:"accessedAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// CreateShareRequest is the POST /reports/share body.
type CreateShareRequest struct {
	DateRange string `json:"dateRange"`
}

// ShareResponse is returned when a share link is minted.
type ShareResponse struct {
	ShareURL  string    `json:"shareUrl"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SharedReportData is the payload a share token resolves to: the patient's
// records over the selector's trailing window.
type SharedReportData struct {
	DateRange      string                   `json:"dateRange"`
	Days           int                      `json:"days"`
	ExpiresAt      time.Time                `json:"expiresAt"`
	DailyLogs      []*dailylog.DailyLog     `json:"dailyLogs"`
	MedicationLogs []*medication.IntakeLog  `json:"medicationLogs"`
	Medications    []*medication.Medication `json:"medications"`
}
