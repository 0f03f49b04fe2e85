package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mindtrack/mindtrack/pkg/daterange"
)

// ErrNotFound is returned when no share row matches a token, or the matching
// row has expired. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("shared report not found")

type Repository interface {
	// MoodStats returns the mean mood score and the daily-log count in range.
	MoodStats(ctx context.Context, userID uuid.UUID, r daterange.Range) (average float64, totalLogs int, err error)
	// AdherenceCounts returns taken and total intake-log counts in range.
	AdherenceCounts(ctx context.Context, userID uuid.UUID, r daterange.Range) (taken, total int, err error)
	// TopSymptoms returns per-symptom frequencies, count descending, ties by
	// symptom name ascending.
	TopSymptoms(ctx context.Context, userID uuid.UUID, r daterange.Range, limit int) ([]SymptomCount, error)

	InsertShare(ctx context.Context, s *SharedReport) error
	// GetActiveShare matches token with expires_at > now.
	GetActiveShare(ctx context.Context, token string, now time.Time) (*SharedReport, error)
	MarkAccessed(ctx context.Context, id uuid.UUID, at time.Time) error
}
