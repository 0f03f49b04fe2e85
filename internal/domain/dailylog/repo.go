package dailylog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mindtrack/mindtrack/pkg/daterange"
)

// ErrNotFound is returned when no daily log matches.
var ErrNotFound = errors.New("daily log not found")

type Repository interface {
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DailyLog, error)
	Insert(ctx context.Context, l *DailyLog) error
	Update(ctx context.Context, l *DailyLog) error
	ListByDateRange(ctx context.Context, userID uuid.UUID, r daterange.Range) ([]*DailyLog, error)
}
