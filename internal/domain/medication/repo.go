package medication

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mindtrack/mindtrack/pkg/daterange"
)

// ErrNotFound is returned when no medication matches (id, user) or the
// matching row is not active where activity is required.
var ErrNotFound = errors.New("medication not found")

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	// Update mutates an active medication owned by m.UserID. ErrNotFound
	// when no such row exists.
	Update(ctx context.Context, m *Medication) error
	SoftDelete(ctx context.Context, id, userID uuid.UUID) error
	ListActive(ctx context.Context, userID uuid.UUID) ([]*Medication, error)
	// GetByIDAndUser returns the medication regardless of its active flag,
	// so intake history can still reference retired medications.
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*Medication, error)

	InsertLog(ctx context.Context, l *IntakeLog) error
	ListLogs(ctx context.Context, userID uuid.UUID, r daterange.Range) ([]*IntakeLog, error)
}
