package medication

import (
	"time"

	"github.com/google/uuid"
)

// Frequencies a medication can be scheduled with.
const (
	FrequencyOnce     = "once"
	FrequencyTwice    = "twice"
	FrequencyThree    = "three"
	FrequencyAsNeeded = "asneeded"
)

// Medication is owned by exactly one patient. Deletion is a soft delete so
// historical intake logs keep their referent.
type Medication struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	Name         string    `db:"name" json:"name"`
	Dosage       string    `db:"dosage" json:"dosage"`
	Frequency    string    `db:"frequency" json:"frequency"`
	TimeOfDay    *string   `db:"time_of_day" json:"timeOfDay,omitempty"`
	PrescribedBy *string   `db:"prescribed_by" json:"prescribedBy,omitempty"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// IntakeLog records one taken/skipped event. Append-only; taken and skipped
// are mutually exclusive.
type IntakeLog struct {
	ID             uuid.UUID `db:"id" json:"id"`
	MedicationID   uuid.UUID `db:"medication_id" json:"medicationId"`
	UserID         uuid.UUID `db:"user_id" json:"userId"`
	Taken          bool      `db:"taken" json:"taken"`
	Skipped        bool      `db:"skipped" json:"skipped"`
	LogDate        time.Time `db:"log_date" json:"logDate"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	MedicationName string    `db:"-" json:"medicationName,omitempty"`
}

// RecordIntakeRequest is the POST /medications/log body.
type RecordIntakeRequest struct {
	MedicationID uuid.UUID `json:"medicationId"`
	Taken        *bool     `json:"taken"`
	LogDate      string    `json:"logDate"`
}
