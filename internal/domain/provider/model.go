package provider

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindtrack/mindtrack/internal/domain/dailylog"
	"github.com/mindtrack/mindtrack/internal/domain/medication"
	"github.com/mindtrack/mindtrack/internal/domain/user"
)

// Grant links a provider to a patient. Grants are binary: active or revoked,
// nothing in between.
type Grant struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProviderID uuid.UUID `db:"provider_id" json:"providerId"`
	PatientID  uuid.UUID `db:"patient_id" json:"patientId"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	GrantedAt  time.Time `db:"granted_at" json:"grantedAt"`
}

// Note is a free-text provider note about a patient. Append-only.
type Note struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProviderID uuid.UUID `db:"provider_id" json:"providerId"`
	PatientID  uuid.UUID `db:"patient_id" json:"patientId"`
	NoteText   string    `db:"note_text" json:"noteText"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// PatientSummary is one row of the provider's patient list.
type PatientSummary struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Username          string    `db:"username" json:"username"`
	Email             string    `db:"email" json:"email"`
	GrantedAt         time.Time `db:"granted_at" json:"grantedAt"`
	TotalLogs         int       `db:"total_logs" json:"totalLogs"`
	ActiveMedications int       `db:"active_medications" json:"activeMedications"`
}

// PatientBundle is the full record set a provider sees for one patient.
type PatientBundle struct {
	Patient        *user.User               `json:"patient"`
	DailyLogs      []*dailylog.DailyLog     `json:"dailyLogs"`
	MedicationLogs []*medication.IntakeLog  `json:"medicationLogs"`
	Medications    []*medication.Medication `json:"medications"`
	Notes          []*Note                  `json:"notes"`
}

// GrantRequest is the patient-side POST /providers/grant body.
type GrantRequest struct {
	ProviderUsername string `json:"providerUsername"`
}

// AddNoteRequest is the POST /provider/patients/:id/notes body.
type AddNoteRequest struct {
	NoteText string `json:"noteText"`
}
