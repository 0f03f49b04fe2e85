package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action tags recorded by the application. Immutable once written.
const (
	ActionUserSignup           = "USER_SIGNUP"
	ActionUserLogin            = "USER_LOGIN"
	ActionMedicationCreated    = "MEDICATION_CREATED"
	ActionMedicationUpdated    = "MEDICATION_UPDATED"
	ActionMedicationDeleted    = "MEDICATION_DELETED"
	ActionMedicationLogged     = "MEDICATION_LOGGED"
	ActionDailyLogCreated      = "DAILY_LOG_CREATED"
	ActionDailyLogUpdated      = "DAILY_LOG_UPDATED"
	ActionReportShared         = "REPORT_SHARED"
	ActionAccessGranted        = "ACCESS_GRANTED"
	ActionAccessRevoked        = "ACCESS_REVOKED"
	ActionProviderAccessedData = "PROVIDER_ACCESSED_PATIENT_DATA"
	ActionProviderNoteCreated  = "PROVIDER_NOTE_CREATED"
	ActionProviderPrescribed   = "PROVIDER_PRESCRIBED_MEDICATION"
)

// Entry is one audit record. Rows are append-only; the application never
// updates or deletes them.
type Entry struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	UserID       *uuid.UUID     `db:"user_id" json:"userId,omitempty"`
	Action       string         `db:"action" json:"action"`
	ResourceType string         `db:"resource_type" json:"resourceType"`
	ResourceID   *uuid.UUID     `db:"resource_id" json:"resourceId,omitempty"`
	IPAddress    *string        `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent    *string        `db:"user_agent" json:"userAgent,omitempty"`
	Details      map[string]any `db:"details" json:"details,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}
