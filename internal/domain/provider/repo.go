package provider

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no active grant matches.
var ErrNotFound = errors.New("grant not found")

type Repository interface {
	// ListPatients returns patients with an active grant to the provider,
	// annotated with daily-log and active-medication counts.
	ListPatients(ctx context.Context, providerID uuid.UUID) ([]*PatientSummary, error)
	HasActiveGrant(ctx context.Context, providerID, patientID uuid.UUID) (bool, error)
	// Grant activates (or reactivates) the provider-patient link.
	Grant(ctx context.Context, providerID, patientID uuid.UUID) (*Grant, error)
	// Revoke deactivates an active grant. ErrNotFound when none exists.
	Revoke(ctx context.Context, providerID, patientID uuid.UUID) error

	InsertNote(ctx context.Context, n *Note) error
	ListNotes(ctx context.Context, providerID, patientID uuid.UUID) ([]*Note, error)
}
