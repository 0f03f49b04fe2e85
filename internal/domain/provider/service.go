package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/mindtrack/mindtrack/internal/domain/audit"
	"github.com/mindtrack/mindtrack/internal/domain/dailylog"
	"github.com/mindtrack/mindtrack/internal/domain/medication"
	"github.com/mindtrack/mindtrack/internal/domain/user"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/internal/platform/auth"
	"github.com/mindtrack/mindtrack/pkg/daterange"
)

type Service struct {
	repo        Repository
	users       user.Repository
	dailyLogs   dailylog.Repository
	medications medication.Repository
	audit       *audit.Recorder
}

func NewService(repo Repository, users user.Repository, dailyLogs dailylog.Repository,
	medications medication.Repository, recorder *audit.Recorder) *Service {
	return &Service{
		repo:        repo,
		users:       users,
		dailyLogs:   dailyLogs,
		medications: medications,
		audit:       recorder,
	}
}

func (s *Service) ListPatients(ctx context.Context, providerID uuid.UUID) ([]*PatientSummary, error) {
	items, err := s.repo.ListPatients(ctx, providerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// CheckAccess reports whether the provider holds an active grant for the
// patient. Absence of a grant is the sole failure condition.
func (s *Service) CheckAccess(ctx context.Context, providerID, patientID uuid.UUID) (bool, error) {
	ok, err := s.repo.HasActiveGrant(ctx, providerID, patientID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return ok, nil
}

// AuthorizeOrFail guards every provider operation that touches a specific
// patient's data.
func (s *Service) AuthorizeOrFail(ctx context.Context, providerID, patientID uuid.UUID) error {
	ok, err := s.CheckAccess(ctx, providerID, patientID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("access denied to this patient")
	}
	return nil
}

// PatientData returns the patient's full record bundle for an authorized
// provider, with notes restricted to this provider's own.
func (s *Service) PatientData(ctx context.Context, providerID, patientID uuid.UUID, dr daterange.Range) (*PatientBundle, error) {
	if err := s.AuthorizeOrFail(ctx, providerID, patientID); err != nil {
		return nil, err
	}

	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.NotFound("patient not found")
		}
		return nil, apperr.Internal(err)
	}

	logs, err := s.dailyLogs.ListByDateRange(ctx, patientID, dr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	intakes, err := s.medications.ListLogs(ctx, patientID, dr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	meds, err := s.medications.ListActive(ctx, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	notes, err := s.repo.ListNotes(ctx, providerID, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:       &providerID,
		Action:       audit.ActionProviderAccessedData,
		ResourceType: "user",
		ResourceID:   &patientID,
	})
	return &PatientBundle{
		Patient:        patient,
		DailyLogs:      logs,
		MedicationLogs: intakes,
		Medications:    meds,
		Notes:          notes,
	}, nil
}

func (s *Service) AddNote(ctx context.Context, providerID, patientID uuid.UUID, text string) (*Note, error) {
	if err := s.AuthorizeOrFail(ctx, providerID, patientID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.ValidationFields(apperr.FieldError{Field: "noteText", Message: "noteText is required"})
	}

	n := &Note{ProviderID: providerID, PatientID: patientID, NoteText: text}
	if err := s.repo.InsertNote(ctx, n); err != nil {
		return nil, apperr.Internal(err)
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:       &providerID,
		Action:       audit.ActionProviderNoteCreated,
		ResourceType: "provider_note",
		ResourceID:   &n.ID,
	})
	return n, nil
}

// Prescribe creates a medication owned by the patient, stamped with the
// prescribing provider's username.
func (s *Service) Prescribe(ctx context.Context, providerID uuid.UUID, providerUsername string,
	patientID uuid.UUID, m *medication.Medication) error {
	if err := s.AuthorizeOrFail(ctx, providerID, patientID); err != nil {
		return err
	}

	m.UserID = patientID
	m.PrescribedBy = &providerUsername
	if fields := medication.Validate(m); len(fields) > 0 {
		return apperr.ValidationFields(fields...)
	}
	if err := s.medications.Create(ctx, m); err != nil {
		return apperr.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:       &providerID,
		Action:       audit.ActionProviderPrescribed,
		ResourceType: "medication",
		ResourceID:   &m.ID,
		Details:      map[string]any{"patientId": patientID.String(), "name": m.Name},
	})
	return nil
}

// Grant lets a patient authorize a provider, looked up by username, to view
// their records. Re-granting a revoked provider reactivates the link.
func (s *Service) Grant(ctx context.Context, patientID uuid.UUID, providerUsername string) (*Grant, error) {
	providerUsername = strings.TrimSpace(providerUsername)
	if providerUsername == "" {
		return nil, apperr.ValidationFields(apperr.FieldError{Field: "providerUsername", Message: "providerUsername is required"})
	}

	p, err := s.users.GetByUsername(ctx, providerUsername)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.NotFound("provider not found")
		}
		return nil, apperr.Internal(err)
	}
	if p.Role != auth.RoleProvider || !p.IsActive {
		return nil, apperr.NotFound("provider not found")
	}

	g, err := s.repo.Grant(ctx, p.ID, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:       &patientID,
		Action:       audit.ActionAccessGranted,
		ResourceType: "provider_patient",
		ResourceID:   &g.ID,
		Details:      map[string]any{"providerId": p.ID.String()},
	})
	return g, nil
}

// Revoke deactivates a patient's grant to the provider.
func (s *Service) Revoke(ctx context.Context, patientID, providerID uuid.UUID) error {
	if err := s.repo.Revoke(ctx, providerID, patientID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("grant not found")
		}
		return apperr.Internal(err)
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:       &patientID,
		Action:       audit.ActionAccessRevoked,
		ResourceType: "provider_patient",
		Details:      map[string]any{"providerId": providerID.String()},
	})
	return nil
}
