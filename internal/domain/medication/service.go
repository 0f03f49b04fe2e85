package medication

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/mindtrack/mindtrack/internal/domain/audit"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/pkg/daterange"
)

// 24-hour HH:MM, leading zero optional.
var timeOfDayPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var validFrequencies = map[string]bool{
	FrequencyOnce:     true,
	FrequencyTwice:    true,
	FrequencyThree:    true,
	FrequencyAsNeeded: true,
}

// Validate checks the user-supplied medication fields. Exported so the
// provider prescribing path applies the same rules.
func Validate(m *Medication) []apperr.FieldError {
	var fields []apperr.FieldError
	if n := len(m.Name); n < 1 || n > 255 {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name must be between 1 and 255 characters"})
	}
	if n := len(m.Dosage); n < 1 || n > 100 {
		fields = append(fields, apperr.FieldError{Field: "dosage", Message: "dosage must be between 1 and 100 characters"})
	}
	if !validFrequencies[m.Frequency] {
		fields = append(fields, apperr.FieldError{Field: "frequency", Message: "frequency must be once, twice, three or asneeded"})
	}
	if m.TimeOfDay != nil && !timeOfDayPattern.MatchString(*m.TimeOfDay) {
		fields = append(fields, apperr.FieldError{Field: "timeOfDay", Message: "timeOfDay must be a 24-hour HH:MM time"})
	}
	if m.PrescribedBy != nil && len(*m.PrescribedBy) > 255 {
		fields = append(fields, apperr.FieldError{Field: "prescribedBy", Message: "prescribedBy must be at most 255 characters"})
	}
	return fields
}

type Service struct {
	repo  Repository
	audit *audit.Recorder
}

func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, audit: recorder}
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if fields := Validate(m); len(fields) > 0 {
		return apperr.ValidationFields(fields...)
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return apperr.Internal(err)
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:       &m.UserID,
		Action:       audit.ActionMedicationCreated,
		ResourceType: "medication",
		ResourceID:   &m.ID,
		Details:      map[string]any{"name": m.Name},
	})
	return nil
}

func (s *Service) Update(ctx context.Context, m *Medication) error {
	if fields := Validate(m); len(fields) > 0 {
		return apperr.ValidationFields(fields...)
	}
	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("medication not found")
		}
		return apperr.Internal(err)
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:       &m.UserID,
		Action:       audit.ActionMedicationUpdated,
		ResourceType: "medication",
		ResourceID:   &m.ID,
	})
	return nil
}

func (s *Service) SoftDelete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("medication not found")
		}
		return apperr.Internal(err)
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:       &userID,
		Action:       audit.ActionMedicationDeleted,
		ResourceType: "medication",
		ResourceID:   &id,
	})
	return nil
}

func (s *Service) ListActive(ctx context.Context, userID uuid.UUID) ([]*Medication, error) {
	items, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// RecordIntake appends one taken/skipped event. The medication must belong
// to the user; soft-deleted medications may still be logged against so a
// retirement mid-day does not lose the day's entry. Entries are not
// deduplicated per date; a later entry simply accumulates.
func (s *Service) RecordIntake(ctx context.Context, userID, medicationID uuid.UUID, taken bool, logDate time.Time) (*IntakeLog, error) {
	if _, err := s.repo.GetByIDAndUser(ctx, medicationID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("medication not found")
		}
		return nil, apperr.Internal(err)
	}

	l := &IntakeLog{
		MedicationID: medicationID,
		UserID:       userID,
		Taken:        taken,
		Skipped:      !taken,
		LogDate:      logDate,
	}
	if err := s.repo.InsertLog(ctx, l); err != nil {
		return nil, apperr.Internal(err)
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:       &userID,
		Action:       audit.ActionMedicationLogged,
		ResourceType: "medication_log",
		ResourceID:   &l.ID,
		Details:      map[string]any{"medicationId": medicationID.String(), "taken": taken},
	})
	return l, nil
}

func (s *Service) ListLogs(ctx context.Context, userID uuid.UUID, dr daterange.Range) ([]*IntakeLog, error) {
	items, err := s.repo.ListLogs(ctx, userID, dr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}
