package dailylog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mindtrack/mindtrack/internal/domain/audit"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/pkg/daterange"
)

type Service struct {
	repo  Repository
	audit *audit.Recorder
	now   func() time.Time
}

func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, audit: recorder, now: time.Now}
}

// Upsert saves the entry for (user, logDate), creating it on first save and
// overwriting the mutable fields on any later save for the same date. The
// returned flag reports whether a new row was created.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, req *UpsertRequest) (*DailyLog, bool, error) {
	logDate := s.now()
	if req.LogDate != "" {
		t, err := daterange.ParseDate(req.LogDate)
		if err != nil {
			return nil, false, apperr.ValidationFields(apperr.FieldError{Field: "logDate", Message: err.Error()})
		}
		logDate = t
	}
	if req.MoodScore != nil && (*req.MoodScore < 1 || *req.MoodScore > 5) {
		return nil, false, apperr.ValidationFields(apperr.FieldError{Field: "moodScore", Message: "moodScore must be between 1 and 5"})
	}
	symptoms := req.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	sideEffects := req.SideEffects
	if sideEffects == nil {
		sideEffects = []string{}
	}

	existing, err := s.repo.GetByUserAndDate(ctx, userID, logDate)
	switch {
	case err == nil:
		existing.Mood = req.Mood
		existing.MoodScore = req.MoodScore
		existing.Symptoms = symptoms
		existing.SideEffects = sideEffects
		existing.Notes = req.Notes
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, apperr.Internal(err)
		}
		s.audit.Record(ctx, audit.Entry{
			UserID:       &userID,
			Action:       audit.ActionDailyLogUpdated,
			ResourceType: "daily_log",
			ResourceID:   &existing.ID,
		})
		return existing, false, nil

	case errors.Is(err, ErrNotFound):
		l := &DailyLog{
			UserID:      userID,
			LogDate:     logDate,
			Mood:        req.Mood,
			MoodScore:   req.MoodScore,
			Symptoms:    symptoms,
			SideEffects: sideEffects,
			Notes:       req.Notes,
		}
		if err := s.repo.Insert(ctx, l); err != nil {
			return nil, false, apperr.Internal(err)
		}
		s.audit.Record(ctx, audit.Entry{
			UserID:       &userID,
			Action:       audit.ActionDailyLogCreated,
			ResourceType: "daily_log",
			ResourceID:   &l.ID,
		})
		return l, true, nil

	default:
		return nil, false, apperr.Internal(err)
	}
}

func (s *Service) ListByDateRange(ctx context.Context, userID uuid.UUID, dr daterange.Range) ([]*DailyLog, error) {
	items, err := s.repo.ListByDateRange(ctx, userID, dr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}
