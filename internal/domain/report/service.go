package report

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindtrack/mindtrack/internal/domain/audit"
	"github.com/mindtrack/mindtrack/internal/domain/dailylog"
	"github.com/mindtrack/mindtrack/internal/domain/medication"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/pkg/daterange"
)

// ShareTTL is how long a minted share link stays resolvable.
const ShareTTL = 7 * 24 * time.Hour

// shareTokenBytes gives 256 bits of entropy; the hex token is the sole
// credential on the unauthenticated shared-report route.
const shareTokenBytes = 32

const topSymptomsLimit = 10

type Service struct {
	repo        Repository
	dailyLogs   dailylog.Repository
	medications medication.Repository
	audit       *audit.Recorder
	log         zerolog.Logger
	appURL      string
	now         func() time.Time
}

func NewService(repo Repository, dailyLogs dailylog.Repository, medications medication.Repository,
	recorder *audit.Recorder, log zerolog.Logger, appURL string) *Service {
	return &Service{
		repo:        repo,
		dailyLogs:   dailyLogs,
		medications: medications,
		audit:       recorder,
		log:         log,
		appURL:      appURL,
		now:         time.Now,
	}
}

// ComputeStats aggregates mood, adherence and symptom frequency over an
// inclusive date range. Either bound may be absent.
func (s *Service) ComputeStats(ctx context.Context, userID uuid.UUID, dr daterange.Range) (*Stats, error) {
	avg, totalLogs, err := s.repo.MoodStats(ctx, userID, dr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	taken, total, err := s.repo.AdherenceCounts(ctx, userID, dr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	top, err := s.repo.TopSymptoms(ctx, userID, dr, topSymptomsLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(taken) / float64(total) * 100))
	}
	return &Stats{
		Mood:        MoodStats{Average: fmt.Sprintf("%.1f", avg), TotalLogs: totalLogs},
		Adherence:   AdherenceStats{Percentage: percentage, Taken: taken, Total: total},
		TopSymptoms: top,
	}, nil
}

// CreateShare mints an unguessable token granting read access to the
// patient's report for the selector's window, valid for ShareTTL.
func (s *Service) CreateShare(ctx context.Context, userID uuid.UUID, selector string) (*ShareResponse, error) {
	if _, ok := rangeDays[selector]; !ok {
		return nil, apperr.ValidationFields(apperr.FieldError{
			Field: "dateRange", Message: "dateRange must be week, month or 3months",
		})
	}

	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, apperr.Internal(err)
	}
	token := hex.EncodeToString(buf)

	share := &SharedReport{
		UserID:     userID,
		ShareToken: token,
		DateRange:  selector,
		ExpiresAt:  s.now().Add(ShareTTL),
	}
	if err := s.repo.InsertShare(ctx, share); err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:       &userID,
		Action:       audit.ActionReportShared,
		ResourceType: "shared_report",
		ResourceID:   &share.ID,
		Details:      map[string]any{"dateRange": selector},
	})
	return &ShareResponse{
		ShareURL:  s.appURL + "/shared/" + token,
		Token:     token,
		ExpiresAt: share.ExpiresAt,
	}, nil
}

// ResolveShare exchanges a token for the owning patient's records over the
// selector's trailing window. Unknown and expired tokens fail identically so
// tokens cannot be enumerated.
func (s *Service) ResolveShare(ctx context.Context, token string) (*SharedReportData, error) {
	share, err := s.repo.GetActiveShare(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("report not found or expired")
		}
		return nil, apperr.Internal(err)
	}

	// Informational only; a failed touch must not block the read.
	if err := s.repo.MarkAccessed(ctx, share.ID, s.now()); err != nil {
		s.log.Warn().Err(err).Str("share_id", share.ID.String()).Msg("share access timestamp update failed")
	}

	days := rangeDays[share.DateRange]
	dr := daterange.TrailingDays(s.now(), days)

	logs, err := s.dailyLogs.ListByDateRange(ctx, share.UserID, dr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	intakes, err := s.medications.ListLogs(ctx, share.UserID, dr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	meds, err := s.medications.ListActive(ctx, share.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &SharedReportData{
		DateRange:      share.DateRange,
		Days:           days,
		ExpiresAt:      share.ExpiresAt,
		DailyLogs:      logs,
		MedicationLogs: intakes,
		Medications:    meds,
	}, nil
}
