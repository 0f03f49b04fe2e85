package dailylog

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindtrack/mindtrack/internal/domain/audit"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/pkg/daterange"
)

type logKey struct {
	userID uuid.UUID
	date   string
}

type mockRepo struct {
	logs map[logKey]*DailyLog
}

func newMockRepo() *mockRepo {
	return &mockRepo{logs: make(map[logKey]*DailyLog)}
}

func key(userID uuid.UUID, date time.Time) logKey {
	return logKey{userID: userID, date: date.Format("2006-01-02")}
}

func (m *mockRepo) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DailyLog, error) {
	if l, ok := m.logs[key(userID, date)]; ok {
		return l, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Insert(ctx context.Context, l *DailyLog) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	m.logs[key(l.UserID, l.LogDate)] = l
	return nil
}

func (m *mockRepo) Update(ctx context.Context, l *DailyLog) error {
	for k, existing := range m.logs {
		if existing.ID == l.ID {
			l.UpdatedAt = time.Now()
			m.logs[k] = l
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepo) ListByDateRange(ctx context.Context, userID uuid.UUID, dr daterange.Range) ([]*DailyLog, error) {
	items := []*DailyLog{}
	for _, l := range m.logs {
		if l.UserID != userID {
			continue
		}
		if dr.Start != nil && l.LogDate.Before(*dr.Start) {
			continue
		}
		if dr.End != nil && l.LogDate.After(*dr.End) {
			continue
		}
		items = append(items, l)
	}
	return items, nil
}

type nopAuditRepo struct{}

func (nopAuditRepo) Insert(ctx context.Context, e *audit.Entry) error { return nil }

func newTestService(repo Repository) *Service {
	return NewService(repo, audit.NewRecorder(nopAuditRepo{}, zerolog.Nop()))
}

func intptr(n int) *int       { return &n }
func strptr(s string) *string { return &s }

func TestUpsert_CreateThenOverwrite(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	userID := uuid.New()

	first, created, err := svc.Upsert(context.Background(), userID, &UpsertRequest{
		LogDate:   "2025-03-10",
		Mood:      strptr("good"),
		MoodScore: intptr(4),
		Symptoms:  []string{"headache"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected first save to create")
	}

	second, created, err := svc.Upsert(context.Background(), userID, &UpsertRequest{
		LogDate:   "2025-03-10",
		Mood:      strptr("bad"),
		MoodScore: intptr(2),
		Symptoms:  []string{"nausea", "fatigue"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected second save to update")
	}
	if second.ID != first.ID {
		t.Error("expected both saves to target the same row")
	}
	if len(repo.logs) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(repo.logs))
	}

	stored, err := svc.ListByDateRange(context.Background(), userID, daterange.Range{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *stored[0].MoodScore != 2 || *stored[0].Mood != "bad" {
		t.Errorf("expected last write to win, got %+v", stored[0])
	}
	if len(stored[0].Symptoms) != 2 {
		t.Errorf("expected overwritten symptoms, got %v", stored[0].Symptoms)
	}
}

func TestUpsert_MoodScoreBounds(t *testing.T) {
	svc := newTestService(newMockRepo())
	for _, score := range []int{0, 6, -1} {
		_, _, err := svc.Upsert(context.Background(), uuid.New(), &UpsertRequest{
			LogDate:   "2025-03-10",
			MoodScore: intptr(score),
		})
		appErr, ok := apperr.As(err)
		if !ok || appErr.Status() != http.StatusBadRequest {
			t.Fatalf("expected 400 for score %d, got %v", score, err)
		}
	}

	for _, score := range []int{1, 5} {
		if _, _, err := svc.Upsert(context.Background(), uuid.New(), &UpsertRequest{
			LogDate:   "2025-03-10",
			MoodScore: intptr(score),
		}); err != nil {
			t.Fatalf("unexpected error for score %d: %v", score, err)
		}
	}
}

func TestUpsert_BadDate(t *testing.T) {
	svc := newTestService(newMockRepo())
	_, _, err := svc.Upsert(context.Background(), uuid.New(), &UpsertRequest{LogDate: "10/03/2025"})
	appErr, ok := apperr.As(err)
	if !ok || appErr.Status() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUpsert_DefaultsToToday(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC) }

	l, created, err := svc.Upsert(context.Background(), uuid.New(), &UpsertRequest{MoodScore: intptr(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected create")
	}
	if l.LogDate.Format("2006-01-02") != "2025-03-10" {
		t.Errorf("expected today's date, got %v", l.LogDate)
	}
	if l.Symptoms == nil || l.SideEffects == nil {
		t.Error("expected empty slices, not nil")
	}
}

func TestListByDateRange_Bounds(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	userID := uuid.New()

	for _, d := range []string{"2025-03-01", "2025-03-10", "2025-03-20"} {
		if _, _, err := svc.Upsert(context.Background(), userID, &UpsertRequest{LogDate: d}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	start, _ := daterange.ParseDate("2025-03-05")
	end, _ := daterange.ParseDate("2025-03-15")
	items, err := svc.ListByDateRange(context.Background(), userID, daterange.Range{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 log in range, got %d", len(items))
	}
}
