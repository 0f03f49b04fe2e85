package audit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	entries []*Entry
	fail    bool
}

func (m *mockRepo) Insert(ctx context.Context, e *Entry) error {
	if m.fail {
		return fmt.Errorf("insert failed")
	}
	e.ID = uuid.New()
	m.entries = append(m.entries, e)
	return nil
}

func TestRecord_Success(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(repo, zerolog.Nop())
	userID := uuid.New()

	rec.Record(context.Background(), Entry{
		UserID:       &userID,
		Action:       ActionMedicationCreated,
		ResourceType: "medication",
	})

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].Action != ActionMedicationCreated {
		t.Errorf("unexpected action %s", repo.entries[0].Action)
	}
}

func TestRecord_FailureSwallowed(t *testing.T) {
	rec := NewRecorder(&mockRepo{fail: true}, zerolog.Nop())
	// Must not panic or surface the error.
	rec.Record(context.Background(), Entry{Action: ActionUserLogin, ResourceType: "user"})
}

func TestRecord_FillsRequestInfoFromContext(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(repo, zerolog.Nop())

	ctx := WithRequestInfo(context.Background(), RequestInfo{
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	})
	rec.Record(ctx, Entry{Action: ActionDailyLogCreated, ResourceType: "daily_log"})

	e := repo.entries[0]
	if e.IPAddress == nil || *e.IPAddress != "203.0.113.9" {
		t.Errorf("expected ip from context, got %v", e.IPAddress)
	}
	if e.UserAgent == nil || *e.UserAgent != "test-agent" {
		t.Errorf("expected user agent from context, got %v", e.UserAgent)
	}
}

func TestCaptureRequestInfo(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "mindtrack-test")
	req.RemoteAddr = "198.51.100.7:4411"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	repo := &mockRepo{}
	recorder := NewRecorder(repo, zerolog.Nop())

	handler := func(c echo.Context) error {
		recorder.Record(c.Request().Context(), Entry{Action: ActionUserSignup, ResourceType: "user"})
		return c.NoContent(http.StatusOK)
	}
	if err := CaptureRequestInfo()(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := repo.entries[0]
	if entry.IPAddress == nil || *entry.IPAddress != "198.51.100.7" {
		t.Errorf("expected captured ip, got %v", entry.IPAddress)
	}
	if entry.UserAgent == nil || *entry.UserAgent != "mindtrack-test" {
		t.Errorf("expected captured user agent, got %v", entry.UserAgent)
	}
}
