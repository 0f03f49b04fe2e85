package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mindtrack/mindtrack/internal/platform/apperr"
)

func newTestHandler() *Handler {
	return NewHandler(newTestService(newMockRepo()))
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestSignupHandler_Created(t *testing.T) {
	h := newTestHandler()
	rec, err := postJSON(t, h.Signup, "/api/auth/signup",
		`{"username":"alice","email":"alice@example.com","password":"Testpass1","role":"patient"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Token == "" || resp.User == nil {
		t.Errorf("expected token and user in response, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Testpass1") {
		t.Error("response must not contain the plaintext password")
	}
	if strings.Contains(rec.Body.String(), "password_hash") ||
		strings.Contains(rec.Body.String(), "passwordHash") {
		t.Error("response must not contain the password hash")
	}
}

func TestSignupHandler_ValidationError(t *testing.T) {
	h := newTestHandler()
	_, err := postJSON(t, h.Signup, "/api/auth/signup",
		`{"username":"al","email":"bad","password":"short","role":"nope"}`)
	appErr, ok := apperr.As(err)
	if !ok || appErr.Status() != http.StatusBadRequest {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(appErr.Fields) != 4 {
		t.Errorf("expected 4 field errors, got %d", len(appErr.Fields))
	}
}

func TestLoginHandler(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	h := NewHandler(svc)

	if _, err := postJSON(t, h.Signup, "/api/auth/signup",
		`{"username":"alice","email":"alice@example.com","password":"Testpass1","role":"patient"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := postJSON(t, h.Login, "/api/auth/login",
		`{"username":"alice","password":"Testpass1","role":"patient"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	_, err = postJSON(t, h.Login, "/api/auth/login",
		`{"username":"alice","password":"wrong","role":"patient"}`)
	appErr, ok := apperr.As(err)
	if !ok || appErr.Status() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
