package provider

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindtrack/mindtrack/internal/domain/audit"
	"github.com/mindtrack/mindtrack/internal/domain/dailylog"
	"github.com/mindtrack/mindtrack/internal/domain/medication"
	"github.com/mindtrack/mindtrack/internal/domain/user"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/pkg/daterange"
)

type grantKey struct {
	providerID uuid.UUID
	patientID  uuid.UUID
}

type mockRepo struct {
	grants map[grantKey]*Grant
	notes  []*Note
}

func newMockRepo() *mockRepo {
	return &mockRepo{grants: make(map[grantKey]*Grant)}
}

func (m *mockRepo) ListPatients(ctx context.Context, providerID uuid.UUID) ([]*PatientSummary, error) {
	items := []*PatientSummary{}
	for k, g := range m.grants {
		if k.providerID == providerID && g.IsActive {
			items = append(items, &PatientSummary{ID: k.patientID, GrantedAt: g.GrantedAt})
		}
	}
	return items, nil
}

func (m *mockRepo) HasActiveGrant(ctx context.Context, providerID, patientID uuid.UUID) (bool, error) {
	g, ok := m.grants[grantKey{providerID, patientID}]
	return ok && g.IsActive, nil
}

func (m *mockRepo) Grant(ctx context.Context, providerID, patientID uuid.UUID) (*Grant, error) {
	g := &Grant{
		ID:         uuid.New(),
		ProviderID: providerID,
		PatientID:  patientID,
		IsActive:   true,
		GrantedAt:  time.Now(),
	}
	m.grants[grantKey{providerID, patientID}] = g
	return g, nil
}

func (m *mockRepo) Revoke(ctx context.Context, providerID, patientID uuid.UUID) error {
	g, ok := m.grants[grantKey{providerID, patientID}]
	if !ok || !g.IsActive {
		return ErrNotFound
	}
	g.IsActive = false
	return nil
}

func (m *mockRepo) InsertNote(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	m.notes = append(m.notes, n)
	return nil
}

func (m *mockRepo) ListNotes(ctx context.Context, providerID, patientID uuid.UUID) ([]*Note, error) {
	items := []*Note{}
	for _, n := range m.notes {
		if n.ProviderID == providerID && n.PatientID == patientID {
			items = append(items, n)
		}
	}
	return items, nil
}

type mockUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (m *mockUserRepo) add(username, role string) *user.User {
	u := &user.User{ID: uuid.New(), Username: username, Role: role, IsActive: true}
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return false, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error { return nil }

type mockDailyLogRepo struct{}

func (mockDailyLogRepo) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*dailylog.DailyLog, error) {
	return nil, dailylog.ErrNotFound
}
func (mockDailyLogRepo) Insert(ctx context.Context, l *dailylog.DailyLog) error { return nil }
func (mockDailyLogRepo) Update(ctx context.Context, l *dailylog.DailyLog) error { return nil }
func (mockDailyLogRepo) ListByDateRange(ctx context.Context, userID uuid.UUID, r daterange.Range) ([]*dailylog.DailyLog, error) {
	return []*dailylog.DailyLog{}, nil
}

type mockMedicationRepo struct {
	created []*medication.Medication
}

func (m *mockMedicationRepo) Create(ctx context.Context, med *medication.Medication) error {
	med.ID = uuid.New()
	med.IsActive = true
	m.created = append(m.created, med)
	return nil
}
func (m *mockMedicationRepo) Update(ctx context.Context, med *medication.Medication) error { return nil }
func (m *mockMedicationRepo) SoftDelete(ctx context.Context, id, userID uuid.UUID) error   { return nil }
func (m *mockMedicationRepo) ListActive(ctx context.Context, userID uuid.UUID) ([]*medication.Medication, error) {
	return []*medication.Medication{}, nil
}
func (m *mockMedicationRepo) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*medication.Medication, error) {
	return nil, medication.ErrNotFound
}
func (m *mockMedicationRepo) InsertLog(ctx context.Context, l *medication.IntakeLog) error { return nil }
func (m *mockMedicationRepo) ListLogs(ctx context.Context, userID uuid.UUID, r daterange.Range) ([]*medication.IntakeLog, error) {
	return []*medication.IntakeLog{}, nil
}

type nopAuditRepo struct{}

func (nopAuditRepo) Insert(ctx context.Context, e *audit.Entry) error { return nil }

type fixture struct {
	svc      *Service
	repo     *mockRepo
	users    *mockUserRepo
	meds     *mockMedicationRepo
	provider *user.User
	patient  *user.User
}

func newFixture() *fixture {
	repo := newMockRepo()
	users := newMockUserRepo()
	meds := &mockMedicationRepo{}
	recorder := audit.NewRecorder(nopAuditRepo{}, zerolog.Nop())
	svc := NewService(repo, users, mockDailyLogRepo{}, meds, recorder)
	return &fixture{
		svc:      svc,
		repo:     repo,
		users:    users,
		meds:     meds,
		provider: users.add("drbob", "provider"),
		patient:  users.add("alice", "patient"),
	}
}

func TestAuthorizeOrFail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.svc.AuthorizeOrFail(ctx, f.provider.ID, f.patient.ID)
	appErr, ok := apperr.As(err)
	if !ok || appErr.Status() != http.StatusForbidden {
		t.Fatalf("expected 403 without grant, got %v", err)
	}
	if appErr.Message != "access denied to this patient" {
		t.Errorf("unexpected message %q", appErr.Message)
	}

	if _, err := f.svc.Grant(ctx, f.patient.ID, "drbob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.AuthorizeOrFail(ctx, f.provider.ID, f.patient.ID); err != nil {
		t.Fatalf("expected access after grant, got %v", err)
	}
}

func TestPatientData_RequiresGrant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.PatientData(ctx, f.provider.ID, f.patient.ID, daterange.Range{})
	if appErr, ok := apperr.As(err); !ok || appErr.Status() != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}

	if _, err := f.svc.Grant(ctx, f.patient.ID, "drbob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bundle, err := f.svc.PatientData(ctx, f.provider.ID, f.patient.ID, daterange.Range{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Patient.ID != f.patient.ID {
		t.Errorf("expected patient %s, got %s", f.patient.ID, bundle.Patient.ID)
	}
}

func TestPatientData_NotesScopedToProvider(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	other := f.users.add("drcarol", "provider")

	if _, err := f.svc.Grant(ctx, f.patient.ID, "drbob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Grant(ctx, f.patient.ID, "drcarol"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AddNote(ctx, f.provider.ID, f.patient.ID, "mine"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AddNote(ctx, other.ID, f.patient.ID, "theirs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bundle, err := f.svc.PatientData(ctx, f.provider.ID, f.patient.ID, daterange.Range{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bundle.Notes) != 1 || bundle.Notes[0].NoteText != "mine" {
		t.Errorf("expected only own notes, got %+v", bundle.Notes)
	}
}

func TestAddNote_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.svc.Grant(ctx, f.patient.ID, "drbob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.AddNote(ctx, f.provider.ID, f.patient.ID, "   ")
	if appErr, ok := apperr.As(err); !ok || appErr.Status() != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank note, got %v", err)
	}
}

func TestPrescribe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.svc.Grant(ctx, f.patient.ID, "drbob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := &medication.Medication{Name: "Sertraline", Dosage: "50mg", Frequency: medication.FrequencyOnce}
	if err := f.svc.Prescribe(ctx, f.provider.ID, "drbob", f.patient.ID, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.UserID != f.patient.ID {
		t.Errorf("expected medication owned by patient, got %s", m.UserID)
	}
	if m.PrescribedBy == nil || *m.PrescribedBy != "drbob" {
		t.Errorf("expected prescribedBy drbob, got %v", m.PrescribedBy)
	}

	bad := &medication.Medication{Name: "", Dosage: "50mg", Frequency: "hourly"}
	err := f.svc.Prescribe(ctx, f.provider.ID, "drbob", f.patient.ID, bad)
	if appErr, ok := apperr.As(err); !ok || appErr.Status() != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid prescription, got %v", err)
	}
}

func TestGrant_UnknownOrNonProvider(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, f.patient.ID, "nobody")
	if appErr, ok := apperr.As(err); !ok || appErr.Status() != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown username, got %v", err)
	}

	// A patient username cannot be granted provider access.
	_, err = f.svc.Grant(ctx, f.patient.ID, "alice")
	if appErr, ok := apperr.As(err); !ok || appErr.Status() != http.StatusNotFound {
		t.Fatalf("expected 404 for non-provider, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Grant(ctx, f.patient.ID, "drbob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.Revoke(ctx, f.patient.ID, f.provider.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := f.svc.CheckAccess(ctx, f.provider.ID, f.patient.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected access revoked")
	}

	err = f.svc.Revoke(ctx, f.patient.ID, f.provider.ID)
	if appErr, ok := apperr.As(err); !ok || appErr.Status() != http.StatusNotFound {
		t.Fatalf("expected 404 on second revoke, got %v", err)
	}
}

func TestRegrantReactivates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Grant(ctx, f.patient.ID, "drbob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.Revoke(ctx, f.patient.ID, f.provider.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Grant(ctx, f.patient.ID, "drbob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := f.svc.CheckAccess(ctx, f.provider.ID, f.patient.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected access after re-grant")
	}
}
