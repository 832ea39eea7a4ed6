package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/psyportal/psyportal/internal/domain/appointment"
	"github.com/psyportal/psyportal/internal/domain/center"
	"github.com/psyportal/psyportal/internal/domain/identity"
	"github.com/psyportal/psyportal/internal/domain/objective"
	"github.com/psyportal/psyportal/internal/domain/patient"
	"github.com/psyportal/psyportal/internal/domain/payment"
	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
)

// The suite drives the whole HTTP surface against in-memory repositories,
// wired exactly like the server binary minus the database.

func paginate[T any](in []*T, limit, offset int) []*T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

type memUsers struct {
	mu    sync.Mutex
	users []*identity.User
}

func (m *memUsers) Create(_ context.Context, u *identity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Email == u.Email {
			return apperr.Conflict("email already registered")
		}
	}
	cp := *u
	m.users = append(m.users, &cp)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memUsers) Update(_ context.Context, u *identity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.ID != u.ID && x.Email == u.Email {
			return apperr.Conflict("email already registered")
		}
	}
	for i, x := range m.users {
		if x.ID == u.ID {
			cp := *u
			m.users[i] = &cp
			return nil
		}
	}
	return apperr.NotFound("user not found")
}

func (m *memUsers) List(_ context.Context, f auth.UserFilter, limit, offset int) ([]*identity.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*identity.User
	for _, u := range m.users {
		if !u.IsActive {
			continue
		}
		switch {
		case f.All:
		case f.CenterID != "":
			if u.CenterID != f.CenterID {
				continue
			}
		default:
			if u.ID != f.UserID {
				continue
			}
		}
		cp := *u
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), len(out), nil
}

func (m *memUsers) CountByRole(_ context.Context, role string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memCenters struct {
	mu      sync.Mutex
	centers []*center.Center
}

func (m *memCenters) Create(_ context.Context, c *center.Center) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.centers = append(m.centers, &cp)
	return nil
}

func (m *memCenters) GetByID(_ context.Context, id string) (*center.Center, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.centers {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("center not found")
}

func (m *memCenters) GetByName(_ context.Context, name string) (*center.Center, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.centers {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("center not found")
}

func (m *memCenters) Update(_ context.Context, c *center.Center) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.centers {
		if x.ID == c.ID {
			cp := *c
			m.centers[i] = &cp
			return nil
		}
	}
	return apperr.NotFound("center not found")
}

func (m *memCenters) List(_ context.Context, limit, offset int) ([]*center.Center, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*center.Center
	for _, c := range m.centers {
		if !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), len(out), nil
}

func (m *memCenters) FirstActive(_ context.Context) (*center.Center, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.centers {
		if c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("center not found")
}

type memPatients struct {
	mu       sync.Mutex
	patients []*patient.Patient
}

func (m *memPatients) Create(_ context.Context, p *patient.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.patients = append(m.patients, &cp)
	return nil
}

func (m *memPatients) GetByID(_ context.Context, id string) (*patient.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.find(id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

// find must be called with the lock held.
func (m *memPatients) find(id string) (*patient.Patient, error) {
	for _, p := range m.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperr.NotFound("patient not found")
}

func (m *memPatients) Update(_ context.Context, p *patient.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.patients {
		if x.ID == p.ID {
			cp := *p
			m.patients[i] = &cp
			return nil
		}
	}
	return apperr.NotFound("patient not found")
}

func (m *memPatients) List(_ context.Context, f auth.ScopeFilter, limit, offset int) ([]*patient.Patient, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*patient.Patient
	for _, p := range m.patients {
		if !p.IsActive || !matchesPatientScope(p, f) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), len(out), nil
}

func matchesPatientScope(p *patient.Patient, f auth.ScopeFilter) bool {
	switch {
	case f.All:
		return true
	case f.CenterID != "":
		return p.CenterID == f.CenterID
	default:
		if p.PsychologistID == f.PsychologistID {
			return true
		}
		for _, id := range p.SharedWith {
			if id == f.PsychologistID {
				return true
			}
		}
		return false
	}
}

func (m *memPatients) SetAnamnesis(_ context.Context, patientID string, a *patient.Anamnesis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.find(patientID)
	if err != nil {
		return err
	}
	cp := *a
	p.Anamnesis = &cp
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memPatients) SetClinicalHistory(_ context.Context, patientID string, h *patient.ClinicalHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.find(patientID)
	if err != nil {
		return err
	}
	cp := *h
	p.ClinicalHistory = &cp
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memPatients) SetDiagnosis(_ context.Context, patientID string, d *patient.Diagnosis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.find(patientID)
	if err != nil {
		return err
	}
	cp := *d
	p.Diagnosis = &cp
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memPatients) AddEvaluation(_ context.Context, patientID string, e *patient.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.find(patientID)
	if err != nil {
		return err
	}
	p.Evaluations = append(p.Evaluations, *e)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memPatients) AddProgressNote(_ context.Context, patientID string, n *patient.ProgressNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.find(patientID)
	if err != nil {
		return err
	}
	p.ProgressNotes = append(p.ProgressNotes, *n)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func matchesRecordScope(psychologistID, centerID string, f auth.ScopeFilter) bool {
	switch {
	case f.All:
		return true
	case f.CenterID != "":
		return centerID == f.CenterID
	default:
		return psychologistID == f.PsychologistID
	}
}

type memAppointments struct {
	mu    sync.Mutex
	appts []*appointment.Appointment
}

func (m *memAppointments) Create(_ context.Context, a *appointment.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.appts = append(m.appts, &cp)
	return nil
}

func (m *memAppointments) GetByID(_ context.Context, id string) (*appointment.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("appointment not found")
}

func (m *memAppointments) Update(_ context.Context, a *appointment.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.appts {
		if x.ID == a.ID {
			cp := *a
			m.appts[i] = &cp
			return nil
		}
	}
	return apperr.NotFound("appointment not found")
}

func (m *memAppointments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.appts {
		if a.ID == id {
			m.appts = append(m.appts[:i], m.appts[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("appointment not found")
}

func (m *memAppointments) List(_ context.Context, f auth.ScopeFilter, q appointment.ListQuery, limit, offset int) ([]*appointment.Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range m.appts {
		if !matchesRecordScope(a.PsychologistID, a.CenterID, f) {
			continue
		}
		if q.PatientID != "" && a.PatientID != q.PatientID {
			continue
		}
		if q.StartDate != "" && a.Date < q.StartDate {
			continue
		}
		if q.EndDate != "" && a.Date > q.EndDate {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), len(out), nil
}

type memObjectives struct {
	mu         sync.Mutex
	objectives []*objective.SessionObjective
}

func (m *memObjectives) Create(_ context.Context, o *objective.SessionObjective) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.objectives = append(m.objectives, &cp)
	return nil
}

func (m *memObjectives) GetByID(_ context.Context, id string) (*objective.SessionObjective, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.objectives {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("session objective not found")
}

func (m *memObjectives) Update(_ context.Context, o *objective.SessionObjective) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.objectives {
		if x.ID == o.ID {
			cp := *o
			m.objectives[i] = &cp
			return nil
		}
	}
	return apperr.NotFound("session objective not found")
}

func (m *memObjectives) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.objectives {
		if o.ID == id {
			m.objectives = append(m.objectives[:i], m.objectives[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("session objective not found")
}

func (m *memObjectives) List(_ context.Context, f auth.ScopeFilter, q objective.ListQuery, limit, offset int) ([]*objective.SessionObjective, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*objective.SessionObjective
	for _, o := range m.objectives {
		if !matchesRecordScope(o.PsychologistID, o.CenterID, f) {
			continue
		}
		if q.PatientID != "" && o.PatientID != q.PatientID {
			continue
		}
		if q.WeekStartDate != "" && o.WeekStartDate != q.WeekStartDate {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), len(out), nil
}

type memPayments struct {
	mu       sync.Mutex
	payments []*payment.Payment
}

func (m *memPayments) Create(_ context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payments = append(m.payments, &cp)
	return nil
}

func (m *memPayments) GetByID(_ context.Context, id string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("payment not found")
}

func (m *memPayments) Update(_ context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.payments {
		if x.ID == p.ID {
			cp := *p
			m.payments[i] = &cp
			return nil
		}
	}
	return apperr.NotFound("payment not found")
}

func (m *memPayments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.payments {
		if p.ID == id {
			m.payments = append(m.payments[:i], m.payments[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("payment not found")
}

func (m *memPayments) List(_ context.Context, f auth.ScopeFilter, limit, offset int) ([]*payment.Payment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*payment.Payment
	for _, p := range m.payments {
		if !matchesRecordScope(p.PsychologistID, p.CenterID, f) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), len(out), nil
}

func (m *memPayments) ListBetween(_ context.Context, f auth.ScopeFilter, start, end string) ([]*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*payment.Payment
	for _, p := range m.payments {
		if !matchesRecordScope(p.PsychologistID, p.CenterID, f) {
			continue
		}
		if p.PaymentDate < start || p.PaymentDate > end {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// testApp is the fully wired API backed by in-memory stores.
type testApp struct {
	e *echo.Echo
}

func newTestApp() *testApp {
	logger := zerolog.Nop()
	tokens := auth.NewTokenIssuer("integration-secret", time.Hour)

	identitySvc := identity.NewService(&memUsers{}, tokens)
	centerSvc := center.NewService(&memCenters{})
	patientSvc := patient.NewService(&memPatients{}, centerSvc)
	apptSvc := appointment.NewService(&memAppointments{}, patientSvc)
	objectiveSvc := objective.NewService(&memObjectives{}, patientSvc)
	paymentSvc := payment.NewService(&memPayments{}, patientSvc)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.EchoErrorHandler(logger)

	api := e.Group("/api")
	authed := e.Group("/api", auth.BearerAuth(tokens, identitySvc.ResolveIdentity))

	identity.NewHandler(identitySvc, centerSvc).RegisterRoutes(api, authed)
	center.NewHandler(centerSvc).RegisterRoutes(authed)
	patient.NewHandler(patientSvc).RegisterRoutes(authed)
	appointment.NewHandler(apptSvc).RegisterRoutes(authed)
	objective.NewHandler(objectiveSvc).RegisterRoutes(authed)
	payment.NewHandler(paymentSvc).RegisterRoutes(authed)

	return &testApp{e: e}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload := []byte(nil)
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// bootstrap provisions the super admin and logs in as it.
func (a *testApp) bootstrap(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/init/super-admin", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bootstrap = %d: %s", rec.Code, rec.Body.String())
	}
	return a.login(t, identity.BootstrapAdminEmail, identity.BootstrapAdminPassword)
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s = %d: %s", email, rec.Code, rec.Body.String())
	}
	return decode[identity.Token](t, rec).AccessToken
}

func (a *testApp) createUser(t *testing.T, adminToken, email, role, centerID string) identity.User {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/users", adminToken, map[string]string{
		"email":     email,
		"password":  "secret123",
		"full_name": "Test " + role,
		"role":      role,
		"center_id": centerID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user %s = %d: %s", email, rec.Code, rec.Body.String())
	}
	return decode[identity.User](t, rec)
}

func (a *testApp) createCenter(t *testing.T, adminToken, name string) center.Center {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/centers", adminToken, map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create center %s = %d: %s", name, rec.Code, rec.Body.String())
	}
	return decode[center.Center](t, rec)
}

func (a *testApp) createPatient(t *testing.T, token string, body map[string]any) patient.Patient {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/patients", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create patient = %d: %s", rec.Code, rec.Body.String())
	}
	return decode[patient.Patient](t, rec)
}

// anamnesisBody returns a complete intake payload with all thirteen sections.
func anamnesisBody() map[string]any {
	body := map[string]any{
		"general_data": map[string]any{
			"patient_name": "Luis Torres",
			"birth_date":   "2018-03-14",
			"age_years":    7,
			"age_months":   5,
			"informants":   []string{"mother"},
		},
		"interview_observations": "calm and cooperative",
	}
	for _, section := range []string{
		"consultation_motive", "evolutionary_history", "medical_history",
		"neuromuscular_development", "speech_history", "habits_formation",
		"conduct", "play", "educational_history", "psychosexuality",
		"parental_attitudes", "family_history",
	} {
		body[section] = map[string]any{}
	}
	return body
}
