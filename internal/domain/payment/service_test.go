package payment

import (
	"context"
	"testing"
	"time"

	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
)

type mockRepo struct {
	payments map[string]*Payment
}

func newMockRepo() *mockRepo {
	return &mockRepo{payments: make(map[string]*Payment)}
}

func (m *mockRepo) Create(_ context.Context, p *Payment) error {
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, apperr.NotFound("payment not found")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Payment) error {
	if _, ok := m.payments[p.ID]; !ok {
		return apperr.NotFound("payment not found")
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.payments[id]; !ok {
		return apperr.NotFound("payment not found")
	}
	delete(m.payments, id)
	return nil
}

func (m *mockRepo) scoped(f auth.ScopeFilter) []*Payment {
	var out []*Payment
	for _, p := range m.payments {
		switch {
		case f.All:
		case f.CenterID != "":
			if p.CenterID != f.CenterID {
				continue
			}
		default:
			if p.PsychologistID != f.PsychologistID {
				continue
			}
		}
		cp := *p
		out = append(out, &cp)
	}
	return out
}

func (m *mockRepo) List(_ context.Context, f auth.ScopeFilter, limit, offset int) ([]*Payment, int, error) {
	out := m.scoped(f)
	return out, len(out), nil
}

func (m *mockRepo) ListBetween(_ context.Context, f auth.ScopeFilter, start, end string) ([]*Payment, error) {
	var out []*Payment
	for _, p := range m.scoped(f) {
		if p.PaymentDate >= start && p.PaymentDate <= end {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubPatients struct {
	scopes map[string]auth.RecordScope
}

func (s stubPatients) RecordScope(_ context.Context, actor auth.Identity, patientID string) (auth.RecordScope, error) {
	scope, ok := s.scopes[patientID]
	if !ok {
		return auth.RecordScope{}, apperr.NotFound("patient not found")
	}
	if !auth.CanAccessRecord(actor, scope) {
		return auth.RecordScope{}, apperr.Forbidden("access denied")
	}
	return scope, nil
}

var (
	superAdmin = auth.Identity{UserID: "sa", Role: auth.RoleSuperAdmin}
	owner      = auth.Identity{UserID: "psy-1", Role: auth.RolePsychologist, CenterID: "center-a"}
	outsider   = auth.Identity{UserID: "psy-2", Role: auth.RolePsychologist, CenterID: "center-b"}
)

// frozen "today" for the stats tests
var testNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	patients := stubPatients{scopes: map[string]auth.RecordScope{
		"pat-1": {PsychologistID: "psy-1", CenterID: "center-a"},
	}}
	svc := NewService(repo, patients)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func validInput() CreatePaymentInput {
	return CreatePaymentInput{
		PatientID:   "pat-1",
		Amount:      80,
		PaymentDate: "2026-08-31",
		SessionDate: "2026-08-31",
		Method:      "cash",
	}
}

func TestCreatePayment(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), owner, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != StatusCompleted {
		t.Errorf("default status = %s", p.Status)
	}
	if p.PsychologistID != "psy-1" || p.CenterID != "center-a" {
		t.Errorf("ownership stamp = %s/%s", p.PsychologistID, p.CenterID)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreatePaymentInput)
	}{
		{"missing patient", func(in *CreatePaymentInput) { in.PatientID = "" }},
		{"zero amount", func(in *CreatePaymentInput) { in.Amount = 0 }},
		{"negative amount", func(in *CreatePaymentInput) { in.Amount = -5 }},
		{"bad payment date", func(in *CreatePaymentInput) { in.PaymentDate = "31-08-2026" }},
		{"bad session date", func(in *CreatePaymentInput) { in.SessionDate = "yesterday" }},
		{"bad status", func(in *CreatePaymentInput) { in.Status = "paid" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(ctx, owner, in); !apperr.IsCode(err, apperr.CodeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if _, err := svc.Create(ctx, outsider, validInput()); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Errorf("payment for an inaccessible patient should be forbidden, got %v", err)
	}
}

func TestPaymentUpdateAndDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := 95.5
	updated, err := svc.Update(ctx, owner, p.ID, PaymentPatch{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 95.5 || updated.Method != "cash" {
		t.Errorf("updated = %+v", updated)
	}

	if err := svc.Delete(ctx, outsider, p.ID); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Errorf("outsider delete should be forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, owner, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.payments) != 0 {
		t.Error("delete must remove the document")
	}
}

func TestStatsWindows(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// testNow is Monday 2026-08-31: same day, inside the trailing week
	// (2026-08-25..31), inside the calendar month, and out of all windows.
	mk := func(date string, amount float64) {
		in := validInput()
		in.PaymentDate = date
		in.Amount = amount
		if _, err := svc.Create(ctx, owner, in); err != nil {
			t.Fatalf("create %s: %v", date, err)
		}
	}
	mk("2026-08-31", 100) // today
	mk("2026-08-27", 50)  // this week and month
	mk("2026-08-05", 30)  // this month only
	mk("2026-07-20", 999) // out of every window

	stats, err := svc.Stats(ctx, owner)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.DailyTotal != 100 || stats.DailyCount != 1 {
		t.Errorf("daily = %v/%d", stats.DailyTotal, stats.DailyCount)
	}
	if stats.WeeklyTotal != 150 || stats.WeeklyCount != 2 {
		t.Errorf("weekly = %v/%d", stats.WeeklyTotal, stats.WeeklyCount)
	}
	if stats.MonthlyTotal != 180 || stats.MonthlyCount != 3 {
		t.Errorf("monthly = %v/%d", stats.MonthlyTotal, stats.MonthlyCount)
	}
	if stats.AveragePerSession != 60 {
		t.Errorf("average_per_session = %v", stats.AveragePerSession)
	}
}

func TestStatsEmptyMonth(t *testing.T) {
	svc, _ := newTestService()

	stats, err := svc.Stats(context.Background(), owner)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.AveragePerSession != 0 {
		t.Errorf("average with no payments must be 0, got %v", stats.AveragePerSession)
	}
}

func TestStatsScoping(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := svc.Stats(ctx, outsider)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.MonthlyTotal != 0 {
		t.Error("outsider stats must not include other psychologists' payments")
	}

	stats, err = svc.Stats(ctx, superAdmin)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.MonthlyTotal != 80 {
		t.Errorf("super admin monthly total = %v", stats.MonthlyTotal)
	}
}
