package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
)

// PatientResolver authorizes the actor against a patient and returns the
// ownership snapshot new records are stamped with.
type PatientResolver interface {
	RecordScope(ctx context.Context, actor auth.Identity, patientID string) (auth.RecordScope, error)
}

type Service struct {
	payments Repository
	patients PatientResolver
	now      func() time.Time
}

func NewService(payments Repository, patients PatientResolver) *Service {
	return &Service{payments: payments, patients: patients, now: time.Now}
}

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// Create records a payment for a patient the actor may access.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreatePaymentInput) (*Payment, error) {
	if in.PatientID == "" {
		return nil, apperr.Validation("patient_id is required")
	}
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if !validDate(in.PaymentDate) {
		return nil, apperr.Validation("payment_date must be YYYY-MM-DD")
	}
	if in.SessionDate != "" && !validDate(in.SessionDate) {
		return nil, apperr.Validation("session_date must be YYYY-MM-DD")
	}
	if in.Status == "" {
		in.Status = StatusCompleted
	}
	if !validStatus[in.Status] {
		return nil, apperr.Validation("status must be one of completed, pending, refunded")
	}

	scope, err := s.patients.RecordScope(ctx, actor, in.PatientID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &Payment{
		ID:             uuid.NewString(),
		PatientID:      in.PatientID,
		AppointmentID:  in.AppointmentID,
		PsychologistID: scope.PsychologistID,
		CenterID:       scope.CenterID,
		Amount:         in.Amount,
		PaymentDate:    in.PaymentDate,
		SessionDate:    in.SessionDate,
		Method:         in.Method,
		Status:         in.Status,
		Notes:          in.Notes,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) authorize(ctx context.Context, actor auth.Identity, id string) (*Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := auth.RecordScope{PsychologistID: p.PsychologistID, CenterID: p.CenterID}
	if !auth.CanAccessRecord(actor, scope) {
		return nil, apperr.Forbidden("access denied")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (*Payment, error) {
	return s.authorize(ctx, actor, id)
}

func (s *Service) List(ctx context.Context, actor auth.Identity, limit, offset int) ([]*Payment, int, error) {
	return s.payments.List(ctx, auth.RecordListFilter(actor), limit, offset)
}

// Update applies a partial update to a payment.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, patch PaymentPatch) (*Payment, error) {
	p, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return nil, apperr.Validation("amount must be positive")
		}
		p.Amount = *patch.Amount
	}
	if patch.PaymentDate != nil {
		if !validDate(*patch.PaymentDate) {
			return nil, apperr.Validation("payment_date must be YYYY-MM-DD")
		}
		p.PaymentDate = *patch.PaymentDate
	}
	if patch.SessionDate != nil {
		if *patch.SessionDate != "" && !validDate(*patch.SessionDate) {
			return nil, apperr.Validation("session_date must be YYYY-MM-DD")
		}
		p.SessionDate = *patch.SessionDate
	}
	if patch.Method != nil {
		p.Method = *patch.Method
	}
	if patch.Status != nil {
		if !validStatus[*patch.Status] {
			return nil, apperr.Validation("status must be one of completed, pending, refunded")
		}
		p.Status = *patch.Status
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a payment permanently.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.payments.Delete(ctx, id)
}

// Stats rolls up the actor's visible payments into daily, trailing-week,
// and calendar-month totals as of today.
func (s *Service) Stats(ctx context.Context, actor auth.Identity) (*Stats, error) {
	today := s.now().UTC()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -6)

	rangeStart := monthStart
	if weekStart.Before(rangeStart) {
		rangeStart = weekStart
	}

	payments, err := s.payments.ListBetween(ctx, auth.RecordListFilter(actor),
		rangeStart.Format(dateLayout), today.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	return rollup(payments, today), nil
}

func rollup(payments []*Payment, today time.Time) *Stats {
	var (
		day       = today.Format(dateLayout)
		weekFrom  = today.AddDate(0, 0, -6).Format(dateLayout)
		monthFrom = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		stats     Stats
	)
	for _, p := range payments {
		if p.PaymentDate > day {
			continue
		}
		if p.PaymentDate == day {
			stats.DailyTotal += p.Amount
			stats.DailyCount++
		}
		if p.PaymentDate >= weekFrom {
			stats.WeeklyTotal += p.Amount
			stats.WeeklyCount++
		}
		if p.PaymentDate >= monthFrom {
			stats.MonthlyTotal += p.Amount
			stats.MonthlyCount++
		}
	}
	if stats.MonthlyCount > 0 {
		stats.AveragePerSession = stats.MonthlyTotal / float64(stats.MonthlyCount)
	}
	return &stats
}
