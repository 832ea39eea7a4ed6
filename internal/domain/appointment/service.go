package appointment

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
	appts    Repository
	patients PatientResolver
}

func NewService(appts Repository, patients PatientResolver) *Service {
	return &Service{appts: appts, patients: patients}
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func validTime(s string) bool {
	_, err := time.Parse(timeLayout, s)
	return err == nil
}

// Create schedules an appointment for a patient the actor may access.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateAppointmentInput) (*Appointment, error) {
	if in.PatientID == "" {
		return nil, apperr.Validation("patient_id is required")
	}
	if !validDate(in.Date) {
		return nil, apperr.Validation("date must be YYYY-MM-DD")
	}
	if !validTime(in.Time) {
		return nil, apperr.Validation("time must be HH:MM")
	}
	if in.DurationMinutes <= 0 {
		return nil, apperr.Validation("duration_minutes must be positive")
	}
	if in.Status == "" {
		in.Status = StatusScheduled
	}
	if !validStatus[in.Status] {
		return nil, apperr.Validation("status must be one of scheduled, completed, cancelled, no_show")
	}
	if in.Objectives == nil {
		in.Objectives = []string{}
	}

	scope, err := s.patients.RecordScope(ctx, actor, in.PatientID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &Appointment{
		ID:              uuid.NewString(),
		PatientID:       in.PatientID,
		PsychologistID:  scope.PsychologistID,
		CenterID:        scope.CenterID,
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: in.DurationMinutes,
		AppointmentType: in.AppointmentType,
		Status:          in.Status,
		Notes:           in.Notes,
		Objectives:      in.Objectives,
		CreatedBy:       actor.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// authorize loads an appointment and applies the record policy.
func (s *Service) authorize(ctx context.Context, actor auth.Identity, id string) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := auth.RecordScope{PsychologistID: a.PsychologistID, CenterID: a.CenterID}
	if !auth.CanAccessRecord(actor, scope) {
		return nil, apperr.Forbidden("access denied")
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (*Appointment, error) {
	return s.authorize(ctx, actor, id)
}

// List returns appointments visible to the actor, optionally narrowed by
// patient and date range. A patient_id filter requires access to that
// patient.
func (s *Service) List(ctx context.Context, actor auth.Identity, q ListQuery, limit, offset int) ([]*Appointment, int, error) {
	if q.PatientID != "" {
		if _, err := s.patients.RecordScope(ctx, actor, q.PatientID); err != nil {
			return nil, 0, err
		}
	}
	if q.StartDate != "" && !validDate(q.StartDate) {
		return nil, 0, apperr.Validation("start_date must be YYYY-MM-DD")
	}
	if q.EndDate != "" && !validDate(q.EndDate) {
		return nil, 0, apperr.Validation("end_date must be YYYY-MM-DD")
	}
	return s.appts.List(ctx, auth.RecordListFilter(actor), q, limit, offset)
}

// Update applies a partial update to an appointment.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, patch AppointmentPatch) (*Appointment, error) {
	a, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		if !validDate(*patch.Date) {
			return nil, apperr.Validation("date must be YYYY-MM-DD")
		}
		a.Date = *patch.Date
	}
	if patch.Time != nil {
		if !validTime(*patch.Time) {
			return nil, apperr.Validation("time must be HH:MM")
		}
		a.Time = *patch.Time
	}
	if patch.DurationMinutes != nil {
		if *patch.DurationMinutes <= 0 {
			return nil, apperr.Validation("duration_minutes must be positive")
		}
		a.DurationMinutes = *patch.DurationMinutes
	}
	if patch.AppointmentType != nil {
		a.AppointmentType = *patch.AppointmentType
	}
	if patch.Status != nil {
		if !validStatus[*patch.Status] {
			return nil, apperr.Validation("status must be one of scheduled, completed, cancelled, no_show")
		}
		a.Status = *patch.Status
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.Objectives != nil {
		a.Objectives = *patch.Objectives
	}

	a.UpdatedAt = time.Now().UTC()
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an appointment permanently.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.appts.Delete(ctx, id)
}
