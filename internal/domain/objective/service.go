package objective

import (
	"context"
	"strings"
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
	objectives Repository
	patients   PatientResolver
}

func NewService(objectives Repository, patients PatientResolver) *Service {
	return &Service{objectives: objectives, patients: patients}
}

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// Create records a weekly objective for a patient the actor may access.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateObjectiveInput) (*SessionObjective, error) {
	if in.PatientID == "" {
		return nil, apperr.Validation("patient_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if !validDate(in.WeekStartDate) {
		return nil, apperr.Validation("week_start_date must be YYYY-MM-DD")
	}
	if in.TargetDate != "" && !validDate(in.TargetDate) {
		return nil, apperr.Validation("target_date must be YYYY-MM-DD")
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	if !validStatus[in.Status] {
		return nil, apperr.Validation("status must be one of pending, in_progress, completed, cancelled")
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !validPriority[in.Priority] {
		return nil, apperr.Validation("priority must be one of low, medium, high")
	}

	scope, err := s.patients.RecordScope(ctx, actor, in.PatientID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &SessionObjective{
		ID:             uuid.NewString(),
		PatientID:      in.PatientID,
		AppointmentID:  in.AppointmentID,
		PsychologistID: scope.PsychologistID,
		CenterID:       scope.CenterID,
		WeekStartDate:  in.WeekStartDate,
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		TargetDate:     in.TargetDate,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.objectives.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) authorize(ctx context.Context, actor auth.Identity, id string) (*SessionObjective, error) {
	o, err := s.objectives.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := auth.RecordScope{PsychologistID: o.PsychologistID, CenterID: o.CenterID}
	if !auth.CanAccessRecord(actor, scope) {
		return nil, apperr.Forbidden("access denied")
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (*SessionObjective, error) {
	return s.authorize(ctx, actor, id)
}

// List returns objectives visible to the actor, optionally narrowed by
// patient, week, and status.
func (s *Service) List(ctx context.Context, actor auth.Identity, q ListQuery, limit, offset int) ([]*SessionObjective, int, error) {
	if q.PatientID != "" {
		if _, err := s.patients.RecordScope(ctx, actor, q.PatientID); err != nil {
			return nil, 0, err
		}
	}
	if q.WeekStartDate != "" && !validDate(q.WeekStartDate) {
		return nil, 0, apperr.Validation("week_start_date must be YYYY-MM-DD")
	}
	if q.Status != "" && !validStatus[q.Status] {
		return nil, 0, apperr.Validation("status must be one of pending, in_progress, completed, cancelled")
	}
	return s.objectives.List(ctx, auth.RecordListFilter(actor), q, limit, offset)
}

// Update applies a partial update to an objective.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, patch ObjectivePatch) (*SessionObjective, error) {
	o, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.WeekStartDate != nil {
		if !validDate(*patch.WeekStartDate) {
			return nil, apperr.Validation("week_start_date must be YYYY-MM-DD")
		}
		o.WeekStartDate = *patch.WeekStartDate
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, apperr.Validation("title is required")
		}
		o.Title = *patch.Title
	}
	if patch.Description != nil {
		o.Description = *patch.Description
	}
	if patch.Status != nil {
		if !validStatus[*patch.Status] {
			return nil, apperr.Validation("status must be one of pending, in_progress, completed, cancelled")
		}
		o.Status = *patch.Status
	}
	if patch.Priority != nil {
		if !validPriority[*patch.Priority] {
			return nil, apperr.Validation("priority must be one of low, medium, high")
		}
		o.Priority = *patch.Priority
	}
	if patch.TargetDate != nil {
		if *patch.TargetDate != "" && !validDate(*patch.TargetDate) {
			return nil, apperr.Validation("target_date must be YYYY-MM-DD")
		}
		o.TargetDate = *patch.TargetDate
	}
	if patch.CompletionNotes != nil {
		o.CompletionNotes = *patch.CompletionNotes
	}

	o.UpdatedAt = time.Now().UTC()
	if err := s.objectives.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes an objective permanently.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.objectives.Delete(ctx, id)
}
