package patient

import (
	"context"

	"github.com/psyportal/psyportal/internal/platform/auth"
)

// Repository is the patient collection. Single lookups return records
// regardless of active state (the service decides what a deactivated record
// means); lists only ever return active patients. The sub-document setters
// each bump the patient's updated_at in the same write.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context, f auth.ScopeFilter, limit, offset int) ([]*Patient, int, error)

	SetAnamnesis(ctx context.Context, patientID string, a *Anamnesis) error
	SetClinicalHistory(ctx context.Context, patientID string, h *ClinicalHistory) error
	SetDiagnosis(ctx context.Context, patientID string, d *Diagnosis) error
	AddEvaluation(ctx context.Context, patientID string, e *Evaluation) error
	AddProgressNote(ctx context.Context, patientID string, n *ProgressNote) error
}
