package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
)

// CenterResolver picks the center a patient belongs to when the creating
// user has no center of their own.
type CenterResolver interface {
	FallbackCenterID(ctx context.Context, actor auth.Identity) (string, error)
}

type Service struct {
	patients Repository
	centers  CenterResolver
}

func NewService(patients Repository, centers CenterResolver) *Service {
	return &Service{patients: patients, centers: centers}
}

func validPatientType(t string) bool {
	return t == TypeIndividual || t == TypeShared
}

// Create registers a new patient owned by the creating user.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreatePatientInput) (*Patient, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, apperr.Validation("first_name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, apperr.Validation("last_name is required")
	}
	if in.PatientType == "" {
		in.PatientType = TypeIndividual
	}
	if !validPatientType(in.PatientType) {
		return nil, apperr.Validation("patient_type must be individual or shared")
	}
	if in.PatientType == TypeIndividual && len(in.SharedWith) > 0 {
		return nil, apperr.Validation("shared_with requires patient_type shared")
	}
	if in.SharedWith == nil {
		in.SharedWith = []string{}
	}

	centerID, err := s.centers.FallbackCenterID(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Patient{
		ID:               uuid.NewString(),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Phone:            in.Phone,
		DateOfBirth:      in.DateOfBirth,
		Gender:           in.Gender,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		PsychologistID:   actor.UserID,
		CenterID:         centerID,
		PatientType:      in.PatientType,
		SharedWith:       in.SharedWith,
		Evaluations:      []Evaluation{},
		ProgressNotes:    []ProgressNote{},
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// authorize loads a patient and applies the access policy: not-found wins
// over forbidden.
func (s *Service) authorize(ctx context.Context, actor auth.Identity, id string) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := auth.PatientScope{
		PsychologistID: p.PsychologistID,
		CenterID:       p.CenterID,
		SharedWith:     p.SharedWith,
	}
	if !auth.CanAccessPatient(actor, scope) {
		return nil, apperr.Forbidden("access denied")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (*Patient, error) {
	return s.authorize(ctx, actor, id)
}

// RecordScope authorizes access to a patient and returns the ownership
// snapshot that practitioner-owned records (appointments, objectives,
// payments) are stamped with.
func (s *Service) RecordScope(ctx context.Context, actor auth.Identity, patientID string) (auth.RecordScope, error) {
	p, err := s.authorize(ctx, actor, patientID)
	if err != nil {
		return auth.RecordScope{}, err
	}
	return auth.RecordScope{PsychologistID: p.PsychologistID, CenterID: p.CenterID}, nil
}

func (s *Service) List(ctx context.Context, actor auth.Identity, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, auth.PatientListFilter(actor), limit, offset)
}

// Update applies a partial update to the patient's identity and contact
// fields.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, patch PatientPatch) (*Patient, error) {
	p, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			return nil, apperr.Validation("first_name is required")
		}
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		if strings.TrimSpace(*patch.LastName) == "" {
			return nil, apperr.Validation("last_name is required")
		}
		p.LastName = *patch.LastName
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.DateOfBirth != nil {
		p.DateOfBirth = *patch.DateOfBirth
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.EmergencyContact != nil {
		p.EmergencyContact = *patch.EmergencyContact
	}
	if patch.PatientType != nil {
		if !validPatientType(*patch.PatientType) {
			return nil, apperr.Validation("patient_type must be individual or shared")
		}
		p.PatientType = *patch.PatientType
	}
	if patch.SharedWith != nil {
		p.SharedWith = *patch.SharedWith
	}
	if p.PatientType == TypeIndividual && len(p.SharedWith) > 0 {
		return nil, apperr.Validation("shared_with requires patient_type shared")
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Deactivate soft-deletes a patient; the record stays retrievable by id but
// disappears from every list.
func (s *Service) Deactivate(ctx context.Context, actor auth.Identity, id string) error {
	p, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	return s.patients.Update(ctx, p)
}

// HistoryNumber derives the clinical history number from the patient id.
// It is deterministic so re-creations of the intake form agree with the
// first one.
func HistoryNumber(patientID string) string {
	if len(patientID) > 8 {
		patientID = patientID[len(patientID)-8:]
	}
	return fmt.Sprintf("HCL-%s", patientID)
}

// SaveAnamnesis creates or rewrites the patient's intake form. Content is
// last-writer-wins; the history number and creation stamps are assigned
// once and re-injected on every rewrite.
func (s *Service) SaveAnamnesis(ctx context.Context, actor auth.Identity, patientID string, in AnamnesisInput) (*Anamnesis, error) {
	p, err := s.authorize(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	if missing := in.missingSection(); missing != "" {
		return nil, apperr.Unprocessable("field %s is required", missing)
	}

	now := time.Now().UTC()
	a := &Anamnesis{
		PatientID:                patientID,
		GeneralData:              *in.GeneralData,
		ConsultationMotive:       *in.ConsultationMotive,
		EvolutionaryHistory:      *in.EvolutionaryHistory,
		MedicalHistory:           *in.MedicalHistory,
		NeuromuscularDevelopment: *in.NeuromuscularDevelopment,
		SpeechHistory:            *in.SpeechHistory,
		HabitsFormation:          *in.HabitsFormation,
		Conduct:                  *in.Conduct,
		Play:                     *in.Play,
		EducationalHistory:       *in.EducationalHistory,
		Psychosexuality:          *in.Psychosexuality,
		ParentalAttitudes:        *in.ParentalAttitudes,
		FamilyHistory:            *in.FamilyHistory,
		InterviewObservations:    in.InterviewObservations,
		UpdatedAt:                now,
	}
	if a.FamilyHistory.OtherConditions == nil {
		a.FamilyHistory.OtherConditions = []string{}
	}

	if prev := p.Anamnesis; prev != nil {
		a.HistoryNumber = prev.HistoryNumber
		a.CreationDate = prev.CreationDate
		a.CreatedBy = prev.CreatedBy
		a.CreatedAt = prev.CreatedAt
	} else {
		a.HistoryNumber = HistoryNumber(patientID)
		a.CreationDate = now.Format("2006-01-02")
		a.CreatedBy = actor.UserID
		a.CreatedAt = now
	}

	if err := s.patients.SetAnamnesis(ctx, patientID, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetAnamnesis returns the patient's intake form, 404 when none was
// recorded yet.
func (s *Service) GetAnamnesis(ctx context.Context, actor auth.Identity, patientID string) (*Anamnesis, error) {
	p, err := s.authorize(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	if p.Anamnesis == nil {
		return nil, apperr.NotFound("anamnesis not found")
	}
	return p.Anamnesis, nil
}

// SetClinicalHistory replaces the patient's clinical summary.
func (s *Service) SetClinicalHistory(ctx context.Context, actor auth.Identity, patientID string, h ClinicalHistory) error {
	if _, err := s.authorize(ctx, actor, patientID); err != nil {
		return err
	}
	h.CreatedBy = actor.UserID
	h.CreatedAt = time.Now().UTC()
	return s.patients.SetClinicalHistory(ctx, patientID, &h)
}

// SetDiagnosis replaces the patient's diagnosis document.
func (s *Service) SetDiagnosis(ctx context.Context, actor auth.Identity, patientID string, d Diagnosis) error {
	if _, err := s.authorize(ctx, actor, patientID); err != nil {
		return err
	}
	if d.DSM5Codes == nil {
		d.DSM5Codes = []string{}
	}
	d.CreatedBy = actor.UserID
	d.CreatedAt = time.Now().UTC()
	return s.patients.SetDiagnosis(ctx, patientID, &d)
}

// AddEvaluation appends a psychological evaluation to the record.
func (s *Service) AddEvaluation(ctx context.Context, actor auth.Identity, patientID string, e Evaluation) (*Evaluation, error) {
	if _, err := s.authorize(ctx, actor, patientID); err != nil {
		return nil, err
	}
	e.ID = uuid.NewString()
	e.CreatedBy = actor.UserID
	e.CreatedAt = time.Now().UTC()
	if err := s.patients.AddEvaluation(ctx, patientID, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// AddProgressNote appends a session progress note to the record.
func (s *Service) AddProgressNote(ctx context.Context, actor auth.Identity, patientID string, n ProgressNote) (*ProgressNote, error) {
	if _, err := s.authorize(ctx, actor, patientID); err != nil {
		return nil, err
	}
	if n.DurationMinutes <= 0 {
		return nil, apperr.Validation("duration_minutes must be positive")
	}
	n.ID = uuid.NewString()
	n.CreatedBy = actor.UserID
	n.CreatedAt = time.Now().UTC()
	if err := s.patients.AddProgressNote(ctx, patientID, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
