package patient

import "time"

// Patient types.
const (
	TypeIndividual = "individual"
	TypeShared     = "shared"
)

// Patient is a clinical record: identity and contact data plus the embedded
// clinical documents (anamnesis, clinical history, diagnosis, evaluations,
// progress notes). The owning psychologist and center are stamped at
// creation and drive the access policy.
type Patient struct {
	ID               string            `bson:"id" json:"id"`
	FirstName        string            `bson:"first_name" json:"first_name"`
	LastName         string            `bson:"last_name" json:"last_name"`
	Email            string            `bson:"email,omitempty" json:"email,omitempty"`
	Phone            string            `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth      string            `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Gender           string            `bson:"gender,omitempty" json:"gender,omitempty"`
	Address          string            `bson:"address,omitempty" json:"address,omitempty"`
	EmergencyContact map[string]string `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`

	PsychologistID string   `bson:"psychologist_id" json:"psychologist_id"`
	CenterID       string   `bson:"center_id" json:"center_id"`
	PatientType    string   `bson:"patient_type" json:"patient_type"`
	SharedWith     []string `bson:"shared_with" json:"shared_with"`

	ClinicalHistory *ClinicalHistory `bson:"clinical_history,omitempty" json:"clinical_history,omitempty"`
	Diagnosis       *Diagnosis       `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	Anamnesis       *Anamnesis       `bson:"anamnesis,omitempty" json:"anamnesis,omitempty"`
	Evaluations     []Evaluation     `bson:"evaluations" json:"evaluations"`
	ProgressNotes   []ProgressNote   `bson:"progress_notes" json:"progress_notes"`

	IsActive  bool      `bson:"is_active" json:"is_active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type CreatePatientInput struct {
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	DateOfBirth      string            `json:"date_of_birth"`
	Gender           string            `json:"gender"`
	Address          string            `json:"address"`
	EmergencyContact map[string]string `json:"emergency_contact"`
	PatientType      string            `json:"patient_type"`
	SharedWith       []string          `json:"shared_with"`
}

// PatientPatch carries a partial update; nil fields are left untouched.
// Ownership, center and the embedded clinical documents have their own
// endpoints and are never patched through here.
type PatientPatch struct {
	FirstName        *string            `json:"first_name"`
	LastName         *string            `json:"last_name"`
	Email            *string            `json:"email"`
	Phone            *string            `json:"phone"`
	DateOfBirth      *string            `json:"date_of_birth"`
	Gender           *string            `json:"gender"`
	Address          *string            `json:"address"`
	EmergencyContact *map[string]string `json:"emergency_contact"`
	PatientType      *string            `json:"patient_type"`
	SharedWith       *[]string          `json:"shared_with"`
}

// ClinicalHistory is the free-form clinical summary document.
type ClinicalHistory struct {
	ChiefComplaint          string         `bson:"chief_complaint" json:"chief_complaint"`
	HistoryOfPresentIllness string         `bson:"history_of_present_illness" json:"history_of_present_illness"`
	PastMedicalHistory      string         `bson:"past_medical_history" json:"past_medical_history"`
	FamilyHistory           string         `bson:"family_history" json:"family_history"`
	SocialHistory           string         `bson:"social_history" json:"social_history"`
	MentalStatusExam        map[string]any `bson:"mental_status_exam,omitempty" json:"mental_status_exam,omitempty"`
	CreatedBy               string         `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt               time.Time      `bson:"created_at" json:"created_at"`
}

type Diagnosis struct {
	PrimaryDiagnosis   string    `bson:"primary_diagnosis" json:"primary_diagnosis"`
	SecondaryDiagnosis string    `bson:"secondary_diagnosis,omitempty" json:"secondary_diagnosis,omitempty"`
	DSM5Codes          []string  `bson:"dsm5_codes" json:"dsm5_codes"`
	Severity           string    `bson:"severity" json:"severity"`
	Notes              string    `bson:"notes" json:"notes"`
	CreatedBy          string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

type Evaluation struct {
	ID             string         `bson:"id" json:"id"`
	EvaluationType string         `bson:"evaluation_type" json:"evaluation_type"`
	EvaluationDate string         `bson:"evaluation_date" json:"evaluation_date"`
	Results        map[string]any `bson:"results" json:"results"`
	Notes          string         `bson:"notes" json:"notes"`
	CreatedBy      string         `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
}

type ProgressNote struct {
	ID              string    `bson:"id" json:"id"`
	SessionDate     string    `bson:"session_date" json:"session_date"`
	SessionType     string    `bson:"session_type" json:"session_type"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	Objectives      []string  `bson:"objectives" json:"objectives"`
	Interventions   []string  `bson:"interventions" json:"interventions"`
	Progress        string    `bson:"progress" json:"progress"`
	HomeworkAssigned string   `bson:"homework_assigned,omitempty" json:"homework_assigned,omitempty"`
	NextSessionPlan string    `bson:"next_session_plan,omitempty" json:"next_session_plan,omitempty"`
	CreatedBy       string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
