package objective

import "time"

// Objective statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var validStatus = map[string]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// Objective priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var validPriority = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// SessionObjective is a weekly treatment goal for a patient, optionally
// tied to a specific appointment. Ownership is denormalized from the
// patient record at creation.
type SessionObjective struct {
	ID              string    `bson:"id" json:"id"`
	PatientID       string    `bson:"patient_id" json:"patient_id"`
	AppointmentID   string    `bson:"appointment_id,omitempty" json:"appointment_id,omitempty"`
	PsychologistID  string    `bson:"psychologist_id" json:"psychologist_id"`
	CenterID        string    `bson:"center_id" json:"center_id"`
	WeekStartDate   string    `bson:"week_start_date" json:"week_start_date"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	Status          string    `bson:"status" json:"status"`
	Priority        string    `bson:"priority" json:"priority"`
	TargetDate      string    `bson:"target_date,omitempty" json:"target_date,omitempty"`
	CompletionNotes string    `bson:"completion_notes,omitempty" json:"completion_notes,omitempty"`
	CreatedBy       string    `bson:"created_by" json:"created_by"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateObjectiveInput struct {
	PatientID     string `json:"patient_id"`
	AppointmentID string `json:"appointment_id"`
	WeekStartDate string `json:"week_start_date"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	TargetDate    string `json:"target_date"`
}

// ObjectivePatch carries a partial update; nil fields are left untouched.
type ObjectivePatch struct {
	WeekStartDate   *string `json:"week_start_date"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Status          *string `json:"status"`
	Priority        *string `json:"priority"`
	TargetDate      *string `json:"target_date"`
	CompletionNotes *string `json:"completion_notes"`
}

// ListQuery is the optional query-string filter set for objective lists.
type ListQuery struct {
	PatientID     string `query:"patient_id"`
	WeekStartDate string `query:"week_start_date"`
	Status        string `query:"status"`
}
