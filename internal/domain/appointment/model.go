package appointment

import "time"

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

var validStatus = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// Appointment is a scheduled session. The treating psychologist and center
// are denormalized from the patient record at creation so list scoping
// never needs a join.
type Appointment struct {
	ID              string    `bson:"id" json:"id"`
	PatientID       string    `bson:"patient_id" json:"patient_id"`
	PsychologistID  string    `bson:"psychologist_id" json:"psychologist_id"`
	CenterID        string    `bson:"center_id" json:"center_id"`
	Date            string    `bson:"date" json:"date"`
	Time            string    `bson:"time" json:"time"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	AppointmentType string    `bson:"appointment_type" json:"appointment_type"`
	Status          string    `bson:"status" json:"status"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Objectives      []string  `bson:"objectives" json:"objectives"`
	CreatedBy       string    `bson:"created_by" json:"created_by"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateAppointmentInput struct {
	PatientID       string   `json:"patient_id"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	DurationMinutes int      `json:"duration_minutes"`
	AppointmentType string   `json:"appointment_type"`
	Status          string   `json:"status"`
	Notes           string   `json:"notes"`
	Objectives      []string `json:"objectives"`
}

// AppointmentPatch carries a partial update; nil fields are left untouched.
type AppointmentPatch struct {
	Date            *string   `json:"date"`
	Time            *string   `json:"time"`
	DurationMinutes *int      `json:"duration_minutes"`
	AppointmentType *string   `json:"appointment_type"`
	Status          *string   `json:"status"`
	Notes           *string   `json:"notes"`
	Objectives      *[]string `json:"objectives"`
}

// ListQuery is the optional query-string filter set for appointment lists.
type ListQuery struct {
	PatientID string `query:"patient_id"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}
