package payment

import "time"

// Payment statuses.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusRefunded  = "refunded"
)

var validStatus = map[string]bool{
	StatusCompleted: true,
	StatusPending:   true,
	StatusRefunded:  true,
}

// Payment records money received for a session. Ownership is denormalized
// from the patient record at creation.
type Payment struct {
	ID             string    `bson:"id" json:"id"`
	PatientID      string    `bson:"patient_id" json:"patient_id"`
	AppointmentID  string    `bson:"appointment_id,omitempty" json:"appointment_id,omitempty"`
	PsychologistID string    `bson:"psychologist_id" json:"psychologist_id"`
	CenterID       string    `bson:"center_id" json:"center_id"`
	Amount         float64   `bson:"amount" json:"amount"`
	PaymentDate    string    `bson:"payment_date" json:"payment_date"`
	SessionDate    string    `bson:"session_date,omitempty" json:"session_date,omitempty"`
	Method         string    `bson:"method,omitempty" json:"method,omitempty"`
	Status         string    `bson:"status" json:"status"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy      string    `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

type CreatePaymentInput struct {
	PatientID     string  `json:"patient_id"`
	AppointmentID string  `json:"appointment_id"`
	Amount        float64 `json:"amount"`
	PaymentDate   string  `json:"payment_date"`
	SessionDate   string  `json:"session_date"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	Notes         string  `json:"notes"`
}

// PaymentPatch carries a partial update; nil fields are left untouched.
type PaymentPatch struct {
	Amount      *float64 `json:"amount"`
	PaymentDate *string  `json:"payment_date"`
	SessionDate *string  `json:"session_date"`
	Method      *string  `json:"method"`
	Status      *string  `json:"status"`
	Notes       *string  `json:"notes"`
}

// Stats aggregates income over the windows ending today: the day itself,
// the trailing seven days, and the calendar month. AveragePerSession is
// the monthly total divided by the monthly payment count, zero when the
// month has no payments.
type Stats struct {
	DailyTotal        float64 `json:"daily_total"`
	WeeklyTotal       float64 `json:"weekly_total"`
	MonthlyTotal      float64 `json:"monthly_total"`
	DailyCount        int     `json:"daily_count"`
	WeeklyCount       int     `json:"weekly_count"`
	MonthlyCount      int     `json:"monthly_count"`
	AveragePerSession float64 `json:"average_per_session"`
}
