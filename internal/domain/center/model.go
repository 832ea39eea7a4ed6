package center

import "time"

// Center is a psychology center grouping admins and psychologists.
type Center struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Address         string    `bson:"address,omitempty" json:"address,omitempty"`
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	AdminUserID     string    `bson:"admin_user_id,omitempty" json:"admin_user_id,omitempty"`
	PsychologistIDs []string  `bson:"psychologist_ids" json:"psychologist_ids"`
	IsActive        bool      `bson:"is_active" json:"is_active"`
	CreatedBy       string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateCenterInput struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	AdminUserID string `json:"admin_user_id"`
}

// CenterPatch carries a partial update; nil fields are left untouched.
type CenterPatch struct {
	Name            *string   `json:"name"`
	Address         *string   `json:"address"`
	Phone           *string   `json:"phone"`
	Email           *string   `json:"email"`
	AdminUserID     *string   `json:"admin_user_id"`
	PsychologistIDs *[]string `json:"psychologist_ids"`
	IsActive        *bool     `json:"is_active"`
}
