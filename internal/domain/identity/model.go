package identity

import "time"

// User is a staff account: super admin, center admin, or psychologist.
// The password hash lives in the same document but never serializes to JSON.
type User struct {
	ID             string    `bson:"id" json:"id"`
	Email          string    `bson:"email" json:"email"`
	FullName       string    `bson:"full_name" json:"full_name"`
	Role           string    `bson:"role" json:"role"`
	CenterID       string    `bson:"center_id,omitempty" json:"center_id,omitempty"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialization string    `bson:"specialization,omitempty" json:"specialization,omitempty"`
	LicenseNumber  string    `bson:"license_number,omitempty" json:"license_number,omitempty"`
	IsActive       bool      `bson:"is_active" json:"is_active"`
	PasswordHash   string    `bson:"password_hash" json:"-"`
	CreatedBy      string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// CreateUserInput is the payload for user creation.
type CreateUserInput struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	CenterID       string `json:"center_id"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

// UserPatch is a partial update: only non-nil fields are applied.
type UserPatch struct {
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	FullName       *string `json:"full_name"`
	Role           *string `json:"role"`
	CenterID       *string `json:"center_id"`
	Phone          *string `json:"phone"`
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"license_number"`
	IsActive       *bool   `json:"is_active"`
}

// fields returns the names of the fields present in the patch, using the
// wire names the self-update allow-list is keyed by.
func (p UserPatch) fields() []string {
	var out []string
	if p.Email != nil {
		out = append(out, "email")
	}
	if p.Password != nil {
		out = append(out, "password")
	}
	if p.FullName != nil {
		out = append(out, "full_name")
	}
	if p.Role != nil {
		out = append(out, "role")
	}
	if p.CenterID != nil {
		out = append(out, "center_id")
	}
	if p.Phone != nil {
		out = append(out, "phone")
	}
	if p.Specialization != nil {
		out = append(out, "specialization")
	}
	if p.LicenseNumber != nil {
		out = append(out, "license_number")
	}
	if p.IsActive != nil {
		out = append(out, "is_active")
	}
	return out
}

// LoginInput is the credential payload for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}
