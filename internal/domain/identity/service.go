package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
)

// Bootstrap credentials for the one-time super-admin setup.
const (
	BootstrapAdminEmail    = "admin@psychologyportal.com"
	BootstrapAdminPassword = "admin123"
	bootstrapAdminName     = "System Administrator"
)

const minPasswordLen = 6

type Service struct {
	users  Repository
	tokens *auth.TokenIssuer
}

func NewService(users Repository, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password produce the same error; an inactive account is reported
// separately (as the original system did) once the password checks out.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Token, error) {
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Unauthenticated("incorrect email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperr.Unauthenticated("incorrect email or password")
	}
	if !u.IsActive {
		return nil, apperr.Validation("inactive user")
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperr.Internal("issue token: %v", err)
	}
	return &Token{AccessToken: token, TokenType: "bearer", User: u}, nil
}

// ResolveIdentity maps a verified token subject to a live identity. It fails
// for unknown or deactivated users so stale tokens stop working the moment
// an account is disabled.
func (s *Service) ResolveIdentity(ctx context.Context, userID string) (*auth.Identity, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apperr.Unauthenticated("could not validate credentials")
	}
	return &auth.Identity{UserID: u.ID, Role: u.Role, CenterID: u.CenterID}, nil
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// Create registers a new user. Center admins are pinned to their own center
// and may not create super admins.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateUserInput) (*User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, apperr.Validation("email is invalid")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperr.Validation("full_name is required")
	}
	if !auth.ValidRole(in.Role) {
		return nil, apperr.Validation("role must be one of super_admin, center_admin, psychologist")
	}

	if actor.IsCenterAdmin() {
		in.CenterID = actor.CenterID
	}
	if !auth.CanManageUser(actor, in.Role, in.CenterID) {
		return nil, apperr.Forbidden("insufficient permissions to create this user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("hash password: %v", err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:             uuid.NewString(),
		Email:          in.Email,
		FullName:       in.FullName,
		Role:           in.Role,
		CenterID:       in.CenterID,
		Phone:          in.Phone,
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
		IsActive:       true,
		PasswordHash:   string(hash),
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List returns users visible to the actor, scoped by the access policy.
func (s *Service) List(ctx context.Context, actor auth.Identity, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, auth.UserListFilter(actor), limit, offset)
}

// Update applies a partial update. Non-admins may only touch the self-update
// allow-list on their own record; admins are bound by the management policy.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, patch UserPatch) (*User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.UserID == id && !actor.IsAdmin() {
		for _, f := range patch.fields() {
			if !auth.SelfUpdateAllowed(f) {
				return nil, apperr.Forbidden("field %s cannot be changed on your own account", f)
			}
		}
	} else if !auth.CanManageUser(actor, target.Role, target.CenterID) {
		return nil, apperr.Forbidden("insufficient permissions to modify this user")
	}

	if patch.Role != nil {
		if !auth.ValidRole(*patch.Role) {
			return nil, apperr.Validation("role must be one of super_admin, center_admin, psychologist")
		}
		if !auth.CanManageUser(actor, *patch.Role, target.CenterID) {
			return nil, apperr.Forbidden("insufficient permissions to assign this role")
		}
		target.Role = *patch.Role
	}
	if patch.CenterID != nil {
		if actor.IsCenterAdmin() && *patch.CenterID != actor.CenterID {
			return nil, apperr.Forbidden("cannot move users outside your center")
		}
		target.CenterID = *patch.CenterID
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, apperr.Validation("email is invalid")
		}
		target.Email = email
	}
	if patch.Password != nil {
		if len(*patch.Password) < minPasswordLen {
			return nil, apperr.Validation("password must be at least %d characters", minPasswordLen)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Internal("hash password: %v", err)
		}
		target.PasswordHash = string(hash)
	}
	if patch.FullName != nil {
		if strings.TrimSpace(*patch.FullName) == "" {
			return nil, apperr.Validation("full_name is required")
		}
		target.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		target.Phone = *patch.Phone
	}
	if patch.Specialization != nil {
		target.Specialization = *patch.Specialization
	}
	if patch.LicenseNumber != nil {
		target.LicenseNumber = *patch.LicenseNumber
	}
	if patch.IsActive != nil {
		target.IsActive = *patch.IsActive
	}

	target.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Deactivate soft-deletes a user.
func (s *Service) Deactivate(ctx context.Context, actor auth.Identity, id string) error {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanManageUser(actor, target.Role, target.CenterID) {
		return apperr.Forbidden("insufficient permissions to delete this user")
	}
	target.IsActive = false
	target.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, target)
}

// BootstrapSuperAdmin creates the initial super admin. It fails once any
// super admin exists.
func (s *Service) BootstrapSuperAdmin(ctx context.Context) (*User, error) {
	n, err := s.users.CountByRole(ctx, auth.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.Conflict("super admin already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(BootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("hash password: %v", err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Email:        BootstrapAdminEmail,
		FullName:     bootstrapAdminName,
		Role:         auth.RoleSuperAdmin,
		IsActive:     true,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
