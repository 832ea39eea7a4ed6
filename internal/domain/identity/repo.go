package identity

import (
	"context"

	"github.com/psyportal/psyportal/internal/platform/auth"
)

// Repository is the user collection. Implementations return
// apperr.NotFound for missing users and apperr.Conflict for duplicate
// emails.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, f auth.UserFilter, limit, offset int) ([]*User, int, error)
	CountByRole(ctx context.Context, role string) (int, error)
}
