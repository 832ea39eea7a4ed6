package objective

import (
	"context"

	"github.com/psyportal/psyportal/internal/platform/auth"
)

// Repository is the session objective collection. Objectives are
// hard-deleted.
type Repository interface {
	Create(ctx context.Context, o *SessionObjective) error
	GetByID(ctx context.Context, id string) (*SessionObjective, error)
	Update(ctx context.Context, o *SessionObjective) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f auth.ScopeFilter, q ListQuery, limit, offset int) ([]*SessionObjective, int, error)
}
