package appointment

import (
	"context"

	"github.com/psyportal/psyportal/internal/platform/auth"
)

// Repository is the appointment collection. Appointments are hard-deleted.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f auth.ScopeFilter, q ListQuery, limit, offset int) ([]*Appointment, int, error)
}
