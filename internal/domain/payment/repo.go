package payment

import (
	"context"

	"github.com/psyportal/psyportal/internal/platform/auth"
)

// Repository is the payment collection. Payments are hard-deleted.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f auth.ScopeFilter, limit, offset int) ([]*Payment, int, error)
	// ListBetween returns every scoped payment whose payment_date falls in
	// [start, end], both YYYY-MM-DD inclusive. Used by the stats rollup.
	ListBetween(ctx context.Context, f auth.ScopeFilter, start, end string) ([]*Payment, error)
}
