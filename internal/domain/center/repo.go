package center

import "context"

// Repository is the center collection. Implementations return
// apperr.NotFound for missing centers.
type Repository interface {
	Create(ctx context.Context, c *Center) error
	GetByID(ctx context.Context, id string) (*Center, error)
	GetByName(ctx context.Context, name string) (*Center, error)
	Update(ctx context.Context, c *Center) error
	List(ctx context.Context, limit, offset int) ([]*Center, int, error)
	// FirstActive returns the oldest active center, or apperr.NotFound
	// when none exists.
	FirstActive(ctx context.Context) (*Center, error)
}
