package center

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
)

// DefaultCenterName is the center provisioned alongside the initial
// super admin so every installation has a home for its first patients.
const DefaultCenterName = "Default Psychology Center"

type Service struct {
	centers Repository
}

func NewService(centers Repository) *Service {
	return &Service{centers: centers}
}

// Create registers a new center. Super admins only.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateCenterInput) (*Center, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.Forbidden("only super admins can manage centers")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("name is required")
	}

	now := time.Now().UTC()
	center := &Center{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Address:         in.Address,
		Phone:           in.Phone,
		Email:           in.Email,
		AdminUserID:     in.AdminUserID,
		PsychologistIDs: []string{},
		IsActive:        true,
		CreatedBy:       actor.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.centers.Create(ctx, center); err != nil {
		return nil, err
	}
	return center, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Center, error) {
	return s.centers.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, actor auth.Identity, limit, offset int) ([]*Center, int, error) {
	if !actor.IsSuperAdmin() {
		return nil, 0, apperr.Forbidden("only super admins can manage centers")
	}
	return s.centers.List(ctx, limit, offset)
}

// Update applies a partial update to a center. Super admins only.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, patch CenterPatch) (*Center, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.Forbidden("only super admins can manage centers")
	}
	center, err := s.centers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, apperr.Validation("name is required")
		}
		center.Name = *patch.Name
	}
	if patch.Address != nil {
		center.Address = *patch.Address
	}
	if patch.Phone != nil {
		center.Phone = *patch.Phone
	}
	if patch.Email != nil {
		center.Email = *patch.Email
	}
	if patch.AdminUserID != nil {
		center.AdminUserID = *patch.AdminUserID
	}
	if patch.PsychologistIDs != nil {
		center.PsychologistIDs = *patch.PsychologistIDs
	}
	if patch.IsActive != nil {
		center.IsActive = *patch.IsActive
	}

	center.UpdatedAt = time.Now().UTC()
	if err := s.centers.Update(ctx, center); err != nil {
		return nil, err
	}
	return center, nil
}

// EnsureDefault creates the default center if no center exists yet. It is
// called once during super-admin bootstrap so patient creation always has
// a center to fall back on.
func (s *Service) EnsureDefault(ctx context.Context, creatorID string) error {
	_, err := s.centers.FirstActive(ctx)
	if err == nil {
		return nil
	}
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		return err
	}

	now := time.Now().UTC()
	return s.centers.Create(ctx, &Center{
		ID:              uuid.NewString(),
		Name:            DefaultCenterName,
		PsychologistIDs: []string{},
		IsActive:        true,
		CreatedBy:       creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// FallbackCenterID picks the center for a patient created without an
// explicit center: the actor's own center when set, else the oldest
// active center.
func (s *Service) FallbackCenterID(ctx context.Context, actor auth.Identity) (string, error) {
	if actor.CenterID != "" {
		return actor.CenterID, nil
	}
	center, err := s.centers.FirstActive(ctx)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return "", apperr.Validation("no center available; create a center first")
		}
		return "", err
	}
	return center.ID, nil
}
