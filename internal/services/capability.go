package services

import (
	"context"

	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/store"
)

// CapabilityService answers role questions about authenticated users.
type CapabilityService struct {
	store store.Store
}

func NewCapabilityService(s store.Store) *CapabilityService {
	return &CapabilityService{store: s}
}

// IsDeveloper reports whether userID holds the developer role.
func (s *CapabilityService) IsDeveloper(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.store.Roles().HasRole(ctx, userID, model.RoleDeveloper)
}

// GrantDeveloper gives userID the developer role. Used by the operator CLI.
func (s *CapabilityService) GrantDeveloper(ctx context.Context, userID string) error {
	return s.store.Roles().Grant(ctx, userID, model.RoleDeveloper)
}
