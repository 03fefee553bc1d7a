package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
)

// RoleLookup translates between role ids and names for collaborators that
// should not depend on the role repository.
type RoleLookup interface {
	// FindRoleNamesByIDs returns the distinct names of the roles in ids,
	// sorted. Unknown ids are ignored.
	FindRoleNamesByIDs(ctx context.Context, ids []string) ([]string, error)

	// FindRoleIDByName returns the id of the role with exactly this name.
	// ok is false when no such role exists.
	FindRoleIDByName(ctx context.Context, name string) (id string, ok bool, err error)
}

var _ RoleLookup = (*RoleLookupService)(nil)

type RoleLookupService struct {
	Store store.Store
}

func NewRoleLookupService(st store.Store) *RoleLookupService {
	return &RoleLookupService{Store: st}
}

func (s *RoleLookupService) FindRoleNamesByIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	rows, err := s.Store.Roles().FindAllByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find roles by id: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

func (s *RoleLookupService) FindRoleIDByName(ctx context.Context, name string) (string, bool, error) {
	row, err := s.Store.Roles().FindByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find role by name: %w", err)
	}
	return row.ID, true, nil
}
