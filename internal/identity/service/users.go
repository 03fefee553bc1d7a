package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/domain"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
)

var ErrUserNotFound = errors.New("user not found")

// UserService is a read-only view over users.
type UserService struct {
	Store  store.Store
	Lookup RoleLookup
}

func NewUserService(st store.Store, lookup RoleLookup) *UserService {
	return &UserService{Store: st, Lookup: lookup}
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	row, err := s.Store.Users().FindByID(ctx, id)
	if err != nil {
		return domain.User{}, s.mapUserErr(err)
	}
	return s.withRoles(ctx, row)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := s.Store.Users().FindByUsername(ctx, username)
	if err != nil {
		return domain.User{}, s.mapUserErr(err)
	}
	return s.withRoles(ctx, row)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.Store.Users().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		u, err := s.withRoles(ctx, row)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// GetUserRoleNames returns the sorted names of the user's roles.
func (s *UserService) GetUserRoleNames(ctx context.Context, id string) ([]string, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Lookup.FindRoleNamesByIDs(ctx, u.RoleIDs)
}

func (s *UserService) withRoles(ctx context.Context, row store.UserRow) (domain.User, error) {
	ids, err := s.Store.Users().RoleIDs(ctx, row.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("load roles for user %s: %w", row.ID, err)
	}
	return store.UserToDomain(row, ids), nil
}

func (s *UserService) mapUserErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("find user: %w", err)
}
