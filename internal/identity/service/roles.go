package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/domain"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/slogx"
)

var ErrRoleAlreadyExists = errors.New("role already exists")

// Metrics counts role mutations.
type Metrics struct {
	rolesCreated prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		rolesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roles_created_total",
			Help:      "Roles created through the role service.",
		}),
	}
	reg.MustRegister(m.rolesCreated)
	return m
}

type RoleService struct {
	Store   store.Store
	Logger  *slog.Logger
	Metrics *Metrics // optional
}

func NewRoleService(st store.Store, logger *slog.Logger) *RoleService {
	return &RoleService{Store: st, Logger: logger}
}

// GetAllRoles returns every role in creation order.
func (s *RoleService) GetAllRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := s.Store.Roles().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return store.RolesToDomain(rows), nil
}

// CreateRole stores a new role named name. Names are unique and compared
// case-sensitively; a taken name yields ErrRoleAlreadyExists.
func (s *RoleService) CreateRole(ctx context.Context, name, description string) (domain.Role, error) {
	log := slogx.FromContextOr(ctx, s.Logger)

	var created store.RoleRow
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		exists, err := tx.Roles().ExistsByName(ctx, name)
		if err != nil {
			return fmt.Errorf("check role name: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrRoleAlreadyExists, name)
		}

		role := domain.NewRoleBuilder().
			Name(name).
			Description(description).
			CreatedBy(domain.SystemActor).
			UpdatedBy(domain.SystemActor).
			Build()

		created, err = tx.Roles().Save(ctx, store.RoleFromDomain(role))
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent insert of the same name.
			return fmt.Errorf("%w: %s", ErrRoleAlreadyExists, name)
		}
		if err != nil {
			return fmt.Errorf("save role: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRoleAlreadyExists) {
			log.Warn("role name already taken", slog.String("name", name))
		} else {
			log.Error("failed to create role", slog.String("name", name), slog.Any("error", err))
		}
		return domain.Role{}, err
	}

	if s.Metrics != nil {
		s.Metrics.rolesCreated.Inc()
	}
	log.Info("role created", slog.String("role_id", created.ID), slog.String("name", created.Name))
	return store.RoleToDomain(created), nil
}
