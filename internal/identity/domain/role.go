package domain

import (
	"fmt"
	"time"
)

// SystemActor is the principal recorded in audit fields for automated writes
// (seeding, service calls without a caller identity).
const SystemActor = "system"

// Role is a named permission grouping assignable to users. Two roles are the
// same role when their IDs match.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
	UpdatedBy   string
}

// Equal compares identity only.
func (r Role) Equal(other Role) bool {
	return r.ID == other.ID
}

func (r Role) String() string {
	return fmt.Sprintf("Role{id=%s, name=%s}", r.ID, r.Name)
}

// RoleBuilder assembles a Role from any subset of its fields. There is no
// validation; unset fields keep their zero value.
type RoleBuilder struct {
	role Role
}

func NewRoleBuilder() *RoleBuilder { return &RoleBuilder{} }

func (b *RoleBuilder) ID(id string) *RoleBuilder { b.role.ID = id; return b }

func (b *RoleBuilder) Name(name string) *RoleBuilder { b.role.Name = name; return b }

func (b *RoleBuilder) Description(d string) *RoleBuilder { b.role.Description = d; return b }

func (b *RoleBuilder) CreatedAt(t time.Time) *RoleBuilder { b.role.CreatedAt = t; return b }

func (b *RoleBuilder) UpdatedAt(t time.Time) *RoleBuilder { b.role.UpdatedAt = t; return b }

func (b *RoleBuilder) CreatedBy(actor string) *RoleBuilder { b.role.CreatedBy = actor; return b }

func (b *RoleBuilder) UpdatedBy(actor string) *RoleBuilder { b.role.UpdatedBy = actor; return b }

// Build returns a copy, so the builder can be reused.
func (b *RoleBuilder) Build() Role { return b.role }
