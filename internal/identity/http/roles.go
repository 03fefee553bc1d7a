package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/domain"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/service"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/httpx"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/identitysdk"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/slogx"
)

type RolesHandler struct {
	RoleService *service.RoleService
}

// HandleList serves GET /v1/roles.
//
//	@Summary		List all roles
//	@Description	Returns every role in storage order.
//	@Tags			Roles
//	@Produce		json
//	@Success		200	{object}	identitysdk.ListRolesResponse	"List of roles"
//	@Failure		429	{object}	identitysdk.ErrorResponse		"Rate limited"
//	@Failure		500	{object}	identitysdk.ErrorResponse		"Internal server error"
//	@Router			/v1/roles [get].
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	roles, err := h.RoleService.GetAllRoles(ctx)
	if err != nil {
		log.Error("failed to list roles", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorCodeServerError, "Failed to retrieve roles")
		return
	}

	response := identitysdk.ListRolesResponse{
		Roles: make([]identitysdk.RoleInfo, len(roles)),
	}
	for i, role := range roles {
		response.Roles[i] = roleInfo(role)
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleCreate serves POST /v1/roles.
//
//	@Summary		Create a role
//	@Description	Creates a role. Names are unique; a taken name answers 409.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.CreateRoleRequest	true	"Role to create"
//	@Success		201		{object}	identitysdk.RoleInfo			"Created role"
//	@Failure		400		{object}	identitysdk.ErrorResponse		"Blank name or malformed body"
//	@Failure		409		{object}	identitysdk.ErrorResponse		"Name already taken"
//	@Failure		500		{object}	identitysdk.ErrorResponse		"Internal server error"
//	@Router			/v1/roles [post].
func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req identitysdk.CreateRoleRequest
	if err := httpx.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorCodeInvalidRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorCodeInvalidRequest, "name is required")
		return
	}

	role, err := h.RoleService.CreateRole(ctx, req.Name, req.Description)
	switch {
	case errors.Is(err, service.ErrRoleAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, httpx.ErrorCodeConflict, "role already exists: "+req.Name)
		return
	case err != nil:
		log.Error("failed to create role", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorCodeServerError, "Failed to create role")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, roleInfo(role))
}

func roleInfo(role domain.Role) identitysdk.RoleInfo {
	return identitysdk.RoleInfo{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
		CreatedBy:   role.CreatedBy,
		UpdatedBy:   role.UpdatedBy,
	}
}
