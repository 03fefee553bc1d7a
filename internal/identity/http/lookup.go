package http

import (
	"net/http"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/service"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/httpx"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/identitysdk"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/slogx"
)

type RoleLookupHandler struct {
	Lookup service.RoleLookup
}

// HandleLookup serves GET /v1/roles/lookup?name=X.
//
//	@Summary		Resolve a role name to its id
//	@Tags			Roles
//	@Produce		json
//	@Param			name	query		string							true	"Exact role name"
//	@Success		200		{object}	identitysdk.LookupRoleResponse	"Role id"
//	@Failure		404		{object}	identitysdk.ErrorResponse		"No role with that name"
//	@Router			/v1/roles/lookup [get].
func (h *RoleLookupHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.URL.Query().Get("name")

	id, ok, err := h.Lookup.FindRoleIDByName(ctx, name)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to look up role", "name", name, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorCodeServerError, "Failed to look up role")
		return
	}
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrorCodeNotFound, "no role named "+name)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.LookupRoleResponse{ID: id})
}

// HandleNames serves POST /v1/roles/names.
//
//	@Summary		Resolve role ids to names
//	@Description	Unknown ids are ignored. Names come back sorted and distinct.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.RoleNamesRequest	true	"Role ids"
//	@Success		200		{object}	identitysdk.RoleNamesResponse	"Role names"
//	@Failure		400		{object}	identitysdk.ErrorResponse		"Malformed body"
//	@Router			/v1/roles/names [post].
func (h *RoleLookupHandler) HandleNames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req identitysdk.RoleNamesRequest
	if err := httpx.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorCodeInvalidRequest, "invalid JSON body")
		return
	}

	names, err := h.Lookup.FindRoleNamesByIDs(ctx, req.IDs)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to resolve role names", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorCodeServerError, "Failed to resolve role names")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.RoleNamesResponse{Names: names})
}
