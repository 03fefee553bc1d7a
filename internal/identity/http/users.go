package http

import (
	"errors"
	"net/http"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/domain"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/service"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/httpx"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/identitysdk"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
	Lookup      service.RoleLookup
}

// HandleList serves GET /v1/users. Role names are omitted; fetch a single
// user to resolve them.
//
//	@Summary		List users
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	identitysdk.ListUsersResponse	"Users without role names"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list users", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorCodeServerError, "Failed to retrieve users")
		return
	}

	response := identitysdk.ListUsersResponse{
		Users: make([]identitysdk.UserInfo, len(users)),
	}
	for i, u := range users {
		response.Users[i] = userInfo(u, nil)
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleGet serves GET /v1/users/{id}.
//
//	@Summary		Get a user
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string					true	"User id"
//	@Success		200	{object}	identitysdk.UserInfo		"User with role ids and names"
//	@Failure		404	{object}	identitysdk.ErrorResponse	"Unknown user"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	id := r.PathValue("id")

	u, err := h.UserService.GetUser(ctx, id)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrorCodeNotFound, "user not found")
		return
	case err != nil:
		log.Error("failed to get user", "user_id", id, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorCodeServerError, "Failed to retrieve user")
		return
	}

	names, err := h.Lookup.FindRoleNamesByIDs(ctx, u.RoleIDs)
	if err != nil {
		log.Error("failed to resolve role names", "user_id", id, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorCodeServerError, "Failed to retrieve user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(u, names))
}

func userInfo(u domain.User, roleNames []string) identitysdk.UserInfo {
	return identitysdk.UserInfo{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Enabled:            u.Enabled,
		AccountLocked:      u.AccountLocked,
		AccountExpired:     u.AccountExpired,
		CredentialsExpired: u.CredentialsExpired,
		RoleIDs:            u.RoleIDs,
		RoleNames:          roleNames,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
