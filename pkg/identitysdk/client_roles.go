package identitysdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListRoles retrieves all roles in creation order.
func (c *Client) ListRoles(ctx context.Context) (*ListRolesResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/roles", nil, nil)
	if err != nil {
		return nil, err
	}

	var rolesResp ListRolesResponse
	if err := decodeJSON(resp, &rolesResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &rolesResp, nil
}

// CreateRole creates a role. A taken name fails with a 409 APIError.
func (c *Client) CreateRole(ctx context.Context, name, description string) (*RoleInfo, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/roles", CreateRoleRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	var role RoleInfo
	if err := decodeJSON(resp, &role, http.StatusCreated); err != nil {
		return nil, err
	}

	return &role, nil
}

// LookupRoleID returns the id of the role named name. ok is false when the
// service has no such role.
func (c *Client) LookupRoleID(ctx context.Context, name string) (id string, ok bool, err error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/roles/lookup?name="+url.QueryEscape(name), nil, nil)
	if err != nil {
		return "", false, err
	}

	var lookup LookupRoleResponse
	if err := decodeJSON(resp, &lookup, http.StatusOK); err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}

	return lookup.ID, true, nil
}

// RoleNames resolves role ids to their sorted, distinct names.
func (c *Client) RoleNames(ctx context.Context, ids []string) ([]string, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/roles/names", RoleNamesRequest{IDs: ids})
	if err != nil {
		return nil, err
	}

	var names RoleNamesResponse
	if err := decodeJSON(resp, &names, http.StatusOK); err != nil {
		return nil, err
	}

	return names.Names, nil
}
