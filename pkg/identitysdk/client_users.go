package identitysdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers retrieves all users.
func (c *Client) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/users", nil, nil)
	if err != nil {
		return nil, err
	}

	var usersResp ListUsersResponse
	if err := decodeJSON(resp, &usersResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &usersResp, nil
}

// GetUser retrieves a user with role ids and names.
func (c *Client) GetUser(ctx context.Context, id string) (*UserInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserInfo
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}
