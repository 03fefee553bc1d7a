// Package identitysdk is a Go client for the identity service HTTP API.
//
// Basic usage:
//
//	client := identitysdk.NewClient("http://localhost:8080")
//
//	roles, err := client.ListRoles(ctx)
//	if err != nil {
//		return err
//	}
//
//	role, err := client.CreateRole(ctx, "MANAGER", "Team oversight")
//	if identitysdk.IsConflict(err) {
//		// a role with this name already exists
//	}
//
// Error responses are returned as *APIError carrying the HTTP status and the
// machine readable error code.
package identitysdk
