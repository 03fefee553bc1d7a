// Package docs registers the OpenAPI document for the identity HTTP API with
// swag so http-swagger can serve it under /swagger/. Keep it in step with the
// handler annotations in internal/identity/http.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/roles": {
            "get": {
                "description": "Returns every role in storage order.",
                "produces": ["application/json"],
                "tags": ["Roles"],
                "summary": "List all roles",
                "responses": {
                    "200": {"description": "List of roles", "schema": {"$ref": "#/definitions/identitysdk.ListRolesResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/identitysdk.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/identitysdk.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Creates a role. Names are unique; a taken name answers 409.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Roles"],
                "summary": "Create a role",
                "parameters": [
                    {"description": "Role to create", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identitysdk.CreateRoleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created role", "schema": {"$ref": "#/definitions/identitysdk.RoleInfo"}},
                    "400": {"description": "Blank name or malformed body", "schema": {"$ref": "#/definitions/identitysdk.ErrorResponse"}},
                    "409": {"description": "Name already taken", "schema": {"$ref": "#/definitions/identitysdk.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/identitysdk.ErrorResponse"}}
                }
            }
        },
        "/v1/roles/lookup": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Roles"],
                "summary": "Resolve a role name to its id",
                "parameters": [
                    {"type": "string", "description": "Exact role name", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Role id", "schema": {"$ref": "#/definitions/identitysdk.LookupRoleResponse"}},
                    "404": {"description": "No role with that name", "schema": {"$ref": "#/definitions/identitysdk.ErrorResponse"}}
                }
            }
        },
        "/v1/roles/names": {
            "post": {
                "description": "Unknown ids are ignored. Names come back sorted and distinct.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Roles"],
                "summary": "Resolve role ids to names",
                "parameters": [
                    {"description": "Role ids", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identitysdk.RoleNamesRequest"}}
                ],
                "responses": {
                    "200": {"description": "Role names", "schema": {"$ref": "#/definitions/identitysdk.RoleNamesResponse"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/identitysdk.ErrorResponse"}}
                }
            }
        },
        "/v1/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "Users without role names", "schema": {"$ref": "#/definitions/identitysdk.ListUsersResponse"}}
                }
            }
        },
        "/v1/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get a user",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "User with role ids and names", "schema": {"$ref": "#/definitions/identitysdk.UserInfo"}},
                    "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/identitysdk.ErrorResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/identitysdk.HealthResponse"}},
                    "503": {"description": "Store unreachable", "schema": {"$ref": "#/definitions/identitysdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "identitysdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "identitysdk.RoleInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "created_by": {"type": "string"},
                "updated_by": {"type": "string"}
            }
        },
        "identitysdk.ListRolesResponse": {
            "type": "object",
            "properties": {
                "roles": {"type": "array", "items": {"$ref": "#/definitions/identitysdk.RoleInfo"}}
            }
        },
        "identitysdk.CreateRoleRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "identitysdk.LookupRoleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "identitysdk.RoleNamesRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "identitysdk.RoleNamesResponse": {
            "type": "object",
            "properties": {
                "names": {"type": "array", "items": {"type": "string"}}
            }
        },
        "identitysdk.UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "enabled": {"type": "boolean"},
                "account_locked": {"type": "boolean"},
                "account_expired": {"type": "boolean"},
                "credentials_expired": {"type": "boolean"},
                "role_ids": {"type": "array", "items": {"type": "string"}},
                "role_names": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "identitysdk.ListUsersResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/identitysdk.UserInfo"}}
            }
        },
        "identitysdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        },
        "identitysdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/identitysdk.HealthChecks"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Identity Service API",
	Description:      "Roles, role lookup and seeded users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
