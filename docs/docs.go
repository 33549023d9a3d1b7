// Package docs holds the OpenAPI document served by /swagger. Regenerate with
// `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/api/applications": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "List all applications, newest first",
                "parameters": [
                    {"enum": ["pending", "approved", "rejected"], "type": "string", "description": "Filter by status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Application"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "Submit an application",
                "parameters": [
                    {"description": "Application form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.submitApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.submitApplicationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/applications/mine": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "List the caller's own applications",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Application"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/applications/stats": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "Count applications per status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.ApplicationStats"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/applications/{id}": {
            "patch": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "Approve or reject an application",
                "parameters": [
                    {"type": "integer", "description": "Application id", "name": "id", "in": "path", "required": true},
                    {"description": "Review decision", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.setStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/regiments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["regiments"],
                "summary": "List regiments ordered by name",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Regiment"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/oauth/{provider}/redirect_url": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get the OAuth authorization URL",
                "parameters": [
                    {"type": "string", "description": "OAuth provider (e.g. google)", "name": "provider", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.redirectURLResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/sessions": {
            "post": {
                "description": "Sets the session cookie on success.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Exchange an OAuth code for a session",
                "parameters": [
                    {"description": "OAuth authorization code", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users/me": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get the signed-in user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/logout": {
            "get": {
                "description": "Revokes the session and clears the session cookie. Always succeeds.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Application": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "string"},
                "roblox_username": {"type": "string"},
                "discord_username": {"type": "string"},
                "age": {"type": "integer"},
                "experience": {"type": "string"},
                "why_join": {"type": "string"},
                "availability": {"type": "string"},
                "previous_military": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "admin_notes": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Regiment": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "roblox_group_id": {"type": "string"},
                "roblox_group_url": {"type": "string"},
                "logo_url": {"type": "string"},
                "motto": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "ports.ApplicationStats": {
            "type": "object",
            "properties": {
                "pending": {"type": "integer"},
                "approved": {"type": "integer"},
                "rejected": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.successResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}}
        },
        "handler.submitApplicationRequest": {
            "type": "object",
            "required": ["roblox_username", "age", "experience", "why_join", "availability"],
            "properties": {
                "roblox_username": {"type": "string"},
                "discord_username": {"type": "string"},
                "age": {"type": "integer", "minimum": 13, "maximum": 100},
                "experience": {"type": "string"},
                "why_join": {"type": "string"},
                "availability": {"type": "string"},
                "previous_military": {"type": "string"}
            }
        },
        "handler.submitApplicationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "handler.setStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]},
                "admin_notes": {"type": "string"}
            }
        },
        "handler.createSessionRequest": {
            "type": "object",
            "properties": {"code": {"type": "string"}}
        },
        "handler.redirectURLResponse": {
            "type": "object",
            "properties": {"redirectUrl": {"type": "string"}}
        },
        "handler.meResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "picture": {"type": "string"},
                "isAdmin": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "type": "apiKey",
            "name": "portal_session",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Recruitment Portal API",
	Description:      "Regiment recruitment applications, review workflow and sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
