// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/main.go
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
        "/api/v1/temples": {
            "get": {"tags": ["Temples"], "summary": "List temples with filters and pagination", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Temples"], "summary": "Register a temple", "consumes": ["multipart/form-data"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/temples/public": {
            "get": {"tags": ["Temples"], "summary": "Verified temple cards, newest first", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/temples/slug/{slug}": {
            "get": {"tags": ["Temples"], "summary": "Get a temple by slug", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/temples/admin/me": {
            "get": {"tags": ["Temples"], "summary": "Temple registered by the calling admin", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/temples/export": {
            "get": {"tags": ["Temples"], "summary": "Export temples", "parameters": [{"type": "string", "name": "format", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/temples/{templeId}": {
            "get": {"tags": ["Temples"], "summary": "Get a temple by ID", "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Temples"], "summary": "Update temple details", "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/temples/{templeId}/verify": {
            "post": {"tags": ["Temples"], "summary": "Verify a temple", "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/temples/{templeId}/cover-image": {
            "patch": {"tags": ["Temple Media"], "summary": "Replace the cover image", "consumes": ["multipart/form-data"], "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/temples/{templeId}/gallery": {
            "post": {"tags": ["Temple Media"], "summary": "Add gallery images", "consumes": ["multipart/form-data"], "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Temple Media"], "summary": "Remove one gallery image", "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/temples/{templeId}/ceremonies": {
            "post": {"tags": ["Temple Schedule"], "summary": "Add a special ceremony", "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/temples/{templeId}/ceremonies/{index}": {
            "delete": {"tags": ["Temple Schedule"], "summary": "Remove a special ceremony by position", "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}, {"type": "integer", "name": "index", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/temples/{templeId}/events": {
            "post": {"tags": ["Temple Schedule"], "summary": "Add an upcoming event", "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/temples/{templeId}/events/{index}": {
            "delete": {"tags": ["Temple Schedule"], "summary": "Remove an upcoming event by position", "parameters": [{"type": "integer", "name": "templeId", "in": "path", "required": true}, {"type": "integer", "name": "index", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/audit-logs": {
            "get": {"tags": ["AuditLog"], "summary": "Get audit logs", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/audit-logs/stats": {
            "get": {"tags": ["AuditLog"], "summary": "Get audit log statistics", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/audit-logs/{id}": {
            "get": {"tags": ["AuditLog"], "summary": "Get audit log by ID", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Temple Registry API",
	Description:      "Temple registration, verification and media management.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
