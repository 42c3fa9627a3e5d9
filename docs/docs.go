// Package docs holds the OpenAPI description served by gin-swagger.
// Regenerate with: swag init -g cmd/dogbot/main.go -o docs
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
        "/": {
            "get": {
                "description": "Returns the JSON string \"OK\" when the server is up.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "operationId": "health",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}}
                }
            }
        },
        "/post": {
            "post": {
                "description": "Appends a post with the next id and the current Unix timestamp.",
                "produces": ["application/json"],
                "tags": ["Posts"],
                "summary": "Create a post",
                "operationId": "createPost",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Post"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/dog": {
            "get": {
                "description": "Returns the dogs of one kind in insertion order. Results may be up to one cache TTL old.",
                "produces": ["application/json"],
                "tags": ["Dogs"],
                "summary": "List dogs by kind",
                "operationId": "listDogs",
                "parameters": [
                    {"enum": ["terrier", "bulldog", "dalmatian"], "type": "string", "description": "Dog kind", "name": "kind", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Dog"}}},
                    "422": {"description": "Missing or unknown kind", "schema": {"$ref": "#/definitions/handlers.ValidationResponse"}}
                }
            },
            "post": {
                "description": "Inserts a dog. The pk must not belong to another dog.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dogs"],
                "summary": "Create a dog",
                "operationId": "createDog",
                "parameters": [
                    {"description": "Dog", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DogRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Dog"}},
                    "422": {"description": "Invalid body or duplicate pk", "schema": {"$ref": "#/definitions/handlers.ValidationResponse"}}
                }
            }
        },
        "/dog/{pk}": {
            "get": {
                "description": "Returns one dog. Results may be up to one cache TTL old.",
                "produces": ["application/json"],
                "tags": ["Dogs"],
                "summary": "Get a dog by pk",
                "operationId": "getDog",
                "parameters": [
                    {"type": "integer", "description": "Dog pk", "name": "pk", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Dog"}},
                    "422": {"description": "Non-integer pk or unknown dog", "schema": {"$ref": "#/definitions/handlers.ValidationResponse"}}
                }
            },
            "patch": {
                "description": "Replaces the dog stored under {pk}. The body pk may differ from {pk} if it is free.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dogs"],
                "summary": "Update a dog",
                "operationId": "updateDog",
                "parameters": [
                    {"type": "integer", "description": "Current dog pk", "name": "pk", "in": "path", "required": true},
                    {"description": "New dog data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DogRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Dog"}},
                    "422": {"description": "Invalid body, unknown pk or duplicate pk", "schema": {"$ref": "#/definitions/handlers.ValidationResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Dog": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["terrier", "bulldog", "dalmatian"], "example": "terrier"},
                "name": {"type": "string", "example": "Rex"},
                "pk": {"type": "integer", "example": 3}
            }
        },
        "domain.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 2},
                "timestamp": {"type": "integer", "example": 1700000000}
            }
        },
        "handlers.DogRequest": {
            "type": "object",
            "required": ["kind", "name", "pk"],
            "properties": {
                "kind": {"type": "string", "enum": ["terrier", "bulldog", "dalmatian"], "example": "terrier"},
                "name": {"type": "string", "example": "Rex"},
                "pk": {"type": "integer", "example": 3}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "route not found"},
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"}
            }
        },
        "handlers.ValidationDetail": {
            "type": "object",
            "properties": {
                "loc": {"type": "array", "items": {"type": "string"}, "example": ["body", "pk"]},
                "msg": {"type": "string", "example": "The specified PK already exists."},
                "type": {"type": "string", "example": "duplicate"}
            }
        },
        "handlers.ValidationResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "array", "items": {"$ref": "#/definitions/handlers.ValidationDetail"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Dog Catalog API",
	Description:      "Dog and post catalog with a read-through TTL cache.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
