// Package docs holds the OpenAPI description served at /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/availability/{content_id}": {
            "get": {
                "summary": "List bookable slots of a content in a date range",
                "tags": ["availability"],
                "parameters": [
                    {"type": "string", "name": "content_id", "in": "path", "required": true},
                    {"type": "string", "name": "start_date", "in": "query", "required": true},
                    {"type": "string", "name": "end_date", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid range"}}
            }
        },
        "/availability/{content_id}/check": {
            "get": {
                "summary": "Check whether a party fits one slot",
                "tags": ["availability"],
                "parameters": [
                    {"type": "string", "name": "content_id", "in": "path", "required": true},
                    {"type": "string", "name": "date", "in": "query", "required": true},
                    {"type": "string", "name": "start_time", "in": "query", "required": true},
                    {"type": "integer", "name": "party_size", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/availability/rules": {
            "get": {
                "summary": "List the rules of a content",
                "tags": ["availability"],
                "parameters": [{"type": "string", "name": "content_id", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Create a weekly availability rule",
                "tags": ["availability"],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate rule"}}
            }
        },
        "/availability/rules/{id}/exceptions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Add or replace a date exception",
                "tags": ["availability"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/availability/rules/{id}/exceptions/{date}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "summary": "Remove a date exception",
                "tags": ["availability"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "date", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/availability/rules/{id}/deactivate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Deactivate a rule",
                "tags": ["availability"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Request a booking for one slot",
                "tags": ["bookings"],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Slot unavailable"}, "502": {"description": "Transaction could not be opened"}}
            }
        },
        "/bookings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "Get a booking",
                "tags": ["bookings"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the caller's booking"}, "404": {"description": "Not found"}}
            }
        },
        "/bookings/{id}/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Confirm a pending booking after payment",
                "tags": ["bookings"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the caller's booking"}, "409": {"description": "Not pending, or its transaction has failed"}}
            }
        },
        "/bookings/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Cancel a booking, optionally offering its places to the waitlist",
                "tags": ["bookings"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the caller's booking"}, "409": {"description": "Already terminal"}}
            }
        },
        "/bookings/{id}/no-show": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Mark a booking as no-show",
                "tags": ["bookings"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "List the caller's bookings",
                "tags": ["bookings"],
                "parameters": [{"type": "string", "name": "status", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contents/{content_id}/bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "List the bookings of a content",
                "tags": ["bookings"],
                "parameters": [
                    {"type": "string", "name": "content_id", "in": "path", "required": true},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/recurring-bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Create a recurring booking and book each occurrence",
                "tags": ["recurring"],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/recurring-bookings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "Get a recurring booking",
                "tags": ["recurring"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/recurring-bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "List the caller's recurring bookings",
                "tags": ["recurring"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/waitlist": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Join the waitlist of a slot",
                "tags": ["waitlist"],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already waitlisted"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "summary": "Leave the waitlist of a slot",
                "tags": ["waitlist"],
                "parameters": [
                    {"type": "string", "name": "content_id", "in": "query", "required": true},
                    {"type": "string", "name": "date", "in": "query", "required": true},
                    {"type": "string", "name": "time", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not on the waitlist"}}
            }
        },
        "/waitlist/{content_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "List a slot's waitlist in position order",
                "tags": ["waitlist"],
                "parameters": [
                    {"type": "string", "name": "content_id", "in": "path", "required": true},
                    {"type": "string", "name": "date", "in": "query", "required": true},
                    {"type": "string", "name": "time", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/waitlist/notify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Offer freed capacity to a slot's waitlist",
                "tags": ["waitlist"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Bookly API",
	Description:      "Availability, booking and waitlist engine for bookable content.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
