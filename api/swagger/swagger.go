package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Miftal Academy API",
        "description": "Course catalog, registrations and contact back office",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Public course catalog"},
        {"name": "Registrations", "description": "Course registration intake and review"},
        {"name": "Contacts", "description": "Contact form intake and triage"},
        {"name": "Auth", "description": "Accounts and sessions"},
        {"name": "Admin", "description": "Back-office aggregation"},
        {"name": "Exports", "description": "CSV/PDF exports"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "level", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/featured": {
            "get": {
                "tags": ["Courses"],
                "summary": "List featured courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a course registration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/contact": {
            "post": {
                "tags": ["Contacts"],
                "summary": "Submit a contact form",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitContactRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new account",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue tokens",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Dashboard counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardStats"}},
                    "403": {"description": "Admin only"}
                }
            }
        },
        "/admin/registrations/{id}/status": {
            "patch": {
                "tags": ["Registrations"],
                "summary": "Update registration status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/contacts/{id}/view": {
            "post": {
                "tags": ["Contacts"],
                "summary": "View a submission, marking new ones read",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Generate a CSV or PDF export",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export by signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "instructor": {"type": "string"},
                "duration": {"type": "string"},
                "level": {"type": "string", "enum": ["Beginner", "Intermediate", "Advanced", "All Levels"]},
                "price": {"type": "number"},
                "original_price": {"type": "number"},
                "thumbnail": {"type": "string"},
                "enrolled": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "SubmitRegistrationRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "course_name": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "age": {"type": "string"},
                "experience": {"type": "string"},
                "preferred_time": {"type": "string"},
                "timezone": {"type": "string"},
                "message": {"type": "string"}
            },
            "required": ["course_id", "course_name", "full_name", "email", "phone"]
        },
        "SubmitContactRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "subject": {"type": "string", "enum": ["general", "courses", "enrollment", "technical", "feedback", "partnership", "other"]},
                "course_interest": {"type": "string"},
                "message": {"type": "string", "minLength": 10},
                "preferred_contact": {"type": "string", "enum": ["email", "phone", "whatsapp"]},
                "subscribed_to_newsletter": {"type": "boolean"}
            },
            "required": ["first_name", "last_name", "email", "subject", "message", "preferred_contact"]
        },
        "DashboardStats": {
            "type": "object",
            "properties": {
                "total_courses": {"type": "integer"},
                "total_registrations": {"type": "integer"},
                "pending_registrations": {"type": "integer"},
                "approved_registrations": {"type": "integer"},
                "total_contacts": {"type": "integer"},
                "new_contacts": {"type": "integer"},
                "total_revenue": {"type": "number"},
                "total_enrolled": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
