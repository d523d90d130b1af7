package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Class Schedule API",
        "description": "Recurring class schedule engine: import, validate, pre-check and commit weekly timetables.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Schedules", "description": "Interactive schedule creation"},
        {"name": "Schedule Import", "description": "Spreadsheet validation and commit"},
        {"name": "Lessons", "description": "Committed lessons and timetable export"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Database and cache reachable"},
                    "503": {"description": "A dependency failed its ping"}
                }
            }
        },
        "/metrics": {
            "get": {"summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/schedules/options": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Semesters and their classes",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Lookup tables unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/availability": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Check one candidate lesson",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "slotId", "in": "query", "required": true, "type": "integer"},
                    {"name": "classId", "in": "query", "required": true, "type": "integer"},
                    {"name": "roomId", "in": "query", "required": true, "type": "integer"},
                    {"name": "lecturerId", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Busy flags per dimension", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Availability could not be verified", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/check": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Sample a submission group for conflicts",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmissionGroup"}}],
                "responses": {
                    "200": {"description": "Advisory conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Commit submission groups",
                "security": [{"BearerAuth": []}],
                "parameters": [{
                    "name": "payload", "in": "body", "required": true,
                    "schema": {"type": "object", "properties": {"groups": {"type": "array", "items": {"$ref": "#/definitions/SubmissionGroup"}}}}
                }],
                "responses": {
                    "200": {"description": "Commit summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/import/validate": {
            "post": {
                "tags": ["Schedule Import"],
                "summary": "Validate an import batch",
                "consumes": ["multipart/form-data", "application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file"},
                    {"name": "semesterId", "in": "formData", "type": "integer"},
                    {"name": "checkConflicts", "in": "formData", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "One verdict per expanded row", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/import/commit": {
            "post": {
                "tags": ["Schedule Import"],
                "summary": "Commit the valid rows of an import batch",
                "security": [{"BearerAuth": []}],
                "parameters": [{
                    "name": "payload", "in": "body", "required": true,
                    "schema": {"type": "object", "properties": {
                        "semesterId": {"type": "integer"},
                        "rows": {"type": "array", "items": {"$ref": "#/definitions/ImportRow"}}
                    }}
                }],
                "responses": {
                    "200": {"description": "Commit summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/lookups/{semesterId}/refresh": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Drop cached lookup tables of a semester",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "semesterId", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Cache entry removed"},
                    "400": {"description": "Invalid semester id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List committed lessons",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "semesterId", "in": "query", "type": "integer"},
                    {"name": "classId", "in": "query", "type": "integer"},
                    {"name": "lecturerId", "in": "query", "type": "integer"},
                    {"name": "roomId", "in": "query", "type": "integer"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lessons/export": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Export a class timetable",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "semesterId", "in": "query", "required": true, "type": "integer"},
                    {"name": "classId", "in": "query", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Timetable file"},
                    "404": {"description": "No lessons for the class", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RecurrencePattern": {
            "type": "object",
            "properties": {
                "weekday": {"type": "integer", "minimum": 2, "maximum": 8},
                "slotId": {"type": "integer"},
                "roomId": {"type": "integer"}
            }
        },
        "SubmissionGroup": {
            "type": "object",
            "properties": {
                "semesterId": {"type": "integer"},
                "classId": {"type": "integer"},
                "lecturerId": {"type": "integer"},
                "patterns": {"type": "array", "items": {"$ref": "#/definitions/RecurrencePattern"}}
            }
        },
        "ImportRow": {
            "type": "object",
            "properties": {
                "rowNumber": {"type": "integer"},
                "className": {"type": "string"},
                "subjectCode": {"type": "string"},
                "lecturer": {"type": "string"},
                "slot": {"type": "string"},
                "dayOfWeek": {"type": "string"},
                "room": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
