package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Smart Presensee Auto-Alpha API",
        "description": "Daily attendance reconciliation service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "AutoAlpha", "description": "Daily reconciliation runs and status"},
        {"name": "Settings", "description": "Attendance policy administration"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/api/v1/auto-alpha/run": {
            "post": {
                "tags": ["AutoAlpha"],
                "summary": "Trigger an auto-alpha reconciliation run",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RunResponse"}},
                    "500": {"description": "Run failed", "schema": {"$ref": "#/definitions/RunResponse"}}
                }
            }
        },
        "/api/v1/auto-alpha/status": {
            "get": {
                "tags": ["AutoAlpha"],
                "summary": "Report whether today's run already executed",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StatusResponse"}}
                }
            }
        },
        "/api/v1/auto-alpha/export": {
            "get": {
                "tags": ["AutoAlpha"],
                "summary": "Download the day's alpha recap",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Recap file"}
                }
            }
        },
        "/api/v1/auto-alpha/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Fetch the attendance policy",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Update the attendance policy",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RunResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "skipped": {"type": "boolean"},
                "alphaCount": {"type": "integer"},
                "alphaStudents": {"type": "array", "items": {"type": "string"}},
                "degraded": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "StatusResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "executedToday": {"type": "boolean"},
                "alphaCount": {"type": "integer"},
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "UpdateSettingsRequest": {
            "type": "object",
            "properties": {
                "aktif": {"type": "boolean"},
                "jam_mulai": {"type": "string", "example": "06:30"},
                "jam_selesai": {"type": "string", "example": "13:55"}
            },
            "required": ["aktif", "jam_mulai", "jam_selesai"]
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
