package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Records API",
        "description": "Student profiles, photo uploads and dashboard statistics",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student profile management"},
        {"name": "Dashboard", "description": "Aggregate statistics"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer", "description": "Page (default 1)"},
                    {"name": "size", "in": "query", "type": "integer", "description": "Page size (default 5, max 100)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentPage"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "full_name", "in": "formData", "type": "string", "required": true},
                    {"name": "roll_number", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string"},
                    {"name": "gender", "in": "formData", "type": "string"},
                    {"name": "dob", "in": "formData", "type": "string", "format": "date"},
                    {"name": "city", "in": "formData", "type": "string"},
                    {"name": "interest", "in": "formData", "type": "string"},
                    {"name": "department", "in": "formData", "type": "string"},
                    {"name": "degree_title", "in": "formData", "type": "string"},
                    {"name": "subject", "in": "formData", "type": "string"},
                    {"name": "start_date", "in": "formData", "type": "string", "format": "date"},
                    {"name": "end_date", "in": "formData", "type": "string", "format": "date"},
                    {"name": "photo", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/StudentCreated"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/students/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Download the student roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Student"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Replace student",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/MessageBody"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/MessageBody"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/dashboard-stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard statistics",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardStats"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "MessageBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "StudentCreated": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "studentId": {"type": "integer"}
            }
        },
        "StudentInput": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "roll_number": {"type": "string"},
                "email": {"type": "string"},
                "gender": {"type": "string"},
                "dob": {"type": "string", "format": "date"},
                "city": {"type": "string"},
                "interest": {"type": "string"},
                "department": {"type": "string"},
                "degree_title": {"type": "string"},
                "subject": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "photo": {"type": "string"}
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "full_name": {"type": "string"},
                "roll_number": {"type": "string"},
                "email": {"type": "string"},
                "gender": {"type": "string"},
                "dob": {"type": "string", "format": "date"},
                "city": {"type": "string"},
                "interest": {"type": "string"},
                "department": {"type": "string"},
                "degree_title": {"type": "string"},
                "subject": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "photo": {"type": "string"}
            }
        },
        "StudentPage": {
            "type": "object",
            "properties": {
                "students": {"type": "array", "items": {"$ref": "#/definitions/Student"}},
                "totalPages": {"type": "integer"},
                "currentPage": {"type": "integer"}
            }
        },
        "NamedCount": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "value": {"type": "integer"}
            }
        },
        "DateCount": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "count": {"type": "integer"}
            }
        },
        "DashboardStats": {
            "type": "object",
            "properties": {
                "topInterests": {"type": "array", "items": {"type": "string"}},
                "bottomInterests": {"type": "array", "items": {"type": "string"}},
                "distinctInterests": {"type": "integer"},
                "provincialDistribution": {"type": "array", "items": {"$ref": "#/definitions/NamedCount"}},
                "submissionsChart": {"type": "array", "items": {"$ref": "#/definitions/DateCount"}},
                "ageDistribution": {"type": "array", "items": {"type": "object", "properties": {"age": {"type": "integer"}, "count": {"type": "integer"}}}},
                "departmentDistribution": {"type": "array", "items": {"$ref": "#/definitions/NamedCount"}},
                "degreeDistribution": {"type": "array", "items": {"$ref": "#/definitions/NamedCount"}},
                "genderDistribution": {"type": "array", "items": {"$ref": "#/definitions/NamedCount"}},
                "last30DaysActivity": {"type": "array", "items": {"$ref": "#/definitions/DateCount"}},
                "last24HoursActivity": {"type": "array", "items": {"type": "object", "properties": {"time": {"type": "string"}, "count": {"type": "integer"}}}},
                "studentStatus": {"type": "array", "items": {"type": "object", "properties": {"status": {"type": "string"}, "count": {"type": "integer"}}}},
                "mostActiveHours": {"type": "array", "items": {"type": "string"}},
                "leastActiveHours": {"type": "array", "items": {"type": "string"}},
                "deadHours": {"type": "array", "items": {"type": "string"}}
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
