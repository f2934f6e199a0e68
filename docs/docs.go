// Package docs registers the OpenAPI document served at /swagger/*.
//
// The template is maintained by hand alongside the swag annotations on the
// handlers; keep both in sync when changing a route or payload.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        },
        "/v1/events": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Ingest a single location update",
                "parameters": [
                    {"description": "Location update", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.locationEventRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.acceptedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/events/batch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Ingest a batch of location updates",
                "description": "At most 500 events. Enqueueing is not atomic: a 503 reports how many events were accepted before the failure.",
                "parameters": [
                    {"description": "Array of location updates", "name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.locationEventRequest"}}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.acceptedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "List shipments",
                "parameters": [
                    {"enum": ["pending", "in_transit", "delivered", "delayed", "cancelled"], "type": "string", "description": "Filter by status", "name": "status", "in": "query"},
                    {"type": "string", "description": "Case-insensitive partial container id match", "name": "container_id", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 10, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listShipmentsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Create a new shipment",
                "parameters": [
                    {"description": "Shipment details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createShipmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Get a shipment by storage id or shipment id",
                "parameters": [
                    {"type": "string", "description": "Storage id or shipment id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Update mutable shipment fields",
                "parameters": [
                    {"type": "string", "description": "Storage id or shipment id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to replace", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateShipmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "tags": ["shipments"],
                "summary": "Delete a shipment",
                "parameters": [
                    {"type": "string", "description": "Storage id or shipment id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{id}/eta": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Recompute the arrival estimate from the current position",
                "parameters": [
                    {"type": "string", "description": "Storage id or shipment id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.etaResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{id}/route": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Travelled route as a GeoJSON FeatureCollection",
                "parameters": [
                    {"type": "string", "description": "Storage id or shipment id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{id}/update-location": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Report a new location for a shipment",
                "parameters": [
                    {"type": "string", "description": "Storage id or shipment id", "name": "id", "in": "path", "required": true},
                    {"description": "Location update", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateLocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.acceptedResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "handler.cargoRequest": {
            "type": "object",
            "required": ["description"],
            "properties": {
                "category": {"type": "string"},
                "description": {"type": "string"},
                "value": {"type": "number"},
                "weight": {"type": "number"}
            }
        },
        "handler.carrierRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "contact": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.coordinatesRequest": {
            "type": "object",
            "required": ["latitude", "longitude"],
            "properties": {
                "latitude": {"type": "number", "maximum": 90, "minimum": -90},
                "longitude": {"type": "number", "maximum": 180, "minimum": -180}
            }
        },
        "handler.createShipmentRequest": {
            "type": "object",
            "required": ["cargo", "carrier", "container_id", "destination", "origin"],
            "properties": {
                "cargo": {"$ref": "#/definitions/handler.cargoRequest"},
                "carrier": {"$ref": "#/definitions/handler.carrierRequest"},
                "container_id": {"type": "string"},
                "destination": {"$ref": "#/definitions/handler.locationRequest"},
                "estimated_arrival": {"type": "string"},
                "origin": {"$ref": "#/definitions/handler.locationRequest"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "handler.etaResponse": {
            "type": "object",
            "properties": {
                "current_eta": {"type": "string"},
                "current_location": {"$ref": "#/definitions/handler.locationResponse"},
                "destination": {"$ref": "#/definitions/handler.locationResponse"},
                "distance_remaining_km": {"type": "integer"},
                "estimated_arrival": {"type": "string"}
            }
        },
        "handler.listShipmentsResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handler.shipmentResponse"}},
                "pagination": {
                    "type": "object",
                    "properties": {
                        "limit": {"type": "integer"},
                        "page": {"type": "integer"},
                        "total": {"type": "integer"},
                        "total_pages": {"type": "integer"}
                    }
                }
            }
        },
        "handler.locationEventRequest": {
            "type": "object",
            "required": ["location", "shipment_id"],
            "properties": {
                "event_id": {"type": "string", "maxLength": 128},
                "location": {"$ref": "#/definitions/handler.locationRequest"},
                "notes": {"type": "string"},
                "shipment_id": {"type": "string"},
                "source": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "in_transit", "delivered", "delayed", "cancelled"]},
                "timestamp": {"type": "string"}
            }
        },
        "handler.locationRequest": {
            "type": "object",
            "required": ["address", "coordinates", "name"],
            "properties": {
                "address": {"type": "string"},
                "coordinates": {"$ref": "#/definitions/handler.coordinatesRequest"},
                "name": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "handler.locationResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "coordinates": {
                    "type": "object",
                    "properties": {
                        "latitude": {"type": "number"},
                        "longitude": {"type": "number"}
                    }
                },
                "name": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "dependencies": {"type": "object", "additionalProperties": {"type": "object"}},
                "status": {"type": "string"}
            }
        },
        "handler.shipmentResponse": {
            "type": "object",
            "properties": {
                "actual_arrival": {"type": "string"},
                "cargo": {"type": "object"},
                "carrier": {"type": "object"},
                "container_id": {"type": "string"},
                "created_at": {"type": "string"},
                "current_location": {"$ref": "#/definitions/handler.locationResponse"},
                "destination": {"$ref": "#/definitions/handler.locationResponse"},
                "estimated_arrival": {"type": "string"},
                "id": {"type": "string"},
                "origin": {"$ref": "#/definitions/handler.locationResponse"},
                "route": {"type": "array", "items": {"$ref": "#/definitions/handler.locationResponse"}},
                "shipment_id": {"type": "string"},
                "status": {"type": "string"},
                "tracking_history": {"type": "array", "items": {"type": "object"}},
                "updated_at": {"type": "string"}
            }
        },
        "handler.updateLocationRequest": {
            "type": "object",
            "required": ["location"],
            "properties": {
                "location": {"$ref": "#/definitions/handler.locationRequest"},
                "notes": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "in_transit", "delivered", "delayed", "cancelled"]}
            }
        },
        "handler.updateShipmentRequest": {
            "type": "object",
            "properties": {
                "actual_arrival": {"type": "string"},
                "cargo": {"$ref": "#/definitions/handler.cargoRequest"},
                "carrier": {"$ref": "#/definitions/handler.carrierRequest"},
                "estimated_arrival": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "in_transit", "delivered", "delayed", "cancelled"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cargo Tracking API",
	Description:      "Shipment lifecycle, location tracking and ETA estimation for cargo containers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
