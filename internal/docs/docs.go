// Package docs registers the generated OpenAPI document with swag.
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
        "/stocks": {
            "get": {
                "description": "Get a paginated list of ingested stocks with optional filters and sorting",
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "List stocks",
                "parameters": [
                    {"type": "string", "description": "Search by symbol or name (case-insensitive)", "name": "search", "in": "query"},
                    {"type": "string", "description": "Filter by index or cap tag", "name": "index", "in": "query"},
                    {"type": "string", "description": "Filter by country", "name": "country", "in": "query"},
                    {"enum": ["symbol", "name", "price", "market_cap", "changes", "changes_percentage", "monthly_changes_percentage", "last_updated"], "type": "string", "description": "Sort field", "name": "sort_by", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "description": "Sort order", "name": "sort_order", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated stocks", "schema": {"$ref": "#/definitions/pagination.PageResponse-models_StockRecord"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/stocks/update": {
            "post": {
                "description": "Fetch provider data for one batch of the symbol universe and upsert the derived stock records",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["updates"],
                "summary": "Run an update batch",
                "parameters": [
                    {"description": "Batch to run", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ingest.UpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Batch result", "schema": {"$ref": "#/definitions/ingest.UpdateResult"}},
                    "400": {"description": "Invalid batch parameters", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Batch failed", "schema": {"$ref": "#/definitions/ingest.UpdateResult"}}
                }
            }
        },
        "/stocks/{symbol}": {
            "get": {
                "description": "Get the latest ingested record for a symbol",
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Get stock",
                "parameters": [
                    {"type": "string", "description": "Ticker symbol", "name": "symbol", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Stock", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.StockRecord"}}},
                    "400": {"description": "Invalid symbol", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Stock not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/stock-indexes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "List index and cap tags",
                "responses": {
                    "200": {"description": "Distinct tags", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}}
                }
            }
        },
        "/stock-countries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "List countries",
                "responses": {
                    "200": {"description": "Distinct countries", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}}
                }
            }
        },
        "/update-status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["updates"],
                "summary": "Update status",
                "responses": {
                    "200": {"description": "Status", "schema": {"$ref": "#/definitions/handlers.UpdateStatusResponse"}}
                }
            }
        },
        "/update-history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["updates"],
                "summary": "List update checkpoints",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated checkpoints", "schema": {"$ref": "#/definitions/pagination.PageResponse-models_UpdateCheckpoint"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handlers.ErrorDetail"}
            }
        },
        "handlers.UpdateStatusResponse": {
            "type": "object",
            "properties": {
                "latest_checkpoint": {"$ref": "#/definitions/models.UpdateCheckpoint"},
                "in_flight": {"type": "array", "items": {"type": "integer"}},
                "universe_size": {"type": "integer"}
            }
        },
        "ingest.UpdateRequest": {
            "type": "object",
            "required": ["batch_number", "total_batches"],
            "properties": {
                "batch_number": {"type": "integer", "minimum": 1},
                "total_batches": {"type": "integer", "minimum": 1},
                "force_update": {"type": "boolean"},
                "current_date": {"type": "string", "example": "2026-10-15"},
                "monthly_date": {"type": "string", "example": "2026-09-16"}
            }
        },
        "ingest.UpdateResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "batch_number": {"type": "integer"},
                "processed": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "next_batch": {"type": "integer"},
                "total_batches": {"type": "integer"},
                "current_date": {"type": "string"},
                "monthly_date": {"type": "string"}
            }
        },
        "models.StockRecord": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "name": {"type": "string"},
                "country": {"type": "string"},
                "exchange": {"type": "string"},
                "currency": {"type": "string"},
                "market_cap": {"type": "number"},
                "price": {"type": "number"},
                "changes": {"type": "number"},
                "changes_percentage": {"type": "number"},
                "monthly_changes": {"type": "number"},
                "monthly_changes_percentage": {"type": "number"},
                "indexes": {"type": "array", "items": {"type": "string"}},
                "trading_date": {"type": "string"},
                "last_updated": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.UpdateCheckpoint": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "last_update_date": {"type": "string"},
                "last_monthly_date": {"type": "string"},
                "last_update_time": {"type": "string"},
                "total_updates": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "pagination.PageResponse-models_StockRecord": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.StockRecord"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "pagination.PageResponse-models_UpdateCheckpoint": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.UpdateCheckpoint"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "MarketPulse API",
	Description:      "MarketPulse ingests daily stock data in rate-limited batches and serves the latest snapshot per symbol.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
