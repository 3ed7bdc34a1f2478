// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g cmd/autodevstack/docs.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "autodevstack maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ai": {
            "post": {
                "description": "Selects a task and model for the prompt and calls the inference router.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Run a prompt",
                "parameters": [
                    {
                        "description": "Prompt and overrides",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.AIRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.AIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.AIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.AIResponse"}}
                }
            }
        },
        "/select": {
            "post": {
                "description": "Runs task detection and model selection without calling out.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Resolve task and model",
                "parameters": [
                    {
                        "description": "Prompt and overrides",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.AIRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SelectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models/best": {
            "get": {
                "description": "Returns best_models.json as produced by update-models.",
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Ranking cache",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BestModels"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.AIRequest": {
            "type": "object",
            "properties": {
                "image_prompt": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/types.Message"}},
                "model": {"type": "string", "example": "deepseek-ai/DeepSeek-V3-0324"},
                "project_context": {"type": "string"},
                "prompt": {"type": "string", "example": "нарисуй кота"},
                "provider": {"type": "string", "example": "together"},
                "role": {"type": "string"},
                "task": {"type": "string", "example": "chat"}
            }
        },
        "types.AIResponse": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "image": {"type": "string"},
                "model": {"type": "string"},
                "provider": {"type": "string"},
                "role": {"type": "string"},
                "task": {"type": "string"}
            }
        },
        "types.BestModels": {
            "type": "object",
            "properties": {
                "best": {"type": "object", "additionalProperties": {"$ref": "#/definitions/types.RankedModel"}},
                "last_updated": {"type": "string"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.Message": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "types.ModelMeta": {
            "type": "object",
            "properties": {
                "deprecated": {"type": "boolean"},
                "downloads": {"type": "integer"},
                "gated": {"type": "boolean"},
                "lastModified": {"type": "string"},
                "likes": {"type": "integer"},
                "private": {"type": "boolean"}
            }
        },
        "types.RankedModel": {
            "type": "object",
            "properties": {
                "explain": {"type": "string"},
                "id": {"type": "string"},
                "meta": {"$ref": "#/definitions/types.ModelMeta"}
            }
        },
        "types.SelectionResponse": {
            "type": "object",
            "properties": {
                "explain": {"type": "string"},
                "model": {"type": "string"},
                "source": {"type": "string"},
                "task": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "autodevstack API",
	Description:      "HTTP API for model selection and Hugging Face inference.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
