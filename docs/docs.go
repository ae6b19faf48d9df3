// Package docs registers the swagger spec served at /swagger.
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
        "/navigations/route": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["navigations"],
                "summary": "shortest route between two floor cells, walls and robots avoided",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/navigations/bulk": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["navigations"],
                "summary": "bulk shortest route query over many source/target pairs",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/navigations/nearestFreeCell": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["navigations"],
                "summary": "snap a cell to the nearest navigable unoccupied cell",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/floor": {
            "get": {
                "produces": ["application/json"],
                "tags": ["floor"],
                "summary": "active floor snapshot",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/floor/layouts/{name}/save": {
            "post": {
                "produces": ["application/json"],
                "tags": ["floor"],
                "summary": "persist the active floor layout under a name",
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/floor/layouts/{name}/load": {
            "post": {
                "produces": ["application/json"],
                "tags": ["floor"],
                "summary": "replace the active floor with a stored layout",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/robots": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["robots"],
                "summary": "place a robot on a free navigable cell",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/robots/{id}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["robots"],
                "summary": "move a placed robot to a free navigable cell",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["robots"],
                "summary": "remove a robot from the floor",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "gridnav API",
	Description:      "warehouse grid routing engine in go",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
