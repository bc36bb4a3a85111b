// Package docs 由 swag 生成的 OpenAPI 描述；修改控制器注释后用 `swag init` 重新生成
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "注册",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/service.RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "登录",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/service.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/auth/resend-confirmation": {
            "post": {
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "重新发送确认邮件",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "当前用户",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "修改资料",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/auth/me/avatar": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "上传头像",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/auth/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "用户列表",
                "parameters": [{"type": "integer", "default": 0, "name": "skip", "in": "query"}, {"type": "integer", "default": 100, "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/exercises": {
            "get": {"produces": ["application/json"], "tags": ["练习"], "summary": "练习题列表", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["练习"], "summary": "创建练习题", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/exercises/{id}": {
            "get": {"produces": ["application/json"], "tags": ["练习"], "summary": "练习题详情", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "put": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["练习"], "summary": "修改练习题", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["练习"], "summary": "删除练习题", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/exercises/next": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["练习"], "summary": "随机获取下一道未作答的题", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/exercises/submit": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["练习"], "summary": "提交答案", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/service.SubmitRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/dashboard/summary": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["仪表盘"], "summary": "学习概览", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/dashboard/progress": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["仪表盘"], "summary": "作答记录", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/dashboard/stats": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["仪表盘"], "summary": "统计数据", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/dashboard/subjects": {
            "get": {"produces": ["application/json"], "tags": ["学科"], "summary": "学科列表", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["学科"], "summary": "创建学科", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/dashboard/topics": {
            "get": {"produces": ["application/json"], "tags": ["知识点"], "summary": "知识点列表", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["知识点"], "summary": "创建知识点", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/dashboard/achievements": {
            "get": {"produces": ["application/json"], "tags": ["成就"], "summary": "成就列表", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["成就"], "summary": "创建成就", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}}}
        }
    },
    "definitions": {
        "util.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "service.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "teacher", "admin"]}
            }
        },
        "service.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "service.SubmitRequest": {
            "type": "object",
            "required": ["exercise_id"],
            "properties": {
                "exercise_id": {"type": "string"},
                "answer": {"type": "string"},
                "time_spent": {"type": "integer", "minimum": 0}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "LearnGenix API",
	Description:      "LearnGenix 学习平台的后端服务。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
