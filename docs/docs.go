// Package docs registra el documento OpenAPI que sirve /swagger/*.
// Se mantiene a mano junto con los handlers; no se genera con swag init.
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
            "get": {"summary": "Liveness", "responses": {"200": {"description": "ok"}}}
        },
        "/auth/register": {
            "post": {
                "summary": "Alta de usuario",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {"201": {"description": "creado", "schema": {"$ref": "#/definitions/user"}}, "400": {"description": "input inválido"}, "409": {"description": "email duplicado"}}
            }
        },
        "/auth/login": {
            "post": {
                "summary": "Login con email y contraseña",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "token"}, "401": {"description": "credenciales inválidas"}, "404": {"description": "email desconocido"}}
            }
        },
        "/clients": {
            "post": {
                "summary": "Provisiona productor, organización y rebaño en una sola transacción",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/provisionRequest"}}],
                "responses": {"201": {"description": "creado"}, "400": {"description": "input inválido"}, "409": {"description": "email o herd_id duplicado"}}
            }
        },
        "/organizations": {
            "get": {"summary": "Organizaciones visibles", "responses": {"200": {"description": "lista"}}},
            "post": {"summary": "Crea organización (el creador queda OWNER)", "responses": {"201": {"description": "creada"}}}
        },
        "/organizations/{orgID}": {
            "get": {"summary": "Detalle", "parameters": [{"in": "path", "name": "orgID", "required": true, "type": "string"}], "responses": {"200": {"description": "ok"}, "404": {"description": "no existe o no autorizado"}}},
            "patch": {"summary": "Actualiza (OWNER)", "parameters": [{"in": "path", "name": "orgID", "required": true, "type": "string"}], "responses": {"200": {"description": "ok"}, "404": {"description": "no existe o no autorizado"}}},
            "delete": {"summary": "Baja lógica (OWNER)", "parameters": [{"in": "path", "name": "orgID", "required": true, "type": "string"}], "responses": {"204": {"description": "ok"}, "404": {"description": "no existe o no autorizado"}}}
        },
        "/organization-user": {
            "get": {"summary": "Membresías visibles", "responses": {"200": {"description": "lista"}}},
            "post": {"summary": "Agrega miembro (OWNER)", "responses": {"201": {"description": "creada"}, "403": {"description": "no es OWNER"}, "409": {"description": "ya es miembro"}}}
        },
        "/organization-user/{membershipID}": {
            "get": {"summary": "Detalle", "parameters": [{"in": "path", "name": "membershipID", "required": true, "type": "string"}], "responses": {"200": {"description": "ok"}, "404": {"description": "no existe o no autorizado"}}},
            "patch": {"summary": "Cambia rol (OWNER)", "parameters": [{"in": "path", "name": "membershipID", "required": true, "type": "string"}], "responses": {"200": {"description": "ok"}}},
            "delete": {"summary": "Quita miembro (OWNER)", "parameters": [{"in": "path", "name": "membershipID", "required": true, "type": "string"}], "responses": {"204": {"description": "ok"}}}
        },
        "/herds": {
            "get": {"summary": "Rebaños visibles", "responses": {"200": {"description": "lista"}}},
            "post": {"summary": "Crea rebaño", "responses": {"201": {"description": "creado"}, "409": {"description": "herd_id duplicado"}}}
        },
        "/herds/{herdID}": {
            "get": {"summary": "Detalle", "parameters": [{"in": "path", "name": "herdID", "required": true, "type": "string"}], "responses": {"200": {"description": "ok"}, "404": {"description": "no existe o no autorizado"}}},
            "patch": {"summary": "Actualiza", "parameters": [{"in": "path", "name": "herdID", "required": true, "type": "string"}], "responses": {"200": {"description": "ok"}}},
            "delete": {"summary": "Borra", "parameters": [{"in": "path", "name": "herdID", "required": true, "type": "string"}], "responses": {"204": {"description": "ok"}}}
        },
        "/users/search": {
            "get": {
                "summary": "Busca usuarios en organizaciones compartidas",
                "parameters": [{"in": "query", "name": "search", "type": "string"}, {"in": "query", "name": "limit", "type": "integer"}],
                "responses": {"200": {"description": "lista"}}
            }
        },
        "/users/{userID}": {
            "get": {"summary": "Perfil", "parameters": [{"in": "path", "name": "userID", "required": true, "type": "string"}], "responses": {"200": {"description": "ok"}, "403": {"description": "sin organización compartida"}, "404": {"description": "no existe"}}},
            "patch": {"summary": "Edita perfil según alcance", "parameters": [{"in": "path", "name": "userID", "required": true, "type": "string"}], "responses": {"200": {"description": "ok"}, "403": {"description": "sin permiso"}}},
            "delete": {"summary": "Desactiva usuario", "parameters": [{"in": "path", "name": "userID", "required": true, "type": "string"}], "responses": {"204": {"description": "ok"}, "403": {"description": "sin permiso"}}}
        }
    },
    "definitions": {
        "registerRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}, "password": {"type": "string"},
                "first_name": {"type": "string"}, "last_name": {"type": "string"},
                "role": {"type": "string", "enum": ["OWNER", "EMPLOYEE", "FARMER", "VET"]}
            }
        },
        "loginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "provisionRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"}, "last_name": {"type": "string"},
                "email": {"type": "string"}, "phone": {"type": "string"},
                "hasCompany": {"type": "boolean"}, "orgName": {"type": "string"},
                "orgStreet": {"type": "string"}, "orgCity": {"type": "string"},
                "orgPostalCode": {"type": "string"}, "orgTaxId": {"type": "string"},
                "herd_id": {"type": "string"}
            }
        },
        "user": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "email": {"type": "string"},
                "first_name": {"type": "string"}, "last_name": {"type": "string"},
                "role": {"type": "string"}, "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo contiene la metadata exportada del documento.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Amicus API",
	Description:      "Organizaciones, membresías, rebaños y provisión de clientes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
