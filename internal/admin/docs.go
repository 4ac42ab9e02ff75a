package admin

import "github.com/swaggo/swag"

// docTemplate is the admin surface's OpenAPI document. graphdb has no
// swag-annotated handlers to generate this from (the teacher's swag
// usage was itself limited to doc-comment annotations with no
// docs.go ever checked in), so this is hand-written in the shape
// `swag init` produces rather than code-generated.
const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "graphdb admin API",
        "description": "Operational surface: health, stats, config, snapshot control.",
        "version": "1.0"
    },
    "basePath": "/",
    "paths": {
        "/health": {"get": {"summary": "Liveness probe", "responses": {"200": {"description": "ok"}}}},
        "/ready":  {"get": {"summary": "Readiness probe", "responses": {"200": {"description": "ok"}}}},
        "/admin/stats": {"get": {"summary": "Hierarchy node count and requesting user", "responses": {"200": {"description": "ok"}}}},
        "/admin/config": {"get": {"summary": "Effective, secret-redacted configuration", "responses": {"200": {"description": "ok"}}}},
        "/admin/snapshot": {"post": {"summary": "Trigger an immediate snapshot save", "responses": {"202": {"description": "accepted"}}}}
    }
}`

// swaggerSpec implements swag.Spec so the admin router can serve this
// document at /api/swagger via swag's own registry instead of a bare
// embedded file.
type swaggerSpec struct{}

func (swaggerSpec) ReadDoc() string { return docTemplate }

func init() {
	swag.Register("swagger", swaggerSpec{})
}
