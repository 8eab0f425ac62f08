// Package openapi derives a tab layout and the has-one relations of a record
// type from an OpenAPI component schema.
package openapi
