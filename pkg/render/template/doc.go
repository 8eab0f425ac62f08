// Package template defines the engine seam renderers use to execute their
// partials. pkg/render/template/gotemplate provides the pongo2-backed engine.
package template
