// Package layout loads declarative form layouts (tabs of fields plus the
// has-one relations to splice into them) from JSON or YAML files.
package layout
