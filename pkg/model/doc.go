// Package model defines the ordered form structures the has-one splicer works
// on. A FieldList groups fields into named tabs (for example "Root.Main");
// each TabFieldList keeps its fields in render order and exposes name-keyed
// lookups plus positional inserts. Field kinds are an explicit enum so
// renderers and the splicer can switch on the anchor kind (choice, numeric,
// text) without inspecting concrete widget types. Relationship metadata
// mirrors the `x-relationships` contract used by schema adapters.
package model
