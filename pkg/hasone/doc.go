// Package hasone splices a has-one relation widget into a form tab.
//
// Attach locates the relation's identifier field (`<Relation>ID`) inside a
// tab, then inserts a generated stylesheet and a CompositeField directly after
// it so the two render as one control. The composite exposes create, edit,
// and unlink-and-create actions depending on whether a related record is
// linked and whether the identifier field is read-only. Linking a new record
// updates the parent's identifier and persists the parent, restoring the old
// identifier when persisting fails.
//
// Attach is not idempotent: a second call for the same relation inserts a
// second stylesheet/composite pair after the identifier field.
package hasone
