package hasone

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hasone/pkg/model"
)

func attachOwner(t *testing.T, anchor model.Field, parent *stubEntity, options ...Option) *CompositeField {
	t.Helper()

	anchor.Name = "OwnerID"
	field, err := Attach(context.Background(), newTab(anchor), "Owner", parent, options...)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	return field
}

func actionKinds(actions []Action) []ActionKind {
	kinds := make([]ActionKind, 0, len(actions))
	for _, action := range actions {
		kinds = append(kinds, action.Kind)
	}
	return kinds
}

func TestCompositeField_ReadOnlyExistingRecordHasNoActions(t *testing.T) {
	parent := newStubEntity()
	parent.related["Owner"] = stubRecord{id: 7, typeName: "Member", inDB: true}

	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice, ReadOnly: true}, parent)

	if !field.RecordExists() {
		t.Fatalf("expected record to exist")
	}
	if actions := field.Actions(); len(actions) != 0 {
		t.Fatalf("expected no actions, got %+v", actions)
	}
	if msg := field.Message(); msg.HTML == "" {
		t.Fatalf("expected message to render in read-only mode")
	}
}

func TestCompositeField_EditableExistingRecordActions(t *testing.T) {
	parent := newStubEntity()
	parent.related["Owner"] = stubRecord{id: 7, typeName: "Member", inDB: true}

	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice}, parent, WithBaseLink("/admin/projects/EditForm/field/Owner/"))

	want := []Action{
		{Kind: ActionEdit, Label: "Edit existing", Link: "/admin/projects/EditForm/field/Owner/item/7/edit", Before: true},
		{Kind: ActionReplace, Label: "Unlink existing and add new", Link: "/admin/projects/EditForm/field/Owner/item/new"},
	}
	if diff := cmp.Diff(want, field.Actions()); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestCompositeField_UnsavedRecordCountsAsMissing(t *testing.T) {
	parent := newStubEntity()
	parent.related["Owner"] = stubRecord{id: 7, typeName: "Member", inDB: false}

	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice}, parent)

	if diff := cmp.Diff([]ActionKind{ActionCreate}, actionKinds(field.Actions())); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestCompositeField_CreateAndLinkPersistsParent(t *testing.T) {
	parent := newStubEntity()
	field := attachOwner(t, model.Field{Kind: model.FieldKindNumeric}, parent)

	if diff := cmp.Diff([]ActionKind{ActionCreate}, actionKinds(field.Actions())); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}

	created := stubRecord{id: 42, typeName: "Member", inDB: true}
	if err := field.Invoke(context.Background(), ActionCreate, created); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	if parent.ids["Owner"] != 42 {
		t.Fatalf("expected OwnerID 42, got %d", parent.ids["Owner"])
	}
	if parent.persisted != 1 {
		t.Fatalf("expected one persist, got %d", parent.persisted)
	}
	if !field.RecordExists() || field.Record().ID() != 42 {
		t.Fatalf("expected composite to track new record")
	}
	if diff := cmp.Diff([]ActionKind{ActionEdit, ActionReplace}, actionKinds(field.Actions())); diff != "" {
		t.Fatalf("actions after link mismatch (-want +got):\n%s", diff)
	}
}

func TestCompositeField_ReplaceRestoresIDWhenPersistFails(t *testing.T) {
	parent := newStubEntity()
	parent.ids["Owner"] = 7
	parent.related["Owner"] = stubRecord{id: 7, typeName: "Member", inDB: true}
	parent.persistErr = errPersist

	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice}, parent)

	err := field.Invoke(context.Background(), ActionReplace, stubRecord{id: 9, typeName: "Member", inDB: true})
	if !errors.Is(err, errPersist) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if parent.ids["Owner"] != 7 {
		t.Fatalf("expected OwnerID restored to 7, got %d", parent.ids["Owner"])
	}
	if field.Record().ID() != 7 {
		t.Fatalf("expected composite to keep previous record")
	}
}

func TestCompositeField_InvokeRejectsUnavailableAction(t *testing.T) {
	parent := newStubEntity()
	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice, ReadOnly: true}, parent)

	err := field.Invoke(context.Background(), ActionCreate, stubRecord{id: 1, inDB: true})
	if !errors.Is(err, ErrActionUnavailable) {
		t.Fatalf("expected ErrActionUnavailable, got %v", err)
	}
	if parent.persisted != 0 {
		t.Fatalf("expected no persist")
	}
}

func TestCompositeField_InvokeRejectsUnsavedRecord(t *testing.T) {
	parent := newStubEntity()
	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice}, parent)

	err := field.Invoke(context.Background(), ActionCreate, stubRecord{id: 3})
	if !errors.Is(err, ErrRecordNotPersisted) {
		t.Fatalf("expected ErrRecordNotPersisted, got %v", err)
	}
	if _, set := parent.ids["Owner"]; set {
		t.Fatalf("expected parent untouched")
	}
}

func TestCompositeField_EditHasNoSideEffects(t *testing.T) {
	parent := newStubEntity()
	parent.related["Owner"] = stubRecord{id: 7, typeName: "Member", inDB: true}
	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice}, parent)

	if err := field.Invoke(context.Background(), ActionEdit, nil); err != nil {
		t.Fatalf("invoke edit: %v", err)
	}
	if parent.persisted != 0 {
		t.Fatalf("expected no persist on edit")
	}
}

func TestCompositeField_CannotCreateHidesActions(t *testing.T) {
	parent := newStubEntity()
	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice}, parent,
		WithCatalog(catalogOf(stubSchema{name: "Team member", canCreate: false})))

	if actions := field.Actions(); len(actions) != 0 {
		t.Fatalf("expected no actions, got %+v", actions)
	}
}

func TestCompositeField_Message(t *testing.T) {
	cases := []struct {
		name   string
		kind   model.FieldKind
		schema *stubSchema
		want   Message
	}{
		{
			name: "choice",
			kind: model.FieldKindChoice,
			want: Message{Kind: MessageChoose, ObjectName: "Member", HTML: "Choose an existing <em>Member</em> from the above dropdown, or..."},
		},
		{
			name:   "numeric uses singular name",
			kind:   model.FieldKindNumeric,
			schema: &stubSchema{name: "Team member", canCreate: true},
			want:   Message{Kind: MessageTypeID, ObjectName: "Team member", HTML: "Type the ID of an existing <em>Team member</em> in the above field, or..."},
		},
		{
			name: "text",
			kind: model.FieldKindText,
			want: Message{Kind: MessageGeneric, ObjectName: "Member", HTML: "Assign an existing <em>Member</em> above, or..."},
		},
		{
			name:   "unknown small catalog",
			kind:   model.FieldKindUnknown,
			schema: &stubSchema{name: "Member", canCreate: true, count: 12},
			want:   Message{Kind: MessageChoose, ObjectName: "Member", HTML: "Choose an existing <em>Member</em> from the above dropdown, or..."},
		},
		{
			name:   "unknown large catalog",
			kind:   model.FieldKindUnknown,
			schema: &stubSchema{name: "Member", canCreate: true, count: 100},
			want:   Message{Kind: MessageTypeID, ObjectName: "Member", HTML: "Type the ID of an existing <em>Member</em> in the above field, or..."},
		},
		{
			name: "unknown without catalog",
			kind: model.FieldKindUnknown,
			want: Message{Kind: MessageGeneric, ObjectName: "Member", HTML: "Assign an existing <em>Member</em> above, or..."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var options []Option
			if tc.schema != nil {
				options = append(options, WithCatalog(catalogOf(*tc.schema)))
			}
			field := attachOwner(t, model.Field{Kind: tc.kind}, newStubEntity(), options...)
			if diff := cmp.Diff(tc.want, field.Message()); diff != "" {
				t.Fatalf("message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompositeField_PerformReadonlyTransformation(t *testing.T) {
	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice}, newStubEntity())

	readOnly := field.PerformReadonlyTransformation()

	if field.ReadOnly() {
		t.Fatalf("original field must stay editable")
	}
	if !readOnly.ReadOnly() || !readOnly.Field().ReadOnly {
		t.Fatalf("expected read-only copy")
	}
	if len(readOnly.Actions()) != 0 {
		t.Fatalf("expected no actions on read-only copy")
	}
}

func TestCompositeField_WithReadOnlyOption(t *testing.T) {
	tab := newTab(textField("OwnerID"))
	field, err := Attach(context.Background(), tab, "Owner", newStubEntity(), WithReadOnly(true))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(field.Actions()) != 0 {
		t.Fatalf("expected no actions")
	}
	style, _ := tab.FieldNamed("Owner_style")
	if css, _ := style.Value.(string); !strings.Contains(css, "display: none") {
		t.Fatalf("expected stylesheet to hide actions, got:\n%s", css)
	}
}

func TestCompositeField_LogsLink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	field := attachOwner(t, model.Field{Kind: model.FieldKindChoice}, newStubEntity(), WithLogger(logger))
	if err := field.Invoke(context.Background(), ActionCreate, stubRecord{id: 5, inDB: true}); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "hasone: attached field") || !strings.Contains(out, "hasone: linked record") {
		t.Fatalf("expected debug traces, got:\n%s", out)
	}
}
