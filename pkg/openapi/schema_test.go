package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hasone/pkg/layout"
	"github.com/goliatone/go-hasone/pkg/model"
	"github.com/goliatone/go-hasone/pkg/openapi"
	"github.com/goliatone/go-hasone/pkg/store"
)

const document = `
openapi: 3.0.3
info:
  title: Projects
  version: 1.0.0
paths: {}
components:
  schemas:
    Project:
      type: object
      title: Project
      x-singular-name: Project record
      x-formgen-order: [Title, OwnerID, Missing]
      properties:
        Title:
          type: string
          title: Title
        Status:
          type: string
          enum: [draft, active]
        OwnerID:
          type: integer
          title: Owner
          x-relationships:
            type: hasOne
            target: Member
        Budget:
          type: number
          readOnly: true
        Company:
          type: object
          x-relationships:
            type: belongsTo
            target: Company
    Member:
      type: object
      title: Team member
      properties:
        Name:
          type: string
`

func TestLoadSchema_FieldsInOrder(t *testing.T) {
	schema, err := openapi.LoadSchema(context.Background(), []byte(document), "Project")
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	if schema.Tab.Name() != "Root.Main" {
		t.Fatalf("unexpected tab name %q", schema.Tab.Name())
	}
	want := []model.Field{
		{Name: "Title", Kind: model.FieldKindText, Label: "Title"},
		{Name: "OwnerID", Kind: model.FieldKindNumeric, Label: "Owner"},
		{Name: "Budget", Kind: model.FieldKindNumeric, ReadOnly: true},
		{Name: "Company", Kind: model.FieldKindUnknown},
		{
			Name:    "Status",
			Kind:    model.FieldKindChoice,
			Options: []model.Option{{Value: "draft", Label: "draft"}, {Value: "active", Label: "active"}},
		},
	}
	if diff := cmp.Diff(want, schema.Tab.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSchema_Relationships(t *testing.T) {
	schema, err := openapi.LoadSchema(context.Background(), []byte(document), "Project")
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	hasOne := schema.HasOne()
	if len(hasOne) != 1 {
		t.Fatalf("expected one hasOne relationship, got %+v", schema.Relationships)
	}
	if hasOne[0].Name != "Owner" || hasOne[0].Target != "Member" || hasOne[0].IDFieldName() != "OwnerID" {
		t.Fatalf("unexpected relationship %+v", hasOne[0])
	}
	if len(schema.Relationships) != 2 {
		t.Fatalf("expected belongsTo relationship to be kept, got %+v", schema.Relationships)
	}

	want := store.TypeDef{Name: "Project", Singular: "Project record", HasOne: map[string]string{"Owner": "Member"}}
	if diff := cmp.Diff(want, schema.TypeDef()); diff != "" {
		t.Fatalf("type def mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSchema_SingularFallsBackToTitle(t *testing.T) {
	schema, err := openapi.LoadSchema(context.Background(), []byte(document), "Member", openapi.WithTabName("Root.Details"))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	if schema.Singular != "Team member" {
		t.Fatalf("unexpected singular %q", schema.Singular)
	}
	if schema.Tab.Name() != "Root.Details" {
		t.Fatalf("unexpected tab name %q", schema.Tab.Name())
	}
	if def := schema.TypeDef(); def.HasOne != nil {
		t.Fatalf("expected no has-one relations, got %v", def.HasOne)
	}
}

func TestLoadSchema_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := openapi.LoadSchema(ctx, nil, "Project"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := openapi.LoadSchema(ctx, []byte("{not yaml"), "Project"); err == nil {
		t.Fatalf("expected error for invalid document")
	}
	_, err := openapi.LoadSchema(ctx, []byte(document), "Unknown")
	if err == nil || !strings.Contains(err.Error(), `component "Unknown" not found`) {
		t.Fatalf("expected missing component error, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := openapi.LoadSchema(cancelled, []byte(document), "Project"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestSchema_Form(t *testing.T) {
	schema, err := openapi.LoadSchema(context.Background(), []byte(document), "Project")
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	form := schema.Form()
	if form.ID != "Project" || form.Type != "Project" {
		t.Fatalf("unexpected form metadata %+v", form)
	}
	if diff := cmp.Diff([]layout.Attachment{{Tab: "Root.Main", Relation: "Owner"}}, form.Attach); diff != "" {
		t.Fatalf("attachments mismatch (-want +got):\n%s", diff)
	}

	main, _ := form.Build().Tab("Root.Main")
	if diff := cmp.Diff(schema.Tab.Names(), main.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	status, _ := main.FieldNamed("Status")
	if status.Kind != model.FieldKindChoice || len(status.Options) != 2 {
		t.Fatalf("choice field not carried over: %+v", status)
	}
}

const foreignKeyDocument = `
openapi: 3.0.3
info: {title: Projects, version: 1.0.0}
paths: {}
components:
  schemas:
    Project:
      type: object
      x-formgen-order: [Title, LeadRef, OwnerID]
      properties:
        Title: {type: string}
        LeadRef: {type: integer}
        Lead:
          type: object
          x-relationships: {type: hasOne, target: Member, foreignKey: LeadRef}
        OwnerID:
          type: integer
          x-relationships: {type: hasOne, target: Member}
`

func TestSchema_FormSkipsRelationsWithoutIDField(t *testing.T) {
	schema, err := openapi.LoadSchema(context.Background(), []byte(foreignKeyDocument), "Project")
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	if len(schema.HasOne()) != 2 {
		t.Fatalf("expected both has-one relationships, got %+v", schema.HasOne())
	}

	form := schema.Form()
	if diff := cmp.Diff([]layout.Attachment{{Tab: "Root.Main", Relation: "Owner"}}, form.Attach); diff != "" {
		t.Fatalf("attachments mismatch (-want +got):\n%s", diff)
	}
}
