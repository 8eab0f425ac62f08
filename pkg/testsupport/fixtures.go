package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-hasone/pkg/hasone"
	"github.com/goliatone/go-hasone/pkg/model"
	"github.com/goliatone/go-hasone/pkg/store"
	"github.com/goliatone/go-hasone/pkg/store/memory"
)

// Fixture bundles an in-memory store seeded with a Project type that has an
// Owner relation to Member.
type Fixture struct {
	Store   *store.Store
	Driver  *memory.Driver
	Project *store.Record
}

// NewFixture builds the standard Project/Member store. Testing helpers fail
// the test on setup errors to keep call sites concise.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	driver := memory.New()
	s, err := store.New(driver)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defs := []store.TypeDef{
		{Name: "Project", HasOne: map[string]string{"Owner": "Member"}},
		{Name: "Member", Singular: "Team member"},
	}
	for _, def := range defs {
		if err := s.Define(def); err != nil {
			t.Fatalf("define %s: %v", def.Name, err)
		}
	}

	project, err := s.Create(context.Background(), "Project", "Engine")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return &Fixture{Store: s, Driver: driver, Project: project}
}

// LinkOwner creates a Member titled title and links it as the project owner.
func (f *Fixture) LinkOwner(t *testing.T, title string) *store.Record {
	t.Helper()

	ctx := context.Background()
	member, err := f.Store.Create(ctx, "Member", title)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	f.Project.SetRelationID("Owner", member.ID())
	if err := f.Project.Persist(ctx); err != nil {
		t.Fatalf("link owner: %v", err)
	}
	return member
}

// Tab returns the standard [Name, OwnerID, Notes] tab with the anchor kind
// and read-only flag supplied.
func (f *Fixture) Tab(kind model.FieldKind, readOnly bool) *model.TabFieldList {
	return model.NewTabFieldList("Root.Main",
		model.Field{Name: "Name", Kind: model.FieldKindText, Label: "Name"},
		model.Field{Name: "OwnerID", Kind: kind, Label: "Owner", ReadOnly: readOnly},
		model.Field{Name: "Notes", Kind: model.FieldKindText, Label: "Notes"},
	)
}

// Attach splices the Owner composite into tab using the fixture catalog.
func (f *Fixture) Attach(t *testing.T, tab *model.TabFieldList, options ...hasone.Option) *hasone.CompositeField {
	t.Helper()

	options = append([]hasone.Option{hasone.WithCatalog(f.Store)}, options...)
	field, err := hasone.Attach(context.Background(), tab, "Owner", f.Project, options...)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	return field
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
