package hasone

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hasone/pkg/model"
)

func TestAttach_InsertsStyleAndCompositeAfterAnchor(t *testing.T) {
	tab := newTab(textField("Name"), model.Field{Name: "OwnerID", Kind: model.FieldKindChoice}, textField("Notes"))

	field, err := Attach(context.Background(), tab, "Owner", newStubEntity())
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	want := []string{"Name", "OwnerID", "Owner_style", "Owner", "Notes"}
	if diff := cmp.Diff(want, tab.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	style, _ := tab.FieldNamed("Owner_style")
	if style.Kind != model.FieldKindStyle {
		t.Fatalf("expected style kind, got %q", style.Kind)
	}
	composite, _ := tab.FieldNamed("Owner")
	if composite.Kind != model.FieldKindComposite {
		t.Fatalf("expected composite kind, got %q", composite.Kind)
	}
	if composite.Widget != field {
		t.Fatalf("expected tab field to wrap returned composite")
	}
	anchor, _ := tab.FieldNamed("OwnerID")
	if anchor.Attribute(AttrAnchor) != "Owner" {
		t.Fatalf("expected anchor marker, got %q", anchor.Attribute(AttrAnchor))
	}
}

func TestAttach_AnchorSnapshotIsDetached(t *testing.T) {
	for name, attrs := range map[string]map[string]string{
		"nil attributes":      nil,
		"existing attributes": {"class": "wide"},
	} {
		t.Run(name, func(t *testing.T) {
			tab := newTab(model.Field{Name: "OwnerID", Kind: model.FieldKindChoice, Attributes: attrs})

			field, err := Attach(context.Background(), tab, "Owner", newStubEntity())
			if err != nil {
				t.Fatalf("attach: %v", err)
			}

			snapshot := field.Anchor()
			if got := snapshot.Attribute(AttrAnchor); got != "" {
				t.Fatalf("snapshot should not carry the anchor marker, got %q", got)
			}
			if got, want := snapshot.Attribute("class"), attrs["class"]; got != want {
				t.Fatalf("snapshot class mismatch: want %q, got %q", want, got)
			}
			anchor, _ := tab.FieldNamed("OwnerID")
			if anchor.Attribute(AttrAnchor) != "Owner" {
				t.Fatalf("expected tab anchor to be marked")
			}
		})
	}
}

func TestAttach_AnchorLastAppends(t *testing.T) {
	tab := newTab(textField("Name"), textField("OwnerID"))

	if _, err := Attach(context.Background(), tab, "Owner", newStubEntity()); err != nil {
		t.Fatalf("attach: %v", err)
	}

	want := []string{"Name", "OwnerID", "Owner_style", "Owner"}
	if diff := cmp.Diff(want, tab.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAttach_PreservesUnrelatedOrder(t *testing.T) {
	names := []string{"Title", "EditorID", "Summary", "OwnerID", "Body", "Tags"}
	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, textField(name))
	}
	tab := newTab(fields...)

	if _, err := Attach(context.Background(), tab, "Owner", newStubEntity()); err != nil {
		t.Fatalf("attach: %v", err)
	}

	if tab.Len() != len(names)+2 {
		t.Fatalf("expected exactly two inserted fields, got %v", tab.Names())
	}
	var rest []string
	for _, name := range tab.Names() {
		if name == "Owner" || name == "Owner_style" {
			continue
		}
		rest = append(rest, name)
	}
	if diff := cmp.Diff(names, rest); diff != "" {
		t.Fatalf("unrelated order changed (-want +got):\n%s", diff)
	}
}

func TestAttach_MissingIDFieldLeavesTabUntouched(t *testing.T) {
	tab := newTab(textField("Name"), textField("Owner"), textField("CoOwnerID"), textField("Notes"))
	before := tab.Names()

	_, err := Attach(context.Background(), tab, "Owner", newStubEntity())

	var notFound *RelationFieldNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected RelationFieldNotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrRelationFieldNotFound) {
		t.Fatalf("expected errors.Is ErrRelationFieldNotFound")
	}
	if notFound.Field != "OwnerID" || notFound.Tab != "Root.Main" {
		t.Fatalf("unexpected error details: %+v", notFound)
	}
	if diff := cmp.Diff(before, tab.Names()); diff != "" {
		t.Fatalf("tab mutated (-want +got):\n%s", diff)
	}
}

func TestAttach_InvalidRelationCheckedBeforeScan(t *testing.T) {
	tab := newTab(textField("OwnerID"))
	parent := newStubEntity()

	_, err := Attach(context.Background(), tab, "Editor", parent)

	var invalid *InvalidRelationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRelationError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidRelation) {
		t.Fatalf("expected errors.Is ErrInvalidRelation")
	}
	if invalid.Entity != "Project" {
		t.Fatalf("expected entity name in error, got %q", invalid.Entity)
	}

	// A nil tab would fail the scan; the relation check must fire first.
	if _, err := Attach(context.Background(), nil, "Editor", parent); !errors.Is(err, ErrInvalidRelation) {
		t.Fatalf("expected invalid relation before scan, got %v", err)
	}
	if tab.Len() != 1 {
		t.Fatalf("tab mutated: %v", tab.Names())
	}
}

func TestAttach_NilParent(t *testing.T) {
	_, err := Attach(context.Background(), newTab(textField("OwnerID")), "Owner", nil)
	if !errors.Is(err, ErrInvalidRelation) {
		t.Fatalf("expected ErrInvalidRelation, got %v", err)
	}
}

func TestAttach_RelatedLoadFailureLeavesTabUntouched(t *testing.T) {
	tab := newTab(textField("OwnerID"))
	parent := newStubEntity()
	parent.relatedErr = errors.New("connection reset")

	_, err := Attach(context.Background(), tab, "Owner", parent)
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected load error to propagate, got %v", err)
	}
	if tab.Len() != 1 {
		t.Fatalf("tab mutated: %v", tab.Names())
	}
}

func TestAttach_FirstMatchingAnchorWins(t *testing.T) {
	tab := newTab(textField("OwnerID"), textField("Notes"), textField("OwnerID"))

	if _, err := Attach(context.Background(), tab, "Owner", newStubEntity()); err != nil {
		t.Fatalf("attach: %v", err)
	}

	want := []string{"OwnerID", "Owner_style", "Owner", "Notes", "OwnerID"}
	if diff := cmp.Diff(want, tab.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAttach_TwiceDuplicatesComposite(t *testing.T) {
	tab := newTab(textField("Name"), textField("OwnerID"), textField("Notes"))
	parent := newStubEntity()

	for i := 0; i < 2; i++ {
		if _, err := Attach(context.Background(), tab, "Owner", parent); err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
	}

	want := []string{"Name", "OwnerID", "Owner_style", "Owner", "Owner_style", "Owner", "Notes"}
	if diff := cmp.Diff(want, tab.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAttach_ReadOnlyAnchorHidesActionsInStylesheet(t *testing.T) {
	tab := newTab(model.Field{Name: "OwnerID", Kind: model.FieldKindNumeric, ReadOnly: true})

	if _, err := Attach(context.Background(), tab, "Owner", newStubEntity()); err != nil {
		t.Fatalf("attach: %v", err)
	}

	style, _ := tab.FieldNamed("Owner_style")
	css, _ := style.Value.(string)
	if !strings.Contains(css, `[data-hasone="Owner"] .hasone-actions { display: none; }`) {
		t.Fatalf("expected read-only rule in stylesheet, got:\n%s", css)
	}
	if !strings.Contains(css, `[data-hasone-anchor="Owner"] { border-bottom: 0; }`) {
		t.Fatalf("expected anchor rule in stylesheet, got:\n%s", css)
	}
}

func TestAttach_EditableAnchorKeepsActionsVisible(t *testing.T) {
	tab := newTab(textField("OwnerID"))

	if _, err := Attach(context.Background(), tab, "Owner", newStubEntity()); err != nil {
		t.Fatalf("attach: %v", err)
	}

	style, _ := tab.FieldNamed("Owner_style")
	if css, _ := style.Value.(string); strings.Contains(css, "display: none") {
		t.Fatalf("did not expect read-only rule, got:\n%s", css)
	}
}

func TestAddFieldToTab(t *testing.T) {
	fields := model.NewFieldList()
	_ = fields.AddFieldToTab("Root.Main", textField("Name"))
	_ = fields.AddFieldToTab("Root.Main", textField("OwnerID"))

	if _, err := AddFieldToTab(context.Background(), fields, "Root.Main", "Owner", newStubEntity()); err != nil {
		t.Fatalf("add field to tab: %v", err)
	}
	tab, _ := fields.Tab("Root.Main")
	if diff := cmp.Diff([]string{"Name", "OwnerID", "Owner_style", "Owner"}, tab.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	_, err := AddFieldToTab(context.Background(), fields, "Root.Missing", "Owner", newStubEntity())
	if !errors.Is(err, ErrRelationFieldNotFound) {
		t.Fatalf("expected ErrRelationFieldNotFound for missing tab, got %v", err)
	}
}

func TestReorderTab_MovesCompositeAfterAnchor(t *testing.T) {
	tab := newTab(
		model.Field{Name: "Owner", Kind: model.FieldKindComposite, Attributes: map[string]string{"style": "color: red;"}},
		textField("Name"),
		textField("OwnerID"),
		model.Field{Name: "Orphan", Kind: model.FieldKindComposite},
		textField("Notes"),
	)

	moved, err := ReorderTab(tab)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}

	if diff := cmp.Diff([]string{"Owner"}, moved); diff != "" {
		t.Fatalf("moved mismatch (-want +got):\n%s", diff)
	}
	want := []string{"Name", "OwnerID", "Owner", "Orphan", "Notes"}
	if diff := cmp.Diff(want, tab.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	owner, _ := tab.FieldNamed("Owner")
	wantStyle := "background: var(--hasone-background, #f5f7f8); margin-top: -10px; color: red;"
	if got := owner.Attribute("style"); got != wantStyle {
		t.Fatalf("style mismatch\nwant: %q\n got: %q", wantStyle, got)
	}
	orphan, _ := tab.FieldNamed("Orphan")
	if orphan.Attribute("style") != "" {
		t.Fatalf("orphan composite should not be styled")
	}
}

func TestReorderTab_CustomStyle(t *testing.T) {
	tab := newTab(textField("OwnerID"), model.Field{Name: "Owner", Kind: model.FieldKindComposite})

	if _, err := ReorderTab(tab, WithStyle(StyleOptions{Background: "#fff"})); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	owner, _ := tab.FieldNamed("Owner")
	if got := owner.Attribute("style"); got != "background: #fff; margin-top: -10px; " {
		t.Fatalf("unexpected style %q", got)
	}
}

func TestReorderTab_KeepsStyleFieldWithComposite(t *testing.T) {
	tab := newTab(textField("Name"), textField("OwnerID"), textField("Notes"))
	if _, err := Attach(context.Background(), tab, "Owner", newStubEntity()); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := tab.ChangeOrder([]string{"Owner_style", "Owner", "Name", "OwnerID", "Notes"}); err != nil {
		t.Fatalf("shuffle: %v", err)
	}

	moved, err := ReorderTab(tab)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}

	if diff := cmp.Diff([]string{"Owner"}, moved); diff != "" {
		t.Fatalf("moved mismatch (-want +got):\n%s", diff)
	}
	want := []string{"Name", "OwnerID", "Owner_style", "Owner", "Notes"}
	if diff := cmp.Diff(want, tab.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	owner, _ := tab.FieldNamed("Owner")
	if got := owner.Attribute("style"); got != "" {
		t.Fatalf("styled composite should not be stamped again, got %q", got)
	}
}

func TestReorderTab_AttachedTabIsStable(t *testing.T) {
	tab := newTab(textField("Name"), textField("OwnerID"), textField("Notes"))
	if _, err := Attach(context.Background(), tab, "Owner", newStubEntity()); err != nil {
		t.Fatalf("attach: %v", err)
	}
	before := tab.Names()

	if _, err := ReorderTab(tab); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	if diff := cmp.Diff(before, tab.Names()); diff != "" {
		t.Fatalf("order changed (-want +got):\n%s", diff)
	}
}
