package hasone

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-hasone/pkg/model"
)

const (
	// StyleFieldSuffix names the stylesheet inserted ahead of the composite.
	StyleFieldSuffix = "_style"

	// AttrRelation marks the composite wrapper in rendered markup.
	AttrRelation = "data-hasone"
	// AttrAnchor marks the identifier field paired with a composite.
	AttrAnchor = "data-hasone-anchor"
	// ActionsClass wraps the composite's buttons.
	ActionsClass = "hasone-actions"
)

// StyleOptions controls the CSS that visually merges the anchor and the
// composite. Values may reference CSS custom properties so themes can
// override them.
type StyleOptions struct {
	Background string
	MarginTop  string
}

// DefaultStyleOptions returns the stock palette.
func DefaultStyleOptions() StyleOptions {
	return StyleOptions{
		Background: "var(--hasone-background, #f5f7f8)",
		MarginTop:  "-10px",
	}
}

func (o StyleOptions) withDefaults() StyleOptions {
	defaults := DefaultStyleOptions()
	if strings.TrimSpace(o.Background) == "" {
		o.Background = defaults.Background
	}
	if strings.TrimSpace(o.MarginTop) == "" {
		o.MarginTop = defaults.MarginTop
	}
	return o
}

// inline is the attribute form applied to an already-present composite.
func (o StyleOptions) inline() string {
	return fmt.Sprintf("background: %s; margin-top: %s; ", o.Background, o.MarginTop)
}

// Stylesheet is the widget payload of the generated style field.
type Stylesheet struct {
	Relation string
	ReadOnly bool
	Options  StyleOptions
}

// StyleFieldName returns the name of the style field for relation.
func StyleFieldName(relation string) string {
	return relation + StyleFieldSuffix
}

// CSS renders the stylesheet body.
func (s Stylesheet) CSS() string {
	relation := cssString(s.Relation)
	opts := s.Options.withDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "[%s=%s] { border-bottom: 0; }\n", AttrAnchor, relation)
	fmt.Fprintf(&b, "[%s=%s] { border-top: 0; background: %s; margin-top: %s; }\n",
		AttrRelation, relation, opts.Background, opts.MarginTop)
	if s.ReadOnly {
		fmt.Fprintf(&b, "[%s=%s] .%s { display: none; }\n", AttrRelation, relation, ActionsClass)
	}
	return b.String()
}

func newStyleField(relation string, readOnly bool, opts StyleOptions) model.Field {
	sheet := Stylesheet{Relation: relation, ReadOnly: readOnly, Options: opts}
	return model.Field{
		Name:   StyleFieldName(relation),
		Kind:   model.FieldKindStyle,
		Value:  sheet.CSS(),
		Widget: sheet,
	}
}

// cssString quotes value for use inside an attribute selector.
func cssString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
