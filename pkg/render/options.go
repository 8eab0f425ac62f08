package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the field or its tab.
type RenderOptions struct {
	// Theme supplies resolved tokens, CSS variables, and partial overrides.
	// See ResolveTheme.
	Theme *theme.RendererConfig
	// Locale and Translator localise button labels and the prompt. Missing
	// translations fall back to the built-in English strings unless
	// OnMissing says otherwise.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Errors surfaces server-side validation feedback keyed by field name.
	// Messages keyed by either the relation or its identifier field are shown
	// on the composite.
	Errors map[string][]string
}
