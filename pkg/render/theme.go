package render

import (
	"errors"
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Partial keys renderers look up in theme.RendererConfig.Partials.
const (
	PartialField = "hasone.field"
	PartialStyle = "hasone.style"
	PartialTab   = "hasone.tab"
)

// DefaultThemeFallbacks returns the partials used when a theme does not
// override them.
func DefaultThemeFallbacks() map[string]string {
	return map[string]string{
		PartialField: "templates/field.tmpl",
		PartialStyle: "templates/style.tmpl",
		PartialTab:   "templates/tab.tmpl",
	}
}

// ResolveTheme selects name/variant through selector and flattens the
// manifest into a renderer config. Variant tokens, templates, and assets
// override the base manifest; every token is also exposed as a `--token`
// CSS variable.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("render: theme selector is required")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q/%q: %w", name, variant, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme %q/%q has no manifest", name, variant)
	}

	manifest := selection.Manifest
	tokens := mergeStrings(manifest.Tokens)
	partials := mergeStrings(DefaultThemeFallbacks(), manifest.Templates)
	assetFiles := mergeStrings(manifest.Assets.Files)
	assetPrefix := manifest.Assets.Prefix

	if v, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, v.Tokens)
		partials = mergeStrings(partials, v.Templates)
		assetFiles = mergeStrings(assetFiles, v.Assets.Files)
		if v.Assets.Prefix != "" {
			assetPrefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := assetFiles[key]
			if !ok || file == "" {
				return ""
			}
			if strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
				return file
			}
			return path.Join(assetPrefix, file)
		},
	}, nil
}

// PartialFor returns the theme override for key or the built-in fallback.
func PartialFor(cfg *theme.RendererConfig, key string) string {
	if cfg != nil {
		if partial := strings.TrimSpace(cfg.Partials[key]); partial != "" {
			return partial
		}
	}
	return DefaultThemeFallbacks()[key]
}

func mergeStrings(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}
