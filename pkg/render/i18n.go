package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves localized strings.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the string used when key cannot be
// translated. fallback is the built-in English text.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// Translation keys for composite field strings. Message keys receive the
// object name as their single argument.
const (
	KeyActionCreate   = "hasone.action.create"
	KeyActionEdit     = "hasone.action.edit"
	KeyActionReplace  = "hasone.action.replace"
	KeyMessageChoose  = "hasone.message.choose"
	KeyMessageTypeID  = "hasone.message.type_id"
	KeyMessageGeneric = "hasone.message.generic"
)

func translate(opts RenderOptions, key, fallback string, args ...any) string {
	if opts.Translator == nil {
		if opts.OnMissing != nil {
			return opts.OnMissing(opts.Locale, key, fallback, ErrMissingTranslator)
		}
		return fallback
	}

	result, err := opts.Translator.Translate(opts.Locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if opts.OnMissing != nil {
		return opts.OnMissing(opts.Locale, key, fallback, err)
	}
	return fallback
}
