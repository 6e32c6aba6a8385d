// Package localize resolves multi-language fields to a single display value.
package localize

import (
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

// DefaultLanguage is used when no usable language code can be extracted
const DefaultLanguage = "en"

// DefaultLocale is the locale for languages missing from the locale table
const DefaultLocale = "en_US"

var locales = map[string]string{
	"en": "en_US",
	"ru": "ru_RU",
	"pl": "pl_PL",
}

// NormalizeLanguage reduces a language hint ("ru", "pl_PL", " EN-us ") to a strict
// two-letter lowercase code. Anything that does not start with two ASCII letters
// resolves to DefaultLanguage.
func NormalizeLanguage(raw string) string {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if len(s) < 2 || !isLower(s[0]) || !isLower(s[1]) {
		return DefaultLanguage
	}
	return s[:2]
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// LocaleFor maps a two-letter language code to a locale identifier
func LocaleFor(lang string) string {
	if locale, ok := locales[lang]; ok {
		return locale
	}
	return DefaultLocale
}

// Resolve picks the display value of a translatable field for lang.
// Mappings prefer the exact code, then "en", then the first declared entry.
// Scalars pass through unchanged. Absent fields and empty mappings report false.
func Resolve[T any](v types.Translatable[T], lang string) (T, bool) {
	switch v.Kind() {
	case types.KindScalar:
		return v.Scalar()
	case types.KindMapping:
		if val, ok := v.Lookup(lang); ok {
			return val, true
		}
		if val, ok := v.Lookup(DefaultLanguage); ok {
			return val, true
		}
		if entries := v.Entries(); len(entries) > 0 {
			return entries[0].Value, true
		}
	}
	var zero T
	return zero, false
}

// Localizer binds Resolve to one language
type Localizer struct {
	lang string
}

// New creates a Localizer for a raw language hint
func New(rawLang string) *Localizer {
	return &Localizer{lang: NormalizeLanguage(rawLang)}
}

// Lang returns the normalized language code
func (l *Localizer) Lang() string {
	return l.lang
}

// Locale returns the locale identifier for the language
func (l *Localizer) Locale() string {
	return LocaleFor(l.lang)
}

// Text resolves a Localized field, yielding "" when nothing is available
func (l *Localizer) Text(v types.Localized) string {
	s, _ := Resolve(v, l.lang)
	return s
}

// TextOr resolves a Localized field, falling back when it resolves to ""
func (l *Localizer) TextOr(v types.Localized, fallback string) string {
	if s := l.Text(v); s != "" {
		return s
	}
	return fallback
}

// Texts resolves a list of Localized fields
func (l *Localizer) Texts(items []types.Localized) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, l.Text(item))
	}
	return out
}
