// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TranslatableKind distinguishes how a translatable field was written in the source document
type TranslatableKind int

const (
	// KindUnset means the field was absent or null
	KindUnset TranslatableKind = iota
	// KindScalar means the field was written as a single untranslated value
	KindScalar
	// KindMapping means the field was written as a language -> value mapping
	KindMapping
)

// Translation is one language entry of a translatable field
type Translation[T any] struct {
	Lang  string
	Value T
}

// Translatable is a field that is either a plain value or a mapping from language code to value.
// Mapping entries keep the order they were declared in.
type Translatable[T any] struct {
	kind    TranslatableKind
	scalar  T
	entries []Translation[T]
}

// Localized is a translatable text field
type Localized = Translatable[string]

// LocalizedList is a translatable list of texts (e.g. month names)
type LocalizedList = Translatable[[]string]

// Plain builds a scalar translatable value
func Plain[T any](v T) Translatable[T] {
	return Translatable[T]{kind: KindScalar, scalar: v}
}

// Text builds a scalar Localized value
func Text(s string) Localized {
	return Plain(s)
}

// Translations builds a mapping translatable value from (lang, value) entries in order
func Translations[T any](entries ...Translation[T]) Translatable[T] {
	return Translatable[T]{kind: KindMapping, entries: entries}
}

// Texts builds a Localized mapping from alternating language/value pairs
func Texts(pairs ...string) Localized {
	entries := make([]Translation[string], 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, Translation[string]{Lang: pairs[i], Value: pairs[i+1]})
	}
	return Translations(entries...)
}

// Kind reports how the value was declared
func (t Translatable[T]) Kind() TranslatableKind {
	return t.kind
}

// IsZero reports whether the field was absent
func (t Translatable[T]) IsZero() bool {
	return t.kind == KindUnset
}

// Scalar returns the untranslated value when the field is a scalar
func (t Translatable[T]) Scalar() (T, bool) {
	return t.scalar, t.kind == KindScalar
}

// Entries returns the language entries in declaration order
func (t Translatable[T]) Entries() []Translation[T] {
	return t.entries
}

// Lookup returns the value stored for an exact language code
func (t Translatable[T]) Lookup(lang string) (T, bool) {
	for _, e := range t.entries {
		if e.Lang == lang {
			return e.Value, true
		}
	}
	var zero T
	return zero, false
}

// UnmarshalYAML decodes either a scalar or an ordered language mapping
func (t *Translatable[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return t.UnmarshalYAML(node.Alias)
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*t = Translatable[T]{}
			return nil
		}
		var v T
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*t = Plain(v)
		return nil
	case yaml.MappingNode:
		entries := make([]Translation[T], 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var v T
			if err := node.Content[i+1].Decode(&v); err != nil {
				return fmt.Errorf("line %d: translation %q: %w", node.Content[i+1].Line, node.Content[i].Value, err)
			}
			entries = append(entries, Translation[T]{Lang: node.Content[i].Value, Value: v})
		}
		*t = Translations(entries...)
		return nil
	default:
		// Lists are scalars for list-typed fields
		var v T
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: expected a value or a language mapping: %w", node.Line, err)
		}
		*t = Plain(v)
		return nil
	}
}
