package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Ordered is a keyed collection that remembers the order keys were declared in.
// The source document keys projects, employers and registries by id, and that
// order is observable in the output (tie-breaking and first-value fallbacks).
type Ordered[T any] struct {
	keys   []string
	values map[string]T
}

// Set inserts or replaces a value; replaced keys keep their original position
func (o *Ordered[T]) Set(key string, value T) {
	if o.values == nil {
		o.values = make(map[string]T)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key
func (o Ordered[T]) Get(key string) (T, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns keys in declaration order
func (o Ordered[T]) Keys() []string {
	return o.keys
}

// Len returns the number of entries
func (o Ordered[T]) Len() int {
	return len(o.keys)
}

// UnmarshalYAML decodes a YAML mapping, preserving key order
func (o *Ordered[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return o.UnmarshalYAML(node.Alias)
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*o = Ordered[T]{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	result := Ordered[T]{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var v T
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		result.Set(key, v)
	}
	*o = result
	return nil
}
