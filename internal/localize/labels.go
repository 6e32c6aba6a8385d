package localize

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-forge/internal/types"
)

// Label is a translatable UI label. Its value is either text or a list of texts
// (month name tables are lists).
type Label struct {
	text   types.Localized
	list   types.LocalizedList
	isList bool
}

// TextLabel builds a text label
func TextLabel(v types.Localized) Label {
	return Label{text: v}
}

// ListLabel builds a list label
func ListLabel(v types.LocalizedList) Label {
	return Label{list: v, isList: true}
}

// UnmarshalYAML detects whether the label holds text or lists
func (l *Label) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return l.UnmarshalYAML(node.Alias)
	}
	if holdsList(node) {
		l.isList = true
		return l.list.UnmarshalYAML(node)
	}
	if err := l.text.UnmarshalYAML(node); err != nil {
		return fmt.Errorf("label: %w", err)
	}
	return nil
}

func holdsList(node *yaml.Node) bool {
	switch node.Kind {
	case yaml.SequenceNode:
		return true
	case yaml.MappingNode:
		for i := 1; i < len(node.Content); i += 2 {
			if node.Content[i].Kind == yaml.SequenceNode {
				return true
			}
		}
	}
	return false
}

// Resolve returns the label value for lang: a string or a []string. Missing values yield nil.
func (l Label) Resolve(lang string) any {
	if l.isList {
		if v, ok := Resolve(l.list, lang); ok {
			return v
		}
		return nil
	}
	if v, ok := Resolve(l.text, lang); ok {
		return v
	}
	return nil
}

// ResolveLabels resolves every label for lang
func ResolveLabels(labels types.Ordered[Label], lang string) map[string]any {
	out := make(map[string]any, labels.Len())
	for _, key := range labels.Keys() {
		label, _ := labels.Get(key)
		out[key] = label.Resolve(lang)
	}
	return out
}

// MonthNames extracts the short month name table from resolved labels.
// It reports false unless the table holds exactly 12 entries.
func MonthNames(resolved map[string]any) ([]string, bool) {
	months, ok := resolved["months_short"].([]string)
	if !ok || len(months) != 12 {
		return nil, false
	}
	return months, true
}
