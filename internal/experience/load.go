package experience

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
	bundled "github.com/jonathan/resume-forge/schemas"
)

// wrapperKey is the optional top-level key the whole document may be nested under
const wrapperKey = "data"

// LoadDocument reads a YAML or JSON career document, validates it against the
// bundled schema and decodes it into typed records
func LoadDocument(path string) (*types.CareerDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}

	return ParseDocument(content)
}

// ParseDocument validates and decodes document content
func ParseDocument(content []byte) (*types.CareerDocument, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	node := documentBody(&root)
	if node == nil {
		return &types.CareerDocument{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &SchemaError{Message: fmt.Sprintf("line %d: document must be a mapping", node.Line)}
	}

	var generic any
	if err := node.Decode(&generic); err != nil {
		return nil, &LoadError{Message: "failed to decode document", Cause: err}
	}
	if err := schemas.ValidateDocument(bundled.CareerDocument, normalize(generic)); err != nil {
		return nil, &SchemaError{Message: "document does not match schema", Cause: err}
	}

	var doc types.CareerDocument
	if err := node.Decode(&doc); err != nil {
		return nil, &LoadError{Message: "failed to decode document", Cause: err}
	}
	return &doc, nil
}

// documentBody returns the top-level mapping, unwrapping a "data" key when present.
// An empty document yields nil.
func documentBody(root *yaml.Node) *yaml.Node {
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return node
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == wrapperKey && node.Content[i+1].Kind == yaml.MappingNode {
			return node.Content[i+1]
		}
	}
	return node
}

// normalize converts YAML's map[interface{}]interface{} into JSON-compatible maps
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
