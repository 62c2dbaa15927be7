// Package schemafile loads model schemas from a YAML registry file:
//
//	models:
//	  product:
//	    name: string
//	    price: float
//	    description: long-text
//
// Attribute order in the file is the order of the generated form fields.
package schemafile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/ports/secondary"
)

// Registry holds the schemas parsed from one file.
type Registry struct {
	order   []string
	schemas map[string]models.AttributeSchema // keyed by lowercased model
}

// Load reads and parses the registry file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes registry YAML. Mappings are walked as nodes because a Go
// map would lose the attribute order.
func Parse(data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	reg := &Registry{schemas: make(map[string]models.AttributeSchema)}
	if len(doc.Content) == 0 {
		return reg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping with a models key", root.Line)
	}
	modelsNode := lookup(root, "models")
	if modelsNode == nil {
		return reg, nil
	}
	if modelsNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: models must be a mapping of model name to attributes", modelsNode.Line)
	}

	for i := 0; i+1 < len(modelsNode.Content); i += 2 {
		nameNode, attrsNode := modelsNode.Content[i], modelsNode.Content[i+1]
		schema, err := parseAttributes(attrsNode)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", nameNode.Value, err)
		}
		key := strings.ToLower(nameNode.Value)
		if _, dup := reg.schemas[key]; dup {
			return nil, fmt.Errorf("line %d: model %q defined twice", nameNode.Line, nameNode.Value)
		}
		reg.order = append(reg.order, nameNode.Value)
		reg.schemas[key] = schema
	}
	return reg, nil
}

func parseAttributes(node *yaml.Node) (models.AttributeSchema, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return models.AttributeSchema{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: attributes must be a mapping of name to type", node.Line)
	}

	attrs := make([]models.Attribute, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, typ := node.Content[i], node.Content[i+1]
		t, err := models.ParseAttributeType(typ.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", typ.Line, err)
		}
		attrs = append(attrs, models.Attribute{Name: name.Value, Type: t})
	}
	return models.NewAttributeSchema(attrs...)
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// Schema returns a copy of the model's schema; unknown models are empty.
func (r *Registry) Schema(_ context.Context, model string) (models.AttributeSchema, error) {
	schema, ok := r.schemas[strings.ToLower(model)]
	if !ok {
		return models.AttributeSchema{}, nil
	}
	return append(models.AttributeSchema{}, schema...), nil
}

// Models lists the model names in file order.
func (r *Registry) Models() []string {
	return append([]string(nil), r.order...)
}

var _ secondary.SchemaProvider = (*Registry)(nil)
