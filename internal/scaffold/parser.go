package scaffold

import (
	"fmt"
	"strings"

	"github.com/example/crudkit/internal/models"
)

// ParseFields parses the --fields DSL into an ordered schema.
// Format: "name:string,price:float,description:text,active:bool"
func ParseFields(fieldsStr string) (models.AttributeSchema, error) {
	if strings.TrimSpace(fieldsStr) == "" {
		return models.AttributeSchema{}, nil
	}

	var attrs []models.Attribute
	for _, part := range strings.Split(fieldsStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		attr, err := parseField(part)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}

	return models.NewAttributeSchema(attrs...)
}

// parseField parses a single field specification.
// Format: "name:type"
func parseField(spec string) (models.Attribute, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return models.Attribute{}, fmt.Errorf("invalid field spec %q: expected 'name:type'", spec)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return models.Attribute{}, fmt.Errorf("invalid field spec %q: empty field name", spec)
	}

	typ, err := models.ParseAttributeType(parts[1])
	if err != nil {
		return models.Attribute{}, fmt.Errorf("invalid field spec %q: %w", spec, err)
	}

	return models.Attribute{Name: name, Type: typ}, nil
}
