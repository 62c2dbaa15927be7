package models

import (
	"fmt"
	"regexp"
	"strings"
)

// AttributeType is the logical type of one model attribute.
type AttributeType string

const (
	TypeString   AttributeType = "string"
	TypeInteger  AttributeType = "integer"
	TypeFloat    AttributeType = "float"
	TypeBoolean  AttributeType = "boolean"
	TypeDate     AttributeType = "date"
	TypeDateTime AttributeType = "datetime"
	TypeTime     AttributeType = "time"
	TypeEmail    AttributeType = "email"
	TypePassword AttributeType = "password"
	TypeURL      AttributeType = "url"
	TypeLongText AttributeType = "long-text"
)

// AttributeTypes returns every logical type in a stable order.
func AttributeTypes() []AttributeType {
	return []AttributeType{
		TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeDate, TypeDateTime,
		TypeTime, TypeEmail, TypePassword, TypeURL, TypeLongText,
	}
}

var typeAliases = map[string]AttributeType{
	"text":      TypeLongText,
	"longtext":  TypeLongText,
	"textarea":  TypeLongText,
	"int":       TypeInteger,
	"bool":      TypeBoolean,
	"double":    TypeFloat,
	"decimal":   TypeFloat,
	"number":    TypeFloat,
	"timestamp": TypeDateTime,
}

// ParseAttributeType resolves a type name or alias to a logical type.
func ParseAttributeType(s string) (AttributeType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := typeAliases[name]; ok {
		return alias, nil
	}
	t := AttributeType(name)
	if !t.Valid() {
		return "", fmt.Errorf("unknown type %q (valid: %s)", s, joinTypes(AttributeTypes()))
	}
	return t, nil
}

// Valid reports whether t is one of the known logical types.
func (t AttributeType) Valid() bool {
	for _, known := range AttributeTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// InputKind is the form control used to edit a value.
type InputKind string

const (
	InputText          InputKind = "text"
	InputNumber        InputKind = "number"
	InputTextarea      InputKind = "textarea"
	InputEmail         InputKind = "email"
	InputPassword      InputKind = "password"
	InputURL           InputKind = "url"
	InputDate          InputKind = "date"
	InputDateTimeLocal InputKind = "datetime-local"
	InputTime          InputKind = "time"
	InputCheckbox      InputKind = "checkbox"
)

// InputKind maps the logical type to a form control. The mapping is total:
// anything unrecognised is edited as free text.
func (t AttributeType) InputKind() InputKind {
	switch t {
	case TypeInteger, TypeFloat:
		return InputNumber
	case TypeLongText:
		return InputTextarea
	case TypeEmail:
		return InputEmail
	case TypePassword:
		return InputPassword
	case TypeURL:
		return InputURL
	case TypeDate:
		return InputDate
	case TypeDateTime:
		return InputDateTimeLocal
	case TypeTime:
		return InputTime
	case TypeBoolean:
		return InputCheckbox
	default:
		return InputText
	}
}

// Attribute is one named, typed field of a model.
type Attribute struct {
	Name string        `json:"name" yaml:"name"`
	Type AttributeType `json:"type" yaml:"type"`
}

// AttributeSchema is the ordered list of a model's attributes. Names are
// unique and order is significant.
type AttributeSchema []Attribute

var attributeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidAttributeName reports whether name can be used as a field identifier
// in generated source.
func ValidAttributeName(name string) bool {
	return attributeNamePattern.MatchString(name)
}

// NewAttributeSchema builds a schema, rejecting empty, malformed or
// duplicate names and unknown types.
func NewAttributeSchema(attrs ...Attribute) (AttributeSchema, error) {
	schema := make(AttributeSchema, 0, len(attrs))
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if a.Name == "" {
			return nil, fmt.Errorf("attribute name is required")
		}
		if !ValidAttributeName(a.Name) {
			return nil, fmt.Errorf("invalid attribute name %q: must be a letter or underscore followed by letters, digits or underscores", a.Name)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("duplicate attribute %q", a.Name)
		}
		if !a.Type.Valid() {
			return nil, fmt.Errorf("attribute %q: unknown type %q", a.Name, a.Type)
		}
		seen[a.Name] = true
		schema = append(schema, a)
	}
	return schema, nil
}

// Names returns attribute names in schema order.
func (s AttributeSchema) Names() []string {
	names := make([]string, len(s))
	for i, a := range s {
		names[i] = a.Name
	}
	return names
}

// Lookup returns the attribute with the given name.
func (s AttributeSchema) Lookup(name string) (Attribute, bool) {
	for _, a := range s {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// String renders the schema in field DSL form: "name:string,price:float".
func (s AttributeSchema) String() string {
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = a.Name + ":" + string(a.Type)
	}
	return strings.Join(parts, ",")
}

func joinTypes(types []AttributeType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
