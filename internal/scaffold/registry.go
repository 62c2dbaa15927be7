package scaffold

import (
	"context"
	"strings"

	"github.com/example/crudkit/internal/models"
)

// SchemaSource resolves a model to its schema. It mirrors the secondary
// port so chains can be built here without importing the adapters.
type SchemaSource interface {
	Schema(ctx context.Context, model string) (models.AttributeSchema, error)
}

var builtinSchemas = map[string]models.AttributeSchema{
	"product": {
		{Name: "name", Type: models.TypeString},
		{Name: "price", Type: models.TypeFloat},
		{Name: "description", Type: models.TypeLongText},
		{Name: "stock", Type: models.TypeInteger},
	},
	"user": {
		{Name: "username", Type: models.TypeString},
		{Name: "email", Type: models.TypeEmail},
		{Name: "password", Type: models.TypePassword},
	},
	"cart": {
		{Name: "user_id", Type: models.TypeInteger},
		{Name: "product_id", Type: models.TypeInteger},
		{Name: "quantity", Type: models.TypeInteger},
	},
}

// BuiltinSchemas is the static schema registry. It never fails; unknown
// models resolve to the empty schema.
type BuiltinSchemas struct{}

// Schema returns a copy of the registered schema, matching the model
// name case-insensitively.
func (BuiltinSchemas) Schema(_ context.Context, model string) (models.AttributeSchema, error) {
	schema, ok := builtinSchemas[strings.ToLower(model)]
	if !ok {
		return models.AttributeSchema{}, nil
	}
	out := make(models.AttributeSchema, len(schema))
	copy(out, schema)
	return out, nil
}

// BuiltinModels lists the models known to the static registry.
func BuiltinModels() []string {
	return []string{"product", "user", "cart"}
}

// ChainSchemas asks each source in turn and returns the first non-empty
// schema. Errors stop the chain.
type ChainSchemas []SchemaSource

// Schema implements SchemaSource.
func (c ChainSchemas) Schema(ctx context.Context, model string) (models.AttributeSchema, error) {
	for _, src := range c {
		schema, err := src.Schema(ctx, model)
		if err != nil {
			return nil, err
		}
		if len(schema) > 0 {
			return schema, nil
		}
	}
	return models.AttributeSchema{}, nil
}
