package secondary

import (
	"context"

	"github.com/example/crudkit/internal/models"
)

// SchemaProvider defines the secondary port for resolving a model's attributes.
// Unknown models resolve to the empty schema, not an error.
type SchemaProvider interface {
	Schema(ctx context.Context, model string) (models.AttributeSchema, error)
}
