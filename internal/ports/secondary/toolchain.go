package secondary

import (
	"context"

	"github.com/example/crudkit/internal/core/effects"
)

// ProjectInitializer defines the secondary port for running framework
// bootstrap tooling.
type ProjectInitializer interface {
	// Run executes the commands in order, stopping at the first failure.
	Run(ctx context.Context, cmds []effects.CommandEffect) error
}
