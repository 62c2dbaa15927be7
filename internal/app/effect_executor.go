// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/crudkit/internal/core/effects"
	"github.com/example/crudkit/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
	// WriteFile executes a single write effect and reports what it did.
	WriteFile(ctx context.Context, eff effects.FileEffect) (secondary.WriteResult, error)
}

// DefaultEffectExecutor implements EffectExecutor over the secondary ports.
type DefaultEffectExecutor struct {
	store       secondary.FileStore
	initializer secondary.ProjectInitializer
	logger      zerolog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(store secondary.FileStore, initializer secondary.ProjectInitializer, logger zerolog.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		store:       store,
		initializer: initializer,
		logger:      logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.FileEffect:
		_, err := e.WriteFile(ctx, typed)
		return err
	case effects.CommandEffect:
		if e.initializer == nil {
			return fmt.Errorf("no project initializer configured for %s", typed.Name)
		}
		return e.initializer.Run(ctx, []effects.CommandEffect{typed})
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

// WriteFile executes a file effect through the file store.
func (e *DefaultEffectExecutor) WriteFile(ctx context.Context, eff effects.FileEffect) (secondary.WriteResult, error) {
	switch eff.Operation {
	case "write":
		result, err := e.store.WriteFile(ctx, eff.Path, eff.Content)
		if err != nil {
			return "", err
		}
		e.logger.Debug().Str("path", eff.Path).Str("role", eff.Role).Str("result", string(result)).Msg("file written")
		return result, nil
	default:
		return "", fmt.Errorf("unknown file operation: %s", eff.Operation)
	}
}
