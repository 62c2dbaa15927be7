// Package frameworks implements the per-framework component strategies and
// router renderers, and the factory that selects one by identifier.
package frameworks

import (
	"strings"

	"github.com/example/crudkit/internal/core/effects"
	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/scaffold"
)

// RouterRenderer turns a route table into framework router source.
type RouterRenderer interface {
	// RouterPath is the project-relative location of the router source.
	RouterPath() string
	// RenderRouter regenerates the full router source from the table.
	RenderRouter(table models.RouteTable) (string, error)
}

// Framework is everything the scaffold pipeline needs from one framework.
type Framework interface {
	scaffold.Strategy
	RouterRenderer
	ID() models.FrameworkID
	// BootstrapCommands returns the commands that create a new project named
	// name. Each command's Dir is relative to the parent of the project.
	BootstrapCommands(name string) []effects.CommandEffect
}

// New returns the framework for id. Identifiers outside the supported set
// yield an *errs.UnsupportedFrameworkError.
func New(id string) (Framework, error) {
	switch models.FrameworkID(strings.ToLower(strings.TrimSpace(id))) {
	case models.FrameworkVue:
		return newVue(), nil
	case models.FrameworkReact:
		return newReact(), nil
	case models.FrameworkAngular:
		return newAngular(), nil
	default:
		return nil, &errs.UnsupportedFrameworkError{Framework: id, Supported: Supported()}
	}
}

// Supported lists the supported framework identifiers.
func Supported() []string {
	ids := models.FrameworkIDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
