package frameworks

import (
	"strings"

	"github.com/example/crudkit/internal/core/effects"
	"github.com/example/crudkit/internal/models"
)

func newAngular() *templateFramework {
	f := newTemplateFramework(models.FrameworkAngular)
	f.ext = "ts"
	f.routerPath = "src/app/app.routes.ts"
	// Angular route paths must not start with a slash.
	f.routePath = func(p string) string { return strings.TrimPrefix(p, "/") }
	f.bootstrap = func(name string) []effects.CommandEffect {
		return []effects.CommandEffect{
			{Name: "npx", Args: []string{"@angular/cli", "new", name, "--defaults"}},
		}
	}
	return f
}
