package frameworks

import (
	"github.com/example/crudkit/internal/core/effects"
	"github.com/example/crudkit/internal/models"
)

func newReact() *templateFramework {
	f := newTemplateFramework(models.FrameworkReact)
	f.ext = "jsx"
	f.routerPath = "src/router/index.jsx"
	f.bootstrap = func(name string) []effects.CommandEffect {
		return []effects.CommandEffect{
			{Name: "npx", Args: []string{"create-react-app", name}},
		}
	}
	return f
}
