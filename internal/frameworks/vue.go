package frameworks

import (
	"github.com/example/crudkit/internal/core/effects"
	"github.com/example/crudkit/internal/models"
)

func newVue() *templateFramework {
	f := newTemplateFramework(models.FrameworkVue)
	f.ext = "vue"
	f.routerPath = "src/router/index.js"
	f.bootstrap = func(name string) []effects.CommandEffect {
		return []effects.CommandEffect{
			{Name: "vue", Args: []string{"create", name, "--default"}},
			{Dir: name, Name: "npm", Args: []string{"install"}},
		}
	}
	return f
}
