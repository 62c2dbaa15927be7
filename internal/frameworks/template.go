package frameworks

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/example/crudkit/internal/core/effects"
	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/scaffold"
	scaffoldtmpl "github.com/example/crudkit/internal/templates/scaffold"
)

// templateFramework renders components and routers from the embedded
// template set of one framework.
type templateFramework struct {
	id         models.FrameworkID
	ext        string
	routerPath string
	routePath  func(string) string
	bootstrap  func(string) []effects.CommandEffect
	load       func(name string) (string, error)
}

func newTemplateFramework(id models.FrameworkID) *templateFramework {
	return &templateFramework{
		id:        id,
		routePath: func(p string) string { return p },
		load: func(name string) (string, error) {
			return scaffoldtmpl.GetComponentTemplate(string(id), name)
		},
	}
}

func (f *templateFramework) ID() models.FrameworkID { return f.id }
func (f *templateFramework) FileExtension() string  { return f.ext }
func (f *templateFramework) RouterPath() string     { return f.routerPath }

func (f *templateFramework) BootstrapCommands(name string) []effects.CommandEffect {
	if f.bootstrap == nil {
		return nil
	}
	return f.bootstrap(name)
}

func (f *templateFramework) GenerateList(model string, schema models.AttributeSchema) (models.ComponentArtifact, error) {
	return f.generate(models.ArtifactList, model, schema)
}

func (f *templateFramework) GenerateCreate(model string, schema models.AttributeSchema) (models.ComponentArtifact, error) {
	return f.generate(models.ArtifactCreate, model, schema)
}

func (f *templateFramework) GenerateUpdate(model string, schema models.AttributeSchema) (models.ComponentArtifact, error) {
	return f.generate(models.ArtifactUpdate, model, schema)
}

func (f *templateFramework) GenerateDelete(model string, schema models.AttributeSchema) (models.ComponentArtifact, error) {
	return f.generate(models.ArtifactDelete, model, schema)
}

func (f *templateFramework) GenerateMain(model string, schema models.AttributeSchema) (models.ComponentArtifact, error) {
	return f.generate(models.ArtifactMain, model, schema)
}

func (f *templateFramework) generate(kind models.ArtifactKind, model string, schema models.AttributeSchema) (models.ComponentArtifact, error) {
	data := newComponentData(model, schema)
	source, err := f.render(strings.ToLower(string(kind)), data)
	if err != nil {
		return models.ComponentArtifact{}, &errs.GenerationError{Artifact: string(kind), Model: model, Cause: err}
	}
	return models.ComponentArtifact{
		Kind:      kind,
		Component: data.Component + string(kind),
		Extension: f.ext,
		Source:    source,
	}, nil
}

// RenderRouter regenerates the router source from the full table.
func (f *templateFramework) RenderRouter(table models.RouteTable) (string, error) {
	data := struct{ Routes []routeData }{Routes: f.routerData(table)}
	source, err := f.render("router", data)
	if err != nil {
		return "", &errs.GenerationError{Artifact: "router", Cause: err}
	}
	return source, nil
}

func (f *templateFramework) render(name string, data any) (string, error) {
	content, err := f.load(name)
	if err != nil {
		return "", fmt.Errorf("failed to load %s template: %w", name, err)
	}

	tmpl, err := template.New(name).
		Delims(scaffoldtmpl.LeftDelim, scaffoldtmpl.RightDelim).
		Funcs(scaffoldtmpl.TemplateFuncs()).
		Funcs(template.FuncMap{"field": newFieldData}).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	partials, err := f.load("inputs")
	if err != nil {
		return "", fmt.Errorf("failed to load inputs template: %w", err)
	}
	if _, err := tmpl.New("inputs").Parse(partials); err != nil {
		return "", fmt.Errorf("failed to parse inputs template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// componentData is the template input for one component.
type componentData struct {
	Model      string // as supplied
	Component  string // PascalCase identifier prefix
	Label      string
	Kebab      string // used for selectors, ids and css classes
	Attributes []attributeData
}

type attributeData struct {
	Name  string
	Label string
	Type  string
	Input string
	Zero  string // initial form value as a JS literal
}

// fieldData is the input of the shared form-control partials.
type fieldData struct {
	ID   string
	Attr attributeData
}

func newFieldData(kebab, mode string, attr attributeData) fieldData {
	return fieldData{ID: kebab + "-" + mode + "-" + attr.Name, Attr: attr}
}

func newComponentData(model string, schema models.AttributeSchema) componentData {
	attrs := make([]attributeData, len(schema))
	for i, a := range schema {
		kind := a.Type.InputKind()
		attrs[i] = attributeData{
			Name:  a.Name,
			Label: scaffold.ToLabel(a.Name),
			Type:  string(a.Type),
			Input: string(kind),
			Zero:  zeroValue(kind),
		}
	}
	return componentData{
		Model:      model,
		Component:  scaffold.ToPascalCase(model),
		Label:      scaffold.ToLabel(model),
		Kebab:      scaffold.ToKebabCase(model),
		Attributes: attrs,
	}
}

func zeroValue(kind models.InputKind) string {
	switch kind {
	case models.InputNumber:
		return "null"
	case models.InputCheckbox:
		return "false"
	default:
		return "''"
	}
}

// routeData is the template input for one router entry.
type routeData struct {
	Path      string
	Name      string
	Component string // exported component name
	Ident     string // local binding, unique within the router source
	Import    string // module path relative to src, without extension
	Children  []routeData
}

func (f *templateFramework) routerData(table models.RouteTable) []routeData {
	idents := make(identSet)
	out := make([]routeData, 0, len(table))
	for _, node := range table {
		dir := scaffold.ComponentDir(strings.TrimPrefix(node.Path, "/"))
		route := routeData{
			Path:      f.routePath(node.Path),
			Name:      node.Name,
			Component: node.Component,
			Ident:     idents.claim(node.Component),
			Import:    importPath(dir, node.Component),
		}
		for _, child := range node.Children {
			route.Children = append(route.Children, routeData{
				Path:      child.Path,
				Name:      child.Name,
				Component: child.Component,
				Ident:     idents.claim(child.Component),
				Import:    importPath(dir, child.Component),
			})
		}
		out = append(out, route)
	}
	return out
}

// identSet hands out import bindings. Keys that differ only in case or
// separator share a component name, so later claims get a numeric suffix.
// The table is append-only, which keeps earlier bindings stable.
type identSet map[string]bool

func (s identSet) claim(name string) string {
	ident := name
	for n := 2; s[ident]; n++ {
		ident = fmt.Sprintf("%s%d", name, n)
	}
	s[ident] = true
	return ident
}

func importPath(dir, component string) string {
	return path.Join("components", dir, component)
}
