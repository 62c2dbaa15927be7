// Package scaffold provides the embedded component and router templates for
// each supported framework.
//
// Templates use [[ ]] as action delimiters so that the {{ }} interpolation
// of the generated Vue and Angular markup passes through untouched.
package scaffold

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed vue/*.tmpl react/*.tmpl angular/*.tmpl
var scaffoldTemplates embed.FS

// Delimiters used by every template in this package.
const (
	LeftDelim  = "[["
	RightDelim = "]]"
)

// GetComponentTemplate returns the content of a component template, e.g.
// ("vue", "list").
func GetComponentTemplate(framework, name string) (string, error) {
	content, err := scaffoldTemplates.ReadFile(framework + "/" + name + ".tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// GetPartials returns the shared form-control definitions of a framework.
func GetPartials(framework string) (string, error) {
	return GetComponentTemplate(framework, "inputs")
}

// GetRouterTemplate returns the router source template of a framework.
func GetRouterTemplate(framework string) (string, error) {
	return GetComponentTemplate(framework, "router")
}

// TemplateFuncs returns the template function map for scaffold templates.
// The "field" helper is supplied by the caller since it depends on the
// caller's attribute type.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"toLower": strings.ToLower,
		"toUpper": strings.ToUpper,
		"join":    strings.Join,
	}
}
