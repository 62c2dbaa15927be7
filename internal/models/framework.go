package models

// FrameworkID names a supported front-end framework.
type FrameworkID string

const (
	FrameworkVue     FrameworkID = "vue"
	FrameworkReact   FrameworkID = "react"
	FrameworkAngular FrameworkID = "angular"
)

// FrameworkIDs returns the closed set of supported frameworks.
func FrameworkIDs() []FrameworkID {
	return []FrameworkID{FrameworkVue, FrameworkReact, FrameworkAngular}
}
