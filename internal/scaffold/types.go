// Package scaffold turns a model name and attribute schema into the five
// component sources of a CRUD view set.
package scaffold

import "github.com/example/crudkit/internal/models"

// Strategy produces framework-specific component sources. Implementations
// must be pure: the same model and schema always yield the same text.
type Strategy interface {
	GenerateList(model string, schema models.AttributeSchema) (models.ComponentArtifact, error)
	GenerateCreate(model string, schema models.AttributeSchema) (models.ComponentArtifact, error)
	GenerateUpdate(model string, schema models.AttributeSchema) (models.ComponentArtifact, error)
	GenerateDelete(model string, schema models.AttributeSchema) (models.ComponentArtifact, error)
	GenerateMain(model string, schema models.AttributeSchema) (models.ComponentArtifact, error)
	FileExtension() string
}

// ArtifactResult is the outcome of generating one artifact.
type ArtifactResult struct {
	Kind     models.ArtifactKind
	Artifact models.ComponentArtifact
	Err      error
}

// GeneratorResult contains the five artifact outcomes in generation order.
type GeneratorResult struct {
	Model     string
	Schema    models.AttributeSchema
	Artifacts []ArtifactResult
}

// Failed returns the outcomes that carry an error.
func (r *GeneratorResult) Failed() []ArtifactResult {
	var failed []ArtifactResult
	for _, a := range r.Artifacts {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}

// GeneratedFile represents a file to be written under the project directory.
type GeneratedFile struct {
	Path     string // path relative to the project directory
	Content  string
	Role     string // "component", "route table" or "router"
	Artifact string // artifact kind for components, empty otherwise
}
