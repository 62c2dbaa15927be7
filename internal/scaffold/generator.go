package scaffold

import (
	"path"

	"github.com/example/crudkit/internal/models"
)

// ComponentsRoot is the directory, relative to a project, holding generated components.
const ComponentsRoot = "src/components"

// Generator drives a Strategy through the five artifact kinds.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate requests all five artifacts from the strategy. A failure of one
// artifact is recorded on its outcome and does not stop the others.
func (g *Generator) Generate(strategy Strategy, model string, schema models.AttributeSchema) *GeneratorResult {
	steps := []struct {
		kind models.ArtifactKind
		fn   func(string, models.AttributeSchema) (models.ComponentArtifact, error)
	}{
		{models.ArtifactList, strategy.GenerateList},
		{models.ArtifactCreate, strategy.GenerateCreate},
		{models.ArtifactUpdate, strategy.GenerateUpdate},
		{models.ArtifactDelete, strategy.GenerateDelete},
		{models.ArtifactMain, strategy.GenerateMain},
	}

	result := &GeneratorResult{Model: model, Schema: schema}
	for _, s := range steps {
		artifact, err := s.fn(model, schema)
		result.Artifacts = append(result.Artifacts, ArtifactResult{Kind: s.kind, Artifact: artifact, Err: err})
	}
	return result
}

// ComponentPath returns the project-relative path of a generated component:
// src/components/<lower(model)>/<Component>.<ext>.
func ComponentPath(model string, artifact models.ComponentArtifact) string {
	return path.Join(ComponentsRoot, ComponentDir(model), artifact.FileName())
}

// Files lists the successfully generated artifacts as project-relative files.
func (r *GeneratorResult) Files() []GeneratedFile {
	var files []GeneratedFile
	for _, a := range r.Artifacts {
		if a.Err != nil {
			continue
		}
		files = append(files, GeneratedFile{
			Path:     ComponentPath(r.Model, a.Artifact),
			Content:  a.Artifact.Source,
			Role:     "component",
			Artifact: string(a.Kind),
		})
	}
	return files
}
