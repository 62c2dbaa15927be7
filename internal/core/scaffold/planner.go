package scaffold

import (
	"path/filepath"

	"github.com/example/crudkit/internal/core/effects"
)

// Project-relative locations shared by every framework.
const (
	RouteTablePath = "src/routes.json"
	fileMode       = 0o644
)

// PlannedFile is a project-relative file produced by generation.
type PlannedFile struct {
	Path     string
	Content  string
	Role     string
	Artifact string
}

// ScaffoldPlanInput contains pre-fetched data for a scaffold run.
type ScaffoldPlanInput struct {
	ProjectPath   string
	ViewName      string
	ProjectExists bool
	Bootstrap     []effects.CommandEffect // commands relative to ProjectPath
	Files         []PlannedFile
}

// ScaffoldPlan represents the planned effects for a scaffold run.
type ScaffoldPlan struct {
	ProjectDir string
	InitOps    []effects.CommandEffect
	FileOps    []effects.FileEffect
}

// Effects returns all effects as a flat slice for execution.
func (p ScaffoldPlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.InitOps)+len(p.FileOps))
	for _, e := range p.InitOps {
		result = append(result, e)
	}
	for _, e := range p.FileOps {
		result = append(result, e)
	}
	return result
}

// ProjectDir returns <projectPath>/<viewName>.
func ProjectDir(projectPath, viewName string) string {
	return filepath.Join(projectPath, viewName)
}

// GenerateScaffoldPlan creates a plan for a scaffold run.
// This is a pure function - all input data must be pre-fetched.
func GenerateScaffoldPlan(input ScaffoldPlanInput) ScaffoldPlan {
	plan := ScaffoldPlan{ProjectDir: ProjectDir(input.ProjectPath, input.ViewName)}

	// Bootstrap only when the project directory does not exist yet
	if !input.ProjectExists {
		for _, cmd := range input.Bootstrap {
			dir := input.ProjectPath
			if cmd.Dir != "" {
				dir = filepath.Join(input.ProjectPath, cmd.Dir)
			}
			plan.InitOps = append(plan.InitOps, effects.CommandEffect{
				Dir:  dir,
				Name: cmd.Name,
				Args: append([]string(nil), cmd.Args...),
			})
		}
	}

	for _, f := range input.Files {
		plan.FileOps = append(plan.FileOps, effects.FileEffect{
			Operation: "write",
			Path:      filepath.Join(plan.ProjectDir, filepath.FromSlash(f.Path)),
			Content:   []byte(f.Content),
			Mode:      fileMode,
			Role:      f.Role,
			Artifact:  f.Artifact,
		})
	}

	return plan
}
