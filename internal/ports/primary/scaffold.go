package primary

import (
	"context"

	"github.com/example/crudkit/internal/models"
)

// ScaffoldService defines the primary port for scaffold operations.
type ScaffoldService interface {
	// Scaffold generates the component set for a model, merges its route
	// and writes every artifact. Configuration errors are returned before
	// anything is written; per-artifact failures are reported in the result.
	Scaffold(ctx context.Context, req ScaffoldRequest) (*ScaffoldResponse, error)

	// DescribeSchema resolves the attribute schema a scaffold would use.
	DescribeSchema(ctx context.Context, req SchemaRequest) (models.AttributeSchema, error)

	// GetRoutes returns a project's route table.
	GetRoutes(ctx context.Context, project ProjectRef) (models.RouteTable, error)

	// SyncRoutes regenerates the router source from the persisted table.
	SyncRoutes(ctx context.Context, project ProjectRef) (*FileOutcome, error)

	// ListRuns returns recorded scaffold runs, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]*Run, error)
}

// ScaffoldRequest contains parameters for a scaffold run.
type ScaffoldRequest struct {
	Model       string
	Framework   string
	ProjectPath string
	ViewName    string
	Fields      string // optional field DSL overriding the schema provider
	DryRun      bool
	SkipInit    bool
}

// SchemaRequest contains parameters for resolving a schema.
type SchemaRequest struct {
	Model  string
	Fields string
}

// ProjectRef addresses one generated project.
type ProjectRef struct {
	Framework   string
	ProjectPath string
	ViewName    string
}

// File outcome statuses.
const (
	StatusCreated   = "created"
	StatusUpdated   = "updated"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
	StatusPlanned   = "planned"
	StatusSkipped   = "skipped"
)

// FileOutcome is the result of one artifact of a run.
type FileOutcome struct {
	Path     string `json:"path"`
	Role     string `json:"role"`
	Artifact string `json:"artifact,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Content  string `json:"content,omitempty"` // populated on dry runs
	Err      error  `json:"-"`
}

// ScaffoldResponse contains the result of a scaffold run.
type ScaffoldResponse struct {
	RunID          string        `json:"run_id,omitempty"`
	Model          string        `json:"model"`
	Framework      string        `json:"framework"`
	ProjectDir     string        `json:"project_dir"`
	ProjectCreated bool          `json:"project_created"`
	RouteInserted  bool          `json:"route_inserted"`
	RouteCount     int           `json:"route_count"`
	DryRun         bool          `json:"dry_run"`
	Files          []FileOutcome `json:"files"`
}

// Failed returns the outcomes that did not succeed.
func (r *ScaffoldResponse) Failed() []FileOutcome {
	var failed []FileOutcome
	for _, f := range r.Files {
		if f.Status == StatusFailed || f.Status == StatusSkipped {
			failed = append(failed, f)
		}
	}
	return failed
}

// Written counts the files created or updated.
func (r *ScaffoldResponse) Written() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusCreated || f.Status == StatusUpdated {
			n++
		}
	}
	return n
}

// RunFilters contains filter options for listing runs.
type RunFilters struct {
	Model string
	Limit int
}

// Run represents a recorded scaffold run at the port boundary.
type Run struct {
	ID         string        `json:"id"`
	Model      string        `json:"model"`
	Framework  string        `json:"framework"`
	ProjectDir string        `json:"project_dir"`
	Status     string        `json:"status"`
	Files      []FileOutcome `json:"files,omitempty"`
	CreatedAt  string        `json:"created_at"`
}
