package secondary

import "context"

// HistoryRepository defines the secondary port for the scaffold run ledger.
type HistoryRepository interface {
	// Create persists a run and its file outcomes.
	Create(ctx context.Context, run *RunRecord) error

	// GetByID retrieves a run with its file outcomes.
	GetByID(ctx context.Context, id string) (*RunRecord, error)

	// List retrieves runs matching the given filters, newest first.
	List(ctx context.Context, filters RunFilters) ([]*RunRecord, error)
}

// RunRecord represents a scaffold run as stored in persistence.
type RunRecord struct {
	ID         string
	Model      string
	Framework  string
	ProjectDir string
	Status     string
	Files      []RunFileRecord
	CreatedAt  string
}

// RunFileRecord represents one file outcome of a run.
type RunFileRecord struct {
	Path   string
	Role   string
	Status string
	Error  string
}

// RunFilters contains filter options for querying runs.
type RunFilters struct {
	Model string
	Limit int
}
