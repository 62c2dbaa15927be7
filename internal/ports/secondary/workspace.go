// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// WriteResult describes what a write did to the target.
type WriteResult string

const (
	WriteCreated   WriteResult = "created"
	WriteUpdated   WriteResult = "updated"
	WriteUnchanged WriteResult = "unchanged"
)

// FileStore defines the secondary port for reading and writing generated files.
// Paths use the host path syntax; object-store implementations map them to keys.
type FileStore interface {
	// WriteFile writes data to path, creating parent directories as needed.
	WriteFile(ctx context.Context, path string, data []byte) (WriteResult, error)

	// ReadFile returns the content at path. A missing file yields an error
	// satisfying errors.Is(err, fs.ErrNotExist).
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file or directory exists at path.
	Exists(ctx context.Context, path string) (bool, error)
}
