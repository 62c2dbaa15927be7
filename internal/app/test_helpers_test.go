package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/example/crudkit/internal/core/effects"
	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.FileStore          = (*mockFileStore)(nil)
	_ secondary.ProjectInitializer = (*mockInitializer)(nil)
	_ secondary.HistoryRepository  = (*mockHistoryRepository)(nil)
	_ secondary.SchemaProvider     = (*mockSchemaProvider)(nil)
)

// mockFileStore implements secondary.FileStore in memory.
type mockFileStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	dirs      map[string]bool
	writeErrs map[string]error
	readErr   error
	writes    int
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		writeErrs: make(map[string]error),
	}
}

func (m *mockFileStore) WriteFile(ctx context.Context, path string, data []byte) (secondary.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writeErrs[path]; err != nil {
		return "", err
	}
	m.writes++
	existing, ok := m.files[path]
	m.files[path] = append([]byte(nil), data...)
	switch {
	case !ok:
		return secondary.WriteCreated, nil
	case string(existing) == string(data):
		return secondary.WriteUnchanged, nil
	default:
		return secondary.WriteUpdated, nil
	}
}

func (m *mockFileStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *mockFileStore) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirs[path] {
		return true, nil
	}
	prefix := strings.TrimSuffix(path, string(os.PathSeparator)) + string(os.PathSeparator)
	for p := range m.files {
		if p == path || strings.HasPrefix(p, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFileStore) get(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return string(data), ok
}

// mockInitializer implements secondary.ProjectInitializer for testing.
type mockInitializer struct {
	calls [][]string
	err   error
}

func (m *mockInitializer) Run(ctx context.Context, cmds []effects.CommandEffect) error {
	for _, c := range cmds {
		m.calls = append(m.calls, append([]string{c.Dir, c.Name}, c.Args...))
	}
	return m.err
}

// mockHistoryRepository implements secondary.HistoryRepository for testing.
type mockHistoryRepository struct {
	runs      []*secondary.RunRecord
	createErr error
}

func (m *mockHistoryRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockHistoryRepository) GetByID(ctx context.Context, id string) (*secondary.RunRecord, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.New("run not found")
}

func (m *mockHistoryRepository) List(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	var out []*secondary.RunRecord
	for i := len(m.runs) - 1; i >= 0; i-- {
		if filters.Model == "" || m.runs[i].Model == filters.Model {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

// mockSchemaProvider implements secondary.SchemaProvider for testing.
type mockSchemaProvider struct {
	schemas map[string]models.AttributeSchema
	err     error
}

func (m *mockSchemaProvider) Schema(ctx context.Context, model string) (models.AttributeSchema, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.schemas[model], nil
}
