package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/example/crudkit/internal/core/routes"
	coresc "github.com/example/crudkit/internal/core/scaffold"
	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/frameworks"
	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/ports/secondary"
)

// Artifact names used in persistence errors and reports.
const (
	ArtifactRouteTable = "route table"
	ArtifactRouter     = "router"
)

// errNotAttempted marks a router write skipped after the table write failed.
var errNotAttempted = errors.New("not attempted: route table write failed")

// RouteTarget locates a project's route table and router source.
type RouteTarget struct {
	TablePath  string
	RouterPath string
	Renderer   frameworks.RouterRenderer
}

// RouteTablePath returns the route table location of the project at projectDir.
func RouteTablePath(projectDir string) string {
	return filepath.Join(projectDir, filepath.FromSlash(coresc.RouteTablePath))
}

// NewRouteTarget builds the target for the project at projectDir.
func NewRouteTarget(projectDir string, renderer frameworks.RouterRenderer) RouteTarget {
	return RouteTarget{
		TablePath:  RouteTablePath(projectDir),
		RouterPath: filepath.Join(projectDir, filepath.FromSlash(renderer.RouterPath())),
		Renderer:   renderer,
	}
}

// ArtifactWrite is the persistence outcome of one registry artifact.
type ArtifactWrite struct {
	Path    string
	Result  secondary.WriteResult
	Skipped bool
	Err     error
}

// MergeResult is the computed registry state after a merge. It is returned
// even when persistence fails so the caller can retry with Persist.
type MergeResult struct {
	Target       RouteTarget
	Table        models.RouteTable
	TableSource  []byte
	RouterSource string
	Inserted     bool
	TableWrite   ArtifactWrite
	RouterWrite  ArtifactWrite
}

// RouteRegistry keeps a project's route table and router source consistent
// with the models scaffolded so far. Operations on the same table path are
// serialised within the process; separate processes must coordinate
// externally.
type RouteRegistry struct {
	store  secondary.FileStore
	opts   routes.Options
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
}

// NewRouteRegistry creates a new RouteRegistry.
func NewRouteRegistry(store secondary.FileStore, opts routes.Options, logger zerolog.Logger) *RouteRegistry {
	return &RouteRegistry{
		store:  store,
		opts:   opts,
		logger: logger,
		locks:  make(map[string]*semaphore.Weighted),
	}
}

func (r *RouteRegistry) acquire(ctx context.Context, tablePath string) (func(), error) {
	r.mu.Lock()
	sem, ok := r.locks[tablePath]
	if !ok {
		sem = semaphore.NewWeighted(1)
		r.locks[tablePath] = sem
	}
	r.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to lock route table %s: %w", tablePath, err)
	}
	return func() { sem.Release(1) }, nil
}

// Load reads the table at tablePath. A missing, unreadable or corrupt table
// is treated as empty.
func (r *RouteRegistry) Load(ctx context.Context, tablePath string) models.RouteTable {
	data, err := r.store.ReadFile(ctx, tablePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Str("path", tablePath).Msg("route table unreadable, starting from empty")
		}
		return models.RouteTable{}
	}

	table, err := routes.Decode(data)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", tablePath).Msg("route table corrupt, starting from empty")
	}
	return table
}

// Plan computes the merge without writing anything.
func (r *RouteRegistry) Plan(ctx context.Context, target RouteTarget, model string) (*MergeResult, error) {
	return r.compute(r.Load(ctx, target.TablePath), target, model)
}

// Merge inserts the model's route when absent, regenerates the router source
// and persists both. On a persistence failure the computed result is still
// returned together with a *errs.PersistenceError.
func (r *RouteRegistry) Merge(ctx context.Context, target RouteTarget, model string) (*MergeResult, error) {
	release, err := r.acquire(ctx, target.TablePath)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := r.compute(r.Load(ctx, target.TablePath), target, model)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("model", model).
		Bool("inserted", res.Inserted).
		Int("routes", len(res.Table)).
		Msg("route merged")

	return res, r.persist(ctx, res)
}

// Persist retries writing a previously computed result without re-merging.
func (r *RouteRegistry) Persist(ctx context.Context, res *MergeResult) error {
	release, err := r.acquire(ctx, res.Target.TablePath)
	if err != nil {
		return err
	}
	defer release()

	return r.persist(ctx, res)
}

// Sync regenerates and writes the router source from the persisted table
// without inserting anything.
func (r *RouteRegistry) Sync(ctx context.Context, target RouteTarget) (*MergeResult, error) {
	release, err := r.acquire(ctx, target.TablePath)
	if err != nil {
		return nil, err
	}
	defer release()

	table := r.Load(ctx, target.TablePath)
	source, err := target.Renderer.RenderRouter(table)
	if err != nil {
		return nil, err
	}

	res := &MergeResult{Target: target, Table: table, RouterSource: source}
	res.RouterWrite = r.write(ctx, ArtifactRouter, target.RouterPath, []byte(source))
	return res, res.RouterWrite.Err
}

func (r *RouteRegistry) compute(table models.RouteTable, target RouteTarget, model string) (*MergeResult, error) {
	plan := routes.GenerateMergePlan(routes.MergePlanInput{
		Table:   table,
		Model:   model,
		Options: r.opts,
	})

	encoded, err := routes.Encode(plan.Table)
	if err != nil {
		return nil, &errs.GenerationError{Artifact: ArtifactRouteTable, Model: model, Cause: err}
	}

	source, err := target.Renderer.RenderRouter(plan.Table)
	if err != nil {
		var genErr *errs.GenerationError
		if errors.As(err, &genErr) && genErr.Model == "" {
			genErr.Model = model
		}
		return nil, err
	}

	return &MergeResult{
		Target:       target,
		Table:        plan.Table,
		TableSource:  encoded,
		RouterSource: source,
		Inserted:     plan.Inserted,
	}, nil
}

// persist writes the table first; the router is only written once the
// table is on disk so the two never reference different route sets.
func (r *RouteRegistry) persist(ctx context.Context, res *MergeResult) error {
	res.TableWrite = r.write(ctx, ArtifactRouteTable, res.Target.TablePath, res.TableSource)
	if res.TableWrite.Err != nil {
		res.RouterWrite = ArtifactWrite{
			Path:    res.Target.RouterPath,
			Skipped: true,
			Err:     &errs.PersistenceError{Artifact: ArtifactRouter, Path: res.Target.RouterPath, Cause: errNotAttempted},
		}
		return res.TableWrite.Err
	}

	res.RouterWrite = r.write(ctx, ArtifactRouter, res.Target.RouterPath, []byte(res.RouterSource))
	return res.RouterWrite.Err
}

func (r *RouteRegistry) write(ctx context.Context, artifact, path string, data []byte) ArtifactWrite {
	result, err := r.store.WriteFile(ctx, path, data)
	if err != nil {
		return ArtifactWrite{
			Path: path,
			Err:  &errs.PersistenceError{Artifact: artifact, Path: path, Cause: err},
		}
	}
	return ArtifactWrite{Path: path, Result: result}
}
