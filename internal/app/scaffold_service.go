package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/crudkit/internal/core/effects"
	coresc "github.com/example/crudkit/internal/core/scaffold"
	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/frameworks"
	"github.com/example/crudkit/internal/logging"
	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/ports/primary"
	"github.com/example/crudkit/internal/ports/secondary"
	"github.com/example/crudkit/internal/scaffold"
)

// ScaffoldServiceImpl implements the ScaffoldService interface.
type ScaffoldServiceImpl struct {
	schemas   secondary.SchemaProvider
	store     secondary.FileStore
	registry  *RouteRegistry
	executor  EffectExecutor
	history   secondary.HistoryRepository
	generator *scaffold.Generator
	logger    zerolog.Logger
	bootstrap bool
	newID     func() string
	now       func() time.Time
}

// ScaffoldOption configures optional collaborators of the service.
type ScaffoldOption func(*ScaffoldServiceImpl)

// WithHistory records every non-dry run in repo.
func WithHistory(repo secondary.HistoryRepository) ScaffoldOption {
	return func(s *ScaffoldServiceImpl) { s.history = repo }
}

// WithoutBootstrap disables project bootstrap, e.g. for object-store output.
func WithoutBootstrap() ScaffoldOption {
	return func(s *ScaffoldServiceImpl) { s.bootstrap = false }
}

// WithClock overrides the run id generator and clock.
func WithClock(newID func() string, now func() time.Time) ScaffoldOption {
	return func(s *ScaffoldServiceImpl) {
		s.newID = newID
		s.now = now
	}
}

// NewScaffoldService creates a new ScaffoldService with injected dependencies.
func NewScaffoldService(
	schemas secondary.SchemaProvider,
	store secondary.FileStore,
	registry *RouteRegistry,
	executor EffectExecutor,
	logger zerolog.Logger,
	opts ...ScaffoldOption,
) *ScaffoldServiceImpl {
	s := &ScaffoldServiceImpl{
		schemas:   schemas,
		store:     store,
		registry:  registry,
		executor:  executor,
		generator: scaffold.NewGenerator(),
		logger:    logger,
		bootstrap: true,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log returns the request-scoped logger when the caller attached one.
func (s *ScaffoldServiceImpl) log(ctx context.Context) *zerolog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// Scaffold runs the full pipeline for one model.
func (s *ScaffoldServiceImpl) Scaffold(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldResponse, error) {
	logger := s.log(ctx)

	// 1. Validate names and resolve the framework
	guard := coresc.CanScaffold(coresc.ScaffoldContext{
		Model:       req.Model,
		ViewName:    req.ViewName,
		ProjectPath: req.ProjectPath,
	})
	if !guard.Allowed {
		return nil, guard.Error()
	}
	fw, err := frameworks.New(req.Framework)
	if err != nil {
		return nil, err
	}

	// 2. Resolve schema
	schema, err := s.resolveSchema(ctx, req.Model, req.Fields)
	if err != nil {
		return nil, err
	}

	// 3. Generate the five artifacts
	generated := s.generator.Generate(fw, req.Model, schema)

	// 4. Plan project bootstrap and component writes
	projectDir := coresc.ProjectDir(req.ProjectPath, req.ViewName)
	exists, err := s.store.Exists(ctx, projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check project directory %s: %w", projectDir, err)
	}

	var bootstrap []effects.CommandEffect
	if s.bootstrap && !req.SkipInit && !req.DryRun {
		bootstrap = fw.BootstrapCommands(req.ViewName)
	}

	var planned []coresc.PlannedFile
	for _, f := range generated.Files() {
		planned = append(planned, coresc.PlannedFile{Path: f.Path, Content: f.Content, Role: f.Role, Artifact: f.Artifact})
	}
	plan := coresc.GenerateScaffoldPlan(coresc.ScaffoldPlanInput{
		ProjectPath:   req.ProjectPath,
		ViewName:      req.ViewName,
		ProjectExists: exists,
		Bootstrap:     bootstrap,
		Files:         planned,
	})

	resp := &primary.ScaffoldResponse{
		Model:      req.Model,
		Framework:  string(fw.ID()),
		ProjectDir: plan.ProjectDir,
		DryRun:     req.DryRun,
	}
	target := NewRouteTarget(plan.ProjectDir, fw)

	if req.DryRun {
		s.planOutcomes(ctx, resp, fw, generated, plan, target)
		return resp, nil
	}

	// 5. Bootstrap the project when it does not exist yet
	if len(plan.InitOps) > 0 {
		logger.Info().Str("project", plan.ProjectDir).Str("framework", string(fw.ID())).Msg("initializing project")
		effs := make([]effects.Effect, len(plan.InitOps))
		for i, op := range plan.InitOps {
			effs[i] = op
		}
		if err := s.executor.Execute(ctx, effs); err != nil {
			return nil, fmt.Errorf("failed to initialize project %s: %w", plan.ProjectDir, err)
		}
		resp.ProjectCreated = true
	} else if exists {
		logger.Debug().Str("project", plan.ProjectDir).Msg("project exists, skipping initialization")
	}

	// 6. Write components
	ops := plan.FileOps
	for _, a := range generated.Artifacts {
		if a.Err != nil {
			resp.Files = append(resp.Files, s.failedComponent(fw, req.Model, a, plan.ProjectDir))
			continue
		}
		op := ops[0]
		ops = ops[1:]
		result, err := s.executor.WriteFile(ctx, op)
		if err != nil {
			err = &errs.PersistenceError{Artifact: op.Artifact, Path: op.Path, Cause: err}
			resp.Files = append(resp.Files, failedOutcome(op.Path, op.Role, op.Artifact, err))
			logger.Error().Err(err).Str("path", op.Path).Msg("component write failed")
			continue
		}
		resp.Files = append(resp.Files, primary.FileOutcome{Path: op.Path, Role: op.Role, Artifact: op.Artifact, Status: string(result)})
		logger.Info().Str("path", op.Path).Str("status", string(result)).Msg("component written")
	}

	// 7. Merge the route and persist table and router
	merge, err := s.registry.Merge(ctx, target, req.Model)
	resp.Files = append(resp.Files, registryOutcomes(target, merge, err)...)
	if merge != nil {
		resp.RouteInserted = merge.Inserted
		resp.RouteCount = len(merge.Table)
	}
	if err != nil {
		logger.Error().Err(err).Str("model", req.Model).Msg("route registry update failed")
	}

	// 8. Record history
	s.record(ctx, resp)

	logger.Info().
		Str("model", req.Model).
		Int("files", resp.Written()).
		Int("failed", len(resp.Failed())).
		Msg("total files generated or updated")

	return resp, nil
}

func (s *ScaffoldServiceImpl) planOutcomes(ctx context.Context, resp *primary.ScaffoldResponse, fw frameworks.Framework, generated *scaffold.GeneratorResult, plan coresc.ScaffoldPlan, target RouteTarget) {
	ops := plan.FileOps
	for _, a := range generated.Artifacts {
		if a.Err != nil {
			resp.Files = append(resp.Files, s.failedComponent(fw, resp.Model, a, plan.ProjectDir))
			continue
		}
		op := ops[0]
		ops = ops[1:]
		resp.Files = append(resp.Files, primary.FileOutcome{
			Path:     op.Path,
			Role:     op.Role,
			Artifact: op.Artifact,
			Status:   primary.StatusPlanned,
			Content:  string(op.Content),
		})
	}

	merge, err := s.registry.Plan(ctx, target, resp.Model)
	if err != nil {
		resp.Files = append(resp.Files, registryOutcomes(target, nil, err)...)
		return
	}
	resp.RouteInserted = merge.Inserted
	resp.RouteCount = len(merge.Table)
	resp.Files = append(resp.Files,
		primary.FileOutcome{Path: target.TablePath, Role: ArtifactRouteTable, Status: primary.StatusPlanned, Content: string(merge.TableSource)},
		primary.FileOutcome{Path: target.RouterPath, Role: ArtifactRouter, Status: primary.StatusPlanned, Content: merge.RouterSource},
	)
}

func (s *ScaffoldServiceImpl) failedComponent(fw frameworks.Framework, model string, a scaffold.ArtifactResult, projectDir string) primary.FileOutcome {
	path := scaffold.ComponentPath(model, models.ComponentArtifact{
		Component: scaffold.ComponentName(model, string(a.Kind)),
		Extension: fw.FileExtension(),
	})
	s.logger.Error().Err(a.Err).Str("artifact", string(a.Kind)).Msg("component generation failed")
	return failedOutcome(filepath.Join(projectDir, filepath.FromSlash(path)), "component", string(a.Kind), a.Err)
}

func registryOutcomes(target RouteTarget, merge *MergeResult, err error) []primary.FileOutcome {
	if merge == nil {
		// Nothing was computed, so neither artifact was written.
		return []primary.FileOutcome{
			failedOutcome(target.TablePath, ArtifactRouteTable, "", err),
			failedOutcome(target.RouterPath, ArtifactRouter, "", err),
		}
	}
	return []primary.FileOutcome{
		writeOutcome(ArtifactRouteTable, merge.TableWrite),
		writeOutcome(ArtifactRouter, merge.RouterWrite),
	}
}

func writeOutcome(role string, w ArtifactWrite) primary.FileOutcome {
	switch {
	case w.Skipped:
		out := failedOutcome(w.Path, role, "", w.Err)
		out.Status = primary.StatusSkipped
		return out
	case w.Err != nil:
		return failedOutcome(w.Path, role, "", w.Err)
	default:
		return primary.FileOutcome{Path: w.Path, Role: role, Status: string(w.Result)}
	}
}

func failedOutcome(path, role, artifact string, err error) primary.FileOutcome {
	out := primary.FileOutcome{Path: path, Role: role, Artifact: artifact, Status: primary.StatusFailed, Err: err}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

func (s *ScaffoldServiceImpl) record(ctx context.Context, resp *primary.ScaffoldResponse) {
	if s.history == nil {
		return
	}

	status := models.RunStatusSucceeded
	if failed := len(resp.Failed()); failed > 0 {
		status = models.RunStatusPartial
		if failed == len(resp.Files) {
			status = models.RunStatusFailed
		}
	}

	run := &secondary.RunRecord{
		ID:         s.newID(),
		Model:      resp.Model,
		Framework:  resp.Framework,
		ProjectDir: resp.ProjectDir,
		Status:     status,
		CreatedAt:  s.now().UTC().Format(time.RFC3339),
	}
	for _, f := range resp.Files {
		run.Files = append(run.Files, secondary.RunFileRecord{Path: f.Path, Role: f.Role, Status: f.Status, Error: f.Error})
	}

	if err := s.history.Create(ctx, run); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record scaffold run")
		return
	}
	resp.RunID = run.ID
}

func (s *ScaffoldServiceImpl) resolveSchema(ctx context.Context, model, fields string) (models.AttributeSchema, error) {
	if fields != "" {
		schema, err := scaffold.ParseFields(fields)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindConfiguration, "invalid field list", err)
		}
		return schema, nil
	}

	schema, err := s.schemas.Schema(ctx, model)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, fmt.Sprintf("failed to resolve schema for %q", model), err)
	}
	if schema == nil {
		schema = models.AttributeSchema{}
	}
	return schema, nil
}

// DescribeSchema resolves the schema a scaffold of the model would use.
func (s *ScaffoldServiceImpl) DescribeSchema(ctx context.Context, req primary.SchemaRequest) (models.AttributeSchema, error) {
	if !coresc.ValidName(req.Model) {
		return nil, &errs.InvalidModelNameError{Field: "model", Name: req.Model}
	}
	return s.resolveSchema(ctx, req.Model, req.Fields)
}

// GetRoutes returns the project's current route table.
func (s *ScaffoldServiceImpl) GetRoutes(ctx context.Context, project primary.ProjectRef) (models.RouteTable, error) {
	guard := coresc.CanReadRoutes(coresc.RouteContext{ViewName: project.ViewName, ProjectPath: project.ProjectPath})
	if !guard.Allowed {
		return nil, guard.Error()
	}
	projectDir := coresc.ProjectDir(project.ProjectPath, project.ViewName)
	return s.registry.Load(ctx, RouteTablePath(projectDir)), nil
}

// SyncRoutes regenerates the router source from the persisted table.
func (s *ScaffoldServiceImpl) SyncRoutes(ctx context.Context, project primary.ProjectRef) (*primary.FileOutcome, error) {
	guard := coresc.CanReadRoutes(coresc.RouteContext{ViewName: project.ViewName, ProjectPath: project.ProjectPath})
	if !guard.Allowed {
		return nil, guard.Error()
	}
	fw, err := frameworks.New(project.Framework)
	if err != nil {
		return nil, err
	}

	target := NewRouteTarget(coresc.ProjectDir(project.ProjectPath, project.ViewName), fw)
	res, err := s.registry.Sync(ctx, target)
	if res == nil {
		return nil, err
	}

	out := writeOutcome(ArtifactRouter, res.RouterWrite)
	s.log(ctx).Info().Str("path", out.Path).Str("status", out.Status).Int("routes", len(res.Table)).Msg("router synced")
	return &out, err
}

// ListRuns returns recorded scaffold runs.
func (s *ScaffoldServiceImpl) ListRuns(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	if s.history == nil {
		return nil, errs.New(errs.ErrKindConfiguration, "run history is disabled")
	}

	records, err := s.history.List(ctx, secondary.RunFilters{Model: filters.Model, Limit: filters.Limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = toRun(r)
	}
	return runs, nil
}

func toRun(r *secondary.RunRecord) *primary.Run {
	run := &primary.Run{
		ID:         r.ID,
		Model:      r.Model,
		Framework:  r.Framework,
		ProjectDir: r.ProjectDir,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
	for _, f := range r.Files {
		run.Files = append(run.Files, primary.FileOutcome{Path: f.Path, Role: f.Role, Status: f.Status, Error: f.Error})
	}
	return run
}
