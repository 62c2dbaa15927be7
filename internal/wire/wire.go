// Package wire provides dependency injection for crudkit.
// It creates singleton services with lazy initialization from the loaded
// configuration.
package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	cliadapter "github.com/example/crudkit/internal/adapters/cli"
	"github.com/example/crudkit/internal/adapters/filesystem"
	"github.com/example/crudkit/internal/adapters/httpapi"
	"github.com/example/crudkit/internal/adapters/introspect"
	"github.com/example/crudkit/internal/adapters/objectstore"
	"github.com/example/crudkit/internal/adapters/schemafile"
	"github.com/example/crudkit/internal/adapters/sqlite"
	"github.com/example/crudkit/internal/adapters/toolchain"
	"github.com/example/crudkit/internal/app"
	"github.com/example/crudkit/internal/config"
	"github.com/example/crudkit/internal/core/routes"
	"github.com/example/crudkit/internal/db"
	"github.com/example/crudkit/internal/ports/primary"
	"github.com/example/crudkit/internal/ports/secondary"
	"github.com/example/crudkit/internal/scaffold"
)

const connectTimeout = 10 * time.Second

var (
	cfg    = config.Default()
	logger = zerolog.Nop()

	scaffoldService primary.ScaffoldService
	initErr         error
	closers         []io.Closer
	once            sync.Once
	mu              sync.Mutex
)

// Configure sets the configuration and logger used to build services. Any
// services built from a previous configuration are closed first.
func Configure(c *config.Config, l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()

	closeAll()
	cfg = c
	logger = l
	scaffoldService = nil
	initErr = nil
	once = sync.Once{}
}

// Config returns the active configuration.
func Config() *config.Config {
	mu.Lock()
	defer mu.Unlock()
	return cfg
}

// Logger returns the active logger.
func Logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// ScaffoldService returns the singleton ScaffoldService instance.
func ScaffoldService() (primary.ScaffoldService, error) {
	mu.Lock()
	defer mu.Unlock()
	once.Do(initServices)
	return scaffoldService, initErr
}

// ScaffoldAdapter returns a new ScaffoldAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ScaffoldAdapter() (*cliadapter.ScaffoldAdapter, error) {
	return ScaffoldAdapterWithOutput(os.Stdout)
}

// ScaffoldAdapterWithOutput returns a new ScaffoldAdapter writing to the given output.
func ScaffoldAdapterWithOutput(out io.Writer) (*cliadapter.ScaffoldAdapter, error) {
	svc, err := ScaffoldService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewScaffoldAdapter(svc, out), nil
}

// HTTPServer returns an HTTP API server over the singleton service.
func HTTPServer() (*httpapi.Server, error) {
	svc, err := ScaffoldService()
	if err != nil {
		return nil, err
	}
	c := Config()

	// Requests are confined to the configured project path, or the working
	// directory when none is set. Object keys stay relative.
	root := c.ProjectPath
	if root == "" {
		root = "."
	}
	if c.Output.Kind != config.OutputMinio {
		root, err = filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project root: %w", err)
		}
	}

	return httpapi.NewServer(svc, httpapi.Defaults{
		Framework:   c.Framework,
		ProjectPath: root,
		ViewName:    c.ViewName,
	}, Logger()), nil
}

// Close releases database handles opened by the services.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeAll()
	once = sync.Once{}
	scaffoldService = nil
	return err
}

func closeAll() error {
	var errList []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errList = append(errList, err)
		}
	}
	closers = nil
	return errors.Join(errList...)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once with mu held.
func initServices() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := cfg.Validate(); err != nil {
		initErr = err
		return
	}

	var opts []app.ScaffoldOption

	// Create secondary adapters
	store, storeOpts, err := newFileStore(ctx)
	if err != nil {
		initErr = err
		return
	}
	opts = append(opts, storeOpts...)

	schemas, err := newSchemaProvider(ctx)
	if err != nil {
		initErr = err
		return
	}

	if cfg.History.Enabled {
		repo, err := newHistoryRepository()
		if err != nil {
			initErr = err
			return
		}
		opts = append(opts, app.WithHistory(repo))
	}

	initializer := toolchain.NewInitializer(logger, os.Stderr)
	registry := app.NewRouteRegistry(store, routes.Options{Case: cfg.CaseMode()}, logger)
	executor := app.NewEffectExecutor(store, initializer, logger)

	// Create services (primary ports implementation)
	scaffoldService = app.NewScaffoldService(schemas, store, registry, executor, logger, opts...)
}

func newFileStore(ctx context.Context) (secondary.FileStore, []app.ScaffoldOption, error) {
	if cfg.Output.Kind != config.OutputMinio {
		return filesystem.NewStore(), nil, nil
	}

	m := cfg.Output.Minio
	store, err := objectstore.New(ctx, objectstore.Config{
		Endpoint:  m.Endpoint,
		AccessKey: m.AccessKey,
		SecretKey: m.SecretKey,
		UseSSL:    m.UseSSL,
		Bucket:    m.Bucket,
		Prefix:    m.Prefix,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug().Str("bucket", m.Bucket).Str("prefix", m.Prefix).Msg("writing to object store")
	// Framework CLIs cannot create a project inside a bucket.
	return store, []app.ScaffoldOption{app.WithoutBootstrap()}, nil
}

func newSchemaProvider(ctx context.Context) (secondary.SchemaProvider, error) {
	chain := scaffold.ChainSchemas{}

	switch cfg.Schema.Source {
	case config.SourceFile:
		registry, err := schemafile.Load(cfg.Schema.File)
		if err != nil {
			return nil, err
		}
		chain = append(chain, registry)
	case config.SourcePostgres, config.SourceMySQL, config.SourceSQLite, config.SourceSQLServer:
		provider, err := introspect.Open(ctx, cfg.Schema.Source, cfg.Schema.DSN, cfg.Schema.DBSchema)
		if err != nil {
			return nil, err
		}
		closers = append(closers, provider)
		chain = append(chain, provider)
	}

	return append(chain, scaffold.BuiltinSchemas{}), nil
}

func newHistoryRepository() (secondary.HistoryRepository, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}
	closers = append(closers, database)
	return sqlite.NewHistoryRepository(database), nil
}
