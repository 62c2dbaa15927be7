package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/crudkit/internal/errs"
)

// DialectPostgres is served by the pgx pool catalog.
const DialectPostgres = "postgres"

// driverNames maps dialects onto registered database/sql drivers.
var driverNames = map[string]string{
	DialectSQLite:    "sqlite3",
	DialectMySQL:     "mysql",
	DialectSQLServer: "sqlserver",
}

// Open connects to the database described by dsn and returns a schema
// provider. schema selects the namespace (Postgres schema, MySQL database,
// SQL Server schema); empty means the dialect default.
func Open(ctx context.Context, dialect, dsn, schema string) (*Provider, error) {
	if dialect == DialectPostgres {
		cat, err := newPostgresCatalog(ctx, dsn, schema)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindConfiguration, "failed to connect to postgres", err)
		}
		return &Provider{catalog: cat, dialect: dialect}, nil
	}

	driver, ok := driverNames[dialect]
	if !ok {
		return nil, errs.New(errs.ErrKindConfiguration, fmt.Sprintf("unsupported schema source %q", dialect))
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, "failed to open "+dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ErrKindConfiguration, "failed to connect to "+dialect, err)
	}
	return NewSQLProvider(db, dialect, schema)
}

// NewSQLProvider wraps an open database/sql handle. The provider owns db.
func NewSQLProvider(db *sql.DB, dialect, schema string) (*Provider, error) {
	cat, err := newSQLCatalog(db, dialect, schema)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, "failed to create catalog", err)
	}
	return &Provider{catalog: cat, dialect: dialect}, nil
}
