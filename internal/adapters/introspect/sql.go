package introspect

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"  // register driver
	_ "github.com/mattn/go-sqlite3"     // register driver
	_ "github.com/microsoft/go-mssqldb" // register driver
)

// Dialects served by sqlCatalog.
const (
	DialectSQLite    = "sqlite"
	DialectMySQL     = "mysql"
	DialectSQLServer = "sqlserver"
)

// sqlCatalog reads columns through database/sql. The query must return
// (name, data type, primary-key flag as integer) rows.
type sqlCatalog struct {
	db     *sql.DB
	query  string
	schema string // bound before the table for MySQL and SQL Server
}

const sqliteColumns = `
	SELECT name, type, pk
	FROM pragma_table_info(?)
	ORDER BY cid`

// An empty schema falls back to the connection's database.
const mysqlColumns = `
	SELECT
		c.column_name,
		c.data_type,
		CASE WHEN c.column_key = 'PRI' THEN 1 ELSE 0 END
	FROM information_schema.columns c
	WHERE c.table_schema = COALESCE(NULLIF(?, ''), DATABASE())
	  AND c.table_name = ?
	ORDER BY c.ordinal_position`

const sqlserverColumns = `
	SELECT
		c.COLUMN_NAME,
		c.DATA_TYPE,
		CASE WHEN pk.COLUMN_NAME IS NULL THEN 0 ELSE 1 END
	FROM INFORMATION_SCHEMA.COLUMNS c
	LEFT JOIN (
		SELECT ku.TABLE_SCHEMA, ku.TABLE_NAME, ku.COLUMN_NAME
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE ku
		  ON tc.CONSTRAINT_NAME = ku.CONSTRAINT_NAME
		 AND tc.TABLE_SCHEMA = ku.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
	) pk
	  ON pk.TABLE_SCHEMA = c.TABLE_SCHEMA
	 AND pk.TABLE_NAME = c.TABLE_NAME
	 AND pk.COLUMN_NAME = c.COLUMN_NAME
	WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
	ORDER BY c.ORDINAL_POSITION`

// newSQLCatalog wraps db for dialect.
func newSQLCatalog(db *sql.DB, dialect, schema string) (*sqlCatalog, error) {
	switch dialect {
	case DialectSQLite:
		return &sqlCatalog{db: db, query: sqliteColumns}, nil
	case DialectMySQL:
		return &sqlCatalog{db: db, query: mysqlColumns, schema: schema}, nil
	case DialectSQLServer:
		if schema == "" {
			schema = "dbo"
		}
		return &sqlCatalog{db: db, query: sqlserverColumns, schema: schema}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func (c *sqlCatalog) Columns(ctx context.Context, table string) ([]Column, error) {
	args := []any{table}
	if c.query != sqliteColumns {
		args = []any{c.schema, table}
	}

	rows, err := c.db.QueryContext(ctx, c.query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			col Column
			pk  int64
		)
		if err := rows.Scan(&col.Name, &col.DataType, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.PrimaryKey = pk > 0
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (c *sqlCatalog) Close() error {
	return c.db.Close()
}
