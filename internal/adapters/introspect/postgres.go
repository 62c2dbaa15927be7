package introspect

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresColumns = `
	SELECT
		c.column_name,
		c.data_type,
		EXISTS (
			SELECT 1
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
			  ON tc.constraint_name = kcu.constraint_name
			 AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
			  AND tc.table_schema = c.table_schema
			  AND tc.table_name = c.table_name
			  AND kcu.column_name = c.column_name
		) AS is_primary_key
	FROM information_schema.columns c
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position`

// postgresCatalog reads columns through a pgx pool.
type postgresCatalog struct {
	pool   *pgxpool.Pool
	schema string
}

func newPostgresCatalog(ctx context.Context, dsn, schema string) (*postgresCatalog, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if schema == "" {
		schema = "public"
	}
	return &postgresCatalog{pool: pool, schema: schema}, nil
}

func (c *postgresCatalog) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := c.pool.Query(ctx, postgresColumns, c.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.PrimaryKey); err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (c *postgresCatalog) Close() error {
	c.pool.Close()
	return nil
}
