package db

// SchemaSQL is the complete schema of the history database.
//
// Tests load it through GetSchemaSQL() rather than declaring their own
// tables, so a repository referencing a missing column fails immediately.
// Keep it in sync with the migrations list.
const SchemaSQL = `
-- One row per non-dry scaffold run
CREATE TABLE IF NOT EXISTS scaffold_runs (
	id TEXT PRIMARY KEY,
	model TEXT NOT NULL,
	framework TEXT NOT NULL CHECK(framework IN ('vue', 'react', 'angular')),
	project_dir TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('succeeded', 'partial', 'failed')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scaffold_runs_model ON scaffold_runs(model);
CREATE INDEX IF NOT EXISTS idx_scaffold_runs_created ON scaffold_runs(created_at);

-- Per-artifact outcome of a run, in report order
CREATE TABLE IF NOT EXISTS scaffold_run_files (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	path TEXT NOT NULL,
	role TEXT NOT NULL,
	status TEXT NOT NULL,
	error TEXT,
	PRIMARY KEY (run_id, position),
	FOREIGN KEY (run_id) REFERENCES scaffold_runs(id) ON DELETE CASCADE
);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
