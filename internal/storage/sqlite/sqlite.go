package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// schema defines all tables owned by the organization stores. Timestamps
// are unix seconds; optional timestamps are NULL when unset.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	assignee_id TEXT NOT NULL DEFAULT '',
	project_task_id TEXT NOT NULL DEFAULT '',
	due_date INTEGER,
	cancel_reason TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	progress REAL NOT NULL DEFAULT 0,
	owner_id TEXT NOT NULL DEFAULT '',
	milestones_json TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS project_tasks (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	due_date INTEGER,
	linked_task_id TEXT NOT NULL DEFAULT '',
	linked_delegation_id TEXT NOT NULL DEFAULT '',
	notes_json TEXT NOT NULL DEFAULT '[]',
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_project_tasks_project ON project_tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_project_tasks_task_link ON project_tasks(linked_task_id);
CREATE INDEX IF NOT EXISTS idx_project_tasks_delegation_link ON project_tasks(linked_delegation_id);

CREATE TABLE IF NOT EXISTS delegations (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	from_actor_id TEXT NOT NULL DEFAULT '',
	to_actor_id TEXT NOT NULL,
	project_task_id TEXT NOT NULL DEFAULT '',
	started_at INTEGER,
	acknowledged_at INTEGER,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_delegations_to ON delegations(to_actor_id);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	from_id TEXT NOT NULL DEFAULT '',
	to_id TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	acknowledged_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_messages_to ON messages(to_id);

CREATE TABLE IF NOT EXISTS announcements (
	id TEXT PRIMARY KEY,
	announcer_id TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS approvals (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	requester_id TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	resolved_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_approvals_status ON approvals(status);

CREATE TABLE IF NOT EXISTS kpis (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	value REAL NOT NULL DEFAULT 0,
	target REAL NOT NULL DEFAULT 0,
	metric_source TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	quarter TEXT NOT NULL DEFAULT '',
	kpi_ids_json TEXT NOT NULL DEFAULT '[]'
);
`

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	dsn := path
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		// WAL mode for better concurrency between single read/write calls
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// unixOrNil converts an optional timestamp to its column representation
func unixOrNil(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Unix()
}

// timeFromNull converts a nullable unix-seconds column back to *time.Time
func timeFromNull(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
