package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lepicodon/yamalert/pkg/config"
)

const backendSQLite = "sqlite"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	job_category TEXT NOT NULL DEFAULT '',
	sensor_type TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_templates_type ON templates(type);
CREATE INDEX IF NOT EXISTS idx_templates_catalogue
	ON templates(type, job_category, sensor_type, name);
`

// SQLiteStorage implements Storage on a local SQLite database.
//
// The database is opened in WAL mode with a busy timeout, suitable for a
// single-instance service where templates must survive restarts.
type SQLiteStorage struct {
	db        *sql.DB
	path      string
	closeOnce sync.Once

	createStmt *sql.Stmt
	updateStmt *sql.Stmt
	getStmt    *sql.Stmt
	listStmt   *sql.Stmt
	deleteStmt *sql.Stmt
}

// NewSQLiteStorage opens (or creates) the template database at cfg.Path.
// The parent directory is created if missing.
func NewSQLiteStorage(cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, NewStorageError(backendSQLite, "open", errors.New("path cannot be empty"))
	}
	busyTimeout := cfg.BusyTimeout
	if busyTimeout == 0 {
		busyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(backendSQLite, "open", err)
		}
	}

	// modernc.org/sqlite takes pragmas as _pragma=name(value) parameters.
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.Path, int(busyTimeout.Milliseconds()))
	if cfg.WALMode {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "open", err)
	}

	// SQLite only supports a single writer.
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStorage{db: db, path: cfg.Path}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, NewStorageError(backendSQLite, "init schema", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, NewStorageError(backendSQLite, "prepare statements", err)
	}

	return s, nil
}

func (s *SQLiteStorage) prepareStatements() error {
	var err error

	s.createStmt, err = s.db.Prepare(`
		INSERT INTO templates (id, name, type, job_category, sensor_type, description, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	s.updateStmt, err = s.db.Prepare(`
		UPDATE templates
		SET name = ?, type = ?, job_category = ?, sensor_type = ?, description = ?, content = ?, updated_at = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, name, type, job_category, sensor_type, description, content, created_at, updated_at
		FROM templates
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, name, type, job_category, sensor_type, description, content, created_at, updated_at
		FROM templates
		ORDER BY type, job_category, sensor_type, name
	`)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM templates
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Create inserts a new template, assigning an id and timestamps.
func (s *SQLiteStorage) Create(ctx context.Context, t *Template) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.createStmt.ExecContext(ctx,
		t.ID, t.Name, t.Type, t.JobCategory, t.SensorType, t.Description, t.Content,
		t.CreatedAt.Unix(), t.UpdatedAt.Unix(),
	)
	if err != nil {
		return NewStorageError(backendSQLite, "create", err)
	}
	return nil
}

// Update replaces an existing template, refreshing its updated timestamp.
func (s *SQLiteStorage) Update(ctx context.Context, t *Template) error {
	t.UpdatedAt = time.Now().UTC()

	result, err := s.updateStmt.ExecContext(ctx,
		t.Name, t.Type, t.JobCategory, t.SensorType, t.Description, t.Content,
		t.UpdatedAt.Unix(), t.ID,
	)
	if err != nil {
		return NewStorageError(backendSQLite, "update", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return NewStorageError(backendSQLite, "update", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the template with the given id.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*Template, error) {
	t, err := scanTemplate(s.getStmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError(backendSQLite, "get", err)
	}
	return t, nil
}

// List returns all templates in catalogue order.
func (s *SQLiteStorage) List(ctx context.Context) ([]*Template, error) {
	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "list", err)
	}
	defer rows.Close()

	templates := make([]*Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, NewStorageError(backendSQLite, "list", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(backendSQLite, "list", err)
	}

	return templates, nil
}

// Delete removes the template with the given id.
func (s *SQLiteStorage) Delete(ctx context.Context, id string) error {
	result, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return NewStorageError(backendSQLite, "delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return NewStorageError(backendSQLite, "delete", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases prepared statements and the database handle.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteStorage) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.createStmt, s.updateStmt, s.getStmt, s.listStmt, s.deleteStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*Template, error) {
	var (
		t         Template
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Type, &t.JobCategory, &t.SensorType,
		&t.Description, &t.Content, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	t.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &t, nil
}
