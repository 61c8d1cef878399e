package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository for operation
// history records.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateOperation stores a finished operation record.
func (r *Repository) CreateOperation(ctx context.Context, op model.Operation) error {
	query := `
		INSERT INTO operations (
			id, kind, stack_name, stack_id, base_name,
			status, result, error, started_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		op.ID,
		op.Kind,
		op.StackName,
		op.StackID,
		op.BaseName,
		op.Status,
		op.Result,
		op.Error,
		op.StartedAt.Unix(),
		op.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("could not insert operation: %w", err)
	}

	r.logger.Debugf("Created operation record: %s", op.ID)
	return nil
}

// GetOperation retrieves an operation record by ID.
func (r *Repository) GetOperation(ctx context.Context, id string) (*model.Operation, error) {
	query := `
		SELECT id, kind, stack_name, stack_id, base_name,
		       status, result, error, started_at, finished_at
		FROM operations
		WHERE id = ?
	`

	op, err := scanOperation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("operation %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query operation: %w", err)
	}

	return op, nil
}

// ListOperations returns all operation records, newest first.
func (r *Repository) ListOperations(ctx context.Context) ([]model.Operation, error) {
	query := `
		SELECT id, kind, stack_name, stack_id, base_name,
		       status, result, error, started_at, finished_at
		FROM operations
		ORDER BY started_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query operations: %w", err)
	}
	defer rows.Close()

	var ops []model.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		ops = append(ops, *op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ops, nil
}

// DeleteOperationsBefore removes records started before t and returns how
// many were deleted.
func (r *Repository) DeleteOperationsBefore(ctx context.Context, t time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM operations WHERE started_at < ?`, t.Unix())
	if err != nil {
		return 0, fmt.Errorf("could not delete operations: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not count deleted operations: %w", err)
	}

	return int(deleted), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(row rowScanner) (*model.Operation, error) {
	var op model.Operation
	var startedAt, finishedAt int64

	err := row.Scan(
		&op.ID,
		&op.Kind,
		&op.StackName,
		&op.StackID,
		&op.BaseName,
		&op.Status,
		&op.Result,
		&op.Error,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	op.StartedAt = time.Unix(startedAt, 0).UTC()
	op.FinishedAt = time.Unix(finishedAt, 0).UTC()

	return &op, nil
}
