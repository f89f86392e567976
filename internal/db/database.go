package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Database wraps SQLite connection
type Database struct {
	db *sql.DB
}

// RunRecord represents one pipeline run in the database
type RunRecord struct {
	ID                string     `json:"id"`
	Pipeline          string     `json:"pipeline"`
	LoginID           string     `json:"loginId"`
	Succeeded         int        `json:"succeeded"`
	Failed            int        `json:"failed"`
	TerminationReason string     `json:"terminationReason"`
	StartedAt         time.Time  `json:"startedAt"`
	FinishedAt        *time.Time `json:"finishedAt,omitempty"`
}

// ProductRecord represents one processed product within a run
type ProductRecord struct {
	ID            int64     `json:"id"`
	RunID         string    `json:"runId"`
	Title         string    `json:"title"`
	Destination   string    `json:"destination"`
	Deleted       bool      `json:"deleted"`
	NameConflicts int       `json:"nameConflicts"`
	ImageCount    int       `json:"imageCount"`
	OptionCount   int       `json:"optionCount"`
	ErrorCategory string    `json:"errorCategory,omitempty"`
	ErrorText     string    `json:"errorText,omitempty"`
	ProcessedAt   time.Time `json:"processedAt"`
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize schema
	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Database{db: db}, nil
}

// initSchema creates the necessary tables
func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		pipeline TEXT NOT NULL,
		login_id TEXT NOT NULL,
		succeeded INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		termination_reason TEXT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		title TEXT,
		destination TEXT,
		deleted INTEGER DEFAULT 0,
		name_conflicts INTEGER DEFAULT 0,
		image_count INTEGER DEFAULT 0,
		option_count INTEGER DEFAULT 0,
		error_category TEXT,
		error_text TEXT,
		processed_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_pipeline ON runs(pipeline);
	CREATE INDEX IF NOT EXISTS idx_products_run_id ON products(run_id);
	`

	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// CreateRun inserts a new run record
func (d *Database) CreateRun(id, pipeline, loginID string) error {
	query := `
		INSERT INTO runs (id, pipeline, login_id, started_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := d.db.Exec(query, id, pipeline, loginID, time.Now())
	return err
}

// FinishRun stores a run's final counters and termination reason
func (d *Database) FinishRun(id string, succeeded, failed int, reason string) error {
	query := `
		UPDATE runs
		SET succeeded = ?, failed = ?, termination_reason = ?, finished_at = ?
		WHERE id = ?
	`
	_, err := d.db.Exec(query, succeeded, failed, reason, time.Now(), id)
	return err
}

// InsertProduct appends one processed product to a run
func (d *Database) InsertProduct(p ProductRecord) error {
	query := `
		INSERT INTO products
			(run_id, title, destination, deleted, name_conflicts,
			 image_count, option_count, error_category, error_text, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	deleted := 0
	if p.Deleted {
		deleted = 1
	}
	processedAt := p.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}
	_, err := d.db.Exec(query,
		p.RunID, p.Title, p.Destination, deleted, p.NameConflicts,
		p.ImageCount, p.OptionCount, p.ErrorCategory, p.ErrorText, processedAt)
	return err
}

// GetRun retrieves a run by ID
func (d *Database) GetRun(id string) (*RunRecord, error) {
	query := `
		SELECT id, pipeline, login_id, succeeded, failed, termination_reason, started_at, finished_at
		FROM runs
		WHERE id = ?
	`

	var run RunRecord
	var reason sql.NullString
	var finishedAt sql.NullTime

	err := d.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.Pipeline,
		&run.LoginID,
		&run.Succeeded,
		&run.Failed,
		&reason,
		&run.StartedAt,
		&finishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if reason.Valid {
		run.TerminationReason = reason.String
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return &run, nil
}

// ListRuns retrieves runs with optional pipeline filtering
func (d *Database) ListRuns(pipeline string, limit, offset int) ([]RunRecord, error) {
	query := `
		SELECT id, pipeline, login_id, succeeded, failed, termination_reason, started_at, finished_at
		FROM runs
		WHERE 1=1
	`
	args := []interface{}{}

	if pipeline != "" && pipeline != "all" {
		query += ` AND pipeline = ?`
		args = append(args, pipeline)
	}

	query += ` ORDER BY started_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		var reason sql.NullString
		var finishedAt sql.NullTime

		err := rows.Scan(
			&run.ID,
			&run.Pipeline,
			&run.LoginID,
			&run.Succeeded,
			&run.Failed,
			&reason,
			&run.StartedAt,
			&finishedAt,
		)
		if err != nil {
			return nil, err
		}

		if reason.Valid {
			run.TerminationReason = reason.String
		}
		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListProducts retrieves the products of one run in processing order
func (d *Database) ListProducts(runID string) ([]ProductRecord, error) {
	query := `
		SELECT id, run_id, title, destination, deleted, name_conflicts,
		       image_count, option_count, error_category, error_text, processed_at
		FROM products
		WHERE run_id = ?
		ORDER BY id ASC
	`

	rows, err := d.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []ProductRecord
	for rows.Next() {
		var p ProductRecord
		var deleted int
		var destination, errCategory, errText sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.RunID,
			&p.Title,
			&destination,
			&deleted,
			&p.NameConflicts,
			&p.ImageCount,
			&p.OptionCount,
			&errCategory,
			&errText,
			&p.ProcessedAt,
		)
		if err != nil {
			return nil, err
		}

		p.Deleted = deleted != 0
		if destination.Valid {
			p.Destination = destination.String
		}
		if errCategory.Valid {
			p.ErrorCategory = errCategory.String
		}
		if errText.Valid {
			p.ErrorText = errText.String
		}

		products = append(products, p)
	}

	return products, rows.Err()
}

// CountProducts returns how many products a run processed
func (d *Database) CountProducts(runID string) (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM products WHERE run_id = ?`, runID).Scan(&count)
	return count, err
}
