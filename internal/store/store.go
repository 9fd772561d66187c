package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmreyes/spotify-history-tools/internal/migration"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNoDatabase means no ingested table exists at the given path.
	ErrNoDatabase = errors.New("no streaming history database - run 'ingest' first")

	// ErrEmptyResult means a query matched zero rows. Callers decide how to
	// present that; it is not a failure.
	ErrEmptyResult = errors.New("no matching rows")
)

// Store owns the SQLite handle for the persisted dataset. The ingestion
// pipeline is the only writer; everything else reads.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the database at dbPath, used by the
// ingestion pipeline.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(migration.Create); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Open opens an existing database for querying. Returns ErrNoDatabase if the
// history table has not been created yet.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	exists, err := tableExists(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if !exists {
		db.Close()
		return nil, ErrNoDatabase
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func tableExists(db *sql.DB) (bool, error) {
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'StreamingHistory'")
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking db existence: %w", err)
	}
	return true, nil
}
