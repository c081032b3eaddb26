package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/ports"
)

var _ ports.MetadataStore = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS assets (
    seq INTEGER NOT NULL,
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    date_added TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
)`

// SQLiteStore keeps the catalog in a single SQLite table with the same four
// columns as the CSV backends. seq preserves insertion order.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// NewSQLiteStore creates a store backed by the database file at path.
// The database is opened lazily on first use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Kind() string { return BackendSQLite }

func (s *SQLiteStore) Path() string { return s.path }

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}

	_, statErr := os.Stat(s.path)
	existed := statErr == nil

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, domain.NewError(domain.ErrStoreUnavailable, "open", s.path, err)
	}
	// One writer, no pool churn
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		kind := domain.ErrStoreUnavailable
		if existed {
			kind = domain.ErrStoreCorrupt
		}
		return nil, domain.NewError(kind, "open", s.path, err)
	}

	if err := checkColumns(ctx, db); err != nil {
		db.Close()
		return nil, domain.NewError(domain.ErrStoreCorrupt, "open", s.path, err)
	}

	s.db = db
	return db, nil
}

// checkColumns guards against an assets table created by something else
func checkColumns(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(assets)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range append([]string{"seq"}, domain.Columns...) {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("assets table missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load reads all records in insertion order, creating the database if absent
func (s *SQLiteStore) Load(ctx context.Context) (*domain.Catalog, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT filename, original_name, date_added, description FROM assets ORDER BY seq`)
	if err != nil {
		return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, err)
	}
	defer rows.Close()

	var records []domain.AssetRecord
	line := 0
	for rows.Next() {
		line++
		var name, original, added, desc string
		if err := rows.Scan(&name, &original, &added, &desc); err != nil {
			return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, err)
		}
		rec, err := recordFromCells(line, name, original, added, desc)
		if err != nil {
			return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, err)
	}

	catalog, err := domain.NewCatalog(records)
	if err != nil {
		return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, err)
	}
	return catalog, nil
}

// AppendAndPersist rewrites the table with catalog+rec, then commits rec in memory
func (s *SQLiteStore) AppendAndPersist(ctx context.Context, catalog *domain.Catalog, rec domain.AssetRecord) error {
	return appendAndPersist(ctx, s, catalog, rec)
}

// Persist replaces the table contents in one transaction
func (s *SQLiteStore) Persist(ctx context.Context, records []domain.AssetRecord) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}

	if err := s.replaceAll(ctx, db, records); err != nil {
		return domain.NewError(domain.ErrStoreUnavailable, "persist", s.path, err)
	}
	return nil
}

func (s *SQLiteStore) replaceAll(ctx context.Context, db *sql.DB, records []domain.AssetRecord) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assets`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assets (seq, filename, original_name, date_added, description) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, rec.StoredName, rec.OriginalName, rec.FormatAddedAt(), rec.Description); err != nil {
			return err
		}
	}
	return tx.Commit()
}
