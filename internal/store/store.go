// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists collected papers in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-collector/pkg/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the SQLite papers database.
type Store struct {
	db      *sql.DB
	dataDir string
	logger  zerolog.Logger
}

// Open opens (creating if necessary) the SQLite database at dbPath,
// runs any pending schema migrations, and returns the Store. Exports
// are written under dataDir.
func Open(dbPath, dataDir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &Store{db: db, dataDir: dataDir, logger: logger}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	// Not calling m.Close here: it would close the shared *sql.DB.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertMany inserts or updates the given records in a single
// transaction and returns how many were newly inserted. On update the
// collection date and any extracted full text are preserved; all other
// fields are overwritten with the incoming values.
func (s *Store) UpsertMany(ctx context.Context, records []types.PaperRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	today := time.Now().Format("2006-01-02")

	for _, rec := range records {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM papers WHERE paper_id = ?`, rec.PaperID).Scan(&exists)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, `
				INSERT INTO papers (
					paper_id, title, authors, abstract, url, pdf_path,
					full_text_available, full_text, published_date, source,
					keywords, collected_date, citation_count, venue,
					venue_impact_score
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				rec.PaperID, rec.Title, rec.Authors, rec.Abstract, rec.URL,
				rec.PDFPath, rec.FullTextAvailable, rec.FullText,
				rec.PublishedDate, rec.Source, rec.Keywords, today,
				rec.CitationCount, rec.Venue, rec.VenueImpactScore)
			if err != nil {
				return 0, fmt.Errorf("inserting paper %s: %w", rec.PaperID, err)
			}
			inserted++
		case err != nil:
			return 0, fmt.Errorf("checking paper %s: %w", rec.PaperID, err)
		default:
			_, err = tx.ExecContext(ctx, `
				UPDATE papers SET
					title = ?, authors = ?, abstract = ?, url = ?,
					pdf_path = ?, published_date = ?, source = ?,
					keywords = ?, citation_count = ?, venue = ?,
					venue_impact_score = ?,
					full_text_available = MAX(full_text_available, ?)
				WHERE paper_id = ?`,
				rec.Title, rec.Authors, rec.Abstract, rec.URL, rec.PDFPath,
				rec.PublishedDate, rec.Source, rec.Keywords,
				rec.CitationCount, rec.Venue, rec.VenueImpactScore,
				rec.FullTextAvailable, rec.PaperID)
			if err != nil {
				return 0, fmt.Errorf("updating paper %s: %w", rec.PaperID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing upsert: %w", err)
	}
	return inserted, nil
}

const selectColumns = `paper_id, title, authors, abstract, url, pdf_path,
	full_text_available, full_text, published_date, source, keywords,
	collected_date, citation_count, venue, venue_impact_score`

// GetByIDOrTitle looks a paper up by exact ID first, then falls back to
// a substring match against titles. Returns (nil, nil) when nothing
// matches.
func (s *Store) GetByIDOrTitle(ctx context.Context, id string) (*types.PaperRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM papers WHERE paper_id = ?`, id)
	rec, err := scanRecord(row)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("looking up paper %s: %w", id, err)
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM papers WHERE title LIKE ? LIMIT 1`,
		"%"+id+"%")
	rec, err = scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up paper by title %q: %w", id, err)
	}
	return rec, nil
}

// SaveFullText stores extracted text for a paper and marks it
// available. Empty text is rejected so a failed extraction can never
// mark a paper as extracted.
func (s *Store) SaveFullText(ctx context.Context, paperID, text string) error {
	if text == "" {
		return fmt.Errorf("refusing to save empty full text for %s", paperID)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE papers SET full_text = ?, full_text_available = 1 WHERE paper_id = ?`,
		text, paperID)
	if err != nil {
		return fmt.Errorf("saving full text for %s: %w", paperID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving full text for %s: %w", paperID, err)
	}
	if n == 0 {
		return fmt.Errorf("paper %s not found", paperID)
	}
	return nil
}

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*types.PaperRecord, error) {
	var rec types.PaperRecord
	var pdfPath, fullText, venue sql.NullString
	err := row.Scan(
		&rec.PaperID, &rec.Title, &rec.Authors, &rec.Abstract, &rec.URL,
		&pdfPath, &rec.FullTextAvailable, &fullText, &rec.PublishedDate,
		&rec.Source, &rec.Keywords, &rec.CollectedDate, &rec.CitationCount,
		&venue, &rec.VenueImpactScore)
	if err != nil {
		return nil, err
	}
	rec.PDFPath = pdfPath.String
	rec.FullText = fullText.String
	rec.Venue = venue.String
	return &rec, nil
}
