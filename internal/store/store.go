// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists merged reference lists in SQLite. Every save is a
// new version of the document's extraction; earlier versions are kept.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/arXiv/arxiv-references/pkg/types"
)

const defaultPath = "references.db"

// ErrNotFound is returned when a document has no stored extraction.
var ErrNotFound = errors.New("extraction not found")

// Extraction is one stored merge of one document.
type Extraction struct {
	ID       string
	Document string
	Version  int
	Created  time.Time
	Result   types.MergeResult
}

// Store manages the reference database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at cfg.Path and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS extractions (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			version INTEGER NOT NULL,
			created TEXT NOT NULL,
			score REAL NOT NULL,
			UNIQUE(document, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extractions_document ON extractions(document)`,
		`CREATE TABLE IF NOT EXISTS references_ (
			extraction TEXT NOT NULL REFERENCES extractions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			score REAL NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (extraction, position)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores result as the document's next version and returns the new
// extraction id. The extraction and its references are written in one
// transaction.
func (s *Store) Save(ctx context.Context, result types.MergeResult) (string, error) {
	if result.Document == "" {
		return "", fmt.Errorf("saving extraction: document is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM extractions WHERE document = ?`, result.Document,
	).Scan(&version); err != nil {
		return "", fmt.Errorf("reading version: %w", err)
	}

	id := uuid.NewString()
	created := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO extractions (id, document, version, created, score) VALUES (?, ?, ?, ?, ?)`,
		id, result.Document, version, created, result.Score,
	); err != nil {
		return "", fmt.Errorf("inserting extraction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO references_ (extraction, position, score, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range result.References {
		body, err := json.Marshal(rec.Reference)
		if err != nil {
			return "", fmt.Errorf("encoding reference %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, rec.Score, string(body)); err != nil {
			return "", fmt.Errorf("inserting reference %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing extraction: %w", err)
	}
	return id, nil
}

// Latest returns the most recent extraction for document, or ErrNotFound.
func (s *Store) Latest(ctx context.Context, document string) (Extraction, error) {
	var ext Extraction
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, document, version, created, score FROM extractions
		 WHERE document = ? ORDER BY version DESC LIMIT 1`, document,
	).Scan(&ext.ID, &ext.Document, &ext.Version, &created, &ext.Result.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return Extraction{}, fmt.Errorf("%s: %w", document, ErrNotFound)
	}
	if err != nil {
		return Extraction{}, fmt.Errorf("querying extraction: %w", err)
	}
	if ext.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Extraction{}, fmt.Errorf("parsing created time: %w", err)
	}
	ext.Result.Document = ext.Document

	rows, err := s.db.QueryContext(ctx,
		`SELECT score, body FROM references_ WHERE extraction = ? ORDER BY position`, ext.ID)
	if err != nil {
		return Extraction{}, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	ext.Result.References = []types.ArbitratedRecord{}
	for rows.Next() {
		var rec types.ArbitratedRecord
		var body string
		if err := rows.Scan(&rec.Score, &body); err != nil {
			return Extraction{}, fmt.Errorf("scanning reference: %w", err)
		}
		if err := json.Unmarshal([]byte(body), &rec.Reference); err != nil {
			return Extraction{}, fmt.Errorf("decoding reference: %w", err)
		}
		ext.Result.References = append(ext.Result.References, rec)
	}
	if err := rows.Err(); err != nil {
		return Extraction{}, fmt.Errorf("reading references: %w", err)
	}
	return ext, nil
}

// Documents lists every document with a stored extraction, sorted.
func (s *Store) Documents(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT document FROM extractions ORDER BY document`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
