// Package store persists the history of generated Wi-Fi cards in a
// local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Record represents one generation run.
type Record struct {
	ID        int64  `json:"id"`
	SSID      string `json:"ssid"`
	Security  string `json:"security"`
	Style     string `json:"style"`
	LogoPath  string `json:"logo_path,omitempty"`
	PNGPath   string `json:"png_path"`
	PDFPath   string `json:"pdf_path,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// HistoryStore manages SQLite storage for generation records.
type HistoryStore struct {
	db *sql.DB
}

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ssid TEXT NOT NULL,
    security TEXT NOT NULL DEFAULT 'WPA',
    style TEXT NOT NULL DEFAULT 'classic',
    logo_path TEXT NOT NULL DEFAULT '',
    png_path TEXT NOT NULL DEFAULT '',
    pdf_path TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);
`

const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
    ssid,
    content='records',
    content_rowid='id'
);
`

const createFTSTrigger = `
CREATE TRIGGER IF NOT EXISTS records_ai AFTER INSERT ON records BEGIN
    INSERT INTO records_fts(rowid, ssid)
    VALUES (new.id, new.ssid);
END;
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_records_created_at ON records(created_at);
`

// Open opens (or creates) the SQLite database at dbPath, initialises
// the schema (records table, FTS5 virtual table, sync trigger), and
// returns a ready-to-use HistoryStore.
func Open(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run schema migrations.
	for _, stmt := range []string{
		createRecordsTable,
		createFTSTable,
		createFTSTrigger,
		createIndexes,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db}, nil
}

// SaveRecord inserts a record and fills in its assigned ID. CreatedAt
// defaults to now when unset. Passwords are deliberately never stored.
func (s *HistoryStore) SaveRecord(rec *Record) error {
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	const query = `
		INSERT INTO records
			(ssid, security, style, logo_path, png_path, pdf_path, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.Exec(query,
		rec.SSID,
		rec.Security,
		rec.Style,
		rec.LogoPath,
		rec.PNGPath,
		rec.PDFPath,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	rec.ID = id
	return nil
}

// ListRecords returns records ordered by creation time descending
// (newest first).
func (s *HistoryStore) ListRecords(limit int) ([]Record, error) {
	const query = `
		SELECT id, ssid, security, style, logo_path, png_path, pdf_path, created_at
		FROM records
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SearchRecords performs a full-text search across SSIDs using the
// FTS5 index. Results are ranked by relevance.
func (s *HistoryStore) SearchRecords(query string, limit int) ([]Record, error) {
	// Escape any double quotes in the query to avoid FTS5 syntax errors.
	escaped := strings.ReplaceAll(query, `"`, `""`)
	ftsQuery := fmt.Sprintf(`"%s"`, escaped)

	const q = `
		SELECT r.id, r.ssid, r.security, r.style, r.logo_path, r.png_path, r.pdf_path, r.created_at
		FROM records r
		JOIN records_fts fts ON r.id = fts.rowid
		WHERE fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`

	rows, err := s.db.Query(q, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// --- helpers ----------------------------------------------------------------

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID, &r.SSID, &r.Security, &r.Style,
			&r.LogoPath, &r.PNGPath, &r.PDFPath, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}
	return recs, nil
}
