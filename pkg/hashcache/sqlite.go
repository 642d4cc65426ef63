package hashcache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one persisted content hash
type Record struct {
	Hash       string
	Source     string
	RecordedAt time.Time
}

// SQLiteStore persists content hashes across invocations
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the store at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open hash cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("set WAL mode on hash cache: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS content_hashes (
			hash TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			recorded_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("create content_hashes table: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file
func (s *SQLiteStore) Path() string { return s.path }

// Put records hash unless it is already present
func (s *SQLiteStore) Put(hash, source string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO content_hashes (hash, source, recorded_at) VALUES (?, ?, ?)",
		hash, source, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert hash %s: %w", hash, err)
	}
	return nil
}

// Has reports whether hash has ever been recorded
func (s *SQLiteStore) Has(hash string) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(1) FROM content_hashes WHERE hash = ?", hash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query hash %s: %w", hash, err)
	}
	return n > 0, nil
}

// All returns every record ordered by hash
func (s *SQLiteStore) All() ([]Record, error) {
	rows, err := s.db.Query("SELECT hash, source, recorded_at FROM content_hashes ORDER BY hash")
	if err != nil {
		return nil, fmt.Errorf("list hashes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var ts int64
		if err := rows.Scan(&r.Hash, &r.Source, &ts); err != nil {
			return nil, fmt.Errorf("scan hash row: %w", err)
		}
		r.RecordedAt = time.Unix(ts, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
