// Пакет хранения в SQLite
package sqlitestorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_history (
	id            TEXT PRIMARY KEY,
	url_analyzed  TEXT NOT NULL DEFAULT '',
	review_text   TEXT NOT NULL DEFAULT '',
	analyzed_text TEXT NOT NULL,
	platform      TEXT NOT NULL,
	analyzed_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_analyzed_at ON analysis_history(analyzed_at);
`

// фиксированная ширина, чтобы строки сортировались как время
const tsLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteDB struct {
	db *sql.DB
}

// Open открывает или создает файл reviewcheck.db в каталоге dbDir
func Open(ctx context.Context, dbDir string) (*SQLiteDB, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dsn := filepath.Join(dbDir, "reviewcheck.db") + "?mode=rwc"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// один писатель
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", internalerrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query key: %w", err)
	}
	return value, nil
}

func (s *SQLiteDB) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv_store (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert key: %w", err)
	}
	return nil
}

func (s *SQLiteDB) SaveAnalysis(ctx context.Context, a storage.Analysis) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_history (id, url_analyzed, review_text, analyzed_text, platform, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.URL, a.ReviewText, a.AnalyzedText, a.Platform, a.AnalyzedAt.UTC().Format(tsLayout))
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetHistory(ctx context.Context, limit int) ([]storage.Analysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url_analyzed, review_text, analyzed_text, platform, analyzed_at
		FROM analysis_history ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()
	var res []storage.Analysis
	for rows.Next() {
		var (
			a  storage.Analysis
			ts string
		)
		if err = rows.Scan(&a.ID, &a.URL, &a.ReviewText, &a.AnalyzedText, &a.Platform, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		a.AnalyzedAt, err = time.Parse(tsLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse analyzed_at: %w", err)
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
