// Пакет хранения в PostgreSQL
package dbstorage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/pkg/migrator"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

type PostgresDB struct {
	db *sql.DB
}

func NewDB(ctx context.Context, connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection to postgresql: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to close PostgreSQL connection after db.Ping: %w", cerr)
		}
		return nil, fmt.Errorf("failed to ping PostgreSQL connection: %w", err)
	}
	m := migrator.MustGetNewMigrator(migrations, "migrations", "reviewcheck")
	version, err := m.ApplyMigrations(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate PostgreSQL: %w", err)
	}
	log.Printf("PostgreSQL schema version %d\n", version)
	return &PostgresDB{
		db: db,
	}, nil
}

func (pg *PostgresDB) Close() {
	if pg.db != nil {
		err := pg.db.Close()
		if err != nil {
			log.Printf("Error closing database connection: %v\n", err)
			return
		}
		log.Println("Database connection closed.")
	}
}

func (pg *PostgresDB) Get(ctx context.Context, key string) (string, error) {
	row := pg.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key=$1", key)
	var value string
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", internalerrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query key: %w", err)
	}
	return value, nil
}

func (pg *PostgresDB) Set(ctx context.Context, key string, value string) error {
	query := "INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value"
	if _, err := pg.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to upsert key: %w", err)
	}
	return nil
}

func (pg *PostgresDB) SaveAnalysis(ctx context.Context, a storage.Analysis) error {
	query := `INSERT INTO analysis_history (id, url_analyzed, review_text, analyzed_text, platform, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := pg.db.ExecContext(ctx, query, a.ID, a.URL, a.ReviewText, a.AnalyzedText, a.Platform, a.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

func (pg *PostgresDB) GetHistory(ctx context.Context, limit int) ([]storage.Analysis, error) {
	rows, err := pg.db.QueryContext(ctx,
		`SELECT id, url_analyzed, review_text, analyzed_text, platform, analyzed_at
		FROM analysis_history ORDER BY analyzed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()
	res := make([]storage.Analysis, 0, limit)
	for rows.Next() {
		var a storage.Analysis
		if err = rows.Scan(&a.ID, &a.URL, &a.ReviewText, &a.AnalyzedText, &a.Platform, &a.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (pg *PostgresDB) Ping(ctx context.Context) error {
	err := pg.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	return nil
}
