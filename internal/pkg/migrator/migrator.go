// Пакет для применения миграций go.migrate
package migrator

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// имя источника миграций для migrate
const sourceName = "reviewcheck_embedded_sql"

// Migrator применяет встроенные SQL файлы к базе
type Migrator struct {
	srcDriver source.Driver
	dbName    string
}

// MustGetNewMigrator читает миграции из каталога dirName, паникует если каталога нет
func MustGetNewMigrator(sqlFiles fs.FS, dirName, dbName string) *Migrator {
	d, err := iofs.New(sqlFiles, dirName)
	if err != nil {
		panic(err)
	}
	return &Migrator{srcDriver: d, dbName: dbName}
}

// ApplyMigrations поднимает схему PostgreSQL до последней версии и возвращает ее номер
func (m *Migrator) ApplyMigrations(db *sql.DB) (uint, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return 0, fmt.Errorf("unable to create db instance: %w", err)
	}

	mg, err := migrate.NewWithInstance(sourceName, m.srcDriver, m.dbName, driver)
	if err != nil {
		return 0, fmt.Errorf("unable to create migration: %w", err)
	}

	if err = mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("unable to apply migrations: %w", err)
	}
	version, dirty, err := mg.Version()
	if err != nil {
		return 0, fmt.Errorf("unable to read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
