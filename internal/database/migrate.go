// Package database はデータベース接続とマイグレーション管理を提供する。
package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrationURL はストレージURLをgolang-migrateが解釈できる形式にする。
func MigrationURL(storageURL string) (string, error) {
	driver, err := ParseDriver(storageURL)
	if err != nil {
		return "", err
	}
	switch driver {
	case DriverSQLite:
		return "sqlite://" + SQLitePath(storageURL), nil
	case DriverPostgres:
		return storageURL, nil
	}
	return "", fmt.Errorf("driver %s has no migrations", driver)
}

// NewMigrator はマイグレーション実行用のmigrateインスタンスを生成する。
// ドライバごとに別のマイグレーションセットを使う。
func NewMigrator(storageURL string) (*migrate.Migrate, error) {
	driver, err := ParseDriver(storageURL)
	if err != nil {
		return nil, err
	}
	migrationURL, err := MigrationURL(storageURL)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrationsFS, "migrations/"+string(driver))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrationURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// RunMigrations はすべてのマイグレーションを適用する。
// すでに最新の場合はエラーなしで返る。memory://では何もしない。
func RunMigrations(storageURL string) error {
	driver, err := ParseDriver(storageURL)
	if err != nil {
		return err
	}
	if driver == DriverMemory {
		return nil
	}
	if driver == DriverSQLite {
		if err := ensureDir(SQLitePath(storageURL)); err != nil {
			return err
		}
	}

	m, err := NewMigrator(storageURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
