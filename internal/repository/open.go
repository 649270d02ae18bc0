package repository

import (
	"fmt"

	"github.com/hitoshi/hrms/internal/database"
)

// Open はストレージURLに応じたKeyValueStoreを開く。
// SQLバックエンドの場合は先にマイグレーションを適用する。
func Open(storageURL string) (KeyValueStore, error) {
	driver, err := database.ParseDriver(storageURL)
	if err != nil {
		return nil, err
	}
	if driver == database.DriverMemory {
		return NewMemoryStore(), nil
	}

	if err := database.RunMigrations(storageURL); err != nil {
		return nil, err
	}

	db, driver, err := database.Open(storageURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return NewSQLStore(db, driver), nil
}
