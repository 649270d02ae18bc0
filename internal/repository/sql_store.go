package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/hrms/internal/database"
)

// SQLStore はkv_storeテーブルを使用したストレージ。PostgreSQLとSQLiteに対応する。
type SQLStore struct {
	db     *sql.DB
	driver database.Driver
	now    func() time.Time
}

// NewSQLStore はSQLStoreを生成する。テーブルはマイグレーションで作成済みであること。
func NewSQLStore(db *sql.DB, driver database.Driver) *SQLStore {
	return &SQLStore{db: db, driver: driver, now: time.Now}
}

// Get は指定キーの値を取得する。
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT value FROM kv_store WHERE key = ?`),
		key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

// Set は指定キーに値を保存する。
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO kv_store (key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, value, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Delete は指定キーを削除する。
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM kv_store WHERE key = ?`),
		key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Ping はデータベース接続を確認する。
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping storage: %w", err)
	}
	return nil
}

// Close はデータベース接続を閉じる。
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind は?プレースホルダをPostgreSQLの$n形式に置き換える。
func (s *SQLStore) rebind(query string) string {
	if s.driver != database.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// compile-time interface check
var _ KeyValueStore = (*SQLStore)(nil)
