// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
)

// KeyValueStore はクライアント側の永続ストレージのインターフェース。
// セッション（accessToken、user、refreshToken）とアプリ設定（appSettings）を文字列で保存する。
type KeyValueStore interface {
	// Get は指定キーの値を取得する。存在しない場合はfalseを返す。
	Get(ctx context.Context, key string) (string, bool, error)

	// Set は指定キーに値を保存する。既存の値は上書きする。
	Set(ctx context.Context, key, value string) error

	// Delete は指定キーを削除する。存在しないキーはエラーにしない。
	Delete(ctx context.Context, key string) error

	// Ping はストレージに到達できるかを確認する。
	Ping(ctx context.Context) error

	// Close はストレージを閉じる。
	Close() error
}
