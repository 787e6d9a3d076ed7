package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor は複数のリポジトリ操作を1つのトランザクションにまとめます。
type Transactor struct {
	db *gorm.DB
}

// NewTransactor はTransactorを生成します。
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx はfnをトランザクション内で実行します。
// fnがエラーを返すかpanicした場合はロールバックし、成功時のみコミットします。
// 既にトランザクション内であれば、そのトランザクションに参加します。
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn はctxにトランザクションがあればそれを、なければbaseを返します。
// リポジトリはDBアクセスの入口で必ずConnを通します。
func Conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}
