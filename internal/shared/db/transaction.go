// Package db carries an open gorm transaction through the context so the
// repositories participating in a use case commit as one unit. Subscription
// transitions and their paired ledger mutations rely on this.
package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs a function inside a database transaction.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionManager is the gorm-backed TxManager.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction opens a transaction, stores it in the context passed to
// fn, and commits when fn returns nil. Any error rolls the whole unit back.
// When ctx already carries a transaction the call nests inside it as a
// savepoint, so a use case composed of smaller transactional use cases
// still commits or rolls back as a single unit.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return GetTxFromContext(ctx, tm.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTx returns the in-flight transaction when ctx carries one, or the
// manager's base handle otherwise.
func (tm *TransactionManager) GetTx(ctx context.Context) *gorm.DB {
	return GetTxFromContext(ctx, tm.db)
}

// GetTxFromContext is the repository-side accessor: it joins the ambient
// transaction when present, falling back to defaultDB.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
