package db

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// Transactor runs a unit of work in one database transaction. Repositories
// called with the context handed to fn join that transaction.
type Transactor struct {
	database *gorm.DB
}

func NewTransactor(database *gorm.DB) *Transactor {
	return &Transactor{database: database}
}

func (transactor *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return transactor.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func connection(ctx context.Context, database *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return database.WithContext(ctx)
}
