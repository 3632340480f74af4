package db

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

// Transactor can run one transaction at a time.
type Transactor interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}

// TransactionScopedWork describes code executed within a database transaction.
type TransactionScopedWork func(ctx context.Context) error

// RunTransaction executes a block of code within a database transaction. When
// txWork fails the transaction is rolled back and the work error is returned,
// together with the rollback error if that failed too.
func RunTransaction(ctx context.Context, t Transactor, txWork TransactionScopedWork) error {
	if err := t.Begin(ctx); err != nil {
		return err
	}

	if err := txWork(ctx); err != nil {
		if txErr := t.Rollback(); txErr != nil {
			return multierror.Append(err, txErr)
		}
		return err
	}
	return t.Commit()
}
