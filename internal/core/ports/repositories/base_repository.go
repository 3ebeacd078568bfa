package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside one database transaction.
// Repository calls made with the context passed to fn join that transaction;
// fn returning an error rolls everything back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
