package repositories

import "context"

// TxFn runs within a transaction stored in ctx.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside a single database transaction.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
