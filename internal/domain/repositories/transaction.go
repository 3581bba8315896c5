package repositories

import "context"

// TxFn is a function that runs within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager scopes one top-level lifecycle operation to a single
// atomic transaction: a crash mid-cascade leaves either the pre- or the
// post-state visible, never a partially mutated tree.
type TransactionManager interface {
	// ExecTx executes fn within a transaction carried in the context.
	ExecTx(ctx context.Context, fn TxFn) error
}
