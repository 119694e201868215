package ports

import (
	"context"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

// RepoManager is the abstraction for any kind of service giving access to
// the domain repositories and to transactional query execution.
type RepoManager interface {
	// SwapRepository returns the repository of the swap registry.
	SwapRepository() domain.SwapRepository
	// CustodyRepository returns the repository of the custody ledger.
	CustodyRepository() domain.CustodyRepository

	// Close should be used to gracefully close the connection with the
	// underlying storage.
	Close()

	// NewTransaction returns a new writable storage transaction.
	NewTransaction() Transaction
	// RunTransaction runs the given handler within a single storage
	// transaction, committed if the handler returns no error and entirely
	// discarded otherwise. Every repository access made through the handler
	// context joins the transaction, making multi step writes atomic.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)
}

// Transaction interface defines the method to commit or discard a database transaction.
type Transaction interface {
	Commit() error
	Discard()
}
