// Package storage defines the persistence interfaces the bookkeeping service
// relies on: the per-user category directory, the per-day sequence counters
// and the append-only entry log. Backends (PostgreSQL for production, an
// in-memory store for tests and the offline CLI) provide implementations.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"bookkeeper/pkg/domain"
	"context"

	"github.com/riverqueue/river"
)

// CategoryStorage gives access to a user's category directory.
type CategoryStorage interface {
	// GetCategories returns the user's categories in directory order. A user
	// without categories gets an empty slice and no error.
	GetCategories(ctx context.Context, userID domain.UserID) ([]domain.CategoryRecord, error)
	// ReplaceCategories swaps the user's whole directory for the given records.
	ReplaceCategories(ctx context.Context, userID domain.UserID, categories ...domain.CategoryRecord) error
}

// SequenceStorage hands out per-day sequence numbers.
type SequenceStorage interface {
	// AtomicIncrement increments the counter of the given date part and returns
	// the new value. The first call for a date returns 1. Concurrent callers
	// never observe the same value for the same date.
	AtomicIncrement(ctx context.Context, datePart string) (int64, error)
}

// EntryStorage is the append-only log of accepted entries.
type EntryStorage interface {
	// StoreEntry appends an entry. Storing an entry whose ID already exists
	// fails with ErrDuplicateEntry.
	StoreEntry(ctx context.Context, entry domain.ParsedEntry) error
	// EntryByID returns the user's entry with the given id, or nil when not found.
	EntryByID(ctx context.Context, userID domain.UserID, id domain.BookkeepingID) (*domain.ParsedEntry, error)
}

// JobStorage enqueues background jobs. Backends that support transactions
// insert the job as part of the surrounding transaction.
type JobStorage interface {
	// AddJob enqueues a job and reports whether it was inserted (false when it
	// was skipped as a duplicate of an existing unique job).
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}

// AllStorage is the composite of every domain-specific storage capability.
type AllStorage interface {
	CategoryStorage
	SequenceStorage
	EntryStorage
	JobStorage
}

// TxStorage describes a storage handle that operates within a transaction.
// Implementations become unusable after Commit or Rollback is called.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage is a non-transactional storage handle able to start transactions.
type Storage interface {
	AllStorage

	// Close releases any resources held by the storage implementation.
	Close() error

	// Begin starts a new transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, invokes cb with it, and commits when cb
	// returns nil or rolls back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
