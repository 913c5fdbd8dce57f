// Package memory implements storage.Storage in process memory. It backs the
// offline CLI and tests; nothing survives a restart.
//
// Sequence counters are sharded by date part, each shard an atomic counter, so
// increments for different days never contend and increments for the same day
// are linearizable. Transactions are not isolated: WithTx runs the callback
// directly against the store and Rollback does not undo writes.
package memory

import (
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/storage"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/riverqueue/river"
)

// Job is a job recorded by AddJob.
type Job struct {
	Args river.JobArgs
	Opts *river.InsertOpts
}

// Memory is an in-process storage.Storage.
type Memory struct {
	sequences sync.Map // date part -> *atomic.Int64

	mu         sync.RWMutex
	categories map[domain.UserID][]domain.CategoryRecord
	entries    map[string]domain.ParsedEntry
	jobs       []Job
}

// New returns an empty store.
func New() *Memory {
	return &Memory{
		categories: make(map[domain.UserID][]domain.CategoryRecord),
		entries:    make(map[string]domain.ParsedEntry),
	}
}

// GetCategories returns a copy of the user's directory.
func (m *Memory) GetCategories(_ context.Context, userID domain.UserID) ([]domain.CategoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.CategoryRecord, 0, len(m.categories[userID]))
	for _, c := range m.categories[userID] {
		c.Synonyms = slices.Clone(c.Synonyms)
		out = append(out, c)
	}

	return out, nil
}

// ReplaceCategories swaps the user's directory.
func (m *Memory) ReplaceCategories(_ context.Context, userID domain.UserID, categories ...domain.CategoryRecord) error {
	cloned := make([]domain.CategoryRecord, len(categories))
	for i, c := range categories {
		c.Synonyms = slices.Clone(c.Synonyms)
		cloned[i] = c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[userID] = cloned

	return nil
}

// AtomicIncrement increments the counter of datePart.
func (m *Memory) AtomicIncrement(ctx context.Context, datePart string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("could not increment sequence: %w", err)
	}
	counter, _ := m.sequences.LoadOrStore(datePart, new(atomic.Int64))

	return counter.(*atomic.Int64).Add(1), nil //nolint: forcetypeassert
}

// StoreEntry appends an entry.
func (m *Memory) StoreEntry(_ context.Context, entry domain.ParsedEntry) error {
	key := entry.ID.String()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		return fmt.Errorf("could not store entry %s: %w", key, storage.ErrDuplicateEntry)
	}
	m.entries[key] = entry

	return nil
}

// EntryByID returns the user's entry with the given id, or nil.
func (m *Memory) EntryByID(_ context.Context, userID domain.UserID, id domain.BookkeepingID) (*domain.ParsedEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[id.String()]
	if !ok || entry.UserID != userID {
		return nil, nil
	}

	return &entry, nil
}

// Entries returns every stored entry ordered by id.
func (m *Memory) Entries() []domain.ParsedEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ParsedEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b domain.ParsedEntry) int { return a.ID.Compare(b.ID) })

	return out
}

// AddJob records the job; it is never executed.
func (m *Memory) AddJob(_ context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, Job{Args: args, Opts: opts})

	return true, nil
}

// Jobs returns the recorded jobs in insertion order.
func (m *Memory) Jobs() []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.jobs)
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Begin returns a handle whose Commit and Rollback are no-ops.
func (m *Memory) Begin(_ context.Context) (storage.TxStorage, error) {
	return tx{m}, nil
}

// WithTx invokes cb with the store itself.
func (m *Memory) WithTx(_ context.Context, cb func(storage storage.AllStorage) error) error {
	return cb(m)
}

type tx struct {
	*Memory
}

func (tx) Commit() error   { return nil }
func (tx) Rollback() error { return nil }

var _ storage.Storage = (*Memory)(nil)
