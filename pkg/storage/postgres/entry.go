package postgres

import (
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/storage"
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const (
	entriesTable = "entries"
)

// StoreEntry appends an entry to the entries table. Entries are never updated.
func (p *PgSQL) StoreEntry(ctx context.Context, entry domain.ParsedEntry) error {
	var row PgEntry
	row.FromDomain(entry)

	if _, err := p.Builder.Insert(entriesTable).Rows(row).Executor().ExecContext(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("could not store entry %s: %w", row.ID, storage.ErrDuplicateEntry)
		}

		return fmt.Errorf("could not store entry into pg: %w", err)
	}

	return nil
}

// EntryByID returns the user's entry with the given id, or nil when not found.
func (p *PgSQL) EntryByID(ctx context.Context, userID domain.UserID, id domain.BookkeepingID) (*domain.ParsedEntry, error) {
	var row PgEntry
	found, err := p.Builder.From(entriesTable).
		Where(
			goqu.I("id").Eq(id.String()),
			goqu.I("user_id").Eq(string(userID)),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch entry by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}
