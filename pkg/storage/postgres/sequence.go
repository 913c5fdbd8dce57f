package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const (
	sequencesTable = "entry_sequences"
)

// AtomicIncrement bumps the counter of datePart and returns the new value in a
// single upsert statement. The row lock taken by ON CONFLICT DO UPDATE
// serializes callers of the same date until their transaction ends; other dates
// use other rows and never wait on each other.
func (p *PgSQL) AtomicIncrement(ctx context.Context, datePart string) (int64, error) {
	var value int64
	found, err := p.Builder.Insert(sequencesTable).
		Rows(goqu.Record{
			"date_part": datePart,
			"value":     1,
		}).
		OnConflict(goqu.DoUpdate("date_part", goqu.Record{
			"value":      goqu.L(sequencesTable + ".value + 1"),
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Returning("value").
		Executor().ScanValContext(ctx, &value)
	if err != nil {
		return 0, fmt.Errorf("could not increment sequence in pg: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("sequence upsert for %s returned no row", datePart)
	}

	return value, nil
}
