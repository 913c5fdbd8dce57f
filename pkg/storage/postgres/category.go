package postgres

import (
	"bookkeeper/pkg/domain"
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const (
	categoriesTable = "categories"
)

// GetCategories returns the user's categories ordered by their directory position.
func (p *PgSQL) GetCategories(ctx context.Context, userID domain.UserID) ([]domain.CategoryRecord, error) {
	var rows []PgCategory
	if err := p.Builder.From(categoriesTable).
		Where(goqu.I("user_id").Eq(string(userID))).
		Order(goqu.I("position").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch categories from pg: %w", err)
	}

	out := make([]domain.CategoryRecord, 0, len(rows))
	for i := range rows {
		c, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, nil
}

// ReplaceCategories deletes the user's directory and inserts the given
// categories in order. Call it inside WithTx to make the swap atomic.
func (p *PgSQL) ReplaceCategories(ctx context.Context, userID domain.UserID, categories ...domain.CategoryRecord) error {
	if _, err := p.Builder.Delete(categoriesTable).
		Where(goqu.I("user_id").Eq(string(userID))).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not delete categories in pg: %w", err)
	}
	if len(categories) == 0 {
		return nil
	}

	rows := make([]PgCategory, len(categories))
	for i := range categories {
		if err := rows[i].FromDomain(userID, i, categories[i]); err != nil {
			return err
		}
	}

	if _, err := p.Builder.Insert(categoriesTable).Rows(rows).Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not store categories into pg: %w", err)
	}

	return nil
}
