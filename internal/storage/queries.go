package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type ReferenceRateRow struct {
	ID         int64
	Name       string
	MinPercent sql.NullFloat64
	MaxPercent sql.NullFloat64
	Note       string
	SortOrder  int64
}

const listReferenceRates = `
SELECT id, name, min_percent, max_percent, note, sort_order
FROM reference_rates
ORDER BY sort_order, name
`

func (q *Queries) ListReferenceRates(ctx context.Context) ([]ReferenceRateRow, error) {
	rows, err := q.db.QueryContext(ctx, listReferenceRates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReferenceRateRow
	for rows.Next() {
		var i ReferenceRateRow
		if err := rows.Scan(&i.ID, &i.Name, &i.MinPercent, &i.MaxPercent, &i.Note, &i.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countReferenceRates = `SELECT COUNT(*) FROM reference_rates`

func (q *Queries) CountReferenceRates(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countReferenceRates).Scan(&n)
	return n, err
}
