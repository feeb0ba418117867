package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warelot/stockledger/internal/domain"
)

// ItemDirectory resolves item master data from the items table. It sits
// behind the usecase directory cache, so every Lookup here is a cache miss.
type ItemDirectory struct {
	pool *pgxpool.Pool
}

// NewItemDirectory creates a new ItemDirectory.
func NewItemDirectory(pool *pgxpool.Pool) *ItemDirectory {
	return &ItemDirectory{pool: pool}
}

// Lookup fetches one item by name. The second return reports existence;
// a missing item is not an error.
func (d *ItemDirectory) Lookup(ctx context.Context, name string) (domain.Item, bool, error) {
	query := `SELECT name, code, unit, active FROM items WHERE name = $1`

	var item domain.Item

	err := d.pool.QueryRow(ctx, query, name).Scan(&item.Name, &item.Code, &item.Unit, &item.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, false, nil
		}

		return domain.Item{}, false, err
	}

	return item, true, nil
}
