package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/infrastructure/metrics"
	"github.com/warelot/stockledger/internal/usecase"
)

const entryColumns = `id, ledger, item_name, item_code, unit, batch_id, activity,
       quantity, stored_balance, entry_date, expiry_date, note, document_number, created_at`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
}

// NewEntryRepository creates a new EntryRepository. m may be nil.
func NewEntryRepository(pool *pgxpool.Pool, m *metrics.Metrics) *EntryRepository {
	return &EntryRepository{pool: pool, metrics: m}
}

func (r *EntryRepository) countError(operation string, err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if r.metrics != nil {
		r.metrics.DBErrors.WithLabelValues(operation).Inc()
	}

	return err
}

// Create inserts a new ledger entry within tx.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var expiry pgtype.Timestamptz
	if entry.ExpiryDate != nil {
		expiry = timeToPgTimestamptz(*entry.ExpiryDate)
	}

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		string(entry.Ledger),
		entry.ItemName,
		entry.ItemCode,
		entry.Unit,
		entry.BatchID,
		string(entry.Activity),
		decimalToNumeric(entry.Quantity),
		decimalToNumeric(entry.StoredBalance),
		timeToPgTimestamptz(entry.Date),
		expiry,
		entry.Note,
		entry.DocumentNumber,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return r.countError("create", err)
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, r.countError("get_by_id", err)
	}

	return entry, nil
}

// Delete removes an entry within tx.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return r.countError("delete", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// ListByBatchForUpdate returns a batch's entries in replay order and locks
// the rows for the duration of tx. This is the cross-process serialization
// point for the insert-then-cascade sequence.
func (r *EntryRepository) ListByBatchForUpdate(ctx context.Context, tx usecase.Transaction, key domain.BatchKey) ([]*domain.LedgerEntry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE ledger = $1 AND item_name = $2 AND batch_id = $3
		ORDER BY entry_date, id
		FOR UPDATE
	`

	rows, err := pgxTx.Query(ctx, query, string(key.Ledger), key.ItemName, key.BatchID)
	if err != nil {
		return nil, r.countError("list_batch_for_update", err)
	}

	entries, err := scanEntries(rows)

	return entries, r.countError("list_batch_for_update", err)
}

// ListByBatch returns a batch's entries in replay order.
func (r *EntryRepository) ListByBatch(ctx context.Context, key domain.BatchKey) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE ledger = $1 AND item_name = $2 AND batch_id = $3
		ORDER BY entry_date, id
	`

	rows, err := r.pool.Query(ctx, query, string(key.Ledger), key.ItemName, key.BatchID)
	if err != nil {
		return nil, r.countError("list_batch", err)
	}

	entries, err := scanEntries(rows)

	return entries, r.countError("list_batch", err)
}

// ListByItem returns every entry of an item in one ledger, replay ordered.
func (r *EntryRepository) ListByItem(ctx context.Context, ledger domain.Ledger, itemName string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE ledger = $1 AND item_name = $2
		ORDER BY entry_date, id
	`

	rows, err := r.pool.Query(ctx, query, string(ledger), itemName)
	if err != nil {
		return nil, r.countError("list_item", err)
	}

	entries, err := scanEntries(rows)

	return entries, r.countError("list_item", err)
}

// ListByItemActivity returns an item's entries of one activity kind.
func (r *EntryRepository) ListByItemActivity(ctx context.Context, ledger domain.Ledger, itemName string, kind domain.ActivityKind) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE ledger = $1 AND item_name = $2 AND activity = $3
		ORDER BY entry_date, id
	`

	rows, err := r.pool.Query(ctx, query, string(ledger), itemName, string(kind))
	if err != nil {
		return nil, r.countError("list_item_activity", err)
	}

	entries, err := scanEntries(rows)

	return entries, r.countError("list_item_activity", err)
}

// UpdateBalances rewrites stored balances in bulk within tx, one batched
// round trip for the whole cascade.
func (r *EntryRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, updates []usecase.BalanceUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(
			`UPDATE ledger_entries SET stored_balance = $1 WHERE id = $2`,
			decimalToNumeric(u.Balance), u.EntryID,
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range updates {
		if _, err := results.Exec(); err != nil {
			return r.countError("update_balances", err)
		}
	}

	return r.countError("update_balances", results.Close())
}

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry    domain.LedgerEntry
		ledger   string
		activity string
		quantity pgtype.Numeric
		balance  pgtype.Numeric
		date     pgtype.Timestamptz
		expiry   pgtype.Timestamptz
		created  pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&ledger,
		&entry.ItemName,
		&entry.ItemCode,
		&entry.Unit,
		&entry.BatchID,
		&activity,
		&quantity,
		&balance,
		&date,
		&expiry,
		&entry.Note,
		&entry.DocumentNumber,
		&created,
	)
	if err != nil {
		return nil, err
	}

	entry.Ledger = domain.Ledger(ledger)
	entry.Activity = domain.ActivityKind(activity)
	entry.Quantity = numericToDecimal(quantity)
	entry.StoredBalance = numericToDecimal(balance)
	entry.Date = date.Time
	entry.CreatedAt = created.Time

	if expiry.Valid {
		t := expiry.Time
		entry.ExpiryDate = &t
	}

	return &entry, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
