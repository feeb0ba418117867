package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a single dated stock transaction. Entries are append-and-delete
// only; the one field ever rewritten in place is StoredBalance, during cascade
// recomputation.
type LedgerEntry struct {
	Date           time.Time
	CreatedAt      time.Time
	ExpiryDate     *time.Time
	ID             string
	Ledger         Ledger
	ItemName       string
	ItemCode       string
	Unit           string
	BatchID        string
	Activity       ActivityKind
	Note           string
	DocumentNumber string
	Quantity       decimal.Decimal
	// StoredBalance is the batch's running stock immediately after this entry,
	// in (Date, ID) order. Never negative.
	StoredBalance decimal.Decimal
}

// Key returns the batch key scoping this entry's running balance.
func (e *LedgerEntry) Key() BatchKey {
	return BatchKey{Ledger: e.Ledger, ItemName: e.ItemName, BatchID: e.BatchID}
}

// Before reports whether this entry sorts ahead of other in replay order.
// Date first, ULID id as the stable tie-break.
func (e *LedgerEntry) Before(other *LedgerEntry) bool {
	if !e.Date.Equal(other.Date) {
		return e.Date.Before(other.Date)
	}

	return e.ID < other.ID
}

// BatchKey scopes a running balance. All write operations touching the same
// key are strictly serialized.
type BatchKey struct {
	Ledger   Ledger
	ItemName string
	BatchID  string
}

// String returns a stable lock/cache key representation.
func (k BatchKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Ledger, k.ItemName, k.BatchID)
}

// BatchSummary is an aggregated per-batch view produced by batch queries.
type BatchSummary struct {
	ExpiryDate *time.Time
	BatchID    string
	ItemName   string
	ItemCode   string
	Unit       string
	Available  decimal.Decimal
}
