package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warelot/stockledger/internal/domain"
)

// EntryRepository defines data access for ledger entries. List methods return
// entries ordered by (date, id) ascending, which is replay order.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	// ListByBatchForUpdate locks the batch's rows for the duration of tx.
	ListByBatchForUpdate(ctx context.Context, tx Transaction, key domain.BatchKey) ([]*domain.LedgerEntry, error)
	ListByBatch(ctx context.Context, key domain.BatchKey) ([]*domain.LedgerEntry, error)
	ListByItem(ctx context.Context, ledger domain.Ledger, itemName string) ([]*domain.LedgerEntry, error)
	ListByItemActivity(ctx context.Context, ledger domain.Ledger, itemName string, kind domain.ActivityKind) ([]*domain.LedgerEntry, error)
	UpdateBalances(ctx context.Context, tx Transaction, updates []BalanceUpdate) error
}

// BalanceUpdate is one stored-balance rewrite produced by cascade
// recomputation.
type BalanceUpdate struct {
	EntryID string
	Balance decimal.Decimal
}

// ItemDirectory resolves item names against the item master.
type ItemDirectory interface {
	Lookup(ctx context.Context, itemName string) (domain.Item, bool, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique, lexicographically time-ordered IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient, retryable failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage for the request layer.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
