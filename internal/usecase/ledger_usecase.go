package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/infrastructure/metrics"
)

// LedgerUseCase is the write side of one ledger flavor: validated insertion,
// deletion, and the cascade recomputation that keeps every stored balance
// consistent with (date, id) replay order. One instance serves one profile;
// finished goods and raw materials are two instances of the same code.
type LedgerUseCase struct {
	profile   domain.LedgerProfile
	txManager TransactionManager
	entries   EntryRepository
	directory *DirectoryCache
	idGen     IDGenerator
	retrier   Retrier
	locks     *batchLocks
	metrics   *metrics.Metrics
}

// NewLedgerUseCase creates a LedgerUseCase. retrier and metrics may be nil.
func NewLedgerUseCase(
	profile domain.LedgerProfile,
	txManager TransactionManager,
	entries EntryRepository,
	directory *DirectoryCache,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		profile:   profile,
		txManager: txManager,
		entries:   entries,
		directory: directory,
		idGen:     idGen,
		retrier:   retrier,
		locks:     newBatchLocks(),
		metrics:   m,
	}
}

// InsertInput represents a candidate ledger entry.
type InsertInput struct {
	Date           time.Time
	ExpiryDate     *time.Time
	Activity       domain.ActivityKind
	ItemName       string
	BatchID        string
	Note           string
	DocumentNumber string
	Quantity       decimal.Decimal
}

// Insert validates a candidate entry, persists it with its stored balance and
// rewrites the balances of every entry in the batch dated after it. The
// persist-then-cascade sequence runs in one transaction; a rejected candidate
// leaves no trace.
func (uc *LedgerUseCase) Insert(ctx context.Context, input InsertInput) (*domain.LedgerEntry, error) {
	started := time.Now()

	entry, err := uc.insert(ctx, input)
	if err != nil {
		uc.countRejection(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesInserted.WithLabelValues(string(uc.profile.Name), string(entry.Activity)).Inc()
		uc.metrics.InsertDuration.Observe(time.Since(started).Seconds())
	}

	return entry, nil
}

func (uc *LedgerUseCase) insert(ctx context.Context, input InsertInput) (*domain.LedgerEntry, error) {
	rule, err := uc.profile.Rule(input.Activity)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.DocumentNumber) == "" {
		return nil, domain.ErrMissingDocument
	}

	now := time.Now().UTC()
	if err := domain.ValidateDate(input.Date, now); err != nil {
		return nil, err
	}

	item, err := uc.directory.Resolve(ctx, input.ItemName)
	if err != nil {
		return nil, err
	}

	if !item.Active {
		return nil, fmt.Errorf("%w: %q", domain.ErrItemInactive, input.ItemName)
	}

	batchID, err := uc.resolveBatchID(rule, item.Code, input.BatchID, input.Date)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateExpiry(rule, input.ExpiryDate, input.Date); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:             uc.idGen.Generate(),
		Ledger:         uc.profile.Name,
		ItemName:       input.ItemName,
		ItemCode:       item.Code,
		Unit:           item.Unit, // directory unit is authoritative
		BatchID:        batchID,
		Activity:       input.Activity,
		Quantity:       input.Quantity,
		Date:           input.Date,
		ExpiryDate:     input.ExpiryDate,
		Note:           domain.TruncateNote(input.Note),
		DocumentNumber: input.DocumentNumber,
		CreatedAt:      now,
	}

	key := entry.Key()

	unlock := uc.locks.Acquire(key.String())
	defer unlock()

	err = uc.transact(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		existing, err := uc.entries.ListByBatchForUpdate(ctx, tx, key)
		if err != nil {
			return err
		}

		// The new entry's ULID sorts after every existing id, so a date
		// tie places it behind the entries already recorded for that
		// date.
		preBalance := decimal.Zero
		var tail []*domain.LedgerEntry
		for _, e := range existing {
			if e.Date.After(entry.Date) {
				tail = append(tail, e)
				continue
			}

			signed, err := uc.signedQuantity(e)
			if err != nil {
				return err
			}
			preBalance = preBalance.Add(signed)
		}

		if rule.Direction == domain.Outbound && preBalance.LessThan(input.Quantity) {
			return &domain.InsufficientStockError{Available: preBalance, Requested: input.Quantity}
		}

		entry.StoredBalance = preBalance.Add(rule.Signed(input.Quantity))

		if err := uc.entries.Create(ctx, tx, entry); err != nil {
			return err
		}

		updates, err := uc.replayTail(entry.StoredBalance, tail)
		if err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := uc.entries.UpdateBalances(ctx, tx, updates); err != nil {
				return err
			}
		}

		if uc.metrics != nil {
			uc.metrics.CascadeLength.Observe(float64(len(updates)))
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.directory.Invalidate(entry.ItemName)

	return entry, nil
}

// Delete removes an entry and replays the whole remaining batch from zero,
// rewriting every stored balance. Deliberately more conservative than the
// tail-only replay on insert; batches stay small and the full replay keeps
// the correctness argument trivial.
func (uc *LedgerUseCase) Delete(ctx context.Context, entryID string) error {
	entry, err := uc.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}

	if entry.Ledger != uc.profile.Name {
		return fmt.Errorf("%w: %q", domain.ErrEntryNotFound, entryID)
	}

	key := entry.Key()

	unlock := uc.locks.Acquire(key.String())
	defer unlock()

	err = uc.transact(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		existing, err := uc.entries.ListByBatchForUpdate(ctx, tx, key)
		if err != nil {
			return err
		}

		if err := uc.entries.Delete(ctx, tx, entryID); err != nil {
			return err
		}

		remaining := make([]*domain.LedgerEntry, 0, len(existing))
		for _, e := range existing {
			if e.ID != entryID {
				remaining = append(remaining, e)
			}
		}

		updates, err := uc.replayTail(decimal.Zero, remaining)
		if err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := uc.entries.UpdateBalances(ctx, tx, updates); err != nil {
				return err
			}
		}

		if uc.metrics != nil {
			uc.metrics.CascadeLength.Observe(float64(len(updates)))
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	uc.directory.Invalidate(entry.ItemName)

	if uc.metrics != nil {
		uc.metrics.EntriesDeleted.WithLabelValues(string(uc.profile.Name)).Inc()
	}

	return nil
}

// transact runs fn through the retrier when one is configured. Deadlocks
// between overlapping batch transactions resolve by rerunning the whole
// read-compute-write sequence.
func (uc *LedgerUseCase) transact(ctx context.Context, fn func() error) error {
	if uc.retrier == nil {
		return fn()
	}

	return uc.retrier.Retry(ctx, fn)
}

// replayTail recomputes stored balances for entries (already in replay order)
// starting from an opening balance. The scan is sequential: every balance
// depends on the one before it. A replay that dips negative rejects the whole
// operation, keeping the non-negative invariant over the full batch, not just
// at the insertion point.
func (uc *LedgerUseCase) replayTail(opening decimal.Decimal, entries []*domain.LedgerEntry) ([]BalanceUpdate, error) {
	running := opening

	updates := make([]BalanceUpdate, 0, len(entries))
	for _, e := range entries {
		signed, err := uc.signedQuantity(e)
		if err != nil {
			return nil, err
		}

		before := running
		running = running.Add(signed)
		if running.IsNegative() {
			return nil, &domain.InsufficientStockError{Available: before, Requested: e.Quantity}
		}

		if !running.Equal(e.StoredBalance) {
			updates = append(updates, BalanceUpdate{EntryID: e.ID, Balance: running})
		}
	}

	return updates, nil
}

func (uc *LedgerUseCase) resolveBatchID(rule domain.ActivityRule, itemCode, batchID string, date time.Time) (string, error) {
	batchID = strings.TrimSpace(batchID)

	if rule.BatchMode == domain.BatchAuto {
		if batchID == "" {
			return domain.DeriveBatchCode(itemCode, date), nil
		}

		return batchID, nil
	}

	if batchID == "" {
		return "", domain.ErrMissingBatch
	}

	if err := domain.ValidateManualBatchID(itemCode, batchID); err != nil {
		return "", err
	}

	return batchID, nil
}

func (uc *LedgerUseCase) signedQuantity(e *domain.LedgerEntry) (decimal.Decimal, error) {
	rule, err := uc.profile.Rule(e.Activity)
	if err != nil {
		return decimal.Zero, fmt.Errorf("entry %s: %w", e.ID, err)
	}

	return rule.Signed(e.Quantity), nil
}

func (uc *LedgerUseCase) countRejection(err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.EntriesRejected.WithLabelValues(string(uc.profile.Name), rejectionReason(err)).Inc()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, domain.ErrItemInactive):
		return "item_inactive"
	case errors.Is(err, domain.ErrFutureDate):
		return "future_date"
	case errors.Is(err, domain.ErrInvalidBatchFormat), errors.Is(err, domain.ErrMissingBatch):
		return "bad_batch"
	case errors.Is(err, domain.ErrExpiryRequired), errors.Is(err, domain.ErrExpiryBeforeDate):
		return "bad_expiry"
	case errors.Is(err, domain.ErrUnknownActivity):
		return "unknown_activity"
	default:
		return "other"
	}
}
