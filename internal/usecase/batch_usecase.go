package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/infrastructure/metrics"
)

// BatchUseCase is the read side of one ledger flavor: per-batch stock and
// available-batch listings. Reads take no batch lock; a query racing a
// recomputation on another connection sees the pre- or post-cascade snapshot,
// never a negative balance.
type BatchUseCase struct {
	profile domain.LedgerProfile
	entries EntryRepository
	metrics *metrics.Metrics
}

// NewBatchUseCase creates a BatchUseCase. metrics may be nil.
func NewBatchUseCase(profile domain.LedgerProfile, entries EntryRepository, m *metrics.Metrics) *BatchUseCase {
	return &BatchUseCase{
		profile: profile,
		entries: entries,
		metrics: m,
	}
}

// GetBatchStock returns the current stock of one batch: the sum of signed
// quantities over the batch's entries, which by the ledger invariant equals
// the stored balance of the chronologically last entry.
func (uc *BatchUseCase) GetBatchStock(ctx context.Context, itemName, batchID string) (decimal.Decimal, error) {
	uc.countQuery("batch_stock")

	key := domain.BatchKey{Ledger: uc.profile.Name, ItemName: itemName, BatchID: batchID}

	entries, err := uc.entries.ListByBatch(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, e := range entries {
		rule, err := uc.profile.Rule(e.Activity)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(rule.Signed(e.Quantity))
	}

	return total, nil
}

// GetAvailableBatches lists the item's batches with positive stock, ordered
// first-expired-first-out. The optional activity narrows validation to a
// consumption context; it does not change the aggregation.
func (uc *BatchUseCase) GetAvailableBatches(ctx context.Context, itemName string, activity *domain.ActivityKind) ([]*domain.BatchSummary, error) {
	uc.countQuery("available_batches")

	if activity != nil {
		if _, err := uc.profile.Rule(*activity); err != nil {
			return nil, err
		}
	}

	summaries, err := uc.summarize(ctx, itemName)
	if err != nil {
		return nil, err
	}

	available := summaries[:0]
	for _, s := range summaries {
		if s.Available.IsPositive() {
			available = append(available, s)
		}
	}

	sortFEFO(available)

	return available, nil
}

// ListBatchTotals lists every batch of the item with its current total,
// including empty ones. Ordered FEFO like GetAvailableBatches.
func (uc *BatchUseCase) ListBatchTotals(ctx context.Context, itemName string) ([]*domain.BatchSummary, error) {
	uc.countQuery("batch_totals")

	summaries, err := uc.summarize(ctx, itemName)
	if err != nil {
		return nil, err
	}

	sortFEFO(summaries)

	return summaries, nil
}

func (uc *BatchUseCase) summarize(ctx context.Context, itemName string) ([]*domain.BatchSummary, error) {
	entries, err := uc.entries.ListByItem(ctx, uc.profile.Name, itemName)
	if err != nil {
		return nil, err
	}

	byBatch := map[string]*domain.BatchSummary{}

	var order []string
	for _, e := range entries {
		s := byBatch[e.BatchID]
		if s == nil {
			s = &domain.BatchSummary{
				BatchID:   e.BatchID,
				ItemName:  e.ItemName,
				ItemCode:  e.ItemCode,
				Unit:      e.Unit,
				Available: decimal.Zero,
			}
			byBatch[e.BatchID] = s
			order = append(order, e.BatchID)
		}

		rule, err := uc.profile.Rule(e.Activity)
		if err != nil {
			return nil, err
		}

		s.Available = s.Available.Add(rule.Signed(e.Quantity))

		// Earliest inbound expiry wins for the batch.
		if rule.Direction == domain.Inbound && e.ExpiryDate != nil {
			if s.ExpiryDate == nil || e.ExpiryDate.Before(*s.ExpiryDate) {
				expiry := *e.ExpiryDate
				s.ExpiryDate = &expiry
			}
		}
	}

	summaries := make([]*domain.BatchSummary, 0, len(order))
	for _, batchID := range order {
		summaries = append(summaries, byBatch[batchID])
	}

	return summaries, nil
}

// sortFEFO orders summaries by expiry ascending. Batches without an expiry
// sort last; ties keep their relative order.
func sortFEFO(summaries []*domain.BatchSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].ExpiryDate, summaries[j].ExpiryDate

		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

func (uc *BatchUseCase) countQuery(operation string) {
	if uc.metrics != nil {
		uc.metrics.BatchQueries.WithLabelValues(string(uc.profile.Name), operation).Inc()
	}
}
