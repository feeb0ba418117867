package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/infrastructure/metrics"
)

// ReworkUseCase reconciles rework flow across the finished goods ledger:
// quantities issued for rework minus quantities already received back, per
// batch id. This is a cross-activity netting, deliberately kept apart from
// the single-ledger grouping in BatchUseCase.
type ReworkUseCase struct {
	entries EntryRepository
	metrics *metrics.Metrics
}

// NewReworkUseCase creates a ReworkUseCase. metrics may be nil.
func NewReworkUseCase(entries EntryRepository, m *metrics.Metrics) *ReworkUseCase {
	return &ReworkUseCase{
		entries: entries,
		metrics: m,
	}
}

// OpenReworkBatches lists batches of the item with rework still outstanding:
// net = issued for rework - received from rework, batches with positive net
// only. Ordered by batch id for stable output.
func (uc *ReworkUseCase) OpenReworkBatches(ctx context.Context, itemName string) ([]*domain.BatchSummary, error) {
	if uc.metrics != nil {
		uc.metrics.BatchQueries.WithLabelValues(string(domain.LedgerFinished), "open_rework").Inc()
	}

	issued, err := uc.entries.ListByItemActivity(ctx, domain.LedgerFinished, itemName, domain.ActivityIssueRework)
	if err != nil {
		return nil, err
	}

	received, err := uc.entries.ListByItemActivity(ctx, domain.LedgerFinished, itemName, domain.ActivityReceiveRework)
	if err != nil {
		return nil, err
	}

	byBatch := map[string]*domain.BatchSummary{}

	for _, e := range issued {
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
		}

		s.Available = s.Available.Add(e.Quantity)
	}

	for _, e := range received {
		s := byBatch[e.BatchID]
		if s == nil {
			// Received without a matching issue nets negative and drops out
			// below; still tracked so the subtraction is complete.
			s = &domain.BatchSummary{
				BatchID:   e.BatchID,
				ItemName:  e.ItemName,
				ItemCode:  e.ItemCode,
				Unit:      e.Unit,
				Available: decimal.Zero,
			}
			byBatch[e.BatchID] = s
		}

		s.Available = s.Available.Sub(e.Quantity)
	}

	open := make([]*domain.BatchSummary, 0, len(byBatch))
	for _, s := range byBatch {
		if s.Available.IsPositive() {
			open = append(open, s)
		}
	}

	sort.Slice(open, func(i, j int) bool {
		return open[i].BatchID < open[j].BatchID
	})

	return open, nil
}
