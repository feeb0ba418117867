package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warelot/stockledger/internal/adapter/http/dto"
	"github.com/warelot/stockledger/internal/domain"
)

// BatchService defines the read behavior needed by BatchHandler.
type BatchService interface {
	GetBatchStock(ctx context.Context, itemName, batchID string) (decimal.Decimal, error)
	GetAvailableBatches(ctx context.Context, itemName string, activity *domain.ActivityKind) ([]*domain.BatchSummary, error)
	ListBatchTotals(ctx context.Context, itemName string) ([]*domain.BatchSummary, error)
}

// ReworkService defines the rework reconciliation behavior needed by
// BatchHandler.
type ReworkService interface {
	OpenReworkBatches(ctx context.Context, itemName string) ([]*domain.BatchSummary, error)
}

// BatchHandler handles batch query HTTP requests.
type BatchHandler struct {
	batches map[domain.Ledger]BatchService
	rework  ReworkService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batches map[domain.Ledger]BatchService, rework ReworkService) *BatchHandler {
	return &BatchHandler{batches: batches, rework: rework}
}

// ListAvailable lists the item's batches with positive stock, expiry first.
// Pass ?all=true to include empty batches; ?activity= validates the kind
// against the ledger's profile.
func (h *BatchHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	uc, err := h.batchesFor(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	itemName := chi.URLParam(r, "item")
	if itemName == "" {
		writeError(w, http.StatusBadRequest, "missing item name", "")
		return
	}

	if r.URL.Query().Get("all") == "true" {
		summaries, err := uc.ListBatchTotals(r.Context(), itemName)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dto.BatchesFromDomain(summaries))
		return
	}

	var activity *domain.ActivityKind
	if raw := r.URL.Query().Get("activity"); raw != "" {
		kind := domain.ActivityKind(raw)
		activity = &kind
	}

	summaries, err := uc.GetAvailableBatches(r.Context(), itemName, activity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchesFromDomain(summaries))
}

// GetStock reports the current stock of one batch.
func (h *BatchHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	uc, err := h.batchesFor(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	itemName := chi.URLParam(r, "item")
	batchID := chi.URLParam(r, "batch")
	if itemName == "" || batchID == "" {
		writeError(w, http.StatusBadRequest, "missing item name or batch ID", "")
		return
	}

	stock, err := uc.GetBatchStock(r.Context(), itemName, batchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StockResponse{
		ItemName: itemName,
		BatchID:  batchID,
		Stock:    stock,
	})
}

// ListOpenRework lists finished goods batches with rework still outstanding.
func (h *BatchHandler) ListOpenRework(w http.ResponseWriter, r *http.Request) {
	itemName := chi.URLParam(r, "item")
	if itemName == "" {
		writeError(w, http.StatusBadRequest, "missing item name", "")
		return
	}

	summaries, err := h.rework.OpenReworkBatches(r.Context(), itemName)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchesFromDomain(summaries))
}

func (h *BatchHandler) batchesFor(r *http.Request) (BatchService, error) {
	name := chi.URLParam(r, "ledger")

	uc, ok := h.batches[domain.Ledger(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownLedger, name)
	}

	return uc, nil
}
