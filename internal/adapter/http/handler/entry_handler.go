package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warelot/stockledger/internal/adapter/http/dto"
	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/usecase"
)

// LedgerService defines the write behavior needed by EntryHandler.
type LedgerService interface {
	Insert(ctx context.Context, input usecase.InsertInput) (*domain.LedgerEntry, error)
	Delete(ctx context.Context, entryID string) error
}

// EntryHandler handles ledger entry HTTP requests. One handler serves every
// ledger flavor; the {ledger} URL segment picks the use case.
type EntryHandler struct {
	ledgers map[domain.Ledger]LedgerService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(ledgers map[domain.Ledger]LedgerService) *EntryHandler {
	return &EntryHandler{ledgers: ledgers}
}

// Create records a new ledger entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	uc, err := h.ledgerFor(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := uc.Insert(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Delete removes a ledger entry and replays its batch.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uc, err := h.ledgerFor(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	if err := uc.Delete(r.Context(), entryID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EntryHandler) ledgerFor(r *http.Request) (LedgerService, error) {
	name := chi.URLParam(r, "ledger")

	uc, ok := h.ledgers[domain.Ledger(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownLedger, name)
	}

	return uc, nil
}
