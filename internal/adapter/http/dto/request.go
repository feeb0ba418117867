package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/usecase"
)

// CreateEntryRequest represents a request to record a ledger entry.
type CreateEntryRequest struct {
	Date           time.Time       `json:"date"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	Activity       string          `json:"activity"`
	ItemName       string          `json:"item_name"`
	BatchID        string          `json:"batch_id,omitempty"`
	Note           string          `json:"note,omitempty"`
	DocumentNumber string          `json:"document_number"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() usecase.InsertInput {
	return usecase.InsertInput{
		Date:           r.Date,
		ExpiryDate:     r.ExpiryDate,
		Activity:       domain.ActivityKind(r.Activity),
		ItemName:       r.ItemName,
		BatchID:        r.BatchID,
		Note:           r.Note,
		DocumentNumber: r.DocumentNumber,
		Quantity:       r.Quantity,
	}
}
