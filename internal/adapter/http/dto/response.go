package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warelot/stockledger/internal/domain"
)

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID             string          `json:"id"`
	Ledger         string          `json:"ledger"`
	ItemName       string          `json:"item_name"`
	ItemCode       string          `json:"item_code"`
	Unit           string          `json:"unit"`
	BatchID        string          `json:"batch_id"`
	Activity       string          `json:"activity"`
	Quantity       decimal.Decimal `json:"quantity"`
	Balance        decimal.Decimal `json:"balance"`
	Date           time.Time       `json:"date"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	Note           string          `json:"note,omitempty"`
	DocumentNumber string          `json:"document_number"`
	CreatedAt      time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		Ledger:         string(e.Ledger),
		ItemName:       e.ItemName,
		ItemCode:       e.ItemCode,
		Unit:           e.Unit,
		BatchID:        e.BatchID,
		Activity:       string(e.Activity),
		Quantity:       e.Quantity,
		Balance:        e.StoredBalance,
		Date:           e.Date,
		ExpiryDate:     e.ExpiryDate,
		Note:           e.Note,
		DocumentNumber: e.DocumentNumber,
		CreatedAt:      e.CreatedAt,
	}
}

// BatchResponse represents an aggregated batch in API responses.
type BatchResponse struct {
	BatchID    string          `json:"batch_id"`
	ItemName   string          `json:"item_name"`
	ItemCode   string          `json:"item_code"`
	Unit       string          `json:"unit"`
	Available  decimal.Decimal `json:"available"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// BatchFromDomain converts a domain batch summary to a response.
func BatchFromDomain(s *domain.BatchSummary) *BatchResponse {
	return &BatchResponse{
		BatchID:    s.BatchID,
		ItemName:   s.ItemName,
		ItemCode:   s.ItemCode,
		Unit:       s.Unit,
		Available:  s.Available,
		ExpiryDate: s.ExpiryDate,
	}
}

// BatchesFromDomain converts domain batch summaries to responses.
func BatchesFromDomain(summaries []*domain.BatchSummary) []*BatchResponse {
	result := make([]*BatchResponse, len(summaries))
	for i, s := range summaries {
		result[i] = BatchFromDomain(s)
	}
	return result
}

// StockResponse reports the current stock of one batch.
type StockResponse struct {
	ItemName string          `json:"item_name"`
	BatchID  string          `json:"batch_id"`
	Stock    decimal.Decimal `json:"stock"`
}

// ErrorResponse represents an error in API responses. Available and Requested
// are populated for insufficient stock rejections only.
type ErrorResponse struct {
	Error     string           `json:"error"`
	Message   string           `json:"message,omitempty"`
	Available *decimal.Decimal `json:"available,omitempty"`
	Requested *decimal.Decimal `json:"requested,omitempty"`
}
