package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	// MaxNoteLength is the longest a note may be; longer notes are silently
	// truncated, not rejected.
	MaxNoteLength = 100
)

// TruncateNote cuts a note down to MaxNoteLength characters. Counted in
// runes so multi-byte text is not split mid-character.
func TruncateNote(note string) string {
	runes := []rune(note)
	if len(runes) <= MaxNoteLength {
		return note
	}

	return string(runes[:MaxNoteLength])
}

// ValidateDate rejects dates strictly after now.
func ValidateDate(date, now time.Time) error {
	if date.After(now) {
		return fmt.Errorf("%w: %s", ErrFutureDate, date.Format(time.RFC3339))
	}

	return nil
}

// ValidateQuantity rejects zero and negative quantities.
func ValidateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}

	return nil
}

// ValidateExpiry enforces the expiry rules for one activity rule: inbound
// kinds require an expiry on or after the transaction date, all other kinds
// ignore the field entirely.
func ValidateExpiry(rule ActivityRule, expiry *time.Time, date time.Time) error {
	if !rule.ExpiryRequired {
		return nil
	}

	if expiry == nil {
		return ErrExpiryRequired
	}

	if expiry.Before(date) {
		return fmt.Errorf("%w: expiry %s, transaction %s",
			ErrExpiryBeforeDate,
			expiry.Format("2006-01-02"),
			date.Format("2006-01-02"))
	}

	return nil
}
