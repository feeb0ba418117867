package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeriveBatchCode builds the auto-generated batch id for an item and date:
// item code, a dash, and the date as DDMMYY, upper-cased. Two auto-batched
// entries for the same item on the same calendar day land in the same batch;
// auto batches are daily buckets, not per-transaction identifiers.
func DeriveBatchCode(itemCode string, date time.Time) string {
	stamp := fmt.Sprintf("%02d%02d%02d", date.Day(), int(date.Month()), date.Year()%100)

	return strings.ToUpper(itemCode + "-" + stamp)
}

// ValidateManualBatchID checks a caller-supplied batch id against the item it
// claims to belong to. The id must start with the item code plus a dash and
// carry at least one character after that prefix.
func ValidateManualBatchID(itemCode, batchID string) error {
	prefix := itemCode + "-"

	if !strings.HasPrefix(batchID, prefix) {
		return fmt.Errorf("%w: batch id %q must start with %q", ErrInvalidBatchFormat, batchID, prefix)
	}

	if len(batchID) == len(prefix) {
		return fmt.Errorf("%w: batch id %q has no suffix after %q", ErrInvalidBatchFormat, batchID, prefix)
	}

	return nil
}
