package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDeriveBatchCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		itemCode string
		date     time.Time
		want     string
	}{
		{
			name:     "single digit day and month zero padded",
			itemCode: "WDG",
			date:     time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC),
			want:     "WDG-070325",
		},
		{
			name:     "double digit day and month",
			itemCode: "FLR",
			date:     time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC),
			want:     "FLR-311224",
		},
		{
			name:     "lowercase item code upper cased",
			itemCode: "wdg",
			date:     time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC),
			want:     "WDG-070325",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveBatchCode(tt.itemCode, tt.date)
			if got != tt.want {
				t.Errorf("DeriveBatchCode(%q, %v) = %q, want %q", tt.itemCode, tt.date, got, tt.want)
			}
		})
	}
}

func TestDeriveBatchCode_Deterministic(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)

	first := DeriveBatchCode("WDG", date)
	second := DeriveBatchCode("WDG", date)

	if first != second {
		t.Errorf("expected identical batch ids, got %q and %q", first, second)
	}
}

func TestValidateManualBatchID(t *testing.T) {
	t.Parallel()

	t.Run("valid batch id", func(t *testing.T) {
		if err := ValidateManualBatchID("WDG", "WDG-070325"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("missing prefix rejected", func(t *testing.T) {
		err := ValidateManualBatchID("WDG", "FLR-070325")
		if !errors.Is(err, ErrInvalidBatchFormat) {
			t.Fatalf("expected ErrInvalidBatchFormat, got %v", err)
		}
	})

	t.Run("bare prefix without suffix rejected", func(t *testing.T) {
		err := ValidateManualBatchID("WDG", "WDG-")
		if !errors.Is(err, ErrInvalidBatchFormat) {
			t.Fatalf("expected ErrInvalidBatchFormat, got %v", err)
		}
	})

	t.Run("missing dash rejected", func(t *testing.T) {
		err := ValidateManualBatchID("WDG", "WDG070325")
		if !errors.Is(err, ErrInvalidBatchFormat) {
			t.Fatalf("expected ErrInvalidBatchFormat, got %v", err)
		}
	})
}
