package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTruncateNote(t *testing.T) {
	t.Parallel()

	short := "received from line 2"
	if got := TruncateNote(short); got != short {
		t.Errorf("short note changed: %q", got)
	}

	long := strings.Repeat("x", MaxNoteLength+25)
	got := TruncateNote(long)
	if len([]rune(got)) != MaxNoteLength {
		t.Errorf("truncated length = %d, want %d", len([]rune(got)), MaxNoteLength)
	}

	// Multi-byte runes must not be split.
	wide := strings.Repeat("ノ", MaxNoteLength+1)
	got = TruncateNote(wide)
	if len([]rune(got)) != MaxNoteLength {
		t.Errorf("rune truncated length = %d, want %d", len([]rune(got)), MaxNoteLength)
	}
}

func TestValidateDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)

	if err := ValidateDate(now.Add(-time.Hour), now); err != nil {
		t.Fatalf("past date rejected: %v", err)
	}

	if err := ValidateDate(now, now); err != nil {
		t.Fatalf("current time rejected: %v", err)
	}

	if err := ValidateDate(now.Add(time.Minute), now); !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
}

func TestValidateQuantity(t *testing.T) {
	t.Parallel()

	if err := ValidateQuantity(decimal.NewFromFloat(0.5)); err != nil {
		t.Fatalf("positive quantity rejected: %v", err)
	}

	if err := ValidateQuantity(decimal.Zero); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for zero, got %v", err)
	}

	if err := ValidateQuantity(decimal.NewFromInt(-3)); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for negative, got %v", err)
	}
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	inbound := ActivityRule{Direction: Inbound, ExpiryRequired: true}
	outbound := ActivityRule{Direction: Outbound}

	t.Run("inbound requires expiry", func(t *testing.T) {
		if err := ValidateExpiry(inbound, nil, date); !errors.Is(err, ErrExpiryRequired) {
			t.Fatalf("expected ErrExpiryRequired, got %v", err)
		}
	})

	t.Run("expiry before date rejected", func(t *testing.T) {
		expiry := date.AddDate(0, 0, -1)
		if err := ValidateExpiry(inbound, &expiry, date); !errors.Is(err, ErrExpiryBeforeDate) {
			t.Fatalf("expected ErrExpiryBeforeDate, got %v", err)
		}
	})

	t.Run("expiry equal to date accepted", func(t *testing.T) {
		expiry := date
		if err := ValidateExpiry(inbound, &expiry, date); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("outbound ignores expiry", func(t *testing.T) {
		if err := ValidateExpiry(outbound, nil, date); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestInsufficientStockError(t *testing.T) {
	t.Parallel()

	err := &InsufficientStockError{
		Available: decimal.NewFromInt(70),
		Requested: decimal.NewFromInt(1000),
	}

	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatal("expected error to match ErrInsufficientStock")
	}

	msg := err.Error()
	if !strings.Contains(msg, "70") || !strings.Contains(msg, "1000") {
		t.Errorf("message missing amounts: %q", msg)
	}
}
