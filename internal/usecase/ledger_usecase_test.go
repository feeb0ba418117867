package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/usecase"
	"github.com/warelot/stockledger/internal/usecase/mocks"
)

type gateFixture struct {
	entries   *mocks.MockEntryRepository
	txManager *mocks.MockTransactionManager
	directory *mocks.MockItemDirectory
	idGen     *mocks.MockIDGenerator
	uc        *usecase.LedgerUseCase
}

func newGateFixture(t *testing.T, ctrl *gomock.Controller) *gateFixture {
	t.Helper()

	f := &gateFixture{
		entries:   mocks.NewMockEntryRepository(ctrl),
		txManager: mocks.NewMockTransactionManager(ctrl),
		directory: mocks.NewMockItemDirectory(ctrl),
		idGen:     mocks.NewMockIDGenerator(ctrl),
	}

	cache := usecase.NewDirectoryCache(f.directory, time.Minute, time.Minute, nil)
	t.Cleanup(cache.Close)

	f.uc = usecase.NewLedgerUseCase(domain.FinishedGoodsProfile(), f.txManager, f.entries, cache, f.idGen, nil, nil)

	return f
}

func widget() domain.Item {
	return domain.Item{Name: "Widget", Code: "WDG", Unit: "PCS", Active: true}
}

func validInput() usecase.InsertInput {
	expiry := time.Now().UTC().AddDate(0, 3, 0)

	return usecase.InsertInput{
		Date:           time.Now().UTC().Add(-time.Hour),
		Activity:       domain.ActivityProduction,
		ItemName:       "Widget",
		Quantity:       decimal.NewFromInt(100),
		ExpiryDate:     &expiry,
		DocumentNumber: "PRD-100",
	}
}

func TestLedgerUseCase_Insert_FutureDateRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)

	input := validInput()
	input.Date = time.Now().UTC().Add(time.Hour)

	_, err := f.uc.Insert(context.Background(), input)
	if !errors.Is(err, domain.ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
}

func TestLedgerUseCase_Insert_UnknownActivityRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)

	input := validInput()
	input.Activity = domain.ActivityReceive // raw material activity, wrong ledger

	_, err := f.uc.Insert(context.Background(), input)
	if !errors.Is(err, domain.ErrUnknownActivity) {
		t.Fatalf("expected ErrUnknownActivity, got %v", err)
	}
}

func TestLedgerUseCase_Insert_ItemNotFoundRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)
	f.directory.EXPECT().Lookup(gomock.Any(), "Widget").Return(domain.Item{}, false, nil)

	_, err := f.uc.Insert(context.Background(), validInput())
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestLedgerUseCase_Insert_InactiveItemRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)

	item := widget()
	item.Active = false
	f.directory.EXPECT().Lookup(gomock.Any(), "Widget").Return(item, true, nil)

	_, err := f.uc.Insert(context.Background(), validInput())
	if !errors.Is(err, domain.ErrItemInactive) {
		t.Fatalf("expected ErrItemInactive, got %v", err)
	}
}

func TestLedgerUseCase_Insert_ManualActivityWithoutBatchRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)
	f.directory.EXPECT().Lookup(gomock.Any(), "Widget").Return(widget(), true, nil)

	input := validInput()
	input.Activity = domain.ActivityWaste
	input.BatchID = ""

	_, err := f.uc.Insert(context.Background(), input)
	if !errors.Is(err, domain.ErrMissingBatch) {
		t.Fatalf("expected ErrMissingBatch, got %v", err)
	}
}

func TestLedgerUseCase_Insert_BarePrefixBatchRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)
	f.directory.EXPECT().Lookup(gomock.Any(), "Widget").Return(widget(), true, nil)

	input := validInput()
	input.Activity = domain.ActivityWaste
	input.BatchID = "WDG-"

	_, err := f.uc.Insert(context.Background(), input)
	if !errors.Is(err, domain.ErrInvalidBatchFormat) {
		t.Fatalf("expected ErrInvalidBatchFormat, got %v", err)
	}
}

func TestLedgerUseCase_Insert_ExpiryGates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)
	f.directory.EXPECT().Lookup(gomock.Any(), "Widget").Return(widget(), true, nil).AnyTimes()

	t.Run("missing expiry on inbound", func(t *testing.T) {
		input := validInput()
		input.ExpiryDate = nil

		_, err := f.uc.Insert(context.Background(), input)
		if !errors.Is(err, domain.ErrExpiryRequired) {
			t.Fatalf("expected ErrExpiryRequired, got %v", err)
		}
	})

	t.Run("expiry before transaction date", func(t *testing.T) {
		input := validInput()
		early := input.Date.AddDate(0, 0, -2)
		input.ExpiryDate = &early

		_, err := f.uc.Insert(context.Background(), input)
		if !errors.Is(err, domain.ErrExpiryBeforeDate) {
			t.Fatalf("expected ErrExpiryBeforeDate, got %v", err)
		}
	})
}

func TestLedgerUseCase_Insert_RollsBackOnCreateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)

	f.directory.EXPECT().Lookup(gomock.Any(), "Widget").Return(widget(), true, nil)
	f.idGen.EXPECT().Generate().Return("01TESTENTRY")

	tx := mocks.NewMockTransaction(ctrl)
	f.txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	f.entries.EXPECT().ListByBatchForUpdate(gomock.Any(), tx, gomock.Any()).Return(nil, nil)

	createErr := errors.New("connection reset")
	f.entries.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(createErr)

	// No Commit expectation: the deferred rollback must be the only exit.
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	_, err := f.uc.Insert(context.Background(), validInput())
	if !errors.Is(err, createErr) {
		t.Fatalf("expected create error, got %v", err)
	}
}

func TestLedgerUseCase_Delete_UnknownEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)
	f.entries.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrEntryNotFound)

	err := f.uc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestLedgerUseCase_Delete_WrongLedgerRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newGateFixture(t, ctrl)

	entry := &domain.LedgerEntry{
		ID:     "01MATERIAL",
		Ledger: domain.LedgerMaterial,
	}
	f.entries.EXPECT().GetByID(gomock.Any(), "01MATERIAL").Return(entry, nil)

	err := f.uc.Delete(context.Background(), "01MATERIAL")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for cross-ledger delete, got %v", err)
	}
}
