package domain

import "github.com/shopspring/decimal"

// Ledger identifies a ledger flavor.
type Ledger string

const (
	// LedgerFinished tracks finished goods stock.
	LedgerFinished Ledger = "finished"
	// LedgerMaterial tracks raw material stock.
	LedgerMaterial Ledger = "material"
)

// ActivityKind is the type of a ledger transaction.
type ActivityKind string

const (
	// Finished goods activities
	ActivityProduction    ActivityKind = "production"
	ActivityTransfer      ActivityKind = "transfer"
	ActivityReceiveRework ActivityKind = "receive_rework"
	ActivityIssueRework   ActivityKind = "issue_rework"
	ActivityWaste         ActivityKind = "waste"

	// Raw material activities
	ActivityReceive ActivityKind = "receive"
	ActivityIssue   ActivityKind = "issue"
)

// Direction classifies an activity as increasing or decreasing a batch balance.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

// BatchMode determines how an activity obtains its batch id.
type BatchMode int

const (
	// BatchAuto derives the batch id from item code and transaction date
	// when the caller leaves it blank.
	BatchAuto BatchMode = iota
	// BatchManual requires the caller to name an existing batch.
	BatchManual
)

// ActivityRule describes how a single activity kind behaves within a ledger.
type ActivityRule struct {
	Direction      Direction
	BatchMode      BatchMode
	ExpiryRequired bool
}

// Signed applies the rule's direction to a positive quantity.
func (r ActivityRule) Signed(quantity decimal.Decimal) decimal.Decimal {
	if r.Direction == Outbound {
		return quantity.Neg()
	}

	return quantity
}

// LedgerProfile is the full activity-kind configuration of one ledger flavor.
// Finished goods and raw materials run the same engine over different profiles.
type LedgerProfile struct {
	Name  Ledger
	Rules map[ActivityKind]ActivityRule
}

// Rule looks up the rule for an activity kind.
func (p LedgerProfile) Rule(kind ActivityKind) (ActivityRule, error) {
	rule, ok := p.Rules[kind]
	if !ok {
		return ActivityRule{}, ErrUnknownActivity
	}

	return rule, nil
}

// FinishedGoodsProfile describes the finished goods ledger.
func FinishedGoodsProfile() LedgerProfile {
	return LedgerProfile{
		Name: LedgerFinished,
		Rules: map[ActivityKind]ActivityRule{
			ActivityProduction:    {Direction: Inbound, BatchMode: BatchAuto, ExpiryRequired: true},
			ActivityReceiveRework: {Direction: Inbound, BatchMode: BatchManual, ExpiryRequired: true},
			ActivityTransfer:      {Direction: Outbound, BatchMode: BatchManual},
			ActivityIssueRework:   {Direction: Outbound, BatchMode: BatchManual},
			ActivityWaste:         {Direction: Outbound, BatchMode: BatchManual},
		},
	}
}

// RawMaterialProfile describes the raw material ledger.
func RawMaterialProfile() LedgerProfile {
	return LedgerProfile{
		Name: LedgerMaterial,
		Rules: map[ActivityKind]ActivityRule{
			ActivityReceive: {Direction: Inbound, BatchMode: BatchAuto, ExpiryRequired: true},
			ActivityIssue:   {Direction: Outbound, BatchMode: BatchManual},
		},
	}
}

// ProfileByName resolves a ledger name to its profile.
func ProfileByName(name string) (LedgerProfile, error) {
	switch Ledger(name) {
	case LedgerFinished:
		return FinishedGoodsProfile(), nil
	case LedgerMaterial:
		return RawMaterialProfile(), nil
	default:
		return LedgerProfile{}, ErrUnknownLedger
	}
}
