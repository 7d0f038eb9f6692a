package domain

import "time"

// ActionKind tags what a trade event did. Human-readable labels are
// rendered at presentation boundaries only (CLI, CSV export).
type ActionKind string

const (
	ActionStopLoss             ActionKind = "STOP_LOSS"
	ActionDeclineLiquidation   ActionKind = "DECLINE_LIQUIDATION"
	ActionProfitLadderSell     ActionKind = "PROFIT_LADDER_SELL"
	ActionInvestBuy            ActionKind = "INVEST_BUY"
	ActionOverheatRotate       ActionKind = "OVERHEAT_ROTATE"
	ActionGapEntryBuy          ActionKind = "GAP_ENTRY_BUY"
	ActionConfirmationWait     ActionKind = "CONFIRMATION_WAIT"
	ActionPeriodicContribution ActionKind = "PERIODIC_CONTRIBUTION"
	ActionInitialDeploy        ActionKind = "INITIAL_DEPLOY"
	ActionSimulationEnd        ActionKind = "SIMULATION_END"
)

// AssetSlot names which of the three slots an action touched.
type AssetSlot string

const (
	SlotLeveraged   AssetSlot = "LEVERAGED"
	SlotProfitAsset AssetSlot = "PROFIT_ASSET"
	SlotSafeAsset   AssetSlot = "SAFE_ASSET"
)

// TradeDetail carries the structured numeric payload of an action. Fields
// are populated only where they apply to the action kind.
type TradeDetail struct {
	Asset           AssetSlot `json:"asset,omitempty"`
	ExecPrice       float64   `json:"execPrice,omitempty"`
	Amount          float64   `json:"amount,omitempty"`
	SharesSold      float64   `json:"sharesSold,omitempty"`
	Milestone       float64   `json:"milestone,omitempty"`
	AvgCost         float64   `json:"avgCost,omitempty"`
	GainPercent     float64   `json:"gainPercent,omitempty"`
	StopLossPercent float64   `json:"stopLossPercent,omitempty"`
	Contribution    float64   `json:"contribution,omitempty"`
	SafeHoldingDays int       `json:"safeHoldingDays,omitempty"`
	SafeInterest    float64   `json:"safeInterest,omitempty"`
}

// PositionStatus summarizes one open position at event time.
type PositionStatus struct {
	Asset       AssetSlot `json:"asset"`
	AvgCost     float64   `json:"avgCost"`
	Price       float64   `json:"price"`
	GainPercent float64   `json:"gainPercent"`
}

// TradeEvent is one ledger entry: a state change (or a surfaced no-op,
// such as a confirmation wait) on a given trading day.
type TradeEvent struct {
	Date             time.Time        `json:"date"`
	Action           ActionKind       `json:"action"`
	Regime           Regime           `json:"regime"`
	TotalValue       float64          `json:"totalValue"`
	TotalContributed float64          `json:"totalContributed"`
	Gain             float64          `json:"gain"`
	GainPercent      float64          `json:"gainPercent"`
	Detail           TradeDetail      `json:"detail"`
	PortfolioStatus  []PositionStatus `json:"portfolioStatus,omitempty"`
}
