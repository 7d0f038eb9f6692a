// Package display renders trade events as human-readable text. It is the
// only place action kinds are turned into prose; the core ledger stays
// machine-readable.
package display

import (
	"fmt"

	"trendrotate/internal/domain"
)

func assetName(slot domain.AssetSlot, leveragedTicker string) string {
	switch slot {
	case domain.SlotLeveraged:
		return leveragedTicker
	case domain.SlotProfitAsset:
		return "SPYM"
	case domain.SlotSafeAsset:
		return "SGOV"
	}
	return string(slot)
}

// DescribeTrade renders one ledger entry as a single human-readable line.
func DescribeTrade(ev domain.TradeEvent, leveragedTicker string) string {
	d := ev.Detail
	switch ev.Action {
	case domain.ActionStopLoss:
		return fmt.Sprintf("stop-loss (-%.0f%%): full exit at $%.2f (avg $%.2f, %+.1f%%) -> SGOV $%.0f",
			d.StopLossPercent, d.ExecPrice, d.AvgCost, d.GainPercent, d.Amount)
	case domain.ActionDeclineLiquidation:
		return fmt.Sprintf("decline signal: full exit at $%.2f (%+.1f%%) -> SGOV $%.0f",
			d.ExecPrice, d.GainPercent, d.Amount)
	case domain.ActionProfitLadderSell:
		return fmt.Sprintf("profit taking +%.0f%%: sold %.2f sh of %s ($%.0f) -> SPYM",
			d.Milestone, d.SharesSold, leveragedTicker, d.Amount)
	case domain.ActionInvestBuy:
		s := fmt.Sprintf("invest signal: SGOV -> %s $%.0f (fill $%.2f)", leveragedTicker, d.Amount, d.ExecPrice)
		if d.SafeHoldingDays > 0 {
			s += fmt.Sprintf(" [SGOV held %dd, interest $%+.2f]", d.SafeHoldingDays, d.SafeInterest)
		}
		return s
	case domain.ActionOverheatRotate:
		return fmt.Sprintf("overheat: cash -> SPYM $%.0f (fill $%.2f)", d.Amount, d.ExecPrice)
	case domain.ActionGapEntryBuy:
		s := fmt.Sprintf("gap entry: SGOV -> %s $%.0f (fill $%.2f)", leveragedTicker, d.Amount, d.ExecPrice)
		if d.SafeHoldingDays > 0 {
			s += fmt.Sprintf(" [SGOV held %dd, interest $%+.2f]", d.SafeHoldingDays, d.SafeInterest)
		}
		return s
	case domain.ActionConfirmationWait:
		return "confirming 200-day breakout (waiting one bar)"
	case domain.ActionPeriodicContribution:
		return fmt.Sprintf("monthly contribution $%.0f -> %s (fill $%.2f)",
			d.Contribution, assetName(d.Asset, leveragedTicker), d.ExecPrice)
	case domain.ActionInitialDeploy:
		return fmt.Sprintf("initial deployment: %s $%.0f (fill $%.2f)",
			assetName(d.Asset, leveragedTicker), d.Amount, d.ExecPrice)
	case domain.ActionSimulationEnd:
		return "simulation ended (final state)"
	}
	return string(ev.Action)
}
