package display

import (
	"testing"

	"trendrotate/internal/domain"

	"github.com/stretchr/testify/require"
)

func Test_DescribeTrade(t *testing.T) {
	t.Run("stop loss", func(t *testing.T) {
		line := DescribeTrade(domain.TradeEvent{
			Action: domain.ActionStopLoss,
			Detail: domain.TradeDetail{
				StopLossPercent: 5,
				ExecPrice:       90,
				AvgCost:         100,
				GainPercent:     -10,
				Amount:          9000,
			},
		}, "TQQQ")
		require.Equal(t, "stop-loss (-5%): full exit at $90.00 (avg $100.00, -10.0%) -> SGOV $9000", line)
	})

	t.Run("profit ladder", func(t *testing.T) {
		line := DescribeTrade(domain.TradeEvent{
			Action: domain.ActionProfitLadderSell,
			Detail: domain.TradeDetail{
				Milestone:  100,
				SharesSold: 49.5,
				Amount:     10396,
			},
		}, "TQQQ")
		require.Equal(t, "profit taking +100%: sold 49.50 sh of TQQQ ($10396) -> SPYM", line)
	})

	t.Run("invest entry with safe-holding info", func(t *testing.T) {
		line := DescribeTrade(domain.TradeEvent{
			Action: domain.ActionInvestBuy,
			Detail: domain.TradeDetail{
				Amount:          10000,
				ExecPrice:       101,
				SafeHoldingDays: 14,
				SafeInterest:    12.5,
			},
		}, "TQQQ")
		require.Equal(t, "invest signal: SGOV -> TQQQ $10000 (fill $101.00) [SGOV held 14d, interest $+12.50]", line)
	})

	t.Run("contribution names the bought asset", func(t *testing.T) {
		line := DescribeTrade(domain.TradeEvent{
			Action: domain.ActionPeriodicContribution,
			Detail: domain.TradeDetail{
				Contribution: 1000,
				Asset:        domain.SlotProfitAsset,
				ExecPrice:    50,
			},
		}, "TQQQ")
		require.Equal(t, "monthly contribution $1000 -> SPYM (fill $50.00)", line)
	})

	t.Run("unknown action falls back to the raw kind", func(t *testing.T) {
		line := DescribeTrade(domain.TradeEvent{Action: domain.ActionKind("SOMETHING_NEW")}, "TQQQ")
		require.Equal(t, "SOMETHING_NEW", line)
	})
}
