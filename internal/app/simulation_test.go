package app

import (
	"testing"
	"time"

	"trendrotate/internal/domain"
	"trendrotate/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// bar builds a test day with constant auxiliary prices so the leveraged
// close and moving average fully determine the regime.
func bar(date time.Time, close, ma float64) domain.PriceBar {
	return domain.PriceBar{
		Date:             date,
		LeveragedClose:   close,
		LeveragedOpen:    close,
		LeveragedLow:     close,
		ProfitAssetClose: 10,
		SafeAssetClose:   5,
		MovingAverage:    ma,
	}
}

func testConfig() SimulationConfig {
	cfg := DefaultSimulationConfig("TQQQ")
	cfg.FeeRate = 0
	return cfg
}

func Test_NewSimulationEngine(t *testing.T) {
	t.Run("valid defaults", func(t *testing.T) {
		_, err := NewSimulationEngine(DefaultSimulationConfig("TQQQ"))
		require.NoError(t, err)
	})

	tests := []struct {
		name   string
		mutate func(*SimulationConfig)
	}{
		{"zero capital", func(c *SimulationConfig) { c.InitialCapital = 0 }},
		{"negative contribution", func(c *SimulationConfig) { c.MonthlyContribution = -1 }},
		{"stop-loss at 100%", func(c *SimulationConfig) { c.StopLossFraction = 1 }},
		{"zero profit ratio", func(c *SimulationConfig) { c.ProfitRatio = 0 }},
		{"zero profit spacing", func(c *SimulationConfig) { c.ProfitSpacing = 0 }},
		{"day floor past month end", func(c *SimulationConfig) { c.ContributionDayFloor = 29 }},
		{"negative fee", func(c *SimulationConfig) { c.FeeRate = -0.01 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSimulationConfig("TQQQ")
			tc.mutate(&cfg)
			_, err := NewSimulationEngine(cfg)
			require.Error(t, err)
		})
	}
}

func Test_Run_emptyBars(t *testing.T) {
	engine, err := NewSimulationEngine(testConfig())
	require.NoError(t, err)

	_, err = engine.Run(nil)
	require.ErrorContains(t, err, "no data")
}

// Walks a full regime cycle and checks the resulting ledger: initial
// deploy into the safe asset, one-bar confirmation wait, leveraged entry,
// profit ladder skim during overheat, and a stop-loss exit.
func Test_Run_fullCycleLedger(t *testing.T) {
	engine, err := NewSimulationEngine(testConfig())
	require.NoError(t, err)

	bars := []domain.PriceBar{
		bar(util.NewDate(2024, 1, 1), 100, 0),   // DECLINE: no MA yet
		bar(util.NewDate(2024, 1, 2), 100, 99),  // INVEST: first cross, wait
		bar(util.NewDate(2024, 1, 3), 101, 99),  // INVEST: confirmed, enter
		bar(util.NewDate(2024, 1, 4), 210, 100), // OVERHEAT: +107.9%, ladder
		bar(util.NewDate(2024, 1, 5), 80, 100),  // gap down through the stop
		bar(util.NewDate(2024, 1, 8), 80, 100),  // DECLINE: idle in safe
	}

	result, err := engine.Run(bars)
	require.NoError(t, err)
	require.Len(t, result.Snapshots, 6)

	actions := make([]domain.ActionKind, 0, len(result.Trades))
	for _, tr := range result.Trades {
		actions = append(actions, tr.Action)
	}
	require.Equal(t, []domain.ActionKind{
		domain.ActionInitialDeploy,
		domain.ActionConfirmationWait,
		domain.ActionInvestBuy,
		domain.ActionProfitLadderSell,
		domain.ActionStopLoss,
		domain.ActionSimulationEnd,
	}, actions)

	deploy := result.Trades[0]
	require.Equal(t, domain.SlotSafeAsset, deploy.Detail.Asset)
	require.InDelta(t, 10000, deploy.Detail.Amount, 1e-6)

	entry := result.Trades[2]
	require.Equal(t, domain.SlotLeveraged, entry.Detail.Asset)
	require.Equal(t, 2, entry.Detail.SafeHoldingDays)
	require.InDelta(t, 0, entry.Detail.SafeInterest, 1e-6)

	ladder := result.Trades[3]
	require.InDelta(t, 100, ladder.Detail.Milestone, 1e-9)
	// half of 10000/101 shares sold at 210
	require.InDelta(t, 10000/101.0/2, ladder.Detail.SharesSold, 1e-6)

	stop := result.Trades[4]
	require.Equal(t, domain.RegimeDecline, stop.Regime)
	require.InDelta(t, 80, stop.Detail.ExecPrice, 1e-9)
	require.InDelta(t, 5, stop.Detail.StopLossPercent, 1e-9)

	// everything ends parked in the safe asset
	require.InDelta(t, 14356.44, result.FinalValue, 0.01)
	lastSnapshot := result.Snapshots[5]
	require.InDelta(t, 0, lastSnapshot.Cash, 1e-6)
	require.InDelta(t, 0, lastSnapshot.LeveragedMarkValue, 1e-6)
	require.InDelta(t, lastSnapshot.TotalValue, lastSnapshot.SafeAssetValue, 1e-6)
}

func Test_Run_declineLiquidation(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmCross = false
	engine, err := NewSimulationEngine(cfg)
	require.NoError(t, err)

	bars := []domain.PriceBar{
		bar(util.NewDate(2024, 1, 1), 100, 99), // INVEST: enter immediately
		bar(util.NewDate(2024, 1, 2), 96, 100), // DECLINE, but above the stop target
	}

	result, err := engine.Run(bars)
	require.NoError(t, err)

	require.Len(t, result.Trades, 3)
	require.Equal(t, domain.ActionInitialDeploy, result.Trades[0].Action)
	require.Equal(t, domain.ActionDeclineLiquidation, result.Trades[1].Action)
	require.Equal(t, domain.ActionSimulationEnd, result.Trades[2].Action)

	liq := result.Trades[1]
	require.InDelta(t, -4, liq.Detail.GainPercent, 1e-6)
	require.Equal(t, domain.SlotSafeAsset, liq.Detail.Asset)
}

func Test_Run_confirmationDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmCross = false
	engine, err := NewSimulationEngine(cfg)
	require.NoError(t, err)

	bars := []domain.PriceBar{
		bar(util.NewDate(2024, 1, 1), 100, 0),
		bar(util.NewDate(2024, 1, 2), 100, 99),
	}

	result, err := engine.Run(bars)
	require.NoError(t, err)

	require.Equal(t, domain.ActionInitialDeploy, result.Trades[0].Action)
	require.Equal(t, domain.ActionInvestBuy, result.Trades[1].Action)
	for _, tr := range result.Trades {
		require.NotEqual(t, domain.ActionConfirmationWait, tr.Action)
	}
}

// A gap straight from DECLINE into OVERHEAT enters anyway, with the stop
// anchored just above the moving average instead of the cost basis.
func Test_Run_gapEntryStopReference(t *testing.T) {
	engine, err := NewSimulationEngine(testConfig())
	require.NoError(t, err)

	bars := []domain.PriceBar{
		bar(util.NewDate(2024, 1, 1), 100, 0),
		bar(util.NewDate(2024, 1, 2), 120, 100), // sneak entry, stop ref 101
		{
			Date:             util.NewDate(2024, 1, 3),
			LeveragedClose:   110,
			LeveragedOpen:    110,
			LeveragedLow:     94, // breaches 101*0.95 intraday
			ProfitAssetClose: 10,
			SafeAssetClose:   5,
			MovingAverage:    100,
		},
	}

	result, err := engine.Run(bars)
	require.NoError(t, err)

	require.Equal(t, domain.ActionGapEntryBuy, result.Trades[1].Action)
	stop := result.Trades[2]
	require.Equal(t, domain.ActionStopLoss, stop.Action)
	// fill at the gap-entry stop target, not the cost-basis target
	require.InDelta(t, 101*0.95, stop.Detail.ExecPrice, 1e-9)
}

func Test_Run_monthlyContribution(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmCross = false
	cfg.MonthlyContribution = 1000
	engine, err := NewSimulationEngine(cfg)
	require.NoError(t, err)

	bars := []domain.PriceBar{
		bar(util.NewDate(2024, 1, 22), 100, 99),
		bar(util.NewDate(2024, 2, 5), 100, 99),  // new month, before the floor
		bar(util.NewDate(2024, 2, 21), 100, 99), // gated day reached
		bar(util.NewDate(2024, 2, 26), 100, 99), // same month, no repeat
	}

	result, err := engine.Run(bars)
	require.NoError(t, err)

	require.InDelta(t, 11000, result.TotalContributed, 1e-9)

	contributions := []domain.TradeEvent{}
	for _, tr := range result.Trades {
		if tr.Action == domain.ActionPeriodicContribution {
			contributions = append(contributions, tr)
		}
	}
	require.Len(t, contributions, 1)
	require.Equal(t, util.NewDate(2024, 2, 21), contributions[0].Date)
	require.InDelta(t, 1000, contributions[0].Detail.Contribution, 1e-9)
	require.Equal(t, domain.SlotLeveraged, contributions[0].Detail.Asset)
}

func Test_Run_snapshotAccounting(t *testing.T) {
	engine, err := NewSimulationEngine(testConfig())
	require.NoError(t, err)

	bars := []domain.PriceBar{
		bar(util.NewDate(2024, 1, 1), 100, 0),
		bar(util.NewDate(2024, 1, 2), 100, 99),
		bar(util.NewDate(2024, 1, 3), 101, 99),
		bar(util.NewDate(2024, 1, 4), 108, 100),
		bar(util.NewDate(2024, 1, 5), 96, 100),
	}

	result, err := engine.Run(bars)
	require.NoError(t, err)

	for _, s := range result.Snapshots {
		sum := s.Cash + s.LeveragedMarkValue + s.ProfitAssetValue + s.SafeAssetValue
		require.InDelta(t, s.TotalValue, sum, 1e-6, "snapshot %s", s.Date.Format(time.DateOnly))
	}
}

func Test_Run_deterministic(t *testing.T) {
	engine, err := NewSimulationEngine(testConfig())
	require.NoError(t, err)

	bars := []domain.PriceBar{
		bar(util.NewDate(2024, 1, 1), 100, 0),
		bar(util.NewDate(2024, 1, 2), 100, 99),
		bar(util.NewDate(2024, 1, 3), 101, 99),
		bar(util.NewDate(2024, 1, 4), 210, 100),
		bar(util.NewDate(2024, 1, 5), 80, 100),
	}

	first, err := engine.Run(bars)
	require.NoError(t, err)
	second, err := engine.Run(bars)
	require.NoError(t, err)

	require.Equal(t, "", cmp.Diff(first, second))
}
