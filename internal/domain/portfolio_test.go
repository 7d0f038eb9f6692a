package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_PortfolioBuy(t *testing.T) {
	t.Run("buy deducts cash and applies the fee", func(t *testing.T) {
		p := NewPortfolio(10000, 0.0025)
		p.BuyLeveraged(100, 10000)

		require.InDelta(t, 0, p.Cash, 1e-9)
		require.InDelta(t, 99.75, p.Leveraged.Shares, 1e-9)
		// avg cost reflects the full cash spent, fee included
		require.InDelta(t, 10000.0/99.75, p.Leveraged.AvgCost, 1e-9)
	})

	t.Run("repeat buys blend the average cost", func(t *testing.T) {
		p := NewPortfolio(11000, 0.0025)
		p.BuyLeveraged(100, 10000)
		p.BuyLeveraged(200, 1000)

		wantShares := 10000*(1-0.0025)/100 + 1000*(1-0.0025)/200
		require.InDelta(t, wantShares, p.Leveraged.Shares, 1e-9)
		require.InDelta(t, 11000/wantShares, p.Leveraged.AvgCost, 1e-9)
		require.InDelta(t, 0, p.Cash, 1e-9)
	})

	t.Run("non-positive price or amount is a no-op", func(t *testing.T) {
		p := NewPortfolio(1000, 0.0025)
		p.BuyLeveraged(0, 500)
		p.BuyLeveraged(100, 0)
		p.BuyLeveraged(100, -5)

		require.InDelta(t, 1000, p.Cash, 1e-9)
		require.True(t, p.Leveraged.Empty())
	})
}

func Test_PortfolioSell(t *testing.T) {
	t.Run("full close credits proceeds and resets the milestone", func(t *testing.T) {
		p := NewPortfolio(10000, 0.0025)
		p.BuyLeveraged(100, 10000)
		p.LastMilestone = 100

		proceeds := p.SellLeveraged(120, 1)

		require.InDelta(t, 99.75*120*(1-0.0025), proceeds, 1e-9)
		require.InDelta(t, proceeds, p.Cash, 1e-9)
		require.True(t, p.Leveraged.Empty())
		require.InDelta(t, 0, p.Leveraged.AvgCost, 1e-9)
		require.InDelta(t, 0, p.LastMilestone, 1e-9)
	})

	t.Run("partial sell keeps the milestone and cost basis", func(t *testing.T) {
		p := NewPortfolio(10000, 0.0025)
		p.BuyLeveraged(100, 10000)
		avgCost := p.Leveraged.AvgCost
		p.LastMilestone = 100

		p.SellLeveraged(120, 0.5)

		require.InDelta(t, 99.75/2, p.Leveraged.Shares, 1e-9)
		require.InDelta(t, avgCost, p.Leveraged.AvgCost, 1e-9)
		require.InDelta(t, 100, p.LastMilestone, 1e-9)
	})

	t.Run("dust below the epsilon counts as a full close", func(t *testing.T) {
		p := NewPortfolio(100, 0)
		p.BuyLeveraged(100, 100)
		p.LastMilestone = 100

		p.SellLeveraged(100, 0.99999)

		require.True(t, p.Leveraged.Empty())
		require.InDelta(t, 0, p.Leveraged.AvgCost, 1e-9)
		require.InDelta(t, 0, p.LastMilestone, 1e-9)
	})

	t.Run("selling an empty slot yields nothing", func(t *testing.T) {
		p := NewPortfolio(1000, 0.0025)
		require.InDelta(t, 0, p.SellLeveraged(100, 1), 1e-9)
		require.InDelta(t, 1000, p.Cash, 1e-9)
	})
}

func Test_PositionGainPercent(t *testing.T) {
	t.Run("gain from cost basis", func(t *testing.T) {
		pos := Position{Shares: 10, AvgCost: 100}
		g, ok := pos.GainPercent(150)
		require.True(t, ok)
		require.InDelta(t, 50, g, 1e-9)
	})

	t.Run("empty position has no gain", func(t *testing.T) {
		pos := Position{}
		_, ok := pos.GainPercent(150)
		require.False(t, ok)
	})
}

func Test_PortfolioTotalValue(t *testing.T) {
	p := NewPortfolio(1000, 0)
	p.Leveraged = Position{Shares: 10, AvgCost: 100}
	p.ProfitAsset = Position{Shares: 5, AvgCost: 50}
	p.SafeAsset = Position{Shares: 100, AvgCost: 10}

	require.InDelta(t, 1000+10*120+5*60+100*10, p.TotalValue(120, 60, 10), 1e-9)
}
