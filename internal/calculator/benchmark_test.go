package calculator

import (
	"testing"

	"trendrotate/internal/domain"
	"trendrotate/internal/util"

	"github.com/stretchr/testify/require"
)

func Test_BuyAndHold(t *testing.T) {
	t.Run("all-in at the first price", func(t *testing.T) {
		points, err := BuyAndHold(BenchmarkInput{
			Prices: []domain.AssetPrice{
				{Symbol: "QQQ", Date: util.NewDate(2024, 1, 2), Price: 100},
				{Symbol: "QQQ", Date: util.NewDate(2024, 1, 3), Price: 110},
				{Symbol: "QQQ", Date: util.NewDate(2024, 1, 4), Price: 90},
			},
			InitialCapital:       10000,
			ContributionDayFloor: 21,
		})
		require.NoError(t, err)
		require.Len(t, points, 3)
		require.InDelta(t, 10000, points[0].Value, 1e-9)
		require.InDelta(t, 11000, points[1].Value, 1e-9)
		require.InDelta(t, 9000, points[2].Value, 1e-9)
	})

	t.Run("monthly contribution buys on the gated day", func(t *testing.T) {
		points, err := BuyAndHold(BenchmarkInput{
			Prices: []domain.AssetPrice{
				{Symbol: "QQQ", Date: util.NewDate(2024, 1, 22), Price: 100},
				// new month but before the day floor: no contribution
				{Symbol: "QQQ", Date: util.NewDate(2024, 2, 10), Price: 100},
				{Symbol: "QQQ", Date: util.NewDate(2024, 2, 22), Price: 200},
				// same month again: no second contribution
				{Symbol: "QQQ", Date: util.NewDate(2024, 2, 26), Price: 200},
			},
			InitialCapital:       10000,
			MonthlyContribution:  1000,
			ContributionDayFloor: 21,
		})
		require.NoError(t, err)
		require.Len(t, points, 4)
		require.InDelta(t, 10000, points[0].Value, 1e-9)
		require.InDelta(t, 10000, points[1].Value, 1e-9)
		// 100 initial shares + 5 contributed shares at 200
		require.InDelta(t, 21000, points[2].Value, 1e-9)
		require.InDelta(t, 21000, points[3].Value, 1e-9)
	})

	t.Run("non-positive prices are dropped", func(t *testing.T) {
		points, err := BuyAndHold(BenchmarkInput{
			Prices: []domain.AssetPrice{
				{Symbol: "QQQ", Date: util.NewDate(2024, 1, 2), Price: 0},
				{Symbol: "QQQ", Date: util.NewDate(2024, 1, 3), Price: 100},
			},
			InitialCapital:       10000,
			ContributionDayFloor: 21,
		})
		require.NoError(t, err)
		require.Len(t, points, 1)
		require.Equal(t, util.NewDate(2024, 1, 3), points[0].Date)
	})

	t.Run("unsorted input is sorted by date", func(t *testing.T) {
		points, err := BuyAndHold(BenchmarkInput{
			Prices: []domain.AssetPrice{
				{Symbol: "QQQ", Date: util.NewDate(2024, 1, 3), Price: 200},
				{Symbol: "QQQ", Date: util.NewDate(2024, 1, 2), Price: 100},
			},
			InitialCapital:       10000,
			ContributionDayFloor: 21,
		})
		require.NoError(t, err)
		require.Equal(t, util.NewDate(2024, 1, 2), points[0].Date)
		require.InDelta(t, 20000, points[1].Value, 1e-9)
	})

	t.Run("no prices", func(t *testing.T) {
		_, err := BuyAndHold(BenchmarkInput{InitialCapital: 10000})
		require.ErrorContains(t, err, "no prices")
	})
}
