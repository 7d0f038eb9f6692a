package strategy

import (
	"testing"

	"trendrotate/internal/domain"

	"github.com/stretchr/testify/require"
)

func Test_Classify(t *testing.T) {
	tests := []struct {
		name          string
		price         float64
		movingAverage float64
		want          domain.Regime
	}{
		{"no moving average yet", 100, 0, domain.RegimeDecline},
		{"negative moving average", 100, -1, domain.RegimeDecline},
		{"price below moving average", 99, 100, domain.RegimeDecline},
		{"price at moving average", 100, 100, domain.RegimeInvest},
		{"price inside the band", 104.9, 100, domain.RegimeInvest},
		{"price at the band edge", 105, 100, domain.RegimeOverheat},
		{"price far above the band", 150, 100, domain.RegimeOverheat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.price, tc.movingAverage))
		})
	}
}
