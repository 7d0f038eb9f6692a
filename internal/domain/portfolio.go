package domain

// closeEpsilon is the absolute share count below which a position is
// treated as fully closed.
const closeEpsilon = 1e-4

// Position is one asset slot: share count plus weighted-average cost.
// AvgCost is meaningful only while Shares > 0.
type Position struct {
	Shares  float64
	AvgCost float64
}

func (p Position) Empty() bool {
	return p.Shares <= closeEpsilon
}

// GainPercent returns the unrealized gain of the position at the given
// mark price. The second return is false when there is no position or no
// established cost basis.
func (p Position) GainPercent(price float64) (float64, bool) {
	if p.Empty() || p.AvgCost <= 0 {
		return 0, false
	}
	return (price - p.AvgCost) / p.AvgCost * 100, true
}

func (p *Position) buy(price, amount, feeRate float64) float64 {
	if amount <= 0 || price <= 0 {
		return 0
	}
	shares := amount * (1 - feeRate) / price
	totalCost := p.Shares*p.AvgCost + amount
	p.Shares += shares
	p.AvgCost = totalCost / p.Shares
	return shares
}

func (p *Position) sell(price, ratio, feeRate float64) float64 {
	if p.Shares <= 0 || ratio <= 0 {
		return 0
	}
	if ratio > 1 {
		ratio = 1
	}
	sold := p.Shares * ratio
	proceeds := sold * price * (1 - feeRate)
	p.Shares -= sold
	if p.Shares <= closeEpsilon {
		p.Shares = 0
		p.AvgCost = 0
	}
	return proceeds
}

// Portfolio is the mutable ledger for one simulation run: cash plus the
// three asset slots. LastMilestone is the profit-ladder watermark; it
// resets to 0 whenever the leveraged position is fully closed.
type Portfolio struct {
	Cash          float64
	FeeRate       float64
	Leveraged     Position
	ProfitAsset   Position
	SafeAsset     Position
	LastMilestone float64
}

func NewPortfolio(initialCash, feeRate float64) *Portfolio {
	return &Portfolio{
		Cash:    initialCash,
		FeeRate: feeRate,
	}
}

// BuyLeveraged spends amount of cash on the leveraged asset at price.
// Non-positive price or amount is a no-op.
func (p *Portfolio) BuyLeveraged(price, amount float64) {
	if p.Leveraged.buy(price, amount, p.FeeRate) > 0 {
		p.Cash -= amount
	}
}

func (p *Portfolio) BuyProfitAsset(price, amount float64) {
	if p.ProfitAsset.buy(price, amount, p.FeeRate) > 0 {
		p.Cash -= amount
	}
}

func (p *Portfolio) BuySafeAsset(price, amount float64) {
	if p.SafeAsset.buy(price, amount, p.FeeRate) > 0 {
		p.Cash -= amount
	}
}

// SellLeveraged sells ratio (0, 1] of the leveraged position and credits
// the fee-adjusted proceeds to cash. A full close resets the milestone
// watermark.
func (p *Portfolio) SellLeveraged(price, ratio float64) float64 {
	proceeds := p.Leveraged.sell(price, ratio, p.FeeRate)
	p.Cash += proceeds
	if p.Leveraged.Shares == 0 {
		p.LastMilestone = 0
	}
	return proceeds
}

// SellProfitAsset liquidates the entire profit-parking position.
func (p *Portfolio) SellProfitAsset(price float64) float64 {
	proceeds := p.ProfitAsset.sell(price, 1, p.FeeRate)
	p.Cash += proceeds
	return proceeds
}

// SellSafeAsset liquidates the entire safe position.
func (p *Portfolio) SellSafeAsset(price float64) float64 {
	proceeds := p.SafeAsset.sell(price, 1, p.FeeRate)
	p.Cash += proceeds
	return proceeds
}

func (p Portfolio) TotalValue(leveragedPrice, profitPrice, safePrice float64) float64 {
	return p.Cash +
		p.Leveraged.Shares*leveragedPrice +
		p.ProfitAsset.Shares*profitPrice +
		p.SafeAsset.Shares*safePrice
}
