// Package app orchestrates one full simulation run: it walks the assembled
// bar sequence in date order, consults the strategy rules, mutates the
// portfolio ledger, and records daily snapshots plus discrete trade events.
package app

import (
	"fmt"
	"math"
	"time"

	"trendrotate/internal/calculator"
	"trendrotate/internal/domain"
	"trendrotate/internal/strategy"
	"trendrotate/internal/util"
)

const (
	DefaultFeeRate              = 0.0025
	DefaultStopLossFraction     = 0.05
	DefaultProfitStart          = 100
	DefaultProfitSpacing        = 100
	DefaultProfitRatio          = 0.5
	DefaultContributionDayFloor = 21
)

type SimulationConfig struct {
	LeveragedTicker     string
	InitialCapital      float64
	MonthlyContribution float64
	// ContributionDayFloor gates the monthly contribution to the first
	// trading day of a new month whose day-of-month is at least this
	// value, approximating "contribute once settled near month end".
	ContributionDayFloor int
	StopLossFraction     float64
	ProfitTaking         bool
	ProfitStart          float64
	ProfitSpacing        float64
	ProfitRatio          float64
	// ConfirmCross delays leveraged entry by one bar after a
	// DECLINE -> INVEST transition to filter false breakouts.
	ConfirmCross bool
	FeeRate      float64
}

func DefaultSimulationConfig(ticker string) SimulationConfig {
	return SimulationConfig{
		LeveragedTicker:      ticker,
		InitialCapital:       10000,
		ContributionDayFloor: DefaultContributionDayFloor,
		StopLossFraction:     DefaultStopLossFraction,
		ProfitTaking:         true,
		ProfitStart:          DefaultProfitStart,
		ProfitSpacing:        DefaultProfitSpacing,
		ProfitRatio:          DefaultProfitRatio,
		ConfirmCross:         true,
		FeeRate:              DefaultFeeRate,
	}
}

type SimulationEngine struct {
	cfg SimulationConfig
}

// NewSimulationEngine validates the configuration up front; malformed
// parameters are rejected here rather than mid-run.
func NewSimulationEngine(cfg SimulationConfig) (*SimulationEngine, error) {
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %f", cfg.InitialCapital)
	}
	if cfg.MonthlyContribution < 0 {
		return nil, fmt.Errorf("monthly contribution cannot be negative, got %f", cfg.MonthlyContribution)
	}
	if cfg.StopLossFraction < 0 || cfg.StopLossFraction >= 1 {
		return nil, fmt.Errorf("stop-loss fraction must be in [0, 1), got %f", cfg.StopLossFraction)
	}
	if cfg.ProfitRatio <= 0 || cfg.ProfitRatio > 1 {
		return nil, fmt.Errorf("profit sell ratio must be in (0, 1], got %f", cfg.ProfitRatio)
	}
	if cfg.ProfitSpacing <= 0 {
		return nil, fmt.Errorf("profit ladder spacing must be positive, got %f", cfg.ProfitSpacing)
	}
	if cfg.ContributionDayFloor < 1 || cfg.ContributionDayFloor > 28 {
		return nil, fmt.Errorf("contribution day floor must be in [1, 28], got %d", cfg.ContributionDayFloor)
	}
	if cfg.FeeRate < 0 || cfg.FeeRate >= 1 {
		return nil, fmt.Errorf("fee rate must be in [0, 1), got %f", cfg.FeeRate)
	}
	return &SimulationEngine{cfg: cfg}, nil
}

// simState bundles every mutable counter of one run. It is created fresh
// in Run and discarded at the end, so independent runs never share state.
type simState struct {
	portfolio        *domain.Portfolio
	prevRegime       domain.Regime
	waitingConfirm   bool
	gapEntryStopRef  float64
	lastContribMonth string
	totalContributed float64
	safeBuyCost      float64
	safeBuyDate      time.Time

	snapshots []domain.DailySnapshot
	trades    []domain.TradeEvent
}

// pendingEvent is an action recorded during a day's handling; it is
// materialized into a TradeEvent once the day's end-of-day value is known.
type pendingEvent struct {
	action domain.ActionKind
	detail domain.TradeDetail
}

// Run replays the bar sequence through the decision state machine and
// returns the ledger plus performance statistics.
func (e *SimulationEngine) Run(bars []domain.PriceBar) (*domain.SimulationResult, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("no data: cannot simulate an empty bar sequence")
	}

	st := &simState{
		portfolio:        domain.NewPortfolio(e.cfg.InitialCapital, e.cfg.FeeRate),
		totalContributed: e.cfg.InitialCapital,
	}
	ladder := strategy.ProfitLadder{Start: e.cfg.ProfitStart, Spacing: e.cfg.ProfitSpacing}

	for i, bar := range bars {
		e.step(st, ladder, i, bar)
	}

	last := st.snapshots[len(st.snapshots)-1]
	if len(st.trades) == 0 || !sameDay(st.trades[len(st.trades)-1].Date, last.Date) {
		st.trades = append(st.trades, domain.TradeEvent{
			Date:             last.Date,
			Action:           domain.ActionSimulationEnd,
			Regime:           last.Regime,
			TotalValue:       last.TotalValue,
			TotalContributed: st.totalContributed,
			Gain:             last.TotalValue - st.totalContributed,
			GainPercent:      gainPercent(last.TotalValue, st.totalContributed),
		})
	}

	m := calculator.CalculateMetrics(st.snapshots, st.totalContributed)
	return &domain.SimulationResult{
		FinalValue:         last.TotalValue,
		TotalContributed:   st.totalContributed,
		TotalReturnPercent: m.TotalReturnPercent,
		CAGRPercent:        m.CAGRPercent,
		MaxDrawdownPercent: m.MaxDrawdownPercent,
		AnnualizedStdev:    m.AnnualizedStdev,
		SharpeRatio:        m.SharpeRatio,
		Snapshots:          st.snapshots,
		Trades:             st.trades,
	}, nil
}

func (e *SimulationEngine) step(st *simState, ladder strategy.ProfitLadder, i int, bar domain.PriceBar) {
	p := st.portfolio
	leverPrice := bar.LeveragedClose
	profitPrice := bar.ProfitAssetClose
	safePrice := bar.SafeAssetClose

	// 1. periodic contribution
	contributedToday := false
	ym := util.MonthKey(bar.Date)
	if i == 0 {
		st.lastContribMonth = ym
	} else if e.cfg.MonthlyContribution > 0 && st.lastContribMonth != ym && bar.Date.Day() >= e.cfg.ContributionDayFloor {
		p.Cash += e.cfg.MonthlyContribution
		st.totalContributed += e.cfg.MonthlyContribution
		st.lastContribMonth = ym
		contributedToday = true
	}

	regime := strategy.Classify(leverPrice, bar.MovingAverage)

	// 2. confirmation guard
	if e.cfg.ConfirmCross {
		switch {
		case st.prevRegime == domain.RegimeDecline && regime == domain.RegimeInvest:
			st.waitingConfirm = true
		case regime == domain.RegimeInvest && st.prevRegime == domain.RegimeInvest:
			st.waitingConfirm = false
		case regime != domain.RegimeInvest:
			st.waitingConfirm = false
		}
	} else {
		st.waitingConfirm = false
	}

	// 3. sneak entry: a gap straight through the INVEST band
	sneakEntry := (st.prevRegime == domain.RegimeDecline || st.prevRegime == domain.RegimeInvest) &&
		regime == domain.RegimeOverheat

	// 4. stop-loss, pre-empting all regime handling
	stopLoss := strategy.StopLossResult{ExecPrice: leverPrice}
	if !p.Leveraged.Empty() && p.Leveraged.AvgCost > 0 {
		open := bar.LeveragedOpen
		if open <= 0 {
			open = leverPrice
		}
		low := bar.LeveragedLow
		if low <= 0 {
			low = leverPrice
		}
		ref := p.Leveraged.AvgCost
		if st.gapEntryStopRef > 0 {
			ref = st.gapEntryStopRef
		}
		stopLoss = strategy.CheckStopLoss(open, low, leverPrice, ref, e.cfg.StopLossFraction)
	}

	events := []pendingEvent{}

	switch {
	case stopLoss.Triggered:
		detail := domain.TradeDetail{
			Asset:           domain.SlotSafeAsset,
			ExecPrice:       stopLoss.ExecPrice,
			StopLossPercent: e.cfg.StopLossFraction * 100,
			AvgCost:         p.Leveraged.AvgCost,
		}
		if g, ok := p.Leveraged.GainPercent(stopLoss.ExecPrice); ok {
			detail.GainPercent = g
		}
		p.SellLeveraged(stopLoss.ExecPrice, 1)
		p.SellProfitAsset(profitPrice)
		detail.Amount = p.Cash
		p.BuySafeAsset(safePrice, p.Cash)
		st.safeBuyCost = p.SafeAsset.Shares * safePrice
		st.safeBuyDate = bar.Date
		st.gapEntryStopRef = 0
		st.waitingConfirm = false
		events = append(events, pendingEvent{domain.ActionStopLoss, detail})

	case regime == domain.RegimeDecline:
		events = e.handleDecline(st, i, bar, contributedToday)

	case regime == domain.RegimeInvest:
		events = e.handleInvest(st, ladder, i, bar, contributedToday)

	case regime == domain.RegimeOverheat:
		events = e.handleOverheat(st, ladder, i, bar, sneakEntry, contributedToday)
	}

	// 8. snapshot unconditionally, then materialize the day's events with
	// end-of-day values
	tv := p.TotalValue(leverPrice, profitPrice, safePrice)
	st.snapshots = append(st.snapshots, domain.DailySnapshot{
		Date:               bar.Date,
		TotalValue:         tv,
		LeveragedMarkValue: p.Leveraged.Shares * leverPrice,
		ProfitAssetValue:   p.ProfitAsset.Shares * profitPrice,
		SafeAssetValue:     p.SafeAsset.Shares * safePrice,
		Cash:               p.Cash,
		Regime:             regime,
		LeveragedPrice:     leverPrice,
		MovingAverage:      bar.MovingAverage,
	})

	status := e.positionStatuses(p, leverPrice, profitPrice, safePrice)
	for _, ev := range events {
		st.trades = append(st.trades, domain.TradeEvent{
			Date:             bar.Date,
			Action:           ev.action,
			Regime:           regime,
			TotalValue:       tv,
			TotalContributed: st.totalContributed,
			Gain:             tv - st.totalContributed,
			GainPercent:      gainPercent(tv, st.totalContributed),
			Detail:           ev.detail,
			PortfolioStatus:  status,
		})
	}

	st.prevRegime = regime
}

func (e *SimulationEngine) handleDecline(st *simState, i int, bar domain.PriceBar, contributedToday bool) []pendingEvent {
	p := st.portfolio
	events := []pendingEvent{}

	if !p.Leveraged.Empty() || !p.ProfitAsset.Empty() {
		detail := domain.TradeDetail{
			Asset:     domain.SlotSafeAsset,
			ExecPrice: bar.LeveragedClose,
			AvgCost:   p.Leveraged.AvgCost,
		}
		if g, ok := p.Leveraged.GainPercent(bar.LeveragedClose); ok {
			detail.GainPercent = g
		}
		p.SellLeveraged(bar.LeveragedClose, 1)
		p.SellProfitAsset(bar.ProfitAssetClose)
		p.BuySafeAsset(bar.SafeAssetClose, p.Cash)
		detail.Amount = p.SafeAsset.Shares * bar.SafeAssetClose
		st.safeBuyCost = p.SafeAsset.Shares * bar.SafeAssetClose
		st.safeBuyDate = bar.Date
		st.gapEntryStopRef = 0
		events = append(events, pendingEvent{domain.ActionDeclineLiquidation, detail})
	} else if p.Cash > 0 {
		contribution := e.cfg.MonthlyContribution
		p.BuySafeAsset(bar.SafeAssetClose, p.Cash)
		if i == 0 {
			st.safeBuyCost = p.SafeAsset.Shares * bar.SafeAssetClose
			st.safeBuyDate = bar.Date
			events = append(events, pendingEvent{domain.ActionInitialDeploy, domain.TradeDetail{
				Asset:     domain.SlotSafeAsset,
				ExecPrice: bar.SafeAssetClose,
				Amount:    p.SafeAsset.Shares * bar.SafeAssetClose,
			}})
		} else if contributedToday {
			st.safeBuyCost += contribution
			events = append(events, pendingEvent{domain.ActionPeriodicContribution, domain.TradeDetail{
				Asset:        domain.SlotSafeAsset,
				ExecPrice:    bar.SafeAssetClose,
				Contribution: contribution,
			}})
		}
	}

	return events
}

func (e *SimulationEngine) handleInvest(st *simState, ladder strategy.ProfitLadder, i int, bar domain.PriceBar, contributedToday bool) []pendingEvent {
	p := st.portfolio
	events := []pendingEvent{}

	// ladder applies to existing positions regardless of confirmation state
	if ev, ok := e.checkProfitLadder(st, ladder, bar); ok {
		events = append(events, ev)
	}

	if !p.SafeAsset.Empty() {
		if st.waitingConfirm {
			events = append(events, pendingEvent{domain.ActionConfirmationWait, domain.TradeDetail{}})
		} else {
			days, interest := e.safeHoldingInfo(st, bar)
			p.SellSafeAsset(bar.SafeAssetClose)
			p.BuyLeveraged(bar.LeveragedClose, p.Cash)
			st.safeBuyCost = 0
			st.safeBuyDate = time.Time{}
			events = append(events, pendingEvent{domain.ActionInvestBuy, domain.TradeDetail{
				Asset:           domain.SlotLeveraged,
				ExecPrice:       bar.LeveragedClose,
				Amount:          p.Leveraged.Shares * bar.LeveragedClose,
				SafeHoldingDays: days,
				SafeInterest:    interest,
			}})
		}
	} else if p.Cash > 0 && !st.waitingConfirm {
		p.BuyLeveraged(bar.LeveragedClose, p.Cash)
		if contributedToday {
			events = append(events, pendingEvent{domain.ActionPeriodicContribution, domain.TradeDetail{
				Asset:        domain.SlotLeveraged,
				ExecPrice:    bar.LeveragedClose,
				Contribution: e.cfg.MonthlyContribution,
			}})
		} else if i == 0 {
			events = append(events, pendingEvent{domain.ActionInitialDeploy, domain.TradeDetail{
				Asset:     domain.SlotLeveraged,
				ExecPrice: bar.LeveragedClose,
				Amount:    p.Leveraged.Shares * bar.LeveragedClose,
			}})
		}
	}

	return events
}

func (e *SimulationEngine) handleOverheat(st *simState, ladder strategy.ProfitLadder, i int, bar domain.PriceBar, sneakEntry, contributedToday bool) []pendingEvent {
	p := st.portfolio
	events := []pendingEvent{}

	if ev, ok := e.checkProfitLadder(st, ladder, bar); ok {
		events = append(events, ev)
	}

	if !p.SafeAsset.Empty() {
		if sneakEntry {
			// the gap itself confirms momentum; enter anyway and anchor
			// the stop just above the moving average instead of the
			// not-yet-established cost basis
			days, interest := e.safeHoldingInfo(st, bar)
			p.SellSafeAsset(bar.SafeAssetClose)
			p.BuyLeveraged(bar.LeveragedClose, p.Cash)
			st.safeBuyCost = 0
			st.safeBuyDate = time.Time{}
			st.gapEntryStopRef = bar.MovingAverage * 1.01
			events = append(events, pendingEvent{domain.ActionGapEntryBuy, domain.TradeDetail{
				Asset:           domain.SlotLeveraged,
				ExecPrice:       bar.LeveragedClose,
				Amount:          p.Leveraged.Shares * bar.LeveragedClose,
				SafeHoldingDays: days,
				SafeInterest:    interest,
			}})
		} else if p.Cash > 0 {
			events = append(events, e.deployIntoProfitAsset(st, i, bar, contributedToday))
		}
	} else if p.Cash > 0 {
		events = append(events, e.deployIntoProfitAsset(st, i, bar, contributedToday))
	}

	return events
}

// deployIntoProfitAsset routes available cash into the profit-parking
// asset during OVERHEAT: don't chase the leveraged asset, but don't sit
// in cash either.
func (e *SimulationEngine) deployIntoProfitAsset(st *simState, i int, bar domain.PriceBar, contributedToday bool) pendingEvent {
	p := st.portfolio
	deployed := p.Cash
	p.BuyProfitAsset(bar.ProfitAssetClose, p.Cash)

	switch {
	case contributedToday:
		return pendingEvent{domain.ActionPeriodicContribution, domain.TradeDetail{
			Asset:        domain.SlotProfitAsset,
			ExecPrice:    bar.ProfitAssetClose,
			Contribution: e.cfg.MonthlyContribution,
		}}
	case i == 0:
		return pendingEvent{domain.ActionInitialDeploy, domain.TradeDetail{
			Asset:     domain.SlotProfitAsset,
			ExecPrice: bar.ProfitAssetClose,
			Amount:    deployed,
		}}
	default:
		return pendingEvent{domain.ActionOverheatRotate, domain.TradeDetail{
			Asset:     domain.SlotProfitAsset,
			ExecPrice: bar.ProfitAssetClose,
			Amount:    deployed,
		}}
	}
}

// checkProfitLadder skims part of the leveraged position into the
// profit-parking asset when a new milestone rung is crossed. At most one
// rung is realized per day even if price gapped through several.
func (e *SimulationEngine) checkProfitLadder(st *simState, ladder strategy.ProfitLadder, bar domain.PriceBar) (pendingEvent, bool) {
	p := st.portfolio
	if !e.cfg.ProfitTaking {
		return pendingEvent{}, false
	}
	gain, ok := p.Leveraged.GainPercent(bar.LeveragedClose)
	if !ok {
		return pendingEvent{}, false
	}
	milestone, ok := ladder.NextMilestone(gain, p.LastMilestone)
	if !ok {
		return pendingEvent{}, false
	}

	sellShares := p.Leveraged.Shares * e.cfg.ProfitRatio
	sellValue := sellShares * bar.LeveragedClose
	proceeds := p.SellLeveraged(bar.LeveragedClose, e.cfg.ProfitRatio)
	p.BuyProfitAsset(bar.ProfitAssetClose, proceeds)
	p.LastMilestone = milestone

	return pendingEvent{domain.ActionProfitLadderSell, domain.TradeDetail{
		Asset:      domain.SlotProfitAsset,
		ExecPrice:  bar.LeveragedClose,
		SharesSold: sellShares,
		Amount:     sellValue,
		Milestone:  milestone,
	}}, true
}

func (e *SimulationEngine) safeHoldingInfo(st *simState, bar domain.PriceBar) (int, float64) {
	p := st.portfolio
	if st.safeBuyCost <= 0 || p.SafeAsset.Empty() || st.safeBuyDate.IsZero() {
		return 0, 0
	}
	value := p.SafeAsset.Shares * bar.SafeAssetClose
	days := int(math.Round(bar.Date.Sub(st.safeBuyDate).Hours() / 24))
	return days, value - st.safeBuyCost
}

func (e *SimulationEngine) positionStatuses(p *domain.Portfolio, leverPrice, profitPrice, safePrice float64) []domain.PositionStatus {
	statuses := []domain.PositionStatus{}
	if g, ok := p.Leveraged.GainPercent(leverPrice); ok {
		statuses = append(statuses, domain.PositionStatus{
			Asset:       domain.SlotLeveraged,
			AvgCost:     p.Leveraged.AvgCost,
			Price:       leverPrice,
			GainPercent: g,
		})
	}
	if g, ok := p.ProfitAsset.GainPercent(profitPrice); ok {
		statuses = append(statuses, domain.PositionStatus{
			Asset:       domain.SlotProfitAsset,
			AvgCost:     p.ProfitAsset.AvgCost,
			Price:       profitPrice,
			GainPercent: g,
		})
	}
	if g, ok := p.SafeAsset.GainPercent(safePrice); ok {
		statuses = append(statuses, domain.PositionStatus{
			Asset:       domain.SlotSafeAsset,
			AvgCost:     p.SafeAsset.AvgCost,
			Price:       safePrice,
			GainPercent: g,
		})
	}
	return statuses
}

func gainPercent(totalValue, totalContributed float64) float64 {
	if totalContributed <= 0 {
		return 0
	}
	return (totalValue - totalContributed) / totalContributed * 100
}

func sameDay(t1, t2 time.Time) bool {
	return t1.Format(time.DateOnly) == t2.Format(time.DateOnly)
}
