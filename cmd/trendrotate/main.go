package main

import (
	"fmt"
	"os"
	"time"

	"trendrotate/cmd"
	"trendrotate/internal/app"
	"trendrotate/internal/display"
	"trendrotate/internal/domain"
	"trendrotate/internal/service"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

var (
	runTicker        string
	runStart         string
	runEnd           string
	runCapital       float64
	runContribution  float64
	runStopLossPct   float64
	runProfitStart   float64
	runProfitSpacing float64
	runProfitRatio   float64
	runNoProfit      bool
	runNoConfirm     bool
	runMAPeriod      int
	runCsvOut        string
)

var rootCmd = &cobra.Command{
	Use:   "trendrotate",
	Short: "Backtest a trend-following rotation strategy on leveraged ETFs",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one backtest and print the trade ledger",
	RunE:  runBacktest,
}

var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "List the supported leveraged tickers",
	Run: func(_ *cobra.Command, _ []string) {
		for _, t := range service.AvailableTickers() {
			fmt.Printf("%-8s  since %s  %s\n", t.Ticker, t.EarliestDate, t.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tickersCmd)

	runCmd.Flags().StringVar(&runTicker, "ticker", "TQQQ", "leveraged ticker to trade")
	runCmd.Flags().StringVar(&runStart, "start", "2015-01-01", "backtest start date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runEnd, "end", time.Now().UTC().Format("2006-01-02"), "backtest end date (YYYY-MM-DD)")
	runCmd.Flags().Float64Var(&runCapital, "capital", 10000, "initial capital")
	runCmd.Flags().Float64Var(&runContribution, "contribution", 0, "monthly contribution")
	runCmd.Flags().Float64Var(&runStopLossPct, "stop-loss", app.DefaultStopLossFraction*100, "stop-loss percent")
	runCmd.Flags().Float64Var(&runProfitStart, "profit-start", app.DefaultProfitStart, "profit ladder start percent")
	runCmd.Flags().Float64Var(&runProfitSpacing, "profit-spacing", app.DefaultProfitSpacing, "profit ladder spacing percent")
	runCmd.Flags().Float64Var(&runProfitRatio, "profit-ratio", app.DefaultProfitRatio, "profit ladder sell ratio")
	runCmd.Flags().BoolVar(&runNoProfit, "no-profit-taking", false, "disable the profit ladder")
	runCmd.Flags().BoolVar(&runNoConfirm, "no-confirm", false, "disable the one-bar breakout confirmation")
	runCmd.Flags().IntVar(&runMAPeriod, "ma-period", service.DefaultMAPeriod, "moving average lookback in trading days")
	runCmd.Flags().StringVar(&runCsvOut, "csv", "", "write the trade ledger to this CSV file")
}

func runBacktest(_ *cobra.Command, _ []string) error {
	start, err := time.Parse("2006-01-02", runStart)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", runEnd)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	cfg := app.DefaultSimulationConfig(runTicker)
	cfg.InitialCapital = runCapital
	cfg.MonthlyContribution = runContribution
	cfg.StopLossFraction = runStopLossPct / 100
	cfg.ProfitStart = runProfitStart
	cfg.ProfitSpacing = runProfitSpacing
	cfg.ProfitRatio = runProfitRatio
	cfg.ProfitTaking = !runNoProfit
	cfg.ConfirmCross = !runNoConfirm

	engine, err := app.NewSimulationEngine(cfg)
	if err != nil {
		return err
	}

	handler, err := cmd.InitializeDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(handler)

	bars, err := handler.PriceService.AssembleBars(service.AssembleBarsInput{
		LeveragedTicker: runTicker,
		Start:           start,
		End:             end,
		MAPeriod:        runMAPeriod,
	})
	if err != nil {
		return err
	}

	result, err := engine.Run(bars)
	if err != nil {
		return err
	}

	printResult(runTicker, result)

	if runCsvOut != "" {
		if err := writeLedgerCsv(runCsvOut, runTicker, result); err != nil {
			return err
		}
		fmt.Printf("\nledger written to %s\n", runCsvOut)
	}

	return nil
}

func printResult(ticker string, result *domain.SimulationResult) {
	fmt.Printf("%s  %s -> %s  (%d trading days)\n",
		ticker,
		result.Snapshots[0].Date.Format("2006-01-02"),
		result.Snapshots[len(result.Snapshots)-1].Date.Format("2006-01-02"),
		len(result.Snapshots),
	)
	fmt.Printf("final value     $%.2f\n", result.FinalValue)
	fmt.Printf("contributed     $%.2f\n", result.TotalContributed)
	fmt.Printf("total return    %.2f%%\n", result.TotalReturnPercent)
	fmt.Printf("cagr            %.2f%%\n", result.CAGRPercent)
	fmt.Printf("max drawdown    %.2f%%\n", result.MaxDrawdownPercent)
	fmt.Printf("sharpe          %.2f\n\n", result.SharpeRatio)

	for _, t := range result.Trades {
		fmt.Printf("%s  %-10s  %s\n", t.Date.Format("2006-01-02"), t.Regime, display.DescribeTrade(t, ticker))
	}
}

type ledgerCsvRow struct {
	Date        string  `csv:"date"`
	Action      string  `csv:"action"`
	Regime      string  `csv:"regime"`
	Label       string  `csv:"label"`
	TotalValue  float64 `csv:"total_value"`
	Gain        float64 `csv:"gain"`
	GainPercent float64 `csv:"gain_percent"`
}

func writeLedgerCsv(path, ticker string, result *domain.SimulationResult) error {
	rows := make([]ledgerCsvRow, 0, len(result.Trades))
	for _, t := range result.Trades {
		rows = append(rows, ledgerCsvRow{
			Date:        t.Date.Format("2006-01-02"),
			Action:      string(t.Action),
			Regime:      string(t.Regime),
			Label:       display.DescribeTrade(t, ticker),
			TotalValue:  domain.Round2(t.TotalValue),
			Gain:        domain.Round2(t.Gain),
			GainPercent: domain.Round2(t.GainPercent),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return gocsv.MarshalFile(&rows, f)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
