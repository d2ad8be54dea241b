package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"storage-valuation/internal/config"
	"storage-valuation/internal/data"
	"storage-valuation/internal/logging"
	"storage-valuation/internal/optimize"
	"storage-valuation/internal/policy"
	"storage-valuation/internal/report"
	"storage-valuation/internal/simulate"
	"storage-valuation/internal/valuation"
)

var (
	valueConfigPath string
	valueDataPath   string
	valueOutPath    string
	valueLedgerPath string
	valueWorkers    int
)

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Run a valuation from a YAML config",
	Long: `Runs the full Monte Carlo valuation for the configured contract.

Optionally calibrates the anchor price and volatility from a historical
price series (--data), writes the payoff distribution to CSV (--out), and
writes the optimal dispatch ledger of the first simulated path (--ledger).`,
	RunE: runValue,
}

func init() {
	rootCmd.AddCommand(valueCmd)

	valueCmd.Flags().StringVar(&valueConfigPath, "config", "", "path to YAML config (required)")
	valueCmd.Flags().StringVar(&valueDataPath, "data", "", "optional historical price series JSON for calibration")
	valueCmd.Flags().StringVar(&valueOutPath, "out", "", "optional payoff distribution CSV path")
	valueCmd.Flags().StringVar(&valueLedgerPath, "ledger", "", "optional dispatch ledger CSV path (first path)")
	valueCmd.Flags().IntVar(&valueWorkers, "workers", 0, "parallel path workers (0 = one per CPU)")
	_ = valueCmd.MarkFlagRequired("config")
}

func runValue(cmd *cobra.Command, args []string) error {
	log := logging.New(logLevel, logFormat)

	cfg, err := config.Load(valueConfigPath)
	if err != nil {
		return err
	}

	if valueDataPath != "" {
		series, err := data.LoadPriceSeriesJSON(valueDataPath)
		if err != nil {
			return fmt.Errorf("load price series: %w", err)
		}
		cal, err := series.Calibrate()
		if err != nil {
			return fmt.Errorf("calibrate: %w", err)
		}
		cfg.Simulation.AnchorPrice = cal.AnchorPrice
		cfg.Simulation.Volatility = cal.ReturnVolatility * cal.MeanPrice
		log.Info().
			Int("observations", cal.Observations).
			Float64("anchor_price", cal.AnchorPrice).
			Float64("volatility", cfg.Simulation.Volatility).
			Msg("calibrated from historical series")
	}

	pol, err := policy.Build(cfg.Policy.Name, cfg.Policy.Params, cfg.Simulation.DiscountRate)
	if err != nil {
		return err
	}

	opts := []valuation.Option{valuation.WithLogger(log)}
	if valueOutPath != "" {
		opts = append(opts, valuation.WithDistribution())
	}
	if valueWorkers > 0 {
		opts = append(opts, valuation.WithWorkers(valueWorkers))
	}

	engine, err := valuation.New(cfg.Contract.ToModel(), cfg.Simulation.ToModel(), pol, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("contract:        %s\n", cfg.Contract.Name)
	fmt.Printf("policy:          %s\n", result.Policy)
	fmt.Printf("paths:           %d", result.NumPaths)
	if result.Partial {
		fmt.Printf(" (partial, run cancelled)")
	}
	fmt.Println()
	fmt.Printf("seed:            %d\n", result.Seed)
	fmt.Printf("mean value:      %.4f\n", result.MeanValue)
	fmt.Printf("std dev:         %.4f\n", result.StdDev)
	fmt.Printf("VaR  (%.0f%%):      %.4f\n", result.ConfidenceLevel*100, result.ValueAtRisk)
	fmt.Printf("CVaR (%.0f%%):      %.4f\n", result.ConfidenceLevel*100, result.ConditionalValueAtRisk)
	if result.InfeasiblePaths > 0 {
		fmt.Printf("infeasible:      %d paths skipped\n", result.InfeasiblePaths)
	}
	if result.PenalizedPaths > 0 {
		fmt.Printf("penalized:       %d paths missed the terminal target\n", result.PenalizedPaths)
	}

	if valueOutPath != "" {
		if err := report.WriteDistributionCSV(valueOutPath, result.Distribution); err != nil {
			return fmt.Errorf("write distribution: %w", err)
		}
		log.Info().Str("path", valueOutPath).Msg("wrote payoff distribution")
	}

	if valueLedgerPath != "" {
		sim, err := simulate.New(cfg.Simulation.ToModel())
		if err != nil {
			return err
		}
		opt := optimize.New(optimize.Params{DiscountRate: cfg.Simulation.DiscountRate})
		res, err := opt.Evaluate(sim.Path(0), cfg.Contract.ToModel())
		if err != nil {
			return fmt.Errorf("ledger path: %w", err)
		}
		if err := report.WriteLedgerCSV(valueLedgerPath, res.Steps); err != nil {
			return fmt.Errorf("write ledger: %w", err)
		}
		log.Info().Str("path", valueLedgerPath).Msg("wrote dispatch ledger for path 0")
	}

	return nil
}
