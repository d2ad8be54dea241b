package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "storeval",
	Short: "Storage contract valuation by Monte Carlo simulation",
	Long: `Values physical storage contracts: simulates mean-reverting price
paths, finds the optimal injection/withdrawal plan per path by dynamic
programming, and summarizes the payoff distribution with VaR/CVaR.

Examples:
  storeval value --config examples/config.yaml
  storeval value --config examples/config.yaml --out results/distribution.csv
  storeval paths --config examples/config.yaml --n 10 --out results/paths.csv`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console|json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
