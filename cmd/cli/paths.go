package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storage-valuation/internal/config"
	"storage-valuation/internal/model"
	"storage-valuation/internal/report"
	"storage-valuation/internal/simulate"
)

var (
	pathsConfigPath string
	pathsOutPath    string
	pathsN          int
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Dump simulated price paths to CSV",
	Long:  `Generates the first N simulated price paths for inspection or plotting.`,
	RunE:  runPaths,
}

func init() {
	rootCmd.AddCommand(pathsCmd)

	pathsCmd.Flags().StringVar(&pathsConfigPath, "config", "", "path to YAML config (required)")
	pathsCmd.Flags().StringVar(&pathsOutPath, "out", "results/paths.csv", "output CSV path")
	pathsCmd.Flags().IntVar(&pathsN, "n", 10, "number of paths to dump")
	_ = pathsCmd.MarkFlagRequired("config")
}

func runPaths(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(pathsConfigPath)
	if err != nil {
		return err
	}

	sim, err := simulate.New(cfg.Simulation.ToModel())
	if err != nil {
		return err
	}

	n := pathsN
	if n > sim.NumPaths() {
		n = sim.NumPaths()
	}
	paths := make([]model.PricePath, n)
	for i := 0; i < n; i++ {
		paths[i] = sim.Path(i)
	}

	if err := report.WritePathsCSV(pathsOutPath, paths); err != nil {
		return err
	}
	fmt.Printf("wrote %d paths (%d steps, seed %d) to %s\n", n, cfg.Simulation.HorizonSteps, sim.Seed(), pathsOutPath)
	return nil
}
