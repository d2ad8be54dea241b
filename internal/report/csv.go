package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"storage-valuation/internal/model"
)

// WriteLedgerCSV dumps one path's dispatch ledger, one row per time step.
func WriteLedgerCSV(path string, steps []model.StepRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"price",
		"action",
		"quantity",
		"inventory_start",
		"inventory_end",
		"cash_flow",
		"discounted_cash_flow",
		"cum_value",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range steps {
		row := []string{
			strconv.Itoa(s.Index),
			fmtFloat(s.Price),
			string(s.Action),
			fmtFloat(s.Quantity),
			fmtFloat(s.InventoryStart),
			fmtFloat(s.InventoryEnd),
			fmtFloat(s.CashFlow),
			fmtFloat(s.DiscountedCashFlow),
			fmtFloat(s.CumValue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteDistributionCSV dumps the sorted payoff distribution for histograms.
func WriteDistributionCSV(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"rank", "path_value"}); err != nil {
		return err
	}
	for i, v := range values {
		if err := w.Write([]string{strconv.Itoa(i), fmtFloat(v)}); err != nil {
			return err
		}
	}
	return w.Error()
}

// WritePathsCSV dumps simulated price paths, one column per path.
func WritePathsCSV(path string, paths []model.PricePath) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, 0, len(paths)+1)
	header = append(header, "step")
	for i := range paths {
		header = append(header, "path_"+strconv.Itoa(i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	if len(paths) == 0 {
		return w.Error()
	}
	for t := 0; t < len(paths[0]); t++ {
		row := make([]string, 0, len(paths)+1)
		row = append(row, strconv.Itoa(t))
		for i := range paths {
			row = append(row, fmtFloat(paths[i][t]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
