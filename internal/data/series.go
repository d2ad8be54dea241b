package data

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// PricePoint is one observed price row from an exported history file.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries matches the JSON shape produced by the upload/export layer:
//
//	{ "data": [ {"date": "...", "price": 3.42}, ... ] }
type PriceSeries struct {
	Data []PricePoint `json:"data"`
}

func LoadPriceSeriesJSON(path string) (*PriceSeries, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s PriceSeries
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Calibration is the summary-statistics hand-off from historical prices to a
// simulation config. Calibrating process parameters properly (ARIMA and
// friends) happens upstream; this is the plain empirical fallback.
type Calibration struct {
	AnchorPrice      float64
	MeanPrice        float64
	ReturnVolatility float64
	Observations     int
}

// Calibrate derives anchor (last observed price), mean price and one-step
// return volatility from the series.
func (s *PriceSeries) Calibrate() (Calibration, error) {
	if len(s.Data) < 3 {
		return Calibration{}, fmt.Errorf("need at least 3 observations, got %d", len(s.Data))
	}

	sum := 0.0
	for _, p := range s.Data {
		if p.Price <= 0 {
			return Calibration{}, fmt.Errorf("non-positive price %.4f at %s", p.Price, p.Date.Format("2006-01-02"))
		}
		sum += p.Price
	}
	mean := sum / float64(len(s.Data))

	returns := make([]float64, 0, len(s.Data)-1)
	for i := 1; i < len(s.Data); i++ {
		returns = append(returns, s.Data[i].Price/s.Data[i-1].Price-1)
	}
	rMean := 0.0
	for _, r := range returns {
		rMean += r
	}
	rMean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		d := r - rMean
		variance += d * d
	}
	vol := math.Sqrt(variance / float64(len(returns)-1))

	return Calibration{
		AnchorPrice:      s.Data[len(s.Data)-1].Price,
		MeanPrice:        mean,
		ReturnVolatility: vol,
		Observations:     len(s.Data),
	}, nil
}
