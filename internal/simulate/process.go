package simulate

import (
	"math"
	"math/rand"
	"time"

	"storage-valuation/internal/model"
)

// priceFloor prevents non-physical negative commodity prices. Simulated
// prices are clamped here rather than resampled.
const priceFloor = 1e-6

// Simulator produces independent mean-reverting price paths. Each path draws
// from its own substream derived from the run seed and the path index, so the
// order paths are consumed in (e.g. by parallel workers) never changes the
// shocks a given path sees.
type Simulator struct {
	cfg     model.SimulationConfig
	runSeed int64
}

// New validates the config and returns a simulator. When the config carries
// no seed the run seed is taken from the wall clock, so repeated runs differ.
func New(cfg model.SimulationConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	if cfg.RandomSeed != nil {
		seed = *cfg.RandomSeed
	}
	return &Simulator{cfg: cfg, runSeed: seed}, nil
}

// NumPaths returns how many paths this simulator will produce.
func (s *Simulator) NumPaths() int { return s.cfg.NumPaths }

// Seed returns the run seed actually in use.
func (s *Simulator) Seed() int64 { return s.runSeed }

// Path generates path index i (0 <= i < NumPaths). Paths are generated on
// demand and are independent pure functions of (runSeed, i).
func (s *Simulator) Path(i int) model.PricePath {
	rng := rand.New(rand.NewSource(substreamSeed(s.runSeed, i)))

	prices := make(model.PricePath, s.cfg.HorizonSteps)
	price := s.cfg.Anchor()
	if price < priceFloor {
		price = priceFloor
	}
	prices[0] = price

	// Discrete mean-reverting update with unit step size:
	//   p' = p + kappa*(mu - p) + sigma*sqrt(dt)*Z
	kappa := s.cfg.MeanReversionRate
	mu := s.cfg.LongRunPrice
	sigma := s.cfg.Volatility
	sqrtDt := 1.0 // dt = one step

	for t := 1; t < s.cfg.HorizonSteps; t++ {
		shock := 0.0
		if sigma > 0 {
			shock = sigma * sqrtDt * rng.NormFloat64()
		}
		price = price + kappa*(mu-price) + shock
		if price < priceFloor {
			price = priceFloor
		}
		prices[t] = price
	}
	return prices
}

// Paths returns all paths in index order. The engine prefers Path(i) so
// workers can generate lazily; this is the convenience form for tooling.
func (s *Simulator) Paths() []model.PricePath {
	out := make([]model.PricePath, s.cfg.NumPaths)
	for i := range out {
		out[i] = s.Path(i)
	}
	return out
}

// substreamSeed folds the run seed and path index through a splitmix64
// scramble. Adjacent indexes map to statistically unrelated seeds, which
// plain seed+index does not guarantee for math/rand's source.
func substreamSeed(runSeed int64, index int) int64 {
	z := uint64(runSeed) + (uint64(index)+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	z &= math.MaxInt64
	if z == 0 {
		z = 1
	}
	return int64(z)
}
