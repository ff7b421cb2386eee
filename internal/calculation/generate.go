package calculation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/domain"
)

// Distribution kinds supported by the synthetic generator.
const (
	DistLognormal   = "lognormal"
	DistNormal      = "normal"
	DistExponential = "exponential"
)

// GeneratorSpec describes a synthetic income distribution. Zero-valued
// parameters fall back to the kind's defaults.
type GeneratorSpec struct {
	Kind       string  `yaml:"kind"`
	Population int     `yaml:"population"`
	Mean       float64 `yaml:"mean"`  // lognormal: mean of log-income; normal: mean income
	Std        float64 `yaml:"std"`   // lognormal: std of log-income; normal: std of income
	Scale      float64 `yaml:"scale"` // exponential only
}

// DistributionGenerator samples individual incomes from a statistical
// model and bins them into roughly a hundred income bands.
// Deterministic under a fixed seed.
type DistributionGenerator struct {
	Seed int64
}

// NewDistributionGenerator creates a generator with the given seed.
func NewDistributionGenerator(seed int64) *DistributionGenerator {
	return &DistributionGenerator{Seed: seed}
}

const generatorBinEdges = 100

// Generate samples spec.Population incomes and aggregates them into
// equal-width bins spanning zero to the 99.9th percentile. Each band
// carries the bin midpoint as its income level and the sample count as
// its population; empty bins are kept.
func (g *DistributionGenerator) Generate(spec GeneratorSpec) (*domain.IncomeDistribution, error) {
	if spec.Population <= 0 {
		spec.Population = 1000000
	}

	rng := rand.New(rand.NewSource(g.Seed))
	incomes := make([]float64, spec.Population)

	switch spec.Kind {
	case DistLognormal, "":
		mean, std := spec.Mean, spec.Std
		if mean == 0 {
			mean = 10.0
		}
		if std == 0 {
			std = 0.5
		}
		for i := range incomes {
			incomes[i] = math.Exp(rng.NormFloat64()*std + mean)
		}
	case DistNormal:
		mean, std := spec.Mean, spec.Std
		if mean == 0 {
			mean = 50000
		}
		if std == 0 {
			std = 20000
		}
		for i := range incomes {
			income := rng.NormFloat64()*std + mean
			if income < 0 {
				income = 0
			}
			incomes[i] = income
		}
	case DistExponential:
		scale := spec.Scale
		if scale == 0 {
			scale = 50000
		}
		for i := range incomes {
			incomes[i] = rng.ExpFloat64() * scale
		}
	default:
		return nil, fmt.Errorf("unknown distribution kind: %s", spec.Kind)
	}

	return binIncomes(incomes), nil
}

// binIncomes aggregates raw samples into equal-width bins from 0 to the
// 99.9th percentile. Samples beyond the top edge are dropped, matching
// a histogram over those edges.
func binIncomes(incomes []float64) *domain.IncomeDistribution {
	upper := percentile(incomes, 0.999)
	if upper <= 0 {
		upper = 1
	}

	binCount := generatorBinEdges - 1
	width := upper / float64(binCount)
	counts := make([]int64, binCount)
	for _, income := range incomes {
		if income < 0 || income > upper {
			continue
		}
		idx := int(income / width)
		if idx >= binCount {
			idx = binCount - 1
		}
		counts[idx]++
	}

	bands := make([]domain.IncomeBand, binCount)
	for i := 0; i < binCount; i++ {
		midpoint := width * (float64(i) + 0.5)
		bands[i] = domain.IncomeBand{
			Income:     decimal.NewFromFloat(midpoint),
			Population: decimal.NewFromInt(counts[i]),
		}
	}
	return &domain.IncomeDistribution{Bands: bands}
}

// percentile returns the p-th quantile (0..1) by linear interpolation
// over the sorted samples.
func percentile(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
