package transform

import (
	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/domain"
)

func bracket(min, max int64, rate float64) domain.Bracket {
	return domain.Bracket{
		Min:  decimal.NewFromInt(min),
		Max:  decimal.NewFromInt(max),
		Rate: decimal.NewFromFloat(rate),
	}
}

func openBracket(min int64, rate float64) domain.Bracket {
	return domain.Bracket{
		Min:  decimal.NewFromInt(min),
		Max:  domain.NoCeiling,
		Rate: decimal.NewFromFloat(rate),
	}
}

// BuiltInPresets returns a registry holding the standard demo policies:
// a five-bracket US-style progressive schedule, a 25% flat tax, and a
// descending-rate regressive schedule.
func BuiltInPresets() *PresetRegistry {
	registry := NewPresetRegistry()

	registry.Register(Preset{
		Name:        "us_progressive",
		Description: "US-style progressive tax with five brackets from 10% to 35%",
		Build: func() (domain.TaxPolicy, error) {
			return domain.NewProgressiveTax("US Progressive", []domain.Bracket{
				bracket(0, 10000, 0.10),
				bracket(10000, 40000, 0.15),
				bracket(40000, 80000, 0.25),
				bracket(80000, 160000, 0.30),
				openBracket(160000, 0.35),
			})
		},
	})

	registry.Register(Preset{
		Name:        "flat_25",
		Description: "Flat tax at 25% on all income",
		Build: func() (domain.TaxPolicy, error) {
			return domain.NewFlatTax("Flat Tax 25%", decimal.NewFromFloat(0.25))
		},
	})

	registry.Register(Preset{
		Name:        "regressive",
		Description: "Regressive tax with rates descending from 30% to 15%",
		Build: func() (domain.TaxPolicy, error) {
			return domain.NewRegressiveTax("Regressive Tax", []domain.Bracket{
				bracket(0, 50000, 0.30),
				bracket(50000, 100000, 0.25),
				bracket(100000, 200000, 0.20),
				openBracket(200000, 0.15),
			})
		},
	})

	return registry
}

// BuildAll constructs every registered preset policy, ordered by name.
func (pr *PresetRegistry) BuildAll() ([]domain.TaxPolicy, error) {
	policies := make([]domain.TaxPolicy, 0, len(pr.presets))
	for _, name := range pr.Names() {
		preset, _ := pr.Get(name)
		policy, err := preset.Build()
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, nil
}
