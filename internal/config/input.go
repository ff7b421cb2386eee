package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/calculation"
	"github.com/tpgo/tpgo/internal/dataset"
	"github.com/tpgo/tpgo/internal/domain"
	"gopkg.in/yaml.v3"
)

// DistributionConfig selects the income distribution for an analysis:
// either a synthetic generator spec or a CSV file path.
type DistributionConfig struct {
	Kind       string  `yaml:"kind"` // "synthetic" or "csv"
	Synthetic  string  `yaml:"synthetic,omitempty"`
	Population int     `yaml:"population,omitempty"`
	Mean       float64 `yaml:"mean,omitempty"`
	Std        float64 `yaml:"std,omitempty"`
	Scale      float64 `yaml:"scale,omitempty"`
	Seed       int64   `yaml:"seed,omitempty"`
	Path       string  `yaml:"path,omitempty"`
}

// RankingConfig carries the criteria weight map for policy ranking.
type RankingConfig struct {
	Criteria map[string]decimal.Decimal `yaml:"criteria"`
}

// SensitivityConfig names the policy to sweep and its parameter ranges.
type SensitivityConfig struct {
	Policy     string                        `yaml:"policy"`
	Parameters []domain.SensitivityParameter `yaml:"parameters"`
}

// AnalysisConfig is the root of an analysis YAML file.
type AnalysisConfig struct {
	Distribution DistributionConfig  `yaml:"distribution"`
	Policies     []domain.PolicySpec `yaml:"policies"`
	Ranking      *RankingConfig      `yaml:"ranking,omitempty"`
	Sensitivity  *SensitivityConfig  `yaml:"sensitivity,omitempty"`
}

// InputParser handles parsing of analysis configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a YAML analysis configuration.
func (ip *InputParser) LoadFromFile(filename string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config AnalysisConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfig validates the loaded configuration.
func (ip *InputParser) ValidateConfig(config *AnalysisConfig) error {
	if err := ip.validatePolicies(config.Policies); err != nil {
		return err
	}
	if err := ip.validateDistribution(&config.Distribution); err != nil {
		return fmt.Errorf("distribution validation failed: %w", err)
	}
	if config.Ranking != nil {
		if err := ip.validateRanking(config.Ranking); err != nil {
			return fmt.Errorf("ranking validation failed: %w", err)
		}
	}
	if config.Sensitivity != nil {
		if err := ip.validateSensitivity(config.Sensitivity, config.Policies); err != nil {
			return fmt.Errorf("sensitivity validation failed: %w", err)
		}
	}
	return nil
}

func (ip *InputParser) validatePolicies(policies []domain.PolicySpec) error {
	if len(policies) == 0 {
		return fmt.Errorf("no policies provided")
	}

	seen := make(map[string]bool, len(policies))
	for i, spec := range policies {
		if spec.Name == "" {
			return fmt.Errorf("policy %d: name is required", i)
		}
		if seen[spec.Name] {
			return fmt.Errorf("policy %d: duplicate name %q", i, spec.Name)
		}
		seen[spec.Name] = true

		switch spec.Type {
		case domain.KindProgressive, domain.KindRegressive:
			if len(spec.Brackets) == 0 {
				return fmt.Errorf("policy %q: %s policies require brackets", spec.Name, spec.Type)
			}
		case domain.KindFlat:
			if spec.Rate == nil {
				return fmt.Errorf("policy %q: flat policies require a rate", spec.Name)
			}
		default:
			return fmt.Errorf("policy %q: unknown policy type %q", spec.Name, spec.Type)
		}
	}
	return nil
}

func (ip *InputParser) validateDistribution(dc *DistributionConfig) error {
	switch dc.Kind {
	case "", "synthetic":
		switch dc.Synthetic {
		case "", calculation.DistLognormal, calculation.DistNormal, calculation.DistExponential:
		default:
			return fmt.Errorf("unknown synthetic distribution %q", dc.Synthetic)
		}
		// population 0 means "use the generator default"
		if dc.Population < 0 {
			return fmt.Errorf("population cannot be negative, got %d", dc.Population)
		}
	case "csv":
		if dc.Path == "" {
			return fmt.Errorf("csv distribution requires a path")
		}
	default:
		return fmt.Errorf("unknown distribution kind %q", dc.Kind)
	}
	return nil
}

func (ip *InputParser) validateRanking(rc *RankingConfig) error {
	if len(rc.Criteria) == 0 {
		return fmt.Errorf("ranking requires at least one criterion")
	}
	for name, weight := range rc.Criteria {
		switch name {
		case "revenue", "progressivity", "efficiency":
		default:
			return fmt.Errorf("unknown ranking criterion %q", name)
		}
		if weight.IsNegative() {
			return fmt.Errorf("criterion %q has negative weight %s", name, weight.String())
		}
	}
	return nil
}

func (ip *InputParser) validateSensitivity(sc *SensitivityConfig, policies []domain.PolicySpec) error {
	if sc.Policy != "" {
		found := false
		for _, spec := range policies {
			if spec.Name == sc.Policy {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("sensitivity policy %q is not defined in policies", sc.Policy)
		}
	}
	if len(sc.Parameters) == 0 {
		return fmt.Errorf("sensitivity requires at least one parameter")
	}
	for i, p := range sc.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter %d: name is required", i)
		}
		if p.Steps < 2 {
			return fmt.Errorf("parameter %q: steps must be at least 2, got %d", p.Name, p.Steps)
		}
		if !p.MinValue.LessThan(p.MaxValue) {
			return fmt.Errorf("parameter %q: min must be below max", p.Name)
		}
	}
	return nil
}

// BuildPolicies constructs the configured policies via the domain
// constructors, so bracket violations surface as *domain.BracketError.
func (ac *AnalysisConfig) BuildPolicies() ([]domain.TaxPolicy, error) {
	policies := make([]domain.TaxPolicy, 0, len(ac.Policies))
	for _, spec := range ac.Policies {
		policy, err := domain.FromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to build policy %q: %w", spec.Name, err)
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

// BuildDistribution resolves the configured income distribution, either
// generating a synthetic one or loading a CSV table.
func (ac *AnalysisConfig) BuildDistribution() (*domain.IncomeDistribution, error) {
	dc := ac.Distribution
	if dc.Kind == "csv" {
		dist, err := dataset.LoadDistributionCSV(dc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load distribution from %s: %w", dc.Path, err)
		}
		return dist, nil
	}

	kind := dc.Synthetic
	if kind == "" {
		kind = calculation.DistLognormal
	}
	gen := &calculation.DistributionGenerator{Seed: dc.Seed}
	dist, err := gen.Generate(calculation.GeneratorSpec{
		Kind:       kind,
		Population: dc.Population,
		Mean:       dc.Mean,
		Std:        dc.Std,
		Scale:      dc.Scale,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s distribution: %w", kind, err)
	}
	return dist, nil
}
