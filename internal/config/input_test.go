package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tpgo/tpgo/internal/domain"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfigYAML = `
distribution:
  kind: synthetic
  synthetic: lognormal
  population: 5000
  seed: 42
policies:
  - name: Flat 25
    type: flat
    rate: 0.25
  - name: Two Bracket
    type: progressive
    brackets:
      - min: 0
        max: 50000
        rate: 0.10
      - min: 50000
        rate: 0.40
ranking:
  criteria:
    revenue: 0.5
    progressivity: 0.3
    efficiency: 0.2
sensitivity:
  policy: Flat 25
  parameters:
    - name: rate
      min: 0.1
      max: 0.4
      steps: 4
`

func TestLoadFromFile(t *testing.T) {
	parser := NewInputParser()

	cfg, err := parser.LoadFromFile(writeTempConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "synthetic", cfg.Distribution.Kind)
	assert.Equal(t, int64(42), cfg.Distribution.Seed)
	require.Len(t, cfg.Policies, 2)
	assert.Equal(t, domain.KindFlat, cfg.Policies[0].Type)
	assert.Equal(t, domain.KindProgressive, cfg.Policies[1].Type)

	// open-ended bracket parses with a nil max
	require.Len(t, cfg.Policies[1].Brackets, 2)
	assert.Nil(t, cfg.Policies[1].Brackets[1].Max)

	require.NotNil(t, cfg.Ranking)
	assert.True(t, cfg.Ranking.Criteria["revenue"].Equal(decimal.NewFromFloat(0.5)))

	require.NotNil(t, cfg.Sensitivity)
	assert.Equal(t, "Flat 25", cfg.Sensitivity.Policy)
	require.Len(t, cfg.Sensitivity.Parameters, 1)
	assert.Equal(t, 4, cfg.Sensitivity.Parameters[0].Steps)
}

func TestLoadFromFileMissing(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfigErrors(t *testing.T) {
	parser := NewInputParser()
	rate := decimal.NewFromFloat(0.25)

	flatSpec := func(name string) domain.PolicySpec {
		return domain.PolicySpec{Name: name, Type: domain.KindFlat, Rate: &rate}
	}

	tests := []struct {
		name   string
		config AnalysisConfig
		errMsg string
	}{
		{
			name:   "no policies",
			config: AnalysisConfig{},
			errMsg: "no policies",
		},
		{
			name: "duplicate names",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{flatSpec("A"), flatSpec("A")},
			},
			errMsg: "duplicate name",
		},
		{
			name: "missing name",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{{Type: domain.KindFlat, Rate: &rate}},
			},
			errMsg: "name is required",
		},
		{
			name: "progressive without brackets",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{{Name: "P", Type: domain.KindProgressive}},
			},
			errMsg: "require brackets",
		},
		{
			name: "flat without rate",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{{Name: "F", Type: domain.KindFlat}},
			},
			errMsg: "require a rate",
		},
		{
			name: "unknown policy type",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{{Name: "X", Type: "lump_sum"}},
			},
			errMsg: "unknown policy type",
		},
		{
			name: "unknown synthetic distribution",
			config: AnalysisConfig{
				Distribution: DistributionConfig{Kind: "synthetic", Synthetic: "pareto"},
				Policies:     []domain.PolicySpec{flatSpec("A")},
			},
			errMsg: "unknown synthetic distribution",
		},
		{
			name: "negative population",
			config: AnalysisConfig{
				Distribution: DistributionConfig{Kind: "synthetic", Population: -100},
				Policies:     []domain.PolicySpec{flatSpec("A")},
			},
			errMsg: "population cannot be negative",
		},
		{
			name: "csv without path",
			config: AnalysisConfig{
				Distribution: DistributionConfig{Kind: "csv"},
				Policies:     []domain.PolicySpec{flatSpec("A")},
			},
			errMsg: "requires a path",
		},
		{
			name: "unknown distribution kind",
			config: AnalysisConfig{
				Distribution: DistributionConfig{Kind: "census"},
				Policies:     []domain.PolicySpec{flatSpec("A")},
			},
			errMsg: "unknown distribution kind",
		},
		{
			name: "unknown ranking criterion",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{flatSpec("A")},
				Ranking:  &RankingConfig{Criteria: map[string]decimal.Decimal{"fairness": decimal.NewFromInt(1)}},
			},
			errMsg: "unknown ranking criterion",
		},
		{
			name: "negative ranking weight",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{flatSpec("A")},
				Ranking:  &RankingConfig{Criteria: map[string]decimal.Decimal{"revenue": decimal.NewFromInt(-1)}},
			},
			errMsg: "negative weight",
		},
		{
			name: "sensitivity policy undefined",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{flatSpec("A")},
				Sensitivity: &SensitivityConfig{
					Policy: "B",
					Parameters: []domain.SensitivityParameter{
						{Name: "rate", MinValue: decimal.Zero, MaxValue: decimal.NewFromInt(1), Steps: 3},
					},
				},
			},
			errMsg: "not defined in policies",
		},
		{
			name: "sensitivity steps too small",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{flatSpec("A")},
				Sensitivity: &SensitivityConfig{
					Parameters: []domain.SensitivityParameter{
						{Name: "rate", MinValue: decimal.Zero, MaxValue: decimal.NewFromInt(1), Steps: 1},
					},
				},
			},
			errMsg: "steps must be at least 2",
		},
		{
			name: "sensitivity min above max",
			config: AnalysisConfig{
				Policies: []domain.PolicySpec{flatSpec("A")},
				Sensitivity: &SensitivityConfig{
					Parameters: []domain.SensitivityParameter{
						{Name: "rate", MinValue: decimal.NewFromInt(2), MaxValue: decimal.NewFromInt(1), Steps: 3},
					},
				},
			},
			errMsg: "min must be below max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.ValidateConfig(&tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateConfigAllowsOmittedPopulation(t *testing.T) {
	parser := NewInputParser()
	rate := decimal.NewFromFloat(0.25)

	// population left at zero means the generator default applies
	cfg := AnalysisConfig{
		Distribution: DistributionConfig{Kind: "synthetic"},
		Policies:     []domain.PolicySpec{{Name: "A", Type: domain.KindFlat, Rate: &rate}},
	}
	assert.NoError(t, parser.ValidateConfig(&cfg))
}

func TestBuildPolicies(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(writeTempConfig(t, validConfigYAML))
	require.NoError(t, err)

	policies, err := cfg.BuildPolicies()
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, "Flat 25", policies[0].PolicyName())
	assert.Equal(t, domain.KindProgressive, policies[1].Kind())

	// 50000*0.10 + 50000*0.40
	tax := policies[1].CalculateTax(decimal.NewFromInt(100000))
	assert.True(t, tax.Equal(decimal.NewFromInt(25000)), "got %s", tax)
}

func TestBuildPoliciesSurfacesBracketError(t *testing.T) {
	cfg := AnalysisConfig{Policies: []domain.PolicySpec{
		{Name: "Bad", Type: domain.KindProgressive, Brackets: []domain.BracketSpec{
			{Min: decimal.NewFromInt(1000), Rate: decimal.NewFromFloat(-0.5)},
		}},
	}}

	_, err := cfg.BuildPolicies()
	assert.Error(t, err)
}

func TestBuildDistributionSynthetic(t *testing.T) {
	cfg := AnalysisConfig{Distribution: DistributionConfig{
		Kind:       "synthetic",
		Synthetic:  "normal",
		Population: 2000,
		Seed:       7,
	}}

	dist, err := cfg.BuildDistribution()
	require.NoError(t, err)
	require.NoError(t, dist.Validate())
	assert.NotEmpty(t, dist.Bands)

	// same seed, same distribution
	again, err := cfg.BuildDistribution()
	require.NoError(t, err)
	assert.True(t, dist.TotalIncome().Equal(again.TotalIncome()))
}

func TestBuildDistributionDefaultsToLognormal(t *testing.T) {
	cfg := AnalysisConfig{Distribution: DistributionConfig{Population: 1000, Seed: 1}}
	dist, err := cfg.BuildDistribution()
	require.NoError(t, err)
	assert.NotEmpty(t, dist.Bands)
}

func TestBuildDistributionMissingCSV(t *testing.T) {
	cfg := AnalysisConfig{Distribution: DistributionConfig{
		Kind: "csv",
		Path: filepath.Join(t.TempDir(), "absent.csv"),
	}}
	_, err := cfg.BuildDistribution()
	assert.Error(t, err)
}
