package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Sweep policy parameters and report the revenue response",
	Long: `Evaluate a policy across the parameter ranges declared in the
configuration's sensitivity block.

Examples:
  tpgo sensitivity config.yaml
  tpgo sensitivity config.yaml --debug`,
	Args: cobra.ExactArgs(1),
	Run:  runSensitivityAnalysis,
}

func init() {
	sensitivityCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(sensitivityCmd)
}

func runSensitivityAnalysis(cmd *cobra.Command, args []string) {
	cfg, policies, dist, err := loadAnalysisInputs(args[0])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Sensitivity == nil {
		log.Fatal("configuration has no sensitivity block")
	}

	base := policies[0]
	if cfg.Sensitivity.Policy != "" {
		found := false
		for _, p := range policies {
			if p.PolicyName() == cfg.Sensitivity.Policy {
				base = p
				found = true
				break
			}
		}
		if !found {
			// Config validation matches on spec names; policy display
			// names can differ, so double-check here.
			log.Fatalf("policy %q not found", cfg.Sensitivity.Policy)
		}
	}

	ranges := make(map[string][]decimal.Decimal, len(cfg.Sensitivity.Parameters))
	for _, param := range cfg.Sensitivity.Parameters {
		ranges[param.Name] = param.Values()
	}

	comparator := newComparator(cmd)
	results, err := comparator.SensitivityAnalysis(base, dist, ranges)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("SENSITIVITY ANALYSIS: %s\n", base.PolicyName())
	fmt.Println("========================================")
	for _, param := range cfg.Sensitivity.Parameters {
		points, ok := results[param.Name]
		if !ok {
			continue
		}
		fmt.Printf("\nParameter: %s\n", param.Name)
		fmt.Printf("%12s %18s %14s %12s\n", "Value", "Total Revenue", "Per Capita", "Kakwani")
		for _, point := range points {
			fmt.Printf("%12s %18s %14s %12s\n",
				point.Value.StringFixed(4),
				"$"+point.TotalRevenue.StringFixed(2),
				"$"+point.RevenuePerCapita.StringFixed(2),
				point.KakwaniIndex.StringFixed(4))
		}
	}
}
