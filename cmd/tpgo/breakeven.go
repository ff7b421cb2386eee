package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/tpgo/tpgo/internal/breakeven"
)

var breakEvenCmd = &cobra.Command{
	Use:   "breakeven [input-file]",
	Short: "Solve for the tax rate that hits a revenue target",
	Long: `Find the flat-tax rate (or, with --policy, the uniform bracket-rate
scale of a configured policy) whose revenue over the configured income
distribution matches the target.

Examples:
  tpgo breakeven config.yaml --target 5000000000
  tpgo breakeven config.yaml --target 5000000000 --policy "US Progressive"`,
	Args: cobra.ExactArgs(1),
	Run:  runBreakEven,
}

func init() {
	breakEvenCmd.Flags().String("target", "", "Target revenue to solve for (required)")
	breakEvenCmd.Flags().String("policy", "", "Solve a bracket-rate scale for this configured policy instead of a flat rate")
	breakEvenCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(breakEvenCmd)
}

func runBreakEven(cmd *cobra.Command, args []string) {
	targetStr, _ := cmd.Flags().GetString("target")
	if targetStr == "" {
		log.Fatal("--target flag is required")
	}
	target, err := decimal.NewFromString(targetStr)
	if err != nil {
		log.Fatalf("invalid target value %q: %v", targetStr, err)
	}

	_, policies, dist, err := loadAnalysisInputs(args[0])
	if err != nil {
		log.Fatal(err)
	}

	solver := breakeven.NewSolver()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		solver.SetLogger(simpleCLILogger{})
	}

	policyName, _ := cmd.Flags().GetString("policy")
	ctx := context.Background()

	var result *breakeven.Result
	if policyName == "" {
		result, err = solver.SolveFlatRate(ctx, dist, target)
	} else {
		for _, p := range policies {
			if p.PolicyName() == policyName {
				result, err = solver.SolveRateScale(ctx, p, dist, target)
				break
			}
		}
		if result == nil && err == nil {
			log.Fatalf("policy %q not found in configuration", policyName)
		}
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("BREAK-EVEN RATE ANALYSIS")
	fmt.Println("========================")
	fmt.Printf("Target Revenue:    $%s\n", result.TargetRevenue.StringFixed(2))
	fmt.Printf("Achieved Revenue:  $%s\n", result.AchievedRevenue.StringFixed(2))
	if policyName == "" {
		fmt.Printf("Solved Flat Rate:  %s%%\n", result.SolvedRate.Mul(decimal.NewFromInt(100)).StringFixed(3))
	} else {
		fmt.Printf("Policy:            %s\n", result.PolicyName)
		fmt.Printf("Solved Rate Scale: %s\n", result.SolvedScale.StringFixed(4))
	}
	fmt.Printf("Iterations:        %d\n", result.Iterations)
	if result.Converged {
		fmt.Println("Converged within tolerance")
	} else {
		fmt.Println("Did not converge; best iterate shown")
	}
}
