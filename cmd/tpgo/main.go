package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/tpgo/tpgo/internal/compare"
	"github.com/tpgo/tpgo/internal/config"
	"github.com/tpgo/tpgo/internal/domain"
	"github.com/tpgo/tpgo/internal/output"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "tpgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "tpgo",
	Short: "Tax Policy Analysis CLI",
	Long:  "Model tax policies, calculate revenue, and analyze tax burden distribution",
}

// newComparator builds a comparator, wiring the CLI logger when --debug
// is set.
func newComparator(cmd *cobra.Command) *compare.Comparator {
	comparator := compare.NewComparator()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		comparator.SetLogger(simpleCLILogger{})
	}
	return comparator
}

// loadAnalysisInputs parses the config file and resolves its policies
// and income distribution.
func loadAnalysisInputs(inputFile string) (*config.AnalysisConfig, []domain.TaxPolicy, *domain.IncomeDistribution, error) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(inputFile)
	if err != nil {
		return nil, nil, nil, err
	}
	policies, err := cfg.BuildPolicies()
	if err != nil {
		return nil, nil, nil, err
	}
	dist, err := cfg.BuildDistribution()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, policies, dist, nil
}

// writeReport sends formatted bytes to --out or stdout.
func writeReport(cmd *cobra.Command, data []byte) error {
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	fmt.Printf("Report written to %s\n", outPath)
	return nil
}

func formatterFor(cmd *cobra.Command) (output.Formatter, error) {
	name, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(name)
	if f == nil {
		return nil, fmt.Errorf("unsupported format %q (available: %v)", name, output.FormatterNames())
	}
	return f, nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input-file]",
	Short: "Run the full policy analysis pipeline",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, policies, dist, err := loadAnalysisInputs(args[0])
		if err != nil {
			log.Fatal(err)
		}

		comparator := newComparator(cmd)
		set, err := comparator.ComprehensiveComparison(policies, dist)
		if err != nil {
			log.Fatal(err)
		}

		set.Efficiency, err = comparator.EfficiencyMetrics(policies, dist)
		if err != nil {
			log.Fatal(err)
		}
		set.Summary, err = comparator.PolicySummary(policies, dist)
		if err != nil {
			log.Fatal(err)
		}

		if cfg.Ranking != nil {
			ranking, err := comparator.RankPolicies(policies, dist, cfg.Ranking.Criteria)
			if err != nil {
				log.Fatal(err)
			}
			set.Ranking = ranking
		}

		formatter, err := formatterFor(cmd)
		if err != nil {
			log.Fatal(err)
		}
		data, err := formatter.Format(set)
		if err != nil {
			log.Fatal(err)
		}
		if err := writeReport(cmd, data); err != nil {
			log.Fatal(err)
		}
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare policy revenue over a common income distribution",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, policies, dist, err := loadAnalysisInputs(args[0])
		if err != nil {
			log.Fatal(err)
		}

		comparator := newComparator(cmd)
		rows, err := comparator.Revenue.ComparePolicies(policies, dist)
		if err != nil {
			log.Fatal(err)
		}

		formatter, err := formatterFor(cmd)
		if err != nil {
			log.Fatal(err)
		}
		data, err := formatter.Format(&compare.ComparisonSet{RevenueComparison: rows})
		if err != nil {
			log.Fatal(err)
		}
		if err := writeReport(cmd, data); err != nil {
			log.Fatal(err)
		}
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank [input-file]",
	Short: "Rank policies by weighted criteria",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, policies, dist, err := loadAnalysisInputs(args[0])
		if err != nil {
			log.Fatal(err)
		}
		if cfg.Ranking == nil {
			log.Fatal("configuration has no ranking criteria; add a ranking: block")
		}

		comparator := newComparator(cmd)
		ranking, err := comparator.RankPolicies(policies, dist, cfg.Ranking.Criteria)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(output.TitleStyle.Render("POLICY RANKING"))
		for _, entry := range ranking.Entries {
			fmt.Printf("%2d. %-30s score %s\n", entry.Rank, entry.PolicyName, entry.CompositeScore.StringFixed(4))
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		parser := config.NewInputParser()
		if _, err := parser.LoadFromFile(inputFile); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Configuration file %s is valid\n", inputFile)
	},
}

func init() {
	analyzeCmd.Flags().StringP("format", "f", "console", "Output format (console, markdown, csv, json, pdf)")
	analyzeCmd.Flags().StringP("out", "o", "", "Write the report to a file instead of stdout")
	analyzeCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	compareCmd.Flags().StringP("format", "f", "console", "Output format (console, markdown, csv, json, pdf)")
	compareCmd.Flags().StringP("out", "o", "", "Write the report to a file instead of stdout")
	compareCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rankCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, output.ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
