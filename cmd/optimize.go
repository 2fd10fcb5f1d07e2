package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restaurant-sim/restaurant-sim/sim/optimize"
)

var (
	budget          int     // Equipment budget; 0 disables the budget question
	waitTarget      float64 // Mean-wait target in minutes; 0 disables
	optReplicas     int     // Replicas per candidate allocation
	maxPerStation   int     // Upper bound on servers at any one station
	maxTotalServers int     // Upper bound on total headcount
	topResults      int     // How many ranked results to print
	maxUtilization  float64 // Stability threshold
)

// optimizeCmd exhaustively evaluates server allocations against a budget
// and/or a wait target.
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search server allocations for the cheapest or fastest stable configuration",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := loadScenario()

		searcher := optimize.NewSearcher(cfg)
		searcher.Replicas = optReplicas
		searcher.MaxUtilization = maxUtilization
		for i := range searcher.Space.Max {
			searcher.Space.Max[i] = maxPerStation
		}
		searcher.Space.MaxTotalServers = maxTotalServers

		start := time.Now()
		results, err := searcher.EvaluateAll()
		if err != nil {
			logrus.Fatalf("Search failed: %v", err)
		}
		logrus.Infof("Search finished in %s", time.Since(start))

		names := cfg.StationNames()
		if waitTarget > 0 {
			fmt.Printf("=== Cheapest allocation with wait <= %.2f min ===\n", waitTarget)
			printResult(optimize.CheapestMeeting(results, waitTarget, maxUtilization), names)
		}
		if budget > 0 {
			fmt.Printf("=== Best allocation within budget $%d ===\n", budget)
			printResult(optimize.BestUnderBudget(results, budget, maxUtilization), names)
		}

		ranked := optimize.RankByWait(results, maxUtilization)
		if len(ranked) > topResults {
			ranked = ranked[:topResults]
		}
		fmt.Printf("=== Top %d stable allocations by wait ===\n", len(ranked))
		for i := range ranked {
			printResult(&ranked[i], names)
		}
	},
}

// printResult renders one allocation result, or a not-found line for nil.
func printResult(r *optimize.Result, stationNames []string) {
	if r == nil {
		fmt.Println("  no allocation qualifies")
		return
	}
	for i, n := range r.Allocation {
		name := fmt.Sprintf("station %d", i)
		if i < len(stationNames) {
			name = stationNames[i]
		}
		fmt.Printf("  %s:%d", name, n)
	}
	fmt.Printf("  | cost $%d | wait %.3f min | system %.3f min | %d replicas\n",
		r.Cost, r.Summary.AvgWaitTime, r.Summary.AvgSystemTime, r.Summary.Replicas)
}

func init() {
	optimizeCmd.Flags().IntVar(&budget, "budget", 0, "Equipment budget in dollars (0 = skip)")
	optimizeCmd.Flags().Float64Var(&waitTarget, "target", 0, "Mean wait target in minutes (0 = skip)")
	optimizeCmd.Flags().IntVar(&optReplicas, "replicas", 10, "Replicas per candidate allocation")
	optimizeCmd.Flags().IntVar(&maxPerStation, "max-per-station", 4, "Max servers at any one station")
	optimizeCmd.Flags().IntVar(&maxTotalServers, "max-total", 15, "Max total servers across stations")
	optimizeCmd.Flags().IntVar(&topResults, "top", 3, "How many ranked allocations to print")
	optimizeCmd.Flags().Float64Var(&maxUtilization, "max-utilization", 0.8, "Stability threshold on station utilization")
	rootCmd.AddCommand(optimizeCmd)
}
