package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restaurant-sim/restaurant-sim/sim"
)

var replicaCount int // Number of independent replicas to average

// replicasCmd runs N independently seeded replicas and prints the averaged
// summary.
var replicasCmd = &cobra.Command{
	Use:   "replicas",
	Short: "Run independent replicas and average their statistics",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := loadScenario()

		start := time.Now()
		summary, err := sim.RunReplicas(cfg, replicaCount)
		if err != nil {
			logrus.Fatalf("Replica run failed: %v", err)
		}
		logrus.Infof("%d replicas finished in %s", replicaCount, time.Since(start))

		summary.Print(cfg.StationNames())
	},
}

func init() {
	replicasCmd.Flags().IntVar(&replicaCount, "replicas", 30, "Number of independent replicas")
	rootCmd.AddCommand(replicasCmd)
}
