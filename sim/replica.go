package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ReplicaSummary averages Statistics across independent replicas of the
// same configuration run under consecutive seeds.
type ReplicaSummary struct {
	// Replicas is the number of runs that completed at least one customer
	// and therefore contributed to the averages.
	Replicas      int
	AvgCompleted  float64
	AvgWaitTime   float64
	AvgSystemTime float64
	// WaitTimeVariance is the population variance of the per-replica mean
	// waits, a measure of run-to-run variability.
	WaitTimeVariance float64
	Utilization      []float64
}

// RunReplicas executes n independent replicas of cfg with seeds
// cfg.Seed, cfg.Seed+1, ..., cfg.Seed+n-1 and averages their statistics.
// Replicas share no mutable state; they run sequentially so the summary is
// deterministic regardless of scheduler behavior. Replicas that complete
// zero customers are skipped, matching the degenerate-run policy of the
// single-run Statistics.
func RunReplicas(cfg Config, n int) (ReplicaSummary, error) {
	if n < 1 {
		return ReplicaSummary{}, fmt.Errorf("replica count must be >= 1, got %d", n)
	}

	waits := make([]float64, 0, n)
	systems := make([]float64, 0, n)
	completed := make([]float64, 0, n)
	utilization := make([][]float64, len(cfg.Stations))

	for i := 0; i < n; i++ {
		rcfg := cfg
		rcfg.Seed = cfg.Seed + int64(i)
		s, err := NewSimulator(rcfg)
		if err != nil {
			return ReplicaSummary{}, err
		}
		s.Initialize()
		s.Run()

		stats := s.GetStatistics()
		if stats.TotalCompleted == 0 {
			continue
		}
		waits = append(waits, stats.AvgWaitTime)
		systems = append(systems, stats.AvgSystemTime)
		completed = append(completed, float64(stats.TotalCompleted))
		for j, rho := range stats.Utilization {
			utilization[j] = append(utilization[j], rho)
		}
	}

	summary := ReplicaSummary{
		Replicas:    len(waits),
		Utilization: make([]float64, len(cfg.Stations)),
	}
	if summary.Replicas == 0 {
		return summary, nil
	}

	summary.AvgWaitTime = stat.Mean(waits, nil)
	summary.AvgSystemTime = stat.Mean(systems, nil)
	summary.AvgCompleted = stat.Mean(completed, nil)
	summary.WaitTimeVariance = stat.MomentAbout(2, waits, summary.AvgWaitTime, nil)
	for j := range utilization {
		if len(utilization[j]) > 0 {
			summary.Utilization[j] = stat.Mean(utilization[j], nil)
		}
	}
	return summary, nil
}

// Stable reports whether every station's averaged utilization is below the
// given threshold.
func (r ReplicaSummary) Stable(maxUtilization float64) bool {
	for _, rho := range r.Utilization {
		if rho >= maxUtilization {
			return false
		}
	}
	return true
}

// MeetsWaitTarget reports whether the averaged mean wait is within target.
func (r ReplicaSummary) MeetsWaitTarget(target float64) bool {
	return r.Replicas > 0 && r.AvgWaitTime <= target
}

// Print displays the cross-replica summary.
func (r ReplicaSummary) Print(stationNames []string) {
	fmt.Println("=== Replica Summary ===")
	fmt.Printf("Replicas counted     : %d\n", r.Replicas)
	fmt.Printf("Avg completed        : %.1f customers\n", r.AvgCompleted)
	fmt.Printf("Avg wait             : %.3f min\n", r.AvgWaitTime)
	fmt.Printf("Wait variance        : %.3f (across replicas)\n", r.WaitTimeVariance)
	fmt.Printf("Avg system time      : %.3f min\n", r.AvgSystemTime)
	fmt.Println("Avg utilization per station:")
	for i, rho := range r.Utilization {
		name := fmt.Sprintf("station %d", i)
		if i < len(stationNames) {
			name = stationNames[i]
		}
		fmt.Printf("  %-12s: %6.2f%%\n", name, rho*100)
	}
}
