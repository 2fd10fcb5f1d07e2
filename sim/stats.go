package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Statistics is an immutable snapshot derived from a simulator's state.
// Wait-time variance is the population variance (divide by n). Utilization
// is measured against the actual end time — the last processed event — not
// the nominal horizon, because in-flight services extend past it.
type Statistics struct {
	TotalCompleted   int
	AvgWaitTime      float64
	WaitTimeVariance float64
	AvgSystemTime    float64
	// Utilization is indexed by station id; every value is in [0,1].
	Utilization []float64
	// EndTime is the simulated time of the last processed event.
	EndTime float64
}

// GetStatistics reduces the completed-customer set and the station
// busy-time counters into a Statistics snapshot. Safe to call at any point:
// before the run drains it reflects whatever completions have occurred so
// far, and zero customers completed is a valid, all-zero result.
func (sim *Simulator) GetStatistics() Statistics {
	stats := Statistics{
		TotalCompleted: len(sim.CompletedIDs),
		Utilization:    make([]float64, len(sim.Stations)),
		EndTime:        sim.Clock,
	}
	for i, st := range sim.Stations {
		stats.Utilization[i] = st.Utilization(sim.Clock)
	}
	if stats.TotalCompleted == 0 {
		return stats
	}

	waits := make([]float64, 0, stats.TotalCompleted)
	systems := make([]float64, 0, stats.TotalCompleted)
	for _, id := range sim.CompletedIDs {
		c := sim.Customers[id]
		waits = append(waits, c.WaitTime)
		systems = append(systems, c.SystemTime())
	}

	stats.AvgWaitTime = stat.Mean(waits, nil)
	stats.WaitTimeVariance = stat.MomentAbout(2, waits, stats.AvgWaitTime, nil)
	stats.AvgSystemTime = stat.Mean(systems, nil)
	return stats
}

// Stable reports whether every station's utilization is below the given
// threshold (classically ρ < 0.8).
func (s Statistics) Stable(maxUtilization float64) bool {
	for _, rho := range s.Utilization {
		if rho >= maxUtilization {
			return false
		}
	}
	return true
}

// Print displays the run's aggregate results.
func (s Statistics) Print(stationNames []string) {
	fmt.Println("=== Simulation Results ===")
	fmt.Printf("Completed customers  : %d\n", s.TotalCompleted)
	fmt.Printf("Average wait         : %.3f min\n", s.AvgWaitTime)
	fmt.Printf("Wait variance        : %.3f\n", s.WaitTimeVariance)
	fmt.Printf("Average system time  : %.3f min\n", s.AvgSystemTime)
	fmt.Printf("Drained at           : %.3f min\n", s.EndTime)
	fmt.Println("Utilization per station:")
	for i, rho := range s.Utilization {
		name := fmt.Sprintf("station %d", i)
		if i < len(stationNames) {
			name = stationNames[i]
		}
		fmt.Printf("  %-12s: %6.2f%%\n", name, rho*100)
	}
}
