// Package optimize enumerates server allocations for the restaurant's
// stations and evaluates each candidate with independent simulation
// replicas. It is a pure consumer of the sim package's public surface: it
// never reaches into engine internals, only swaps server counts into a base
// configuration and reads back ReplicaSummary values.
package optimize

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/restaurant-sim/restaurant-sim/sim"
)

// Allocation is one candidate assignment of server counts to stations,
// indexed by station id.
type Allocation []int

// Total returns the headcount of the allocation.
func (a Allocation) Total() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// Cost returns the equipment cost of the allocation under cfg's per-station
// server costs.
func (a Allocation) Cost(cfg sim.Config) int {
	cost := 0
	for i, n := range a {
		cost += n * cfg.Stations[i].ServerCost
	}
	return cost
}

func (a Allocation) String() string {
	return fmt.Sprint([]int(a))
}

// SearchSpace bounds the exhaustive enumeration.
type SearchSpace struct {
	// Min and Max bound the per-station server counts, inclusive.
	Min []int
	Max []int
	// MaxTotalServers caps the headcount; 0 means uncapped.
	MaxTotalServers int
	// Budget caps the equipment cost during enumeration; 0 means uncapped.
	Budget int
}

// DefaultSearchSpace mirrors the ranges used in the original capacity
// study: every station gets at least one server except zero-cost optional
// stations, at most four each, fifteen total.
func DefaultSearchSpace(cfg sim.Config) SearchSpace {
	n := len(cfg.Stations)
	space := SearchSpace{
		Min:             make([]int, n),
		Max:             make([]int, n),
		MaxTotalServers: 15,
	}
	for i, st := range cfg.Stations {
		space.Min[i] = 1
		if i > 0 && st.ServerCost == 0 {
			space.Min[i] = 0
		}
		space.Max[i] = 4
	}
	return space
}

// Enumerate produces every allocation within the per-station ranges that
// respects the headcount and budget caps. Both caps prune the recursion, so
// infeasible subtrees are never expanded.
func (s SearchSpace) Enumerate(cfg sim.Config) ([]Allocation, error) {
	if len(s.Min) != len(cfg.Stations) || len(s.Max) != len(cfg.Stations) {
		return nil, fmt.Errorf("search space bounds %d/%d stations, config has %d",
			len(s.Min), len(s.Max), len(cfg.Stations))
	}
	for i := range s.Min {
		if s.Min[i] < 0 || s.Max[i] < s.Min[i] {
			return nil, fmt.Errorf("station %d: invalid range [%d,%d]", i, s.Min[i], s.Max[i])
		}
	}

	var out []Allocation
	alloc := make([]int, len(s.Min))
	var walk func(i, total, cost int)
	walk = func(i, total, cost int) {
		if s.MaxTotalServers > 0 && total > s.MaxTotalServers {
			return
		}
		if s.Budget > 0 && cost > s.Budget {
			return
		}
		if i == len(alloc) {
			out = append(out, append(Allocation(nil), alloc...))
			return
		}
		for n := s.Min[i]; n <= s.Max[i]; n++ {
			alloc[i] = n
			walk(i+1, total+n, cost+n*cfg.Stations[i].ServerCost)
		}
	}
	walk(0, 0, 0)
	return out, nil
}

// Result pairs an evaluated allocation with its cost and replica summary.
type Result struct {
	Allocation Allocation
	Cost       int
	Summary    sim.ReplicaSummary
}

// Searcher evaluates every allocation in a search space against a base
// configuration.
type Searcher struct {
	Base  sim.Config
	Space SearchSpace
	// Replicas per candidate allocation.
	Replicas int
	// MaxUtilization is the stability threshold (ρ below this at every
	// station).
	MaxUtilization float64
}

// NewSearcher builds a Searcher with the default space, 10 replicas per
// candidate and the classical 0.8 stability threshold.
func NewSearcher(base sim.Config) *Searcher {
	return &Searcher{
		Base:           base,
		Space:          DefaultSearchSpace(base),
		Replicas:       10,
		MaxUtilization: 0.8,
	}
}

// EvaluateAll runs the full enumeration. The candidate count is the product
// of the per-station ranges, so this is the expensive call; everything
// after it is filtering and sorting of the returned slice.
func (s *Searcher) EvaluateAll() ([]Result, error) {
	allocs, err := s.Space.Enumerate(s.Base)
	if err != nil {
		return nil, err
	}
	logrus.Infof("evaluating %d candidate allocations, %d replicas each", len(allocs), s.Replicas)

	results := make([]Result, 0, len(allocs))
	for i, alloc := range allocs {
		cfg, err := s.Base.WithServers(alloc)
		if err != nil {
			return nil, err
		}
		summary, err := sim.RunReplicas(cfg, s.Replicas)
		if err != nil {
			return nil, fmt.Errorf("allocation %v: %w", alloc, err)
		}
		results = append(results, Result{
			Allocation: alloc,
			Cost:       alloc.Cost(s.Base),
			Summary:    summary,
		})
		if (i+1)%100 == 0 {
			logrus.Infof("evaluated %d/%d allocations", i+1, len(allocs))
		}
	}
	return results, nil
}

// CheapestMeeting returns the lowest-cost stable result whose averaged wait
// is within target, or nil if none qualifies. Ties on cost break by wait.
func CheapestMeeting(results []Result, target, maxUtilization float64) *Result {
	var best *Result
	for i := range results {
		r := &results[i]
		if !r.Summary.Stable(maxUtilization) || !r.Summary.MeetsWaitTarget(target) {
			continue
		}
		if best == nil || r.Cost < best.Cost ||
			(r.Cost == best.Cost && r.Summary.AvgWaitTime < best.Summary.AvgWaitTime) {
			best = r
		}
	}
	return best
}

// BestUnderBudget returns the stable result with the lowest averaged wait
// among those costing at most budget, or nil if none qualifies.
func BestUnderBudget(results []Result, budget int, maxUtilization float64) *Result {
	var best *Result
	for i := range results {
		r := &results[i]
		if r.Cost > budget || !r.Summary.Stable(maxUtilization) || r.Summary.Replicas == 0 {
			continue
		}
		if best == nil || r.Summary.AvgWaitTime < best.Summary.AvgWaitTime {
			best = r
		}
	}
	return best
}

// RankByWait returns the stable results sorted by averaged wait ascending.
func RankByWait(results []Result, maxUtilization float64) []Result {
	ranked := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Summary.Stable(maxUtilization) && r.Summary.Replicas > 0 {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Summary.AvgWaitTime < ranked[j].Summary.AvgWaitTime
	})
	return ranked
}
