package sim

import (
	"math/rand"
	"reflect"
	"testing"
)

// fixedSampler always returns the same duration, pinning service times in
// hand-built timelines.
type fixedSampler struct{ d float64 }

func (s fixedSampler) Sample(*rand.Rand) float64 { return s.d }

func singleStationConfig(seed int64) Config {
	return Config{
		Seed:           seed,
		HorizonMinutes: 60,
		ArrivalRate:    1.0,
		Orders:         DistSpec{Type: "binomial", Params: map[string]float64{"trials": 5, "p": 0.4}},
		Stations: []StationConfig{
			{
				Name:             "counter",
				Servers:          2,
				VisitProbability: 1.0,
				Service:          DistSpec{Type: "exponential", Params: map[string]float64{"rate": 1.0}},
			},
		},
	}
}

func TestSimulator_Determinism_SameSeedSameResults(t *testing.T) {
	// GIVEN two simulators built from the same configuration
	cfg := DefaultConfig()
	sim1, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim2, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WHEN both run to drain
	sim1.Run()
	sim2.Run()

	// THEN every aggregate is bit-identical
	if len(sim1.Customers) != len(sim2.Customers) {
		t.Errorf("customer counts differ: %d vs %d", len(sim1.Customers), len(sim2.Customers))
	}
	if !reflect.DeepEqual(sim1.GetStatistics(), sim2.GetStatistics()) {
		t.Errorf("statistics differ:\n%+v\n%+v", sim1.GetStatistics(), sim2.GetStatistics())
	}
}

func TestSimulator_Reinitialize_ReproducesRun(t *testing.T) {
	// GIVEN a simulator that has already drained once
	sim, err := NewSimulator(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Run()
	first := sim.GetStatistics()
	firstCustomers := len(sim.Customers)

	// WHEN it is re-initialized and run again
	sim.Initialize()
	sim.Run()

	// THEN the second run reproduces the first exactly
	if len(sim.Customers) != firstCustomers {
		t.Errorf("customer counts differ: %d vs %d", len(sim.Customers), firstCustomers)
	}
	if !reflect.DeepEqual(sim.GetStatistics(), first) {
		t.Errorf("statistics differ:\n%+v\n%+v", sim.GetStatistics(), first)
	}
}

func TestSimulator_Conservation(t *testing.T) {
	sim, err := NewSimulator(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Run()

	if sim.State() != StateDrained {
		t.Fatalf("state = %v, want StateDrained", sim.State())
	}
	// With the queue drained nobody is mid-service, so every customer is
	// either completed or still waiting somewhere.
	queued := 0
	for _, st := range sim.Stations {
		queued += st.QueueLen()
	}
	if got := len(sim.CompletedIDs) + queued; got != len(sim.Customers) {
		t.Errorf("completed(%d) + queued(%d) = %d, want %d created",
			len(sim.CompletedIDs), queued, got, len(sim.Customers))
	}
}

func TestSimulator_ZeroProbabilityStation_NeverVisited(t *testing.T) {
	// GIVEN a scenario where the drinks station has visit probability 0
	cfg := DefaultConfig()
	cfg.Stations[1].VisitProbability = 0

	sim, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Run()

	// THEN no route contains it and it accrues no work
	for _, c := range sim.Customers {
		for _, id := range c.Route {
			if id == 1 {
				t.Fatalf("customer %d routed through zero-probability station", c.ID)
			}
		}
	}
	if served := sim.Stations[1].TotalServed(); served != 0 {
		t.Errorf("zero-probability station served %d customers", served)
	}
	if rho := sim.GetStatistics().Utilization[1]; rho != 0 {
		t.Errorf("zero-probability station utilization = %v, want exactly 0", rho)
	}
}

func TestSimulator_ZeroServerStation_CustomersStrand(t *testing.T) {
	// GIVEN a visited station with no servers
	cfg := singleStationConfig(3)
	cfg.Stations = append(cfg.Stations, StationConfig{
		Name:             "broken",
		Servers:          0,
		VisitProbability: 1.0,
		Service:          DistSpec{Type: "exponential", Params: map[string]float64{"rate": 1.0}},
	})
	sim, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WHEN the run drains
	sim.Run()

	// THEN everyone who finished the counter is stranded there, conservation
	// still holds, and the run terminates rather than spinning
	if len(sim.CompletedIDs) != 0 {
		t.Errorf("%d customers completed through a zero-server station", len(sim.CompletedIDs))
	}
	queued := 0
	for _, st := range sim.Stations {
		queued += st.QueueLen()
	}
	if queued != len(sim.Customers) {
		t.Errorf("queued = %d, want all %d created customers", queued, len(sim.Customers))
	}
}

func TestSimulator_FirstCustomer_ZeroWait(t *testing.T) {
	sim, err := NewSimulator(singleStationConfig(11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Run()

	if len(sim.Customers) == 0 {
		t.Fatal("no customers arrived within the horizon")
	}
	// The first customer finds an empty system and starts immediately.
	if w := sim.Customers[0].WaitTime; w != 0 {
		t.Errorf("first customer wait = %v, want 0", w)
	}
}

func TestSimulator_HopWait_CountsFromQueueEntry(t *testing.T) {
	// GIVEN a hand-built timeline: the counter serves in exactly 5 minutes,
	// the drinks station in exactly 20, and a blocker holds the drinks
	// station's only server from t=0 to t=20
	sim := &Simulator{
		EventQueue: NewEventQueue(),
		Stations: []*Station{
			NewStation(0, "counter", 1),
			NewStation(1, "drinks", 1),
		},
		samplers: []ServiceSampler{fixedSampler{d: 5}, fixedSampler{d: 20}},
		rng:      NewPartitionedRNG(1),
	}
	blocker := &Customer{ID: 0, Route: []int{1}}
	hopper := &Customer{ID: 1, Route: []int{0, 1}}
	sim.Customers = []*Customer{blocker, hopper}

	sim.Stations[1].Enqueue(blocker.ID)
	sim.startService(sim.Stations[1])
	sim.Stations[0].Enqueue(hopper.ID)
	sim.startService(sim.Stations[0])

	// WHEN the events drain: the hopper finishes the counter at t=5, queues
	// at drinks, and cannot start until the blocker releases at t=20
	for sim.EventQueue.Len() > 0 {
		ev := sim.EventQueue.PopNext()
		sim.Clock = ev.Timestamp()
		ev.Execute(sim)
	}

	// THEN the hop wait is measured from the t=5 queue entry, not from the
	// t=0 system arrival
	if hopper.WaitTime != 15 {
		t.Errorf("hopper wait = %v, want 15 (20 - 5)", hopper.WaitTime)
	}
	if blocker.WaitTime != 0 {
		t.Errorf("blocker wait = %v, want 0", blocker.WaitTime)
	}
	if hopper.ServiceTime != 25 {
		t.Errorf("hopper service = %v, want 25 (5 + 20)", hopper.ServiceTime)
	}
	if !hopper.Departed || hopper.DepartureTime != 40 {
		t.Errorf("hopper departed=%v at %v, want departure at 40", hopper.Departed, hopper.DepartureTime)
	}
}

func TestSimulator_Saturation_UtilizationNearOne(t *testing.T) {
	// GIVEN one server offered roughly 4x the load it can handle
	cfg := Config{
		Seed:           5,
		HorizonMinutes: 200,
		ArrivalRate:    2.0,
		Orders:         DistSpec{Type: "binomial", Params: map[string]float64{"trials": 5, "p": 0.4}},
		Stations: []StationConfig{
			{
				Name:             "counter",
				Servers:          1,
				VisitProbability: 1.0,
				Service:          DistSpec{Type: "exponential", Params: map[string]float64{"rate": 0.5}},
			},
		},
	}
	sim, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Run()
	stats := sim.GetStatistics()

	// THEN the server is busy almost the entire run, never over 100%
	if rho := stats.Utilization[0]; rho <= 0.9 || rho > 1.0 {
		t.Errorf("utilization = %v, want in (0.9, 1.0]", rho)
	}
	if stats.Stable(0.8) {
		t.Error("saturated system reported as stable")
	}
	// The backlog pushes the last completion far past the arrival cutoff.
	if stats.EndTime <= cfg.HorizonMinutes {
		t.Errorf("drained at %v, want after the %v-minute horizon", stats.EndTime, cfg.HorizonMinutes)
	}

	// WHEN the same overloaded scenario runs twice as long
	longer := cfg
	longer.HorizonMinutes = 400
	sim2, err := NewSimulator(longer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim2.Run()

	// THEN the backlog keeps growing: late admissions wait longer, so the
	// mean wait rises with the horizon
	if w2 := sim2.GetStatistics().AvgWaitTime; w2 <= stats.AvgWaitTime {
		t.Errorf("mean wait did not grow with the horizon: %v at 200 min, %v at 400 min",
			stats.AvgWaitTime, w2)
	}
}

func TestSimulator_HorizonCutsArrivalsNotServices(t *testing.T) {
	sim, err := NewSimulator(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Run()

	// No customer is admitted at or after the horizon.
	for _, c := range sim.Customers {
		if c.ArrivalTime >= sim.Horizon {
			t.Errorf("customer %d arrived at %v, at or past horizon %v", c.ID, c.ArrivalTime, sim.Horizon)
		}
	}
	// In-flight services finish: departed customers may leave after it.
	for _, id := range sim.CompletedIDs {
		c := sim.Customers[id]
		if c.DepartureTime < c.ArrivalTime {
			t.Errorf("customer %d departed at %v before arriving at %v", id, c.DepartureTime, c.ArrivalTime)
		}
	}
}

func TestSimulator_RouteInvariants(t *testing.T) {
	sim, err := NewSimulator(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Run()

	for _, c := range sim.Customers {
		// Every route starts at the entry station.
		if len(c.Route) == 0 || c.Route[0] != 0 {
			t.Fatalf("customer %d route %v does not start at station 0", c.ID, c.Route)
		}
		if c.RouteProgress < 0 || c.RouteProgress > len(c.Route) {
			t.Fatalf("customer %d progress %d out of range for route %v", c.ID, c.RouteProgress, c.Route)
		}
		if c.Departed && c.RouteProgress != len(c.Route) {
			t.Errorf("customer %d departed at progress %d of %d stations", c.ID, c.RouteProgress, len(c.Route))
		}
		if c.Orders < 1 {
			t.Errorf("customer %d has %d orders, want >= 1", c.ID, c.Orders)
		}
	}
}

func TestSimulator_UtilizationBounds(t *testing.T) {
	sim, err := NewSimulator(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Run()

	for i, rho := range sim.GetStatistics().Utilization {
		if rho < 0 || rho > 1 {
			t.Errorf("station %d utilization = %v, want in [0,1]", i, rho)
		}
	}
}
