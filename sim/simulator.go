package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RunState tracks the lifecycle of one simulation run.
type RunState int

const (
	// StateUninitialized: no events scheduled yet.
	StateUninitialized RunState = iota
	// StateRunning: the event loop may execute.
	StateRunning
	// StateDrained: the event queue emptied; all in-flight work resolved.
	StateDrained
)

// Simulator is the core object that holds the logical clock, the system
// state, and the event loop for one replica.
//
// The engine is strictly single-threaded: one logical clock, non-preemptive
// event handlers, no blocking operations. Independent replicas each build
// their own Simulator and share nothing.
type Simulator struct {
	Clock   float64
	Horizon float64
	// ArrivalRate is λ, customers per minute.
	ArrivalRate float64
	EventQueue  *EventQueue
	Stations    []*Station
	// Customers is the arena: stable-indexed, append-only, indexed by
	// customer id. Stations and events reference entries by id.
	Customers []*Customer
	// CompletedIDs lists customers that exhausted their route, in
	// completion order.
	CompletedIDs []int

	cfg       Config
	rng       *PartitionedRNG
	samplers  []ServiceSampler
	orders    *OrderCountSampler
	visitProb []float64
	state     RunState
}

// NewSimulator validates the configuration and builds a simulator in the
// Uninitialized state. All distribution parameters are checked here; no
// error can surface at draw time.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	samplers := make([]ServiceSampler, len(cfg.Stations))
	visitProb := make([]float64, len(cfg.Stations))
	for i, st := range cfg.Stations {
		sampler, err := NewServiceSampler(st.Service)
		if err != nil {
			return nil, fmt.Errorf("station %q: %w", st.Name, err)
		}
		samplers[i] = sampler
		visitProb[i] = st.VisitProbability
	}
	orders, err := NewOrderCountSampler(cfg.Orders)
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}

	return &Simulator{
		Horizon:     cfg.HorizonMinutes,
		ArrivalRate: cfg.ArrivalRate,
		cfg:         cfg,
		samplers:    samplers,
		orders:      orders,
		visitProb:   visitProb,
		state:       StateUninitialized,
	}, nil
}

// Config returns the configuration this simulator was built from.
func (sim *Simulator) Config() Config { return sim.cfg }

// State returns the current lifecycle state.
func (sim *Simulator) State() RunState { return sim.state }

// Initialize resets all run state, reseeds the RNG, and schedules the first
// arrival. Calling it again discards the previous run and reproduces it
// exactly.
func (sim *Simulator) Initialize() {
	sim.Clock = 0
	sim.EventQueue = NewEventQueue()
	sim.Customers = make([]*Customer, 0)
	sim.CompletedIDs = make([]int, 0)
	sim.rng = NewPartitionedRNG(sim.cfg.Seed)

	sim.Stations = make([]*Station, len(sim.cfg.Stations))
	for i, st := range sim.cfg.Stations {
		sim.Stations[i] = NewStation(i, st.Name, st.Servers)
		if st.Servers == 0 && st.VisitProbability > 0 {
			logrus.Warnf("station %q has visit probability %.2f but no servers; routed customers will never complete",
				st.Name, st.VisitProbability)
		}
	}

	// Arrival events are only ever scheduled strictly before the horizon,
	// so the loop never has to filter stale arrivals past the cutoff.
	first := sim.nextInterarrival()
	if first < sim.Horizon {
		sim.EventQueue.Schedule(&ArrivalEvent{time: first})
	}
	sim.state = StateRunning
}

// Run drains the event queue: pop the minimum-time event, advance the
// clock, execute. Arrivals stop at the horizon but in-flight services run
// to completion, so the completed-customer set is not biased against
// customers admitted late.
func (sim *Simulator) Run() {
	if sim.state == StateUninitialized {
		sim.Initialize()
	}
	for sim.EventQueue.Len() > 0 {
		ev := sim.EventQueue.PopNext()
		sim.Clock = ev.Timestamp()
		ev.Execute(sim)
	}
	sim.state = StateDrained
	logrus.Infof("[t=%8.3f] simulation drained: %d customers created, %d completed",
		sim.Clock, len(sim.Customers), len(sim.CompletedIDs))
}

// nextInterarrival draws an exponential gap with rate λ from the arrivals
// stream.
func (sim *Simulator) nextInterarrival() float64 {
	return sim.rng.ForSubsystem(SubsystemArrivals).ExpFloat64() / sim.ArrivalRate
}

// drawRoute evaluates one Bernoulli trial per optional station, in fixed
// station order, against that station's visit probability. Station 0 is
// always included. A trial is consumed even for probability-0 stations so
// the draw sequence is identical across configurations that differ only in
// probabilities.
func (sim *Simulator) drawRoute() []int {
	rng := sim.rng.ForSubsystem(SubsystemRouting)
	route := make([]int, 1, len(sim.Stations))
	route[0] = 0
	for id := 1; id < len(sim.Stations); id++ {
		if rng.Float64() < sim.visitProb[id] {
			route = append(route, id)
		}
	}
	return route
}

// processArrival admits a new customer: allocate an id, draw order count
// and route, enqueue at the entry station, start service if a server is
// free, and schedule the next arrival if it lands before the horizon.
func (sim *Simulator) processArrival() {
	c := &Customer{
		ID:             len(sim.Customers),
		ArrivalTime:    sim.Clock,
		Orders:         sim.orders.Sample(sim.rng.ForSubsystem(SubsystemOrders)),
		Route:          sim.drawRoute(),
		QueueEnteredAt: sim.Clock,
	}
	sim.Customers = append(sim.Customers, c)

	entry := sim.Stations[c.Route[0]]
	entry.Enqueue(c.ID)
	if entry.HasFreeServer() {
		sim.startService(entry)
	}

	next := sim.Clock + sim.nextInterarrival()
	if next < sim.Horizon {
		sim.EventQueue.Schedule(&ArrivalEvent{time: next})
	}
}

// processServiceEnd releases the finishing server, credits the service
// duration, advances the customer along its route (or completes it), and
// immediately pulls the next waiting customer into the freed server.
func (sim *Simulator) processServiceEnd(e *ServiceEndEvent) {
	if e.StationID < 0 || e.StationID >= len(sim.Stations) {
		panic(fmt.Sprintf("service end references unknown station %d", e.StationID))
	}
	if e.CustomerID < 0 || e.CustomerID >= len(sim.Customers) {
		panic(fmt.Sprintf("service end references unknown customer %d", e.CustomerID))
	}
	st := sim.Stations[e.StationID]
	st.ReleaseServer(sim.Clock)

	c := sim.Customers[e.CustomerID]
	c.ServiceTime += e.Duration
	c.RouteProgress++

	if !c.Completed() {
		next := sim.Stations[c.Route[c.RouteProgress]]
		c.QueueEnteredAt = sim.Clock
		next.Enqueue(c.ID)
		if next.HasFreeServer() {
			sim.startService(next)
		}
	} else {
		c.DepartureTime = sim.Clock
		c.Departed = true
		sim.CompletedIDs = append(sim.CompletedIDs, c.ID)
	}

	// The freed server picks up the next waiting customer right away;
	// queue state stays causally correct event by event.
	if st.QueueLen() > 0 && st.HasFreeServer() {
		sim.startService(st)
	}
}

// startService moves the FIFO head of st into a free server: records the
// wait against the time the customer entered this station's queue, draws a
// service duration from the station's distribution, and schedules the
// completion.
func (sim *Simulator) startService(st *Station) {
	id, ok := st.AssignNext(sim.Clock)
	if !ok {
		return
	}
	c := sim.Customers[id]
	c.WaitTime += sim.Clock - c.QueueEnteredAt

	dur := sim.samplers[st.ID].Sample(sim.rng.ForSubsystem(SubsystemService))
	sim.EventQueue.Schedule(&ServiceEndEvent{
		time:       sim.Clock + dur,
		CustomerID: id,
		StationID:  st.ID,
		Duration:   dur,
	})
}
