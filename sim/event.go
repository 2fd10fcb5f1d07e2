package sim

import "github.com/sirupsen/logrus"

// EventKind discriminates the event types handled by the simulation loop.
type EventKind int

const (
	// KindArrival is the arrival of a new customer into the system.
	KindArrival EventKind = iota
	// KindServiceEnd is the completion of one customer's service at one station.
	KindServiceEnd
)

// EventKindPriority orders kinds at equal timestamps: arrivals are processed
// before service completions, so a customer arriving at the exact instant a
// server frees up still queues behind the customer that server picks up.
var EventKindPriority = map[EventKind]int{
	KindArrival:    0,
	KindServiceEnd: 1,
}

// Event defines the interface for all simulation events.
// Each event has a Timestamp (simulated minutes) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Kind() EventKind
	Execute(*Simulator)
}

// ArrivalEvent represents the arrival of a new customer. The customer does
// not exist yet when the event is scheduled, so it carries no id.
type ArrivalEvent struct {
	time float64
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() float64 { return e.time }

// Kind returns KindArrival.
func (e *ArrivalEvent) Kind() EventKind { return KindArrival }

// Execute admits the new customer and schedules the next arrival.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Arrival at %.3f min", e.time)
	sim.processArrival()
}

// ServiceEndEvent represents the completion of service for one customer at
// one station. It carries the drawn duration so the customer's accumulated
// service time is credited at completion.
type ServiceEndEvent struct {
	time       float64
	CustomerID int
	StationID  int
	Duration   float64
}

// Timestamp returns the scheduled time of the ServiceEndEvent.
func (e *ServiceEndEvent) Timestamp() float64 { return e.time }

// Kind returns KindServiceEnd.
func (e *ServiceEndEvent) Kind() EventKind { return KindServiceEnd }

// Execute releases the server, routes the customer onward and pulls the
// next waiting customer into service.
func (e *ServiceEndEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< ServiceEnd: customer %d at station %d at %.3f min", e.CustomerID, e.StationID, e.time)
	sim.processServiceEnd(e)
}
