package sim

// Customer is one entity flowing through the queueing network. Customers
// live in the Simulator's arena for their whole lifetime; stations and
// events refer to them by ID only, never by pointer, so the arena can grow
// without invalidating references.
type Customer struct {
	ID          int
	ArrivalTime float64
	// Orders is the number of orders the customer places, drawn at arrival.
	Orders int
	// Route is the ordered list of station ids the customer will visit.
	// Route[0] is always the mandatory entry station.
	Route []int
	// RouteProgress indexes the next unvisited entry of Route. It only
	// increases; the customer is complete when it reaches len(Route).
	RouteProgress int
	// QueueEnteredAt is when the customer joined its current station's
	// queue: arrival time for the first station, the prior service
	// completion time for every station after it.
	QueueEnteredAt float64
	// WaitTime accumulates queueing time across all visited stations.
	WaitTime float64
	// ServiceTime accumulates in-service time across all visited stations.
	ServiceTime float64
	// DepartureTime is set exactly once, when the route is exhausted.
	DepartureTime float64
	Departed      bool
}

// Completed reports whether the customer has finished its whole route.
func (c *Customer) Completed() bool {
	return c.RouteProgress >= len(c.Route)
}

// SystemTime returns the customer's total time in the system, waiting plus
// in service.
func (c *Customer) SystemTime() float64 {
	return c.WaitTime + c.ServiceTime
}
