package sim

import "fmt"

// Station is one service point with a pool of interchangeable parallel
// servers and a strict FIFO waiting queue of customer ids. It tracks
// cumulative busy-server time so utilization can be derived as a
// time-weighted average of occupied servers.
//
// A Station never creates or destroys customers; it only holds and releases
// ids.
type Station struct {
	ID          int
	Name        string
	ServerCount int

	waiting    []int
	serverBusy []bool
	// busyServerTime integrates busyServers*dt over occupancy changes.
	busyServerTime float64
	lastChangeAt   float64
	totalServed    int
}

// NewStation creates a station with the given number of parallel servers.
func NewStation(id int, name string, servers int) *Station {
	return &Station{
		ID:          id,
		Name:        name,
		ServerCount: servers,
		waiting:     make([]int, 0),
		serverBusy:  make([]bool, servers),
	}
}

// Enqueue appends a customer id to the back of the FIFO waiting queue.
// It has no effect on server state.
func (s *Station) Enqueue(customerID int) {
	s.waiting = append(s.waiting, customerID)
}

// QueueLen returns the number of customers waiting.
func (s *Station) QueueLen() int { return len(s.waiting) }

// BusyServers returns how many servers are currently occupied.
func (s *Station) BusyServers() int {
	n := 0
	for _, busy := range s.serverBusy {
		if busy {
			n++
		}
	}
	return n
}

// HasFreeServer reports whether at least one server is idle.
func (s *Station) HasFreeServer() bool {
	return s.BusyServers() < s.ServerCount
}

// AssignNext pops the FIFO head and marks the first free server busy,
// folding the elapsed interval into the busy-time accumulator before the
// occupancy flips. It returns the assigned customer id, or false when the
// queue is empty or every server is occupied.
func (s *Station) AssignNext(now float64) (int, bool) {
	if len(s.waiting) == 0 {
		return 0, false
	}
	for i := range s.serverBusy {
		if !s.serverBusy[i] {
			id := s.waiting[0]
			s.waiting = s.waiting[1:]
			s.accumulateBusyTime(now)
			s.serverBusy[i] = true
			return id, true
		}
	}
	return 0, false
}

// ReleaseServer marks one busy server free. Servers within a station are
// interchangeable, so which index is released is immaterial. Releasing with
// no server busy signals corrupted scheduler state and panics.
func (s *Station) ReleaseServer(now float64) {
	for i := range s.serverBusy {
		if s.serverBusy[i] {
			s.accumulateBusyTime(now)
			s.serverBusy[i] = false
			s.totalServed++
			return
		}
	}
	panic(fmt.Sprintf("station %d (%s): ReleaseServer with no busy server", s.ID, s.Name))
}

// accumulateBusyTime folds busyServers*(now-lastChange) into the busy-time
// integral. Called exactly once per occupancy change, before the flip.
func (s *Station) accumulateBusyTime(now float64) {
	s.busyServerTime += float64(s.BusyServers()) * (now - s.lastChangeAt)
	s.lastChangeAt = now
}

// Utilization returns the time-averaged fraction of servers occupied over
// the elapsed simulated time. Zero when no time has elapsed or the station
// has no servers.
func (s *Station) Utilization(elapsed float64) float64 {
	if elapsed == 0 || s.ServerCount == 0 {
		return 0
	}
	return s.busyServerTime / (float64(s.ServerCount) * elapsed)
}

// TotalServed returns how many service completions the station has seen.
func (s *Station) TotalServed() int { return s.totalServed }
