// Package sim provides the discrete-event simulation engine for an open
// Jackson-style queueing network modeling a fast-food restaurant.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - customer.go: the per-entity record and its route through the network
//   - event.go: the event types that drive the simulation (Arrival, ServiceEnd)
//   - simulator.go: the event loop, arrival handling, and service dispatch
//
// # Architecture
//
// A Simulator owns a logical clock, a time-ordered EventQueue, a fixed array
// of multi-server Stations, and an arena of Customers referenced by integer
// id. Arrivals follow a Poisson process up to a configured horizon; each
// customer draws a probabilistic route through the stations and queues FIFO
// at each one. Once the horizon passes, no new arrivals are admitted but all
// in-flight service completes, so the system fully drains before statistics
// are taken.
//
// All randomness flows through a per-Simulator PartitionedRNG (rng.go);
// two simulators built from the same Config produce bit-identical results.
// Sub-packages consume the engine's public surface:
//   - sim/optimize: exhaustive server-allocation search under cost budgets
//   - sim/report: CSV export of per-customer and per-station results
package sim
