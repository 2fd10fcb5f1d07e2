package sim

import (
	"hash/fnv"
	"math/rand"
)

// Subsystem name constants. Each subsystem draws from its own stream so the
// draw order in one (say, routing) cannot perturb another (service times).
const (
	SubsystemArrivals = "arrivals"
	SubsystemRouting  = "routing"
	SubsystemService  = "service"
	SubsystemOrders   = "orders"
)

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
// Every Simulator owns its own instance; there is no process-wide generator,
// so independently seeded replicas never share mutable state.
//
// Derivation: subsystemSeed = masterSeed XOR fnv1a64(subsystemName). The
// hash-based derivation is order-independent: it does not matter which
// subsystem is touched first.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine,
// which the strictly sequential event loop guarantees.
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: masterSeed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically seeded RNG for the named
// subsystem. The same name always returns the same cached *rand.Rand.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.masterSeed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master seed this PartitionedRNG was built from.
func (p *PartitionedRNG) Seed() int64 { return p.masterSeed }

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
