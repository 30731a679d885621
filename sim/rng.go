package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical parameters
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemPopulation is the RNG subsystem for synthetic city generation.
	SubsystemPopulation = "population"

	// SubsystemSeeding is the RNG subsystem for initial infection seeding.
	SubsystemSeeding = "seeding"

	// SubsystemContagion is the RNG subsystem for in-environment infection draws.
	SubsystemContagion = "contagion"

	// SubsystemDisease is the RNG subsystem for per-person disease course sampling.
	SubsystemDisease = "disease"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: PCG seeded with (masterSeed, fnv1a64(subsystemName)),
// so draws in one subsystem never shift the stream of another.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	sources    map[string]rand.Source
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		sources:    make(map[string]rand.Source),
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(p.SourceFor(name))
	p.subsystems[name] = rng
	return rng
}

// SourceFor returns the shared random source backing the named subsystem.
// Distribution samplers (gonum distuv) draw from the same stream as the
// subsystem's *rand.Rand, keeping a subsystem's consumption self-contained.
func (p *PartitionedRNG) SourceFor(name string) rand.Source {
	if src, ok := p.sources[name]; ok {
		return src
	}
	src := rand.NewPCG(uint64(p.key), uint64(fnv1a64(name)))
	p.sources[name] = src
	return src
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
