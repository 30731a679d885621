// Package sim provides the core day-stepping engine of an agent-based
// epidemic simulation: a synthetic population organized into households and
// shared environments, a date-keyed event calendar, infection seeding
// protocols, and the early-termination logic used for efficient
// reproduction-number estimation.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go: the Event contract and the per-date DayEvent bundle
//   - person.go: disease course generation and routine changes
//   - simulation.go: the four-phase day step and the run loop
//
// # Architecture
//
// A Simulation exclusively owns a World (people, households, mixing
// environments), a calendar mapping each Date to its pending DayEvent
// bundle, and a Statistics sink. Each simulated day applies the due bundle,
// re-registers changed people into their environments, propagates contagion
// per environment, and snapshots the changed population. Everything is
// single-threaded; determinism comes from a PartitionedRNG with one
// isolated stream per subsystem (population, seeding, contagion, disease).
//
// Interventions are opaque policies that contribute dated events (routine
// changes, state-transition hooks) through the same registration choke
// point used by seeding and contagion.
package sim
