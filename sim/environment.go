package sim

import (
	"math"
	"math/rand/v2"
)

// Environment is any grouping of people (household, workplace, school,
// community) across which infection can propagate. People sign up for an
// environment every day with a weight taken from their current routine;
// infection spreads among that day's attendees.
type Environment interface {
	Name() string
	SignUpForToday(p *Person, weight float64)
	PropagateInfection(date Date) []Event
	Clear()
}

type attendee struct {
	person *Person
	weight float64
}

// HomogeneousEnvironment spreads infection by homogeneous mixing: every pair
// of attendees meets with the same base contact probability, scaled by both
// attendance weights and the infector's transmissibility.
type HomogeneousEnvironment struct {
	name        string
	contactProb float64
	members     []*Person
	attendees   []attendee
	index       map[*Person]int
	rng         *rand.Rand
}

func newHomogeneousEnvironment(name string, contactProb float64, rng *rand.Rand) HomogeneousEnvironment {
	return HomogeneousEnvironment{
		name:        name,
		contactProb: contactProb,
		index:       make(map[*Person]int),
		rng:         rng,
	}
}

// Name returns the environment's routine name (unique per person).
func (e *HomogeneousEnvironment) Name() string { return e.name }

// AddMember records p as a permanent member. Population generation only,
// never mid-simulation.
func (e *HomogeneousEnvironment) AddMember(p *Person) {
	e.members = append(e.members, p)
}

// People returns the permanent members of the environment.
func (e *HomogeneousEnvironment) People() []*Person { return e.members }

// SignUpForToday records p's attendance with the given weight. Re-signing
// replaces the previous weight; attendance persists until replaced, so only
// changed people need to re-register each day.
func (e *HomogeneousEnvironment) SignUpForToday(p *Person, weight float64) {
	if i, ok := e.index[p]; ok {
		e.attendees[i].weight = weight
		return
	}
	e.index[p] = len(e.attendees)
	e.attendees = append(e.attendees, attendee{person: p, weight: weight})
}

// Clear drops all attendance records.
func (e *HomogeneousEnvironment) Clear() {
	e.attendees = nil
	e.index = make(map[*Person]int)
}

// PropagateInfection runs one day of contagion. Each susceptible attendee is
// exposed to the summed infectious load of the day with probability
// 1 - exp(-contactProb * weight * load); new infections take effect
// immediately (the person flips to Latent and is marked changed) and the
// events returned are their future-dated disease course transitions.
func (e *HomogeneousEnvironment) PropagateInfection(date Date) []Event {
	var load float64
	for _, a := range e.attendees {
		if a.person.IsInfectious() {
			load += a.weight * a.person.ProbToInfectOnContact()
		}
	}
	if load == 0 {
		return nil
	}

	var events []Event
	for _, a := range e.attendees {
		if !a.person.IsSusceptible() || a.weight == 0 {
			continue
		}
		prob := 1 - math.Exp(-e.contactProb*a.weight*load)
		if e.rng.Float64() >= prob {
			continue
		}
		transmitter := e.drawTransmitter(load)
		events = append(events, a.person.InfectAndGetEvents(date, e, transmitter, nil)...)
	}
	return events
}

// drawTransmitter attributes an infection to one of the day's infectious
// attendees, weighted by their contribution to the load.
func (e *HomogeneousEnvironment) drawTransmitter(load float64) *Person {
	r := e.rng.Float64() * load
	for _, a := range e.attendees {
		if !a.person.IsInfectious() {
			continue
		}
		r -= a.weight * a.person.ProbToInfectOnContact()
		if r <= 0 {
			return a.person
		}
	}
	// float roundoff: fall back to the last infectious attendee
	for i := len(e.attendees) - 1; i >= 0; i-- {
		if e.attendees[i].person.IsInfectious() {
			return e.attendees[i].person
		}
	}
	return nil
}

// initialGroup is the pseudo-environment recorded as the infection source of
// seeded cases. It never mixes anyone.
type initialGroup struct{}

func (initialGroup) Name() string                    { return "initial_group" }
func (initialGroup) SignUpForToday(*Person, float64) {}
func (initialGroup) PropagateInfection(Date) []Event { return nil }
func (initialGroup) Clear()                          {}

// InitialGroup returns the provenance environment for seeded infections.
func InitialGroup() Environment { return initialGroup{} }
