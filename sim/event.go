package sim

import "github.com/sirupsen/logrus"

// Event is an atomic, date-stamped unit of deferred work applied to the
// simulation: a disease state transition, an intervention effect, a routine
// change. Applying an event may register follow-up events, but only on
// strictly future dates; the one sanctioned exception is the backdated
// replay performed by Simulation.InfectChosenSet.
type Event interface {
	Date() Date
	Apply(sim *Simulation)
}

// DayEvent bundles every event pending on a single date. A bundle exists in
// the calendar if and only if at least one event is hooked on its date, and
// is discarded after a single atomic application.
type DayEvent struct {
	date   Date
	hooked []Event
}

// NewDayEvent creates an empty bundle for the given date.
func NewDayEvent(date Date) *DayEvent {
	return &DayEvent{date: date}
}

// Date returns the date the bundle is pending on.
func (d *DayEvent) Date() Date { return d.date }

// Hook appends an event to the bundle. Order of hooking is order of
// application.
func (d *DayEvent) Hook(ev Event) {
	d.hooked = append(d.hooked, ev)
}

// Len returns the number of hooked events.
func (d *DayEvent) Len() int { return len(d.hooked) }

// Apply applies every hooked event in hooking order and empties the bundle,
// so no event can be applied twice.
func (d *DayEvent) Apply(sim *Simulation) {
	hooked := d.hooked
	d.hooked = nil
	for _, ev := range hooked {
		ev.Apply(sim)
	}
}

// StateChangeHook is a callback fired when a person undergoes a specific
// disease state transition. Interventions use hooks to react to symptoms
// (e.g. sending a freshly symptomatic person into isolation).
type StateChangeHook func(sim *Simulation, person *Person, date Date)

// StateChangeEvent moves a person from one disease state to the next leg of
// their disease course, then fires any hooks registered on that transition.
type StateChangeEvent struct {
	date   Date
	person *Person
	from   DiseaseState
	to     DiseaseState
}

// NewStateChangeEvent creates a transition event for the given date.
func NewStateChangeEvent(date Date, person *Person, from, to DiseaseState) *StateChangeEvent {
	return &StateChangeEvent{date: date, person: person, from: from, to: to}
}

// Date returns the date the transition is scheduled for.
func (e *StateChangeEvent) Date() Date { return e.date }

// Apply performs the transition. Hooks run after the state is set, so they
// observe the person in the new state.
func (e *StateChangeEvent) Apply(sim *Simulation) {
	logrus.Debugf("person %d: %s -> %s on %s", e.person.ID(), e.from, e.to, e.date)
	hooks := e.person.hooksFor(e.from, e.to)
	e.person.setDiseaseState(e.to)
	for _, hook := range hooks {
		hook(sim, e.person, e.date)
	}
}

// RoutineChangeEvent applies or removes a named routine change on a person.
// A nil weight map removes the change; removal of a change the person no
// longer carries is a no-op (the person may have reached a terminal state
// in the meantime).
type RoutineChangeEvent struct {
	date    Date
	person  *Person
	key     string
	weights map[string]float64
}

// NewRoutineChangeEvent creates an event that applies the given routine
// weights under the given key.
func NewRoutineChangeEvent(date Date, person *Person, key string, weights map[string]float64) *RoutineChangeEvent {
	return &RoutineChangeEvent{date: date, person: person, key: key, weights: weights}
}

// NewRoutineRemovalEvent creates an event that removes the routine change
// registered under the given key.
func NewRoutineRemovalEvent(date Date, person *Person, key string) *RoutineChangeEvent {
	return &RoutineChangeEvent{date: date, person: person, key: key}
}

// Date returns the date the routine change takes effect.
func (e *RoutineChangeEvent) Date() Date { return e.date }

// Apply applies or removes the routine change.
func (e *RoutineChangeEvent) Apply(sim *Simulation) {
	if e.weights != nil {
		e.person.AddRoutineChange(e.key, e.weights)
		return
	}
	if e.person.HasRoutineChange(e.key) {
		e.person.RemoveRoutineChange(e.key)
	}
}
