package sim

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// PersonState is the redacted view of a person kept as their last saved
// state and handed to the statistics sink.
type PersonState struct {
	Age                  int
	State                DiseaseState
	InfectionEnvironment string
}

type stateTransition struct {
	from DiseaseState
	to   DiseaseState
}

// Person is an individual in the simulated population. A person carries a
// daily routine (per-environment attendance weights), a disease state, and a
// changed-since-last-save flag the engine uses to re-register only people
// whose behavior may have shifted.
type Person struct {
	id      int
	age     int
	changed bool

	environments   map[string]Environment
	currentRoutine map[string]float64

	infectiousnessProb float64
	diseaseState       DiseaseState

	// stateHooks holds callbacks fired on specific disease state
	// transitions, e.g. isolation on becoming symptomatic. Cleared once the
	// person reaches a terminal state.
	stateHooks map[stateTransition][]StateChangeHook

	// Routine changes are reference counted: a person may be confined both
	// for being old and for being symptomatic, and must stay confined until
	// every reason lapses.
	routineChanges            map[string]map[string]float64
	routineChangeMultiplicity map[string]int

	infectionData *InfectionData
	numInfections int
	lastState     *PersonState

	disease    *DiseaseParams
	diseaseRNG *rand.Rand
	diseaseSrc rand.Source
}

// NewPerson creates a person of the given age. The disease RNG subsystem
// drives both the individual transmissibility draw and later disease course
// sampling.
func NewPerson(id, age int, disease *DiseaseParams, rng *PartitionedRNG) *Person {
	src := rng.SourceFor(SubsystemDisease)
	gamma := distuv.Gamma{
		Alpha: disease.IndividualGammaShape,
		Beta:  1 / disease.IndividualGammaScale,
		Src:   src,
	}
	prob := disease.BaseInfectiousness * gamma.Rand()
	if prob > 1 {
		prob = 1
	}
	return &Person{
		id:                        id,
		age:                       age,
		changed:                   true,
		environments:              make(map[string]Environment),
		currentRoutine:            make(map[string]float64),
		infectiousnessProb:        prob,
		diseaseState:              Susceptible,
		stateHooks:                make(map[stateTransition][]StateChangeHook),
		routineChanges:            make(map[string]map[string]float64),
		routineChangeMultiplicity: make(map[string]int),
		disease:                   disease,
		diseaseRNG:                rng.ForSubsystem(SubsystemDisease),
		diseaseSrc:                src,
	}
}

// ID returns the person's unique identifier within the population.
func (p *Person) ID() int { return p.id }

// Age returns the person's age in years.
func (p *Person) Age() int { return p.age }

// AgeCategory returns the person's decade age group (0, 10, 20, ...).
func (p *Person) AgeCategory() int { return p.age - p.age%10 }

// DiseaseState returns the person's current disease state.
func (p *Person) DiseaseState() DiseaseState { return p.diseaseState }

// IsSusceptible reports whether the person can currently be infected.
func (p *Person) IsSusceptible() bool { return p.diseaseState.IsSusceptible() }

// IsInfected reports whether the person currently carries the disease.
func (p *Person) IsInfected() bool { return p.diseaseState.IsInfected() }

// IsInfectious reports whether the person can currently transmit.
func (p *Person) IsInfectious() bool { return p.diseaseState.IsInfectious() }

// IsDead reports whether the person has died.
func (p *Person) IsDead() bool { return p.diseaseState.IsDead() }

// Changed reports whether the person's state shifted since the last save.
func (p *Person) Changed() bool { return p.changed }

// InfectionData returns how the person got infected, or nil.
func (p *Person) InfectionData() *InfectionData { return p.infectionData }

// NumInfections returns how many people this person has infected.
func (p *Person) NumInfections() int { return p.numInfections }

// AddEnvironment adds an environment to the person and to their routine
// with weight 1. Population generation only, never mid-simulation.
func (p *Person) AddEnvironment(env Environment) {
	if _, ok := p.environments[env.Name()]; ok {
		logrus.Panicf("person %d already has environment %q", p.id, env.Name())
	}
	p.environments[env.Name()] = env
	p.currentRoutine[env.Name()] = 1
	p.markChanged()
}

// Environment returns the person's environment with the given name.
func (p *Person) Environment(name string) Environment {
	env, ok := p.environments[name]
	if !ok {
		logrus.Panicf("person %d has no environment %q", p.id, name)
	}
	return env
}

// HasEnvironment reports whether the person belongs to a named environment.
func (p *Person) HasEnvironment(name string) bool {
	_, ok := p.environments[name]
	return ok
}

// EnvironmentNames returns the names of the person's environments.
func (p *Person) EnvironmentNames() []string {
	names := make([]string, 0, len(p.environments))
	for name := range p.environments {
		names = append(names, name)
	}
	return names
}

// CityName returns the person's city, read off their household.
func (p *Person) CityName() string {
	env, ok := p.environments[EnvHousehold]
	if !ok {
		return ""
	}
	return env.(*Household).City()
}

// Routine returns the person's current per-environment weights.
func (p *Person) Routine() map[string]float64 {
	return p.currentRoutine
}

// RegisterToDailyEnvironments signs the person up to every environment in
// their routine with its current weight. Signing up is what exposes a
// person to (and makes them a source of) that day's contagion.
func (p *Person) RegisterToDailyEnvironments() {
	if !p.changed {
		return
	}
	for name, env := range p.environments {
		env.SignUpForToday(p, p.currentRoutine[name])
	}
}

// ProbToInfectOnContact returns the probability that this person infects on
// a single contact, given their current disease state.
func (p *Person) ProbToInfectOnContact() float64 {
	return p.infectiousnessProb * p.disease.infectiousnessFactor(p.diseaseState)
}

// SaveState records the person's current redacted state and clears the
// changed flag, so "changed" can be recomputed freshly next day.
func (p *Person) SaveState() {
	p.lastState = p.snapshotState()
	p.changed = false
}

// LastState returns the state saved at the end of the previous day, or nil.
func (p *Person) LastState() *PersonState { return p.lastState }

func (p *Person) snapshotState() *PersonState {
	state := &PersonState{Age: p.age, State: p.diseaseState}
	if p.infectionData != nil && p.infectionData.Environment != nil {
		state.InfectionEnvironment = p.infectionData.Environment.Name()
	}
	return state
}

// markChanged refreshes the changed flag after any mutation of disease
// state or routine.
func (p *Person) markChanged() {
	p.changed = true
}

// setDiseaseState moves the person to a new disease state. Reaching a
// terminal state drops all pending transition hooks.
func (p *Person) setDiseaseState(s DiseaseState) {
	p.diseaseState = s
	p.markChanged()
	if s.IsTerminal() {
		p.stateHooks = make(map[stateTransition][]StateChangeHook)
	}
}

// HookOnStateChange registers a callback fired when the person undergoes
// the given transition.
func (p *Person) HookOnStateChange(from, to DiseaseState, hook StateChangeHook) {
	key := stateTransition{from: from, to: to}
	p.stateHooks[key] = append(p.stateHooks[key], hook)
}

func (p *Person) hooksFor(from, to DiseaseState) []StateChangeHook {
	return p.stateHooks[stateTransition{from: from, to: to}]
}

// InfectAndGetEvents infects the person on the given date in the given
// environment, records the infection data, and returns the future-dated
// state change events of their sampled (or supplied) disease course.
func (p *Person) InfectAndGetEvents(date Date, env Environment, transmitter *Person, seirTimes []SeirStage) []Event {
	if !p.diseaseState.IsSusceptible() {
		logrus.Panicf("infecting person %d in state %s", p.id, p.diseaseState)
	}
	if p.infectionData != nil {
		logrus.Panicf("person %d is already infected", p.id)
	}
	p.setDiseaseState(Latent)
	p.infectionData = &InfectionData{
		Person:      p,
		Date:        date,
		Dated:       true,
		Environment: env,
		Transmitter: transmitter,
	}
	if transmitter != nil {
		transmitter.numInfections++
	}
	stages := seirTimes
	if stages == nil {
		stages = sampleSeirTimes(p.age, p.disease, p.diseaseRNG, p.diseaseSrc)
	}
	return p.eventsFromSeirTimes(date, stages)
}

// ImmuneAndGetEvents makes the person immune on the given date. Only
// susceptible or latent people can be immunized.
func (p *Person) ImmuneAndGetEvents(date Date, env Environment) []Event {
	if p.diseaseState != Susceptible && p.diseaseState != Latent {
		logrus.Panicf("immunizing person %d in state %s", p.id, p.diseaseState)
	}
	p.setDiseaseState(Immune)
	return nil
}

// eventsFromSeirTimes binds a disease course to calendar dates: each stage
// duration pushes the next transition that many days into the future.
func (p *Person) eventsFromSeirTimes(date Date, stages []SeirStage) []Event {
	if !stages[len(stages)-1].State.IsTerminal() {
		logrus.Panicf("disease course for person %d does not end in a terminal state", p.id)
	}
	events := make([]Event, 0, len(stages)-1)
	curr := date
	for i := 1; i < len(stages); i++ {
		curr = curr.AddDays(stages[i-1].Days)
		events = append(events, NewStateChangeEvent(curr, p, stages[i-1].State, stages[i].State))
	}
	return events
}

// AddRoutineChange applies a named set of routine weight multipliers. The
// same key may be added repeatedly (by different interventions) with the
// same weights; the change persists until removed as many times.
func (p *Person) AddRoutineChange(key string, weights map[string]float64) {
	if _, ok := p.routineChanges[key]; ok {
		p.routineChangeMultiplicity[key]++
		return
	}
	p.routineChanges[key] = weights
	p.routineChangeMultiplicity[key] = 1
	p.updateRoutine()
}

// HasRoutineChange reports whether the named change is currently applied.
func (p *Person) HasRoutineChange(key string) bool {
	_, ok := p.routineChanges[key]
	return ok
}

// RemoveRoutineChange drops one reference to the named routine change and
// recomputes the routine once the last reference is gone.
func (p *Person) RemoveRoutineChange(key string) {
	if _, ok := p.routineChanges[key]; !ok {
		logrus.Panicf("person %d has no routine change %q", p.id, key)
	}
	p.routineChangeMultiplicity[key]--
	if p.routineChangeMultiplicity[key] > 0 {
		return
	}
	delete(p.routineChanges, key)
	delete(p.routineChangeMultiplicity, key)
	p.updateRoutine()
}

// updateRoutine recomputes the current routine as the product of all active
// routine changes over a baseline of 1 per environment.
func (p *Person) updateRoutine() {
	routine := make(map[string]float64, len(p.environments))
	for name := range p.environments {
		routine[name] = 1
	}
	for _, change := range p.routineChanges {
		for name, weight := range change {
			if _, ok := routine[name]; !ok {
				logrus.Panicf("routine change names unknown environment %q for person %d", name, p.id)
			}
			routine[name] *= weight
		}
	}
	p.currentRoutine = routine
	p.markChanged()
}
