package sim

import "math/rand/v2"

// Concrete interventions. Each one emits routine-change events (or hooks
// routine changes on disease state transitions) that reduce attendance
// weights in chosen environments for its active period.

// outOfHouseholdWeights builds a routine change confining p: every
// environment except the household gets the given weight.
func outOfHouseholdWeights(p *Person, weight float64) map[string]float64 {
	weights := make(map[string]float64)
	for _, name := range p.EnvironmentNames() {
		if name != EnvHousehold {
			weights[name] = weight
		}
	}
	return weights
}

// periodEvents emits an add event at the period start and a removal event
// at the period end for the given routine change on the given person.
func periodEvents(p *Person, period Period, key string, weights map[string]float64) []Event {
	return []Event{
		NewRoutineChangeEvent(period.Start, p, key, weights),
		NewRoutineRemovalEvent(period.End, p, key),
	}
}

// SymptomaticIsolationIntervention sends people into home isolation when
// they become symptomatic, with the given compliance probability. Isolation
// lasts until the symptomatic stage ends.
type SymptomaticIsolationIntervention struct {
	Period     Period
	Compliance float64

	rng *rand.Rand
}

// NewSymptomaticIsolationIntervention creates the intervention; rng drives
// the per-person compliance draw.
func NewSymptomaticIsolationIntervention(period Period, compliance float64, rng *rand.Rand) *SymptomaticIsolationIntervention {
	return &SymptomaticIsolationIntervention{Period: period, Compliance: compliance, rng: rng}
}

func (iv *SymptomaticIsolationIntervention) Name() string { return "symptomatic_isolation" }

// GenerateEvents hooks isolation entry on the transition into Symptomatic
// and release on every transition out of it.
func (iv *SymptomaticIsolationIntervention) GenerateEvents(world *World) []Event {
	const key = "symptomatic_isolation"
	for _, p := range world.AllPeople() {
		p.HookOnStateChange(Presymptomatic, Symptomatic, func(sim *Simulation, person *Person, date Date) {
			if !iv.Period.Contains(date) || iv.rng.Float64() >= iv.Compliance {
				return
			}
			person.AddRoutineChange(key, outOfHouseholdWeights(person, 0))
		})
		release := func(sim *Simulation, person *Person, date Date) {
			if person.HasRoutineChange(key) {
				person.RemoveRoutineChange(key)
			}
		}
		p.HookOnStateChange(Symptomatic, Immune, release)
		p.HookOnStateChange(Symptomatic, CriticalCondition, release)
	}
	return nil
}

// ElderlyQuarantineIntervention confines everyone of at least MinAge to
// their household for the whole period, at a residual weight rather than
// zero (groceries still happen).
type ElderlyQuarantineIntervention struct {
	Period Period
	MinAge int
}

func (iv *ElderlyQuarantineIntervention) Name() string { return "elderly_quarantine" }

func (iv *ElderlyQuarantineIntervention) GenerateEvents(world *World) []Event {
	var events []Event
	for _, p := range world.AllPeople() {
		if p.Age() < iv.MinAge {
			continue
		}
		events = append(events, periodEvents(p, iv.Period, "elderly_quarantine", outOfHouseholdWeights(p, 0.1))...)
	}
	return events
}

// SchoolClosureIntervention zeroes school attendance for the period.
type SchoolClosureIntervention struct {
	Period Period
}

func (iv *SchoolClosureIntervention) Name() string { return "school_closure" }

func (iv *SchoolClosureIntervention) GenerateEvents(world *World) []Event {
	var events []Event
	for _, p := range world.AllPeople() {
		if !p.HasEnvironment(EnvSchool) {
			continue
		}
		events = append(events, periodEvents(p, iv.Period, "school_closure", map[string]float64{EnvSchool: 0})...)
	}
	return events
}

// SocialDistancingIntervention scales community mixing down by Factor for
// the period, leaving households, schools and workplaces untouched.
type SocialDistancingIntervention struct {
	Period Period
	Factor float64
}

func (iv *SocialDistancingIntervention) Name() string { return "social_distancing" }

func (iv *SocialDistancingIntervention) GenerateEvents(world *World) []Event {
	var events []Event
	for _, p := range world.AllPeople() {
		weights := make(map[string]float64)
		for _, name := range p.EnvironmentNames() {
			if name == EnvCity || name == EnvNeighborhood {
				weights[name] = iv.Factor
			}
		}
		if len(weights) == 0 {
			continue
		}
		events = append(events, periodEvents(p, iv.Period, "social_distancing", weights)...)
	}
	return events
}

// CityCurfewIntervention confines the population of one city to their
// households for the period.
type CityCurfewIntervention struct {
	Period Period
	City   string
}

func (iv *CityCurfewIntervention) Name() string { return "city_curfew" }

func (iv *CityCurfewIntervention) GenerateEvents(world *World) []Event {
	var events []Event
	for _, p := range world.AllPeople() {
		if p.CityName() != iv.City {
			continue
		}
		events = append(events, periodEvents(p, iv.Period, "city_curfew", outOfHouseholdWeights(p, 0.2))...)
	}
	return events
}
