package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DiseaseState is a person's position in the infection natural-history
// state machine.
type DiseaseState int

const (
	Susceptible DiseaseState = iota
	Latent
	AsymptomaticInfectious
	Presymptomatic
	Symptomatic
	CriticalCondition
	Immune
	Deceased
)

var diseaseStateNames = map[DiseaseState]string{
	Susceptible:            "susceptible",
	Latent:                 "latent",
	AsymptomaticInfectious: "asymptomatic",
	Presymptomatic:         "presymptomatic",
	Symptomatic:            "symptomatic",
	CriticalCondition:      "critical",
	Immune:                 "immune",
	Deceased:               "deceased",
}

func (s DiseaseState) String() string {
	if name, ok := diseaseStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsSusceptible reports whether a person in state s can be infected.
func (s DiseaseState) IsSusceptible() bool { return s == Susceptible }

// IsInfected reports whether s is anywhere between exposure and removal.
func (s DiseaseState) IsInfected() bool {
	return s == Latent || s == AsymptomaticInfectious || s == Presymptomatic ||
		s == Symptomatic || s == CriticalCondition
}

// IsInfectious reports whether a person in state s can transmit on contact.
func (s DiseaseState) IsInfectious() bool {
	return s == AsymptomaticInfectious || s == Presymptomatic ||
		s == Symptomatic || s == CriticalCondition
}

// IsDead reports whether s is the removed-by-death state.
func (s DiseaseState) IsDead() bool { return s == Deceased }

// IsTerminal reports whether s admits no further transitions. A person
// reaching a terminal state drops all pending state-change hooks.
func (s DiseaseState) IsTerminal() bool { return s == Immune || s == Deceased }

// SeirStage is one leg of a person's disease course: the state entered and
// the number of whole days spent in it before the next transition.
// The final stage of a course is terminal and its Days field is ignored.
type SeirStage struct {
	State DiseaseState
	Days  int
}

// GammaDays is a gamma-distributed whole-day duration.
type GammaDays struct {
	Shape float64 `yaml:"shape"`
	Scale float64 `yaml:"scale"`
}

// Sample draws a duration in days, never less than one.
func (g GammaDays) Sample(src rand.Source) int {
	dist := distuv.Gamma{Alpha: g.Shape, Beta: 1 / g.Scale, Src: src}
	days := int(math.Round(dist.Rand()))
	if days < 1 {
		return 1
	}
	return days
}

// sampleSeirTimes draws a complete disease course for a freshly infected
// person of the given age: Latent, then either an asymptomatic course or a
// presymptomatic-symptomatic one (possibly escalating to critical), ending
// in a terminal Immune or Deceased stage.
func sampleSeirTimes(age int, d *DiseaseParams, rng *rand.Rand, src rand.Source) []SeirStage {
	stages := []SeirStage{{State: Latent, Days: d.LatentDays.Sample(src)}}
	if rng.Float64() < d.probFor(d.ProbAsymptomatic, age) {
		stages = append(stages,
			SeirStage{State: AsymptomaticInfectious, Days: d.AsymptomaticDays.Sample(src)},
			SeirStage{State: Immune})
		return stages
	}
	stages = append(stages,
		SeirStage{State: Presymptomatic, Days: d.PresymptomaticDays.Sample(src)},
		SeirStage{State: Symptomatic, Days: d.SymptomaticDays.Sample(src)})
	if rng.Float64() < d.probFor(d.ProbCritical, age) {
		stages = append(stages, SeirStage{State: CriticalCondition, Days: d.CriticalDays.Sample(src)})
		if rng.Float64() < d.probFor(d.ProbDeathGivenCritical, age) {
			stages = append(stages, SeirStage{State: Deceased})
			return stages
		}
	}
	stages = append(stages, SeirStage{State: Immune})
	return stages
}
