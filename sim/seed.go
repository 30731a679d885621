package sim

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// The seeding protocols below choose the initial infected and immune
// individuals that start an epidemic trajectory. They are mutually
// exclusive and may be invoked at most once per Simulation; the
// infectionDoc string is kept as provenance and written to the inputs
// report.
//
// Unlike the rejection-sampling the original study used, selection here is
// a shuffle of the precomputed eligible subset followed by a prefix take,
// which terminates deterministically even when eligibility is rare.

// InfectRandomSet infects numInfected people chosen uniformly at random,
// after first immunizing round(perToImmune * population) people of at least
// minAge. An empty cityName draws from the whole world. No person is both
// immunized and infected.
func (s *Simulation) InfectRandomSet(numInfected int, infectionDoc string, perToImmune float64, cityName string, minAge int) {
	s.seeding.configure("initial infection", infectionDoc)
	population := s.cityPeople(cityName)

	numImmune := int(math.Round(float64(len(population)) * perToImmune))
	if len(population) < numInfected+numImmune {
		logrus.Panicf("trying to immunize %d and infect %d people out of %d",
			numImmune, numInfected, len(population))
	}

	rng := s.rng.ForSubsystem(SubsystemSeeding)
	used := make(map[int]bool)

	if numImmune > 0 {
		var eligible []*Person
		for _, p := range population {
			if p.Age() >= minAge {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) < numImmune {
			logrus.Panicf("only %d people of age >= %d, cannot immunize %d", len(eligible), minAge, numImmune)
		}
		rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
		for _, p := range eligible[:numImmune] {
			s.RegisterEvents(p.ImmuneAndGetEvents(s.date, InitialGroup()))
			used[p.ID()] = true
		}
	}

	var susceptible []*Person
	for _, p := range population {
		if !used[p.ID()] && p.IsSusceptible() {
			susceptible = append(susceptible, p)
		}
	}
	if len(susceptible) < numInfected {
		logrus.Panicf("only %d susceptible people left, cannot infect %d", len(susceptible), numInfected)
	}
	rng.Shuffle(len(susceptible), func(i, j int) { susceptible[i], susceptible[j] = susceptible[j], susceptible[i] })
	for _, p := range susceptible[:numInfected] {
		s.RegisterEvents(p.InfectAndGetEvents(s.date, InitialGroup(), nil, nil))
	}
}

// ImmuneHouseholdsInfectOthers immunizes a random perToImmune fraction of
// households outright (every member of at least minAge) and infects
// numInfected susceptible people drawn only from the remaining households.
// The infection draw is capped at however many such susceptible people
// exist.
func (s *Simulation) ImmuneHouseholdsInfectOthers(numInfected int, infectionDoc string, perToImmune float64, cityName string, minAge int) {
	s.seeding.configure("initial infection", infectionDoc)

	var households []*Household
	for _, h := range s.world.AllCityHouseholds() {
		if cityName == "" || h.City() == cityName {
			households = append(households, h)
		}
	}

	rng := s.rng.ForSubsystem(SubsystemSeeding)
	rng.Shuffle(len(households), func(i, j int) { households[i], households[j] = households[j], households[i] })
	numSafe := int(perToImmune * float64(len(households)))
	safe, unsafe := households[:numSafe], households[numSafe:]

	for _, house := range safe {
		for _, p := range house.People() {
			if p.Age() >= minAge {
				s.RegisterEvents(p.ImmuneAndGetEvents(s.date, InitialGroup()))
			}
		}
	}

	if numInfected <= 0 {
		return
	}
	var pool []*Person
	for _, house := range unsafe {
		for _, p := range house.People() {
			if p.IsSusceptible() {
				pool = append(pool, p)
			}
		}
	}
	if numInfected > len(pool) {
		// exhaustion is soft: clip to whoever is available
		numInfected = len(pool)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	for _, p := range pool[:numInfected] {
		s.RegisterEvents(p.InfectAndGetEvents(s.date, InitialGroup(), nil, nil))
	}
}

// ChosenInfection names one person to seed: who, when, and optionally the
// explicit disease course to follow.
type ChosenInfection struct {
	PersonID  int
	Date      Date
	SeirTimes []SeirStage
}

// InfectChosenSet infects an explicit set of people at explicit dates. A
// date may lie before the simulation's current date to model pre-existing
// imports; after registering, every bundle dated strictly before the
// current date is applied in chronological order with the date temporarily
// rewound, so back-dated infections fully progress their disease course
// before day-stepping resumes. This is the one sanctioned backward-dated
// replay; it is bounded and happens only here.
func (s *Simulation) InfectChosenSet(infections []ChosenInfection, infectionDoc string) {
	s.seeding.configure("initial infection", infectionDoc)

	for _, inf := range infections {
		p := s.world.PersonByID(inf.PersonID)
		events := p.InfectAndGetEvents(inf.Date, InitialGroup(), nil, inf.SeirTimes)
		// back-dated imports stay out of the daily infection series
		p.InfectionData().Dated = false
		s.RegisterEvents(events)
	}

	originalDate := s.date
	var backdated []Date
	for date := range s.calendar {
		if date.Before(originalDate) {
			backdated = append(backdated, date)
		}
	}
	sort.Slice(backdated, func(i, j int) bool { return backdated[i].Before(backdated[j]) })
	for _, date := range backdated {
		s.date = date
		s.calendar[date].Apply(s)
		delete(s.calendar, date)
	}
	s.date = originalDate
}

func (s *Simulation) cityPeople(cityName string) []*Person {
	if cityName == "" {
		return s.world.AllPeople()
	}
	var people []*Person
	for _, p := range s.world.AllPeople() {
		if p.CityName() == cityName {
			people = append(people, p)
		}
	}
	return people
}
