package sim

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// GenerateCity builds a synthetic city: households drawn from the household
// size distribution and filled from the age distribution, schools per
// school-age children, workplaces per working-age adults, one city-wide
// community and one neighborhood community per group of households.
// Deterministic for a given PartitionedRNG key.
func GenerateCity(params *Params, rng *PartitionedRNG) *World {
	pop := &params.Population
	if err := params.Validate(); err != nil {
		logrus.Panicf("invalid parameters: %v", err)
	}
	popRNG := rng.ForSubsystem(SubsystemPopulation)
	contagionRNG := rng.ForSubsystem(SubsystemContagion)

	var people []*Person
	var households []*Household
	nextID := 0
	for len(people) < pop.Size {
		size := sampleIndex(pop.HouseholdSizeWeights, popRNG) + 1
		if remaining := pop.Size - len(people); size > remaining {
			size = remaining
		}
		house := NewHousehold(pop.City, pop.HouseholdContactProb, contagionRNG)
		for i := 0; i < size; i++ {
			age := sampleAge(pop.AgeDistribution, popRNG)
			if i == 0 && age < pop.WorkingAgeMin {
				// every household has at least one adult
				age = pop.WorkingAgeMin + popRNG.IntN(pop.WorkingAgeMax-pop.WorkingAgeMin+1)
			}
			p := NewPerson(nextID, age, &params.Disease, rng)
			nextID++
			house.AddMember(p)
			p.AddEnvironment(house)
			people = append(people, p)
		}
		households = append(households, house)
	}

	environments := make([]Environment, 0, len(households)+8)
	for _, h := range households {
		environments = append(environments, h)
	}

	// Schools and workplaces: chunk the eligible population into groups of
	// roughly the configured mean size.
	var students, workers []*Person
	for _, p := range people {
		switch {
		case p.Age() >= pop.SchoolAgeMin && p.Age() <= pop.SchoolAgeMax:
			students = append(students, p)
		case p.Age() >= pop.WorkingAgeMin && p.Age() <= pop.WorkingAgeMax:
			workers = append(workers, p)
		}
	}
	popRNG.Shuffle(len(students), func(i, j int) { students[i], students[j] = students[j], students[i] })
	popRNG.Shuffle(len(workers), func(i, j int) { workers[i], workers[j] = workers[j], workers[i] })

	for _, group := range chunkPeople(students, pop.MeanSchoolSize) {
		school := NewSchool(pop.SchoolContactProb, contagionRNG)
		for _, p := range group {
			school.AddMember(p)
			p.AddEnvironment(school)
		}
		environments = append(environments, school)
	}
	for _, group := range chunkPeople(workers, pop.MeanWorkplaceSize) {
		work := NewWorkplace(pop.WorkplaceContactProb, contagionRNG)
		for _, p := range group {
			work.AddMember(p)
			p.AddEnvironment(work)
		}
		environments = append(environments, work)
	}

	// Neighborhood communities over household groups, one city community
	// over everyone.
	for i := 0; i < len(households); i += pop.NeighborhoodHouses {
		end := i + pop.NeighborhoodHouses
		if end > len(households) {
			end = len(households)
		}
		hood := NewNeighborhoodCommunity(pop.NeighborhoodContactProb, contagionRNG)
		for _, h := range households[i:end] {
			for _, p := range h.People() {
				hood.AddMember(p)
				p.AddEnvironment(hood)
			}
		}
		environments = append(environments, hood)
	}
	city := NewCityCommunity(pop.City, pop.CityContactProb, contagionRNG)
	for _, p := range people {
		city.AddMember(p)
		p.AddEnvironment(city)
	}
	environments = append(environments, city)

	return NewWorld(people, environments, households)
}

// sampleIndex draws an index proportionally to the given weights.
func sampleIndex(weights []float64, rng *rand.Rand) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// sampleAge draws an age uniformly within a band drawn by band weight.
func sampleAge(bands []AgeBand, rng *rand.Rand) int {
	weights := make([]float64, len(bands))
	for i, b := range bands {
		weights[i] = b.Weight
	}
	band := bands[sampleIndex(weights, rng)]
	return band.MinAge + rng.IntN(band.MaxAge-band.MinAge+1)
}

// chunkPeople splits people into consecutive groups of the given size.
func chunkPeople(people []*Person, size int) [][]*Person {
	if size <= 0 {
		size = 1
	}
	var groups [][]*Person
	for i := 0; i < len(people); i += size {
		end := i + size
		if end > len(people) {
			end = len(people)
		}
		groups = append(groups, people[i:end])
	}
	return groups
}
