package sim

import (
	"testing"
)

func smallCityParams() *Params {
	params := DefaultParams()
	params.Population.Size = 200
	params.Population.MeanSchoolSize = 20
	params.Population.MeanWorkplaceSize = 10
	params.Population.NeighborhoodHouses = 10
	return params
}

func TestGenerateCity_PopulationSize(t *testing.T) {
	params := smallCityParams()
	world := GenerateCity(params, testRNG())

	if got := len(world.AllPeople()); got != params.Population.Size {
		t.Errorf("generated %d people, want %d", got, params.Population.Size)
	}
}

func TestGenerateCity_EveryoneIsHoused(t *testing.T) {
	params := smallCityParams()
	world := GenerateCity(params, testRNG())

	for _, p := range world.AllPeople() {
		if !p.HasEnvironment(EnvHousehold) {
			t.Fatalf("person %d has no household", p.ID())
		}
		if !p.HasEnvironment(EnvCity) {
			t.Fatalf("person %d is not in the city community", p.ID())
		}
		if !p.HasEnvironment(EnvNeighborhood) {
			t.Fatalf("person %d is not in a neighborhood community", p.ID())
		}
		if p.CityName() != params.Population.City {
			t.Fatalf("person %d lives in %q, want %q", p.ID(), p.CityName(), params.Population.City)
		}
	}
}

func TestGenerateCity_EveryHouseholdHasAnAdult(t *testing.T) {
	params := smallCityParams()
	world := GenerateCity(params, testRNG())

	for i, house := range world.AllCityHouseholds() {
		adult := false
		for _, p := range house.People() {
			if p.Age() >= params.Population.WorkingAgeMin {
				adult = true
				break
			}
		}
		if !adult {
			t.Errorf("household %d has no adult member", i)
		}
	}
}

func TestGenerateCity_AgeBasedEnvironments(t *testing.T) {
	params := smallCityParams()
	world := GenerateCity(params, testRNG())
	pop := &params.Population

	for _, p := range world.AllPeople() {
		inSchool := p.HasEnvironment(EnvSchool)
		inWork := p.HasEnvironment(EnvWorkplace)
		schoolAge := p.Age() >= pop.SchoolAgeMin && p.Age() <= pop.SchoolAgeMax
		workingAge := p.Age() >= pop.WorkingAgeMin && p.Age() <= pop.WorkingAgeMax

		if inSchool && !schoolAge {
			t.Errorf("person %d (age %d) attends school", p.ID(), p.Age())
		}
		if inWork && !workingAge {
			t.Errorf("person %d (age %d) attends a workplace", p.ID(), p.Age())
		}
		if schoolAge && !inSchool {
			t.Errorf("school-age person %d (age %d) has no school", p.ID(), p.Age())
		}
		if workingAge && !inWork && !inSchool {
			t.Errorf("working-age person %d (age %d) has no workplace", p.ID(), p.Age())
		}
	}
}

func TestGenerateCity_Deterministic(t *testing.T) {
	params := smallCityParams()
	worldA := GenerateCity(params, NewPartitionedRNG(NewSimulationKey(11)))
	worldB := GenerateCity(params, NewPartitionedRNG(NewSimulationKey(11)))

	peopleA, peopleB := worldA.AllPeople(), worldB.AllPeople()
	if len(peopleA) != len(peopleB) {
		t.Fatalf("population sizes differ: %d vs %d", len(peopleA), len(peopleB))
	}
	for i := range peopleA {
		if peopleA[i].Age() != peopleB[i].Age() {
			t.Fatalf("person %d: ages differ (%d vs %d)", i, peopleA[i].Age(), peopleB[i].Age())
		}
	}
	if len(worldA.AllCityHouseholds()) != len(worldB.AllCityHouseholds()) {
		t.Fatalf("household counts differ")
	}
}

func TestGenerateCity_InvalidParamsPanics(t *testing.T) {
	params := smallCityParams()
	params.Population.Size = -1
	mustPanic(t, "invalid parameters", func() { GenerateCity(params, testRNG()) })
}

func TestSampleIndex_RespectsWeights(t *testing.T) {
	rng := testRNG().ForSubsystem(SubsystemPopulation)

	// all the mass on index 2
	for i := 0; i < 100; i++ {
		if got := sampleIndex([]float64{0, 0, 1, 0}, rng); got != 2 {
			t.Fatalf("sampleIndex = %d, want 2", got)
		}
	}
}

func TestChunkPeople(t *testing.T) {
	rng := testRNG()
	people := make([]*Person, 7)
	for i := range people {
		people[i] = NewPerson(i, 30, testDisease(), rng)
	}

	groups := chunkPeople(people, 3)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if len(groups[0]) != 3 || len(groups[1]) != 3 || len(groups[2]) != 1 {
		t.Errorf("group sizes = %d,%d,%d, want 3,3,1", len(groups[0]), len(groups[1]), len(groups[2]))
	}
}
