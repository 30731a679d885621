package sim

import (
	"testing"
)

func TestNewWorld_RejectsDuplicateIDs(t *testing.T) {
	rng := testRNG()
	a := NewPerson(1, 30, testDisease(), rng)
	b := NewPerson(1, 40, testDisease(), rng)

	mustPanic(t, "duplicate person id", func() {
		NewWorld([]*Person{a, b}, nil, nil)
	})
}

func TestWorld_PersonByID(t *testing.T) {
	world := isolatedWorld(t, testRNG(), 3)

	if got := world.PersonByID(1); got.ID() != 1 {
		t.Errorf("PersonByID(1).ID() = %d", got.ID())
	}
	mustPanic(t, "unknown person id", func() { world.PersonByID(99) })
}

func TestWorld_SignAllPeopleUpIsIdempotent(t *testing.T) {
	world := buildTestWorld(t, testRNG(), 0.4, []int{30, 32, 8})
	house := world.AllCityHouseholds()[0]

	world.SignAllPeopleUpToEnvironments()
	world.SignAllPeopleUpToEnvironments()

	if len(house.attendees) != 3 {
		t.Errorf("household has %d attendees, want 3", len(house.attendees))
	}
}

func TestWorld_Accessors(t *testing.T) {
	world := buildTestWorld(t, testRNG(), 0.4, []int{30, 32}, []int{70})

	if len(world.AllPeople()) != 3 {
		t.Errorf("AllPeople() = %d people, want 3", len(world.AllPeople()))
	}
	if len(world.AllCityHouseholds()) != 2 {
		t.Errorf("AllCityHouseholds() = %d, want 2", len(world.AllCityHouseholds()))
	}
	if len(world.AllEnvironments()) != 2 {
		t.Errorf("AllEnvironments() = %d, want 2", len(world.AllEnvironments()))
	}
}
