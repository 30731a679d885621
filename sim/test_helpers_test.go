package sim

import (
	"os"
	"path/filepath"
	"testing"
)

// testRNG returns a fresh deterministic RNG partition for tests.
func testRNG() *PartitionedRNG {
	return NewPartitionedRNG(NewSimulationKey(42))
}

// testDisease returns the default disease parameters.
func testDisease() *DiseaseParams {
	return &DefaultParams().Disease
}

// buildTestWorld creates a world of households with the given member ages,
// one household per inner slice, all in the same city. contactProb applies
// to every household; no other environments are created.
func buildTestWorld(t *testing.T, rng *PartitionedRNG, contactProb float64, houseAges ...[]int) *World {
	t.Helper()
	disease := testDisease()
	contagion := rng.ForSubsystem(SubsystemContagion)

	var people []*Person
	var households []*Household
	var environments []Environment
	id := 0
	for _, ages := range houseAges {
		house := NewHousehold("testville", contactProb, contagion)
		for _, age := range ages {
			p := NewPerson(id, age, disease, rng)
			id++
			house.AddMember(p)
			p.AddEnvironment(house)
			people = append(people, p)
		}
		households = append(households, house)
		environments = append(environments, house)
	}
	return NewWorld(people, environments, households)
}

// isolatedWorld creates n single-person households with zero contact
// probability, so infection never spreads on its own.
func isolatedWorld(t *testing.T, rng *PartitionedRNG, n int) *World {
	t.Helper()
	houses := make([][]int, n)
	for i := range houses {
		houses[i] = []int{30}
	}
	return buildTestWorld(t, rng, 0, houses...)
}

// shortCourse is a fixed three-stage disease course: latent for latentDays,
// infectious for infectiousDays, then immune.
func shortCourse(latentDays, infectiousDays int) []SeirStage {
	return []SeirStage{
		{State: Latent, Days: latentDays},
		{State: AsymptomaticInfectious, Days: infectiousDays},
		{State: Immune},
	}
}

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp yaml: %v", err)
	}
	return path
}

// countStates histograms the world's population by disease state.
func countStates(world *World) map[DiseaseState]int {
	counts := make(map[DiseaseState]int)
	for _, p := range world.AllPeople() {
		counts[p.DiseaseState()]++
	}
	return counts
}

// mustPanic fails the test unless fn panics.
func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic, got none", name)
		}
	}()
	fn()
}
