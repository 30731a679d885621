package sim

import (
	"testing"
	"time"
)

func newTestSimulation(t *testing.T, world *World, rng *PartitionedRNG) *Simulation {
	t.Helper()
	return NewSimulation(world, NewDate(2020, time.February, 27), nil, nil, false, "", rng)
}

func TestSimulateDay_AdvancesExactlyOneDay(t *testing.T) {
	rng := testRNG()
	s := newTestSimulation(t, isolatedWorld(t, rng, 3), rng)
	start := s.CurrentDate()

	s.SimulateDay()
	if got := s.CurrentDate(); got != start.AddDays(1) {
		t.Errorf("CurrentDate() = %s after one day, want %s", got, start.AddDays(1))
	}

	s.SimulateDay()
	if got := s.CurrentDate(); got != start.AddDays(2) {
		t.Errorf("CurrentDate() = %s after two days, want %s", got, start.AddDays(2))
	}
	if s.InitialDate() != start {
		t.Errorf("InitialDate() drifted to %s", s.InitialDate())
	}
}

func TestSimulateDay_EmptyDayChangesNoState(t *testing.T) {
	rng := testRNG()
	s := newTestSimulation(t, isolatedWorld(t, rng, 3), rng)

	// settle: the first day consumes the initial changed flags
	s.SimulateDay()
	before := countStates(s.World())

	s.SimulateDay()
	after := countStates(s.World())

	for state, n := range before {
		if after[state] != n {
			t.Errorf("state %s count changed from %d to %d on an eventless day", state, n, after[state])
		}
	}
	if s.Stats().Days() != 2 {
		t.Errorf("Days() = %d, want 2", s.Stats().Days())
	}
}

func TestRegisterEvents(t *testing.T) {
	rng := testRNG()
	s := newTestSimulation(t, isolatedWorld(t, rng, 3), rng)
	date := s.CurrentDate().AddDays(5)

	// empty registration is fine
	s.RegisterEvents(nil)

	ev1 := &countingEvent{date: date}
	ev2 := &countingEvent{date: date}
	s.RegisterEvents([]Event{ev1, ev2})
	if s.calendar[date].Len() != 2 {
		t.Fatalf("bundle holds %d events, want 2", s.calendar[date].Len())
	}

	mustPanic(t, "nil event", func() { s.RegisterEvents([]Event{nil}) })

	// events apply on their day, in registration order, exactly once
	for i := 0; i < 6; i++ {
		s.SimulateDay()
	}
	if ev1.applied != 1 || ev2.applied != 1 {
		t.Errorf("events applied %d and %d times, want once each", ev1.applied, ev2.applied)
	}
	if _, ok := s.calendar[date]; ok {
		t.Errorf("applied bundle still in the calendar")
	}
}

func TestSimulateDay_AppliesEventsOnTheirDateOnly(t *testing.T) {
	rng := testRNG()
	s := newTestSimulation(t, isolatedWorld(t, rng, 3), rng)
	ev := &countingEvent{date: s.CurrentDate().AddDays(2)}
	s.RegisterEvents([]Event{ev})

	s.SimulateDay()
	s.SimulateDay()
	if ev.applied != 0 {
		t.Fatalf("event applied %d days early", 2-ev.applied)
	}
	s.SimulateDay()
	if ev.applied != 1 {
		t.Errorf("event applied %d times on its date, want 1", ev.applied)
	}
}

func TestNewSimulation_RejectsUnknownStopEarlyKind(t *testing.T) {
	rng := testRNG()
	world := isolatedWorld(t, rng, 3)
	mustPanic(t, "unknown early-stop kind", func() {
		NewSimulation(world, NewDate(2020, time.February, 27), nil,
			&StopEarly{Kind: "weird", WindowDays: 5}, false, "", rng)
	})
}

func TestFirstPeopleAreDone_FalseWithoutPolicy(t *testing.T) {
	rng := testRNG()
	s := newTestSimulation(t, isolatedWorld(t, rng, 3), rng)
	if s.FirstPeopleAreDone() {
		t.Errorf("FirstPeopleAreDone() = true without an early-stop policy")
	}
}

func TestEarlyStop_CohortResolution(t *testing.T) {
	// One seeded case, window 5: the cohort is just the seed, and the run
	// must stop the day the seed turns immune.
	rng := testRNG()
	world := isolatedWorld(t, rng, 4)
	initial := NewDate(2020, time.February, 27)
	s := NewSimulation(world, initial, nil, &StopEarly{Kind: StopEarlyR, WindowDays: 5}, false, "", rng)
	s.InfectChosenSet([]ChosenInfection{
		{PersonID: 0, Date: initial, SeirTimes: shortCourse(2, 3)},
	}, "single seed")

	seed := world.PersonByID(0)

	for day := 0; day < 5; day++ {
		s.SimulateDay()
		if s.FirstPeopleAreDone() {
			t.Fatalf("day %d: cohort reported done while the seed is %s", day, seed.DiseaseState())
		}
	}
	s.SimulateDay() // day of the Immune transition
	if seed.DiseaseState() != Immune {
		t.Fatalf("seed state = %s after 6 days, want immune", seed.DiseaseState())
	}
	if !s.FirstPeopleAreDone() {
		t.Errorf("cohort not reported done after the seed resolved")
	}
}

func TestRunSimulation_StopsWhenCohortResolves(t *testing.T) {
	rng := testRNG()
	world := isolatedWorld(t, rng, 4)
	initial := NewDate(2020, time.February, 27)
	s := NewSimulation(world, initial, nil, &StopEarly{Kind: StopEarlyR, WindowDays: 5},
		false, t.TempDir(), rng)
	s.InfectChosenSet([]ChosenInfection{
		{PersonID: 0, Date: initial, SeirTimes: shortCourse(2, 3)},
	}, "single seed")

	s.RunSimulation(100, "early_stop", nil, nil)

	if got := s.Stats().Days(); got != 6 {
		t.Errorf("simulated %d days, want 6 (stop on the day the seed resolved)", got)
	}
}

func TestRunSimulation_StopsWhenStatic(t *testing.T) {
	// nobody infected at all: the very first day already saturates
	rng := testRNG()
	world := isolatedWorld(t, rng, 3)
	s := NewSimulation(world, NewDate(2020, time.February, 27), nil, nil, false, t.TempDir(), rng)

	s.RunSimulation(100, "static", nil, nil)

	if got := s.Stats().Days(); got != 1 {
		t.Errorf("simulated %d days, want 1", got)
	}
}

func TestRunSimulation_AtMostOnce(t *testing.T) {
	rng := testRNG()
	s := NewSimulation(isolatedWorld(t, rng, 3), NewDate(2020, time.February, 27),
		nil, nil, false, t.TempDir(), rng)
	s.RunSimulation(2, "first", nil, nil)

	mustPanic(t, "second run", func() { s.RunSimulation(2, "second", nil, nil) })
}

// dayCounter counts extension callbacks.
type dayCounter struct {
	starts int
	ends   int
}

func (c *dayCounter) StartOfDay() { c.starts++ }
func (c *dayCounter) EndOfDay()   { c.ends++ }

func TestRunSimulation_ExtensionsCalledEveryDay(t *testing.T) {
	rng := testRNG()
	world := isolatedWorld(t, rng, 4)
	initial := NewDate(2020, time.February, 27)
	s := NewSimulation(world, initial, nil, nil, false, t.TempDir(), rng)
	s.InfectChosenSet([]ChosenInfection{
		{PersonID: 0, Date: initial, SeirTimes: shortCourse(2, 3)},
	}, "single seed")

	counter := &dayCounter{}
	s.RunSimulation(3, "extensions", nil, []Extension{counter})

	if counter.starts != 3 || counter.ends != 3 {
		t.Errorf("extension called %d/%d times, want 3/3", counter.starts, counter.ends)
	}
}
