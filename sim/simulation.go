package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// StopEarlyR is the only supported early-stop kind: stop once everyone
// infected within the first WindowDays has left the infected states, which
// is all that reproduction-number estimation needs.
const StopEarlyR = "r"

// StopEarly configures premature termination of a run.
type StopEarly struct {
	Kind       string
	WindowDays int
}

// opGuard enforces that a mutating operation configures a Simulation at
// most once. The doc string doubles as human-readable provenance and is
// written to the run's inputs report.
type opGuard struct {
	configured bool
	doc        string
}

func (g *opGuard) configure(op, doc string) {
	if g.configured {
		logrus.Panicf("%s already performed: %s", op, g.doc)
	}
	g.configured = true
	g.doc = doc
}

// Simulation runs a single epidemic: it owns a world, a date-keyed event
// calendar, and a statistics sink, and advances day by day, applying due
// events and propagating infections throughout environments.
//
// A Simulation is single-threaded and not restartable: seeding may happen
// at most once, and RunSimulation may be called at most once.
type Simulation struct {
	world         *World
	date          Date
	initialDate   Date
	interventions []Intervention
	calendar      map[Date]*DayEvent
	stats         *Statistics
	verbosity     bool

	stopEarly             *StopEarly
	lastDayToRecordR      Date
	numRDays              int
	firstInfectiousPeople map[*Person]struct{}

	seeding      opGuard
	running      opGuard
	numDaysToRun int

	rng *PartitionedRNG
}

// NewSimulation creates a simulation over the given world starting at the
// given date. People are signed up to their environments here, before any
// intervention generates events, because intervention targeting may depend
// on environment membership.
func NewSimulation(world *World, initialDate Date, interventions []Intervention,
	stopEarly *StopEarly, verbosity bool, outdir string, rng *PartitionedRNG) *Simulation {
	s := &Simulation{
		world:                 world,
		date:                  initialDate,
		initialDate:           initialDate,
		interventions:         interventions,
		calendar:              make(map[Date]*DayEvent),
		stats:                 NewStatistics(outdir, world),
		verbosity:             verbosity,
		stopEarly:             stopEarly,
		firstInfectiousPeople: make(map[*Person]struct{}),
		rng:                   rng,
	}

	world.SignAllPeopleUpToEnvironments()
	for _, iv := range interventions {
		s.stats.AddIntervention(iv)
	}

	if stopEarly != nil {
		if stopEarly.Kind != StopEarlyR {
			logrus.Panicf("unsupported early-stop kind %q", stopEarly.Kind)
		}
		s.numRDays = stopEarly.WindowDays
		s.lastDayToRecordR = initialDate.AddDays(stopEarly.WindowDays)
	}

	for _, iv := range interventions {
		s.RegisterEvents(iv.GenerateEvents(world))
	}
	return s
}

// CurrentDate returns the simulation's current date.
func (s *Simulation) CurrentDate() Date { return s.date }

// InitialDate returns the date the simulation started at.
func (s *Simulation) InitialDate() Date { return s.initialDate }

// World returns the world the simulation runs on.
func (s *Simulation) World() *World { return s.world }

// Stats returns the simulation's statistics sink.
func (s *Simulation) Stats() *Statistics { return s.stats }

// InitialInfectionDoc returns the human-readable provenance of the seeding
// call, or the empty string before seeding.
func (s *Simulation) InitialInfectionDoc() string { return s.seeding.doc }

// NumDaysToRun returns the configured run length, zero before RunSimulation.
func (s *Simulation) NumDaysToRun() int { return s.numDaysToRun }

// RegisterEventOnDay hooks the given event to the given date, lazily
// creating that date's bundle.
func (s *Simulation) RegisterEventOnDay(ev Event, date Date) {
	bundle, ok := s.calendar[date]
	if !ok {
		bundle = NewDayEvent(date)
		s.calendar[date] = bundle
	}
	bundle.Hook(ev)
}

// RegisterEvents registers every event on its own date. This is the single
// choke point through which interventions, seeding and contagion all inject
// future work: order-preserving within one date, a no-op for empty input.
func (s *Simulation) RegisterEvents(events []Event) {
	for _, ev := range events {
		if ev == nil {
			logrus.Panicf("registering a nil event")
		}
		s.RegisterEventOnDay(ev, ev.Date())
	}
}

// SimulateDay advances the simulation by exactly one day, in four ordered
// phases:
//  1. apply and discard the current date's event bundle, if any;
//  2. re-register every changed person into their daily environments;
//  3. propagate infection through every environment, registering the
//     returned events;
//  4. snapshot the changed population into the statistics sink, save each
//     changed person's state, grow the early-stop cohort if within the
//     observation window, and advance the date.
func (s *Simulation) SimulateDay() {
	if bundle, ok := s.calendar[s.date]; ok {
		bundle.Apply(s)
		delete(s.calendar, s.date)
	}

	for _, p := range s.changedPeople() {
		p.RegisterToDailyEnvironments()
	}

	for _, env := range s.world.AllEnvironments() {
		s.RegisterEvents(env.PropagateInfection(s.date))
	}

	changed := s.changedPeople()

	if s.verbosity && s.date.Weekday() == time.Sunday {
		s.logStateHistogram()
	}

	s.stats.AddDailyData(NewDayStatistics(s.date, changed))
	for _, p := range changed {
		p.SaveState()
	}

	if s.stopEarly != nil && !s.date.After(s.lastDayToRecordR) {
		for _, p := range changed {
			if p.IsInfected() {
				s.firstInfectiousPeople[p] = struct{}{}
			}
		}
	}

	s.date = s.date.AddDays(1)
}

func (s *Simulation) changedPeople() []*Person {
	var changed []*Person
	for _, p := range s.world.AllPeople() {
		if p.Changed() {
			changed = append(changed, p)
		}
	}
	return changed
}

func (s *Simulation) logStateHistogram() {
	states := make(map[DiseaseState]int)
	infectedBy := make(map[string]int)
	for _, p := range s.world.AllPeople() {
		states[p.DiseaseState()]++
		if p.IsInfected() && p.InfectionData() != nil {
			infectedBy[p.InfectionData().Environment.Name()]++
		}
	}
	logrus.Infof("------ day %s: disease states %v ------", s.date, states)
	logrus.Infof("------ infected by environment %v ------", infectedBy)
}

// FirstPeopleAreDone reports whether every person infected during the
// early-stop observation window has left the infected states. Always false
// without an early-stop policy.
func (s *Simulation) FirstPeopleAreDone() bool {
	if s.stopEarly == nil {
		return false
	}
	for p := range s.firstInfectiousPeople {
		if p.IsInfected() {
			return false
		}
	}
	return true
}

// Extension receives a callback at the start and at the end of every
// simulated day. Extensions are constructed by the caller (typically with
// the Simulation as context) and passed to RunSimulation; the engine never
// resolves or constructs them itself.
type Extension interface {
	StartOfDay()
	EndOfDay()
}

// RunSimulation is the main loop: it advances the simulation day by day for
// at most numDays, stopping early once the statistics saturate or the
// early-stop cohort resolves, then finalizes statistics exactly once.
// May be called at most once per Simulation.
func (s *Simulation) RunSimulation(numDays int, name string, datasToPlot map[string][]DiseaseState, extensions []Extension) {
	s.running.configure("run_simulation", fmt.Sprintf("%s: %d days", name, numDays))
	s.numDaysToRun = numDays
	logrus.Infof("starting simulation %s", name)

	for day := 0; day < numDays; day++ {
		for _, ext := range extensions {
			ext.StartOfDay()
		}
		s.SimulateDay()
		for _, ext := range extensions {
			ext.EndOfDay()
		}
		if s.stats.IsStatic() || s.FirstPeopleAreDone() {
			if s.verbosity {
				logrus.Infof("simulation stopping after %d days", day+1)
			}
			break
		}
	}

	s.stats.MarkEnding(s.world.AllPeople())
	windowDays := -1
	if s.stopEarly != nil {
		windowDays = s.numRDays
	}
	s.stats.CalcR0Data(s.world.AllPeople(), windowDays)
	mustWrite(s.stats.Dump("statistics.json"))
	for plotName, states := range datasToPlot {
		mustWrite(s.stats.PlotDailySum(plotName, states))
	}
	mustWrite(s.stats.WriteSummaryFile("summary", true))
	mustWrite(s.stats.WriteSummaryFile("summary_long", false))
	if s.stats.HasR0Data() {
		mustWrite(s.stats.PlotR0Data("r0_data_" + name))
	}
	mustWrite(s.stats.WriteParams())
	mustWrite(s.stats.WriteInputs(s))
	mustWrite(s.stats.WriteInterventionsInputsCSV())
}

// mustWrite aborts the run on output failures.
func mustWrite(err error) {
	if err != nil {
		logrus.Panicf("writing simulation outputs: %v", err)
	}
}
