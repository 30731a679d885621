package sim

import "github.com/sirupsen/logrus"

// World holds the full synthetic population: every person, every infection
// environment, and the household list. It is exclusively owned by the one
// Simulation running on it.
type World struct {
	people       []*Person
	environments []Environment
	households   []*Household
	byID         map[int]*Person
	signedUp     bool
}

// NewWorld assembles a world from its generated parts.
func NewWorld(people []*Person, environments []Environment, households []*Household) *World {
	byID := make(map[int]*Person, len(people))
	for _, p := range people {
		if _, ok := byID[p.ID()]; ok {
			logrus.Panicf("duplicate person id %d", p.ID())
		}
		byID[p.ID()] = p
	}
	return &World{
		people:       people,
		environments: environments,
		households:   households,
		byID:         byID,
	}
}

// AllPeople returns every person in the world.
func (w *World) AllPeople() []*Person { return w.people }

// AllEnvironments returns every infection environment in the world.
func (w *World) AllEnvironments() []Environment { return w.environments }

// AllCityHouseholds returns every household in the world.
func (w *World) AllCityHouseholds() []*Household { return w.households }

// PersonByID returns the person with the given id.
func (w *World) PersonByID(id int) *Person {
	p, ok := w.byID[id]
	if !ok {
		logrus.Panicf("no person with id %d", id)
	}
	return p
}

// SignAllPeopleUpToEnvironments enrolls every person into their daily
// environments. Idempotent; must run before any intervention generates
// events, since intervention targeting may depend on environment
// membership.
func (w *World) SignAllPeopleUpToEnvironments() {
	if w.signedUp {
		return
	}
	for _, p := range w.people {
		for _, name := range p.EnvironmentNames() {
			p.Environment(name).SignUpForToday(p, p.Routine()[name])
		}
	}
	w.signedUp = true
}
