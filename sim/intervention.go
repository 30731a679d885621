package sim

// Intervention is a public-health policy. Given the world, it produces the
// dated events that realize its own activation and deactivation schedule;
// the engine treats interventions opaquely and only registers what they
// return.
type Intervention interface {
	Name() string
	GenerateEvents(world *World) []Event
}

// Period is an intervention's active window: Start inclusive, End exclusive.
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether date falls within the period.
func (p Period) Contains(date Date) bool {
	return !date.Before(p.Start) && date.Before(p.End)
}
