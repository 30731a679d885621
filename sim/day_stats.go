package sim

// DayStatistics is the per-day snapshot handed to the statistics sink: the
// date and the redacted state of every person who changed that day.
type DayStatistics struct {
	Date    Date
	Changed []PersonState
}

// NewDayStatistics snapshots the changed population for one date.
func NewDayStatistics(date Date, changed []*Person) *DayStatistics {
	snapshot := make([]PersonState, 0, len(changed))
	for _, p := range changed {
		snapshot = append(snapshot, *p.snapshotState())
	}
	return &DayStatistics{Date: date, Changed: snapshot}
}

// StateCounts histograms the changed people by disease state.
func (d *DayStatistics) StateCounts() map[DiseaseState]int {
	counts := make(map[DiseaseState]int)
	for _, state := range d.Changed {
		counts[state.State]++
	}
	return counts
}
