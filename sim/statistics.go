package sim

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// allDiseaseStates fixes the reporting order of state histograms.
var allDiseaseStates = []DiseaseState{
	Susceptible, Latent, AsymptomaticInfectious, Presymptomatic,
	Symptomatic, CriticalCondition, Immune, Deceased,
}

// Statistics accumulates per-day snapshots over a whole run and renders the
// final artifacts: raw dump, daily time series, reproduction-number series,
// summaries, and input provenance. Its lifecycle spans the run and it is
// finalized once, by RunSimulation.
type Statistics struct {
	outdir string
	world  *World

	interventions []Intervention
	days          []*DayStatistics
	histograms    []map[DiseaseState]int
	ending        map[DiseaseState]int
	r0            *R0Data
	params        *Params
}

// NewStatistics creates a sink writing its artifacts under outdir. An empty
// outdir is allowed for runs that never render artifacts (unit tests).
func NewStatistics(outdir string, world *World) *Statistics {
	if outdir != "" {
		if err := os.MkdirAll(outdir, 0o755); err != nil {
			logrus.Panicf("creating output directory: %v", err)
		}
	}
	return &Statistics{outdir: outdir, world: world}
}

// AddIntervention records an intervention for the provenance report.
func (st *Statistics) AddIntervention(iv Intervention) {
	st.interventions = append(st.interventions, iv)
}

// SetParams records the resolved parameter set for WriteParams.
func (st *Statistics) SetParams(params *Params) {
	st.params = params
}

// AddDailyData records one day's changed-population snapshot along with a
// full-population state histogram for the time series.
func (st *Statistics) AddDailyData(day *DayStatistics) {
	st.days = append(st.days, day)
	histogram := make(map[DiseaseState]int)
	for _, p := range st.world.AllPeople() {
		histogram[p.DiseaseState()]++
	}
	st.histograms = append(st.histograms, histogram)
}

// Days returns the number of recorded days.
func (st *Statistics) Days() int { return len(st.days) }

// IsStatic reports saturation: at least one day recorded and no live
// infection left anywhere, so no further day can change anything.
func (st *Statistics) IsStatic() bool {
	if len(st.histograms) == 0 {
		return false
	}
	last := st.histograms[len(st.histograms)-1]
	for _, s := range allDiseaseStates {
		if s.IsInfected() && last[s] > 0 {
			return false
		}
	}
	return true
}

// MarkEnding records the final full-population histogram.
func (st *Statistics) MarkEnding(people []*Person) {
	st.ending = make(map[DiseaseState]int)
	for _, p := range people {
		st.ending[p.DiseaseState()]++
	}
}

// CalcR0Data computes and stores the reproduction-number series.
// A negative windowDays leaves the series uncapped.
func (st *Statistics) CalcR0Data(people []*Person, windowDays int) {
	st.r0 = CalculateR0Data(people, windowDays)
}

// HasR0Data reports whether any reproduction data was computed.
func (st *Statistics) HasR0Data() bool { return st.r0 != nil }

// R0Data returns the computed reproduction series, or nil.
func (st *Statistics) R0Data() *R0Data { return st.r0 }

type dumpedDay struct {
	Date      string         `json:"date"`
	Changed   int            `json:"changed"`
	Histogram map[string]int `json:"histogram"`
}

// Dump persists the raw per-day statistics as JSON under outdir.
func (st *Statistics) Dump(filename string) error {
	days := make([]dumpedDay, 0, len(st.days))
	for i, day := range st.days {
		days = append(days, dumpedDay{
			Date:      day.Date.String(),
			Changed:   len(day.Changed),
			Histogram: stringKeyed(st.histograms[i]),
		})
	}
	payload := struct {
		Days   []dumpedDay    `json:"days"`
		Ending map[string]int `json:"ending,omitempty"`
	}{Days: days, Ending: stringKeyed(st.ending)}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling statistics: %w", err)
	}
	return os.WriteFile(filepath.Join(st.outdir, filename), data, 0o644)
}

func stringKeyed(histogram map[DiseaseState]int) map[string]int {
	if histogram == nil {
		return nil
	}
	out := make(map[string]int, len(histogram))
	for s, n := range histogram {
		out[s.String()] = n
	}
	return out
}

// PlotDailySum writes the daily sum of the given states as a CSV time
// series named <name>.csv.
func (st *Statistics) PlotDailySum(name string, states []DiseaseState) error {
	rows := [][]string{{"date", name}}
	for i, day := range st.days {
		sum := 0
		for _, s := range states {
			sum += st.histograms[i][s]
		}
		rows = append(rows, []string{day.Date.String(), strconv.Itoa(sum)})
	}
	return st.writeCSV(name+".csv", rows)
}

// PlotR0Data writes the reproduction series as a CSV named <name>.csv.
func (st *Statistics) PlotR0Data(name string) error {
	rows := [][]string{{"date", "avg_r0", "smoothed_avg_r0"}}
	for i, date := range st.r0.Dates {
		rows = append(rows, []string{
			date.String(),
			strconv.FormatFloat(st.r0.AvgR0[i], 'f', 4, 64),
			strconv.FormatFloat(st.r0.SmoothedAvgR0[i], 'f', 4, 64),
		})
	}
	return st.writeCSV(name+".csv", rows)
}

// WriteSummaryFile renders a run summary named <name>.txt. The shortened
// form carries the headline numbers; the long form appends the per-day
// state histograms.
func (st *Statistics) WriteSummaryFile(name string, shortened bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "days simulated: %d\n", len(st.days))

	everInfected := 0
	for _, p := range st.world.AllPeople() {
		if p.InfectionData() != nil {
			everInfected++
		}
	}
	fmt.Fprintf(&b, "total infected: %d\n", everInfected)

	peak := 0
	for _, histogram := range st.histograms {
		infected := 0
		for _, s := range allDiseaseStates {
			if s.IsInfected() {
				infected += histogram[s]
			}
		}
		if infected > peak {
			peak = infected
		}
	}
	fmt.Fprintf(&b, "peak infected: %d\n", peak)

	if st.ending != nil {
		b.WriteString("ending states:\n")
		for _, s := range allDiseaseStates {
			if n := st.ending[s]; n > 0 {
				fmt.Fprintf(&b, "  %s: %d\n", s, n)
			}
		}
	}

	if !shortened {
		b.WriteString("daily histograms:\n")
		for i, day := range st.days {
			fmt.Fprintf(&b, "  %s:", day.Date)
			for _, s := range allDiseaseStates {
				if n := st.histograms[i][s]; n > 0 {
					fmt.Fprintf(&b, " %s=%d", s, n)
				}
			}
			b.WriteString("\n")
		}
	}
	return os.WriteFile(filepath.Join(st.outdir, name+".txt"), []byte(b.String()), 0o644)
}

// WriteParams writes the resolved parameter set as YAML, if one was set.
func (st *Statistics) WriteParams() error {
	if st.params == nil {
		return nil
	}
	data, err := yaml.Marshal(st.params)
	if err != nil {
		return fmt.Errorf("marshaling params: %w", err)
	}
	return os.WriteFile(filepath.Join(st.outdir, "params.yaml"), data, 0o644)
}

// WriteInputs writes the run's provenance: how it was seeded and for how
// long it was asked to run.
func (st *Statistics) WriteInputs(sim *Simulation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "initial date: %s\n", sim.InitialDate())
	fmt.Fprintf(&b, "initial infection: %s\n", sim.InitialInfectionDoc())
	fmt.Fprintf(&b, "days to run: %d\n", sim.NumDaysToRun())
	return os.WriteFile(filepath.Join(st.outdir, "inputs.txt"), []byte(b.String()), 0o644)
}

// WriteInterventionsInputsCSV writes one row per applied intervention.
func (st *Statistics) WriteInterventionsInputsCSV() error {
	rows := [][]string{{"name", "type"}}
	for _, iv := range st.interventions {
		rows = append(rows, []string{iv.Name(), fmt.Sprintf("%T", iv)})
	}
	return st.writeCSV("interventions_inputs.csv", rows)
}

func (st *Statistics) writeCSV(filename string, rows [][]string) error {
	f, err := os.Create(filepath.Join(st.outdir, filename))
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	w.Flush()
	return w.Error()
}
