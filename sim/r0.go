package sim

import "math"

// R0Data is the daily reproduction number series: for every infection date,
// the average number of onward infections caused by the cohort infected
// that day. The smoothed series attributes each person's full infection
// count (including seeded, undated transmissions) to their infection date.
type R0Data struct {
	Dates         []Date
	AvgR0         []float64
	SmoothedAvgR0 []float64
}

// CalculateR0Data computes the daily reproduction series over a population.
// windowDays >= 0 caps the series at that many days past the first
// infection; a negative value keeps the full range. Returns nil when no
// dated infection exists.
func CalculateR0Data(population []*Person, windowDays int) *R0Data {
	type cohort struct {
		numInfecting  int
		totalInfected int
		smoothedTotal int
	}

	// onward infection counts attributed through transmitter links
	onward := make(map[*Person]int)
	for _, p := range population {
		data := p.InfectionData()
		if data == nil || !data.Dated {
			continue
		}
		if data.Transmitter != nil {
			onward[data.Transmitter]++
		}
	}

	var minDate, maxDate Date
	valid := false
	for _, p := range population {
		data := p.InfectionData()
		if data == nil || !data.Dated {
			continue
		}
		if !valid {
			minDate, maxDate = data.Date, data.Date
			valid = true
			continue
		}
		if data.Date.Before(minDate) {
			minDate = data.Date
		}
		if data.Date.After(maxDate) {
			maxDate = data.Date
		}
	}
	if !valid {
		return nil
	}
	if windowDays >= 0 {
		if capped := minDate.AddDays(windowDays); capped.Before(maxDate) {
			maxDate = capped
		}
	}

	cohorts := make(map[Date]*cohort)
	for d := minDate; !d.After(maxDate); d = d.AddDays(1) {
		cohorts[d] = &cohort{}
	}
	for _, p := range population {
		data := p.InfectionData()
		if data == nil || !data.Dated || data.Date.After(maxDate) {
			continue
		}
		c := cohorts[data.Date]
		c.numInfecting++
		c.totalInfected += onward[p]
		c.smoothedTotal += p.NumInfections()
	}

	result := &R0Data{}
	for d := minDate; !d.After(maxDate); d = d.AddDays(1) {
		c := cohorts[d]
		avg, smoothed := math.NaN(), math.NaN()
		if c.numInfecting > 0 {
			avg = float64(c.totalInfected) / float64(c.numInfecting)
			smoothed = float64(c.smoothedTotal) / float64(c.numInfecting)
		}
		result.Dates = append(result.Dates, d)
		result.AvgR0 = append(result.AvgR0, avg)
		result.SmoothedAvgR0 = append(result.SmoothedAvgR0, smoothed)
	}
	return result
}
