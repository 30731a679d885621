package sim

// InfectionData records who, when and where a person was infected. Seeded
// imports whose infection predates the simulation window clear the Dated
// flag so their back-dated infections stay out of the daily series.
type InfectionData struct {
	Person      *Person
	Date        Date
	Dated       bool
	Environment Environment
	Transmitter *Person
}
