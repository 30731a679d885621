package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TAU-COVID19/household-age-matrix/sim"
)

var (
	// shared CLI flags
	seed       int64  // Master seed for all RNG subsystems
	logLevel   string // Log verbosity level
	paramsFile string // Optional YAML parameter file
	outdir     string // Output directory for run artifacts

	// run flags
	runName         string  // Simulation name, used in output filenames
	initialDateStr  string  // Starting date, YYYY-MM-DD
	numDays         int     // Number of days to simulate
	populationSize  int     // Synthetic city size (overrides params)
	numInfected     int     // Initial infected count
	perToImmune     float64 // Fraction of the population (or households) to immunize
	minAge          int     // Minimum age for immunization eligibility
	immuneByHouse   bool    // Immunize whole households instead of random people
	stopEarlyWindow int     // R observation window in days (0 disables early stop)
	verbosity       bool    // Weekly state histogram logging

	// intervention flags
	isolationCompliance float64 // Symptomatic isolation compliance (0 disables)
	schoolClosureDays   int     // School closure length from day 0 (0 disables)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "household-age-matrix",
	Short: "Agent-based epidemic simulator over synthetic household populations",
}

// parseInitialDate converts the --initial-date flag into a simulation Date.
func parseInitialDate(value string) (sim.Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return sim.Date{}, err
	}
	return sim.NewDate(t.Year(), t.Month(), t.Day()), nil
}

// loadParams resolves the parameter set from the optional YAML file over
// the built-in defaults.
func loadParams() *sim.Params {
	if paramsFile == "" {
		return sim.DefaultParams()
	}
	params, err := sim.LoadParams(paramsFile)
	if err != nil {
		logrus.Fatalf("loading params: %v", err)
	}
	return params
}

// runCmd executes one epidemic simulation using parameters from CLI flags.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an epidemic simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		initialDate, err := parseInitialDate(initialDateStr)
		if err != nil {
			logrus.Fatalf("Invalid initial date %q: %v", initialDateStr, err)
		}

		params := loadParams()
		if populationSize > 0 {
			params.Population.Size = populationSize
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		logrus.Infof("generating city %q with %d people", params.Population.City, params.Population.Size)
		world := sim.GenerateCity(params, rng)

		var interventions []sim.Intervention
		if isolationCompliance > 0 {
			interventions = append(interventions, sim.NewSymptomaticIsolationIntervention(
				sim.Period{Start: initialDate, End: initialDate.AddDays(numDays)},
				isolationCompliance,
				rng.ForSubsystem(sim.SubsystemContagion),
			))
		}
		if schoolClosureDays > 0 {
			interventions = append(interventions, &sim.SchoolClosureIntervention{
				Period: sim.Period{Start: initialDate, End: initialDate.AddDays(schoolClosureDays)},
			})
		}

		var stopEarly *sim.StopEarly
		if stopEarlyWindow > 0 {
			stopEarly = &sim.StopEarly{Kind: sim.StopEarlyR, WindowDays: stopEarlyWindow}
		}

		startTime := time.Now()
		simulation := sim.NewSimulation(world, initialDate, interventions, stopEarly, verbosity, outdir, rng)
		simulation.Stats().SetParams(params)

		if immuneByHouse {
			simulation.ImmuneHouseholdsInfectOthers(numInfected,
				"household immunization seeding", perToImmune, "", minAge)
		} else {
			simulation.InfectRandomSet(numInfected,
				"uniform random seeding", perToImmune, "", minAge)
		}

		simulation.RunSimulation(numDays, runName, map[string][]sim.DiseaseState{
			"infected": {sim.Latent, sim.AsymptomaticInfectious, sim.Presymptomatic,
				sim.Symptomatic, sim.CriticalCondition},
			"deceased": {sim.Deceased},
		}, nil)

		logrus.Infof("simulation %s finished after %d recorded days in %s",
			runName, simulation.Stats().Days(), time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed for all RNG subsystems")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "YAML parameter file (defaults built in)")
	rootCmd.PersistentFlags().StringVar(&outdir, "outdir", "outputs", "Output directory")

	runCmd.Flags().StringVar(&runName, "name", "simulation", "Simulation name, used in output filenames")
	runCmd.Flags().StringVar(&initialDateStr, "initial-date", "2020-02-27", "Starting date (YYYY-MM-DD)")
	runCmd.Flags().IntVar(&numDays, "days", 150, "Number of days to simulate")
	runCmd.Flags().IntVar(&populationSize, "population", 0, "Synthetic city size (0 keeps the params value)")
	runCmd.Flags().IntVar(&numInfected, "infected", 20, "Initial infected count")
	runCmd.Flags().Float64Var(&perToImmune, "immune-fraction", 0, "Fraction of the population (or households) to immunize upfront")
	runCmd.Flags().IntVar(&minAge, "immune-min-age", 0, "Minimum age for immunization eligibility")
	runCmd.Flags().BoolVar(&immuneByHouse, "immune-by-household", false, "Immunize whole households instead of random individuals")
	runCmd.Flags().IntVar(&stopEarlyWindow, "r-window", 0, "Early-stop R observation window in days (0 disables)")
	runCmd.Flags().BoolVar(&verbosity, "verbose-histograms", false, "Log weekly disease state histograms")
	runCmd.Flags().Float64Var(&isolationCompliance, "isolation-compliance", 0, "Symptomatic isolation compliance probability (0 disables)")
	runCmd.Flags().IntVar(&schoolClosureDays, "school-closure-days", 0, "Close schools for this many days from day 0 (0 disables)")

	rootCmd.AddCommand(runCmd)
}
