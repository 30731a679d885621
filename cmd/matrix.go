package cmd

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TAU-COVID19/household-age-matrix/sim"
)

var (
	matrixReps int // Number of independent city generations to average over
)

// matrixCmd computes the household age contact matrix of the configured
// city: the city is generated repeatedly, and the element-wise average and
// standard error of the mean across repetitions are written as CSV.
var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Compute the household age contact matrix of a generated city",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		params := loadParams()
		city := params.Population.City
		logrus.Infof("generating %q %d times for the contact matrix", city, matrixReps)

		if err := os.MkdirAll(outdir, 0o755); err != nil {
			logrus.Fatalf("creating output directory: %v", err)
		}

		matrices := sim.HouseholdAgeMatrices(params, matrixReps, sim.NewSimulationKey(seed))
		avg := sim.AverageMatrix(matrices)
		sem := sim.SEMMatrix(matrices)

		if err := avg.WriteMatrixCSV(filepath.Join(outdir, city+"_avg.csv")); err != nil {
			logrus.Fatalf("writing average matrix: %v", err)
		}
		if err := sem.WriteMatrixCSV(filepath.Join(outdir, city+"_sem.csv")); err != nil {
			logrus.Fatalf("writing sem matrix: %v", err)
		}
	},
}

func init() {
	matrixCmd.Flags().IntVar(&matrixReps, "reps", 50, "Number of independent city generations")
	rootCmd.AddCommand(matrixCmd)
}
