package sim

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/stat"
)

// AgeGroupCount is the number of five-year age groups in the contact
// matrix: 0..4, 5..9, ..., 70..74, 75+.
const AgeGroupCount = 16

// ageGroupLabels are the CSV row/column headers of a contact matrix.
var ageGroupLabels = []string{
	"0..4", "5..9", "10..14", "15..19", "20..24", "25..29", "30..34",
	"35..39", "40..44", "45..49", "50..54", "55..59", "60..64", "65..69",
	"70..74", "75+",
}

// ContactMatrix holds, for each pair of age groups (i, j), the average
// number of in-household contacts a person of group i has with members of
// group j.
type ContactMatrix [AgeGroupCount][AgeGroupCount]float64

func ageGroup(age int) int {
	group := age / 5
	if group >= AgeGroupCount {
		return AgeGroupCount - 1
	}
	return group
}

// HouseholdAgeMatrix computes the household age contact matrix of a
// generated city: entry (i, j) is the number of (i, j) co-residence pairs
// divided by the number of group-i people living in households at all.
func HouseholdAgeMatrix(households []*Household) ContactMatrix {
	counts := make([][AgeGroupCount]int, len(households))
	for h, house := range households {
		for _, p := range house.People() {
			counts[h][ageGroup(p.Age())]++
		}
	}

	var m ContactMatrix
	for i := 0; i < AgeGroupCount; i++ {
		total := 0
		for h := range counts {
			total += counts[h][i]
		}
		if total == 0 {
			continue
		}
		for j := 0; j < AgeGroupCount; j++ {
			pairs := 0
			for h := range counts {
				if i == j {
					pairs += counts[h][i] * (counts[h][i] - 1)
				} else {
					pairs += counts[h][i] * counts[h][j]
				}
			}
			m[i][j] = float64(pairs) / float64(total)
		}
	}
	return m
}

// HouseholdAgeMatrices generates the city reps times (one derived seed per
// repetition) and returns the matrix of each repetition.
func HouseholdAgeMatrices(params *Params, reps int, key SimulationKey) []ContactMatrix {
	matrices := make([]ContactMatrix, 0, reps)
	for rep := 0; rep < reps; rep++ {
		rng := NewPartitionedRNG(NewSimulationKey(int64(key) + int64(rep)))
		world := GenerateCity(params, rng)
		matrices = append(matrices, HouseholdAgeMatrix(world.AllCityHouseholds()))
	}
	return matrices
}

// AverageMatrix is the element-wise mean over repetitions.
func AverageMatrix(matrices []ContactMatrix) ContactMatrix {
	var avg ContactMatrix
	for i := 0; i < AgeGroupCount; i++ {
		for j := 0; j < AgeGroupCount; j++ {
			avg[i][j] = stat.Mean(element(matrices, i, j), nil)
		}
	}
	return avg
}

// SEMMatrix is the element-wise standard error of the mean over
// repetitions (sample standard deviation over sqrt(n)).
func SEMMatrix(matrices []ContactMatrix) ContactMatrix {
	var sem ContactMatrix
	n := math.Sqrt(float64(len(matrices)))
	for i := 0; i < AgeGroupCount; i++ {
		for j := 0; j < AgeGroupCount; j++ {
			sem[i][j] = stat.StdDev(element(matrices, i, j), nil) / n
		}
	}
	return sem
}

func element(matrices []ContactMatrix, i, j int) []float64 {
	values := make([]float64, len(matrices))
	for k, m := range matrices {
		values[k] = m[i][j]
	}
	return values
}

// WriteMatrixCSV writes a contact matrix with age-group headers.
func (m ContactMatrix) WriteMatrixCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{""}, ageGroupLabels...)
	rows := [][]string{header}
	for i := 0; i < AgeGroupCount; i++ {
		row := make([]string, 0, AgeGroupCount+1)
		row = append(row, ageGroupLabels[i])
		for j := 0; j < AgeGroupCount; j++ {
			row = append(row, fmt.Sprintf("%.6f", m[i][j]))
		}
		rows = append(rows, row)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
