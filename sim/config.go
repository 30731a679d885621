package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params holds the unified simulation parameters, loadable from a YAML file.
// Zero-valued sections fall back to DefaultParams values at load time.
type Params struct {
	Disease    DiseaseParams    `yaml:"disease"`
	Population PopulationParams `yaml:"population"`
}

// AgeProb maps an inclusive maximum age to a probability. Tables are scanned
// in order; the first band whose MaxAge covers the age wins. A MaxAge of 0
// means "no upper bound" and must terminate the table.
type AgeProb struct {
	MaxAge int     `yaml:"max_age"`
	Prob   float64 `yaml:"prob"`
}

// DiseaseParams holds the natural-history and transmissibility parameters.
type DiseaseParams struct {
	// BaseInfectiousness scales every individual's per-contact transmission
	// probability; individual variation multiplies it by a gamma draw.
	BaseInfectiousness      float64 `yaml:"base_infectiousness"`
	IndividualGammaShape    float64 `yaml:"individual_infectiousness_gamma_shape"`
	IndividualGammaScale    float64 `yaml:"individual_infectiousness_gamma_scale"`
	AsymptomaticFactor      float64 `yaml:"asymptomatic_infectiousness_factor"`
	PresymptomaticFactor    float64 `yaml:"presymptomatic_infectiousness_factor"`
	SymptomaticFactor       float64 `yaml:"symptomatic_infectiousness_factor"`
	CriticalFactor          float64 `yaml:"critical_infectiousness_factor"`

	LatentDays         GammaDays `yaml:"latent_days"`
	PresymptomaticDays GammaDays `yaml:"presymptomatic_days"`
	SymptomaticDays    GammaDays `yaml:"symptomatic_days"`
	AsymptomaticDays   GammaDays `yaml:"asymptomatic_days"`
	CriticalDays       GammaDays `yaml:"critical_days"`

	ProbAsymptomatic       []AgeProb `yaml:"prob_asymptomatic"`
	ProbCritical           []AgeProb `yaml:"prob_critical"`
	ProbDeathGivenCritical []AgeProb `yaml:"prob_death_given_critical"`
}

// probFor resolves an age-banded probability table for the given age.
func (d *DiseaseParams) probFor(table []AgeProb, age int) float64 {
	for _, band := range table {
		if band.MaxAge == 0 || age <= band.MaxAge {
			return band.Prob
		}
	}
	return 0
}

// infectiousnessFactor returns the per-state multiplier applied on top of a
// person's individual transmission probability.
func (d *DiseaseParams) infectiousnessFactor(s DiseaseState) float64 {
	switch s {
	case AsymptomaticInfectious:
		return d.AsymptomaticFactor
	case Presymptomatic:
		return d.PresymptomaticFactor
	case Symptomatic:
		return d.SymptomaticFactor
	case CriticalCondition:
		return d.CriticalFactor
	default:
		return 0
	}
}

// AgeBand is one weighted band of the synthetic age distribution.
type AgeBand struct {
	MinAge int     `yaml:"min_age"`
	MaxAge int     `yaml:"max_age"`
	Weight float64 `yaml:"weight"`
}

// PopulationParams holds the synthetic city generation parameters.
type PopulationParams struct {
	City string `yaml:"city"`
	Size int    `yaml:"size"`

	AgeDistribution []AgeBand `yaml:"age_distribution"`
	// HouseholdSizeWeights[i] is the relative weight of households of size i+1.
	HouseholdSizeWeights []float64 `yaml:"household_size_weights"`

	HouseholdContactProb    float64 `yaml:"household_contact_prob"`
	WorkplaceContactProb    float64 `yaml:"workplace_contact_prob"`
	SchoolContactProb       float64 `yaml:"school_contact_prob"`
	CityContactProb         float64 `yaml:"city_contact_prob"`
	NeighborhoodContactProb float64 `yaml:"neighborhood_contact_prob"`

	SchoolAgeMin       int `yaml:"school_age_min"`
	SchoolAgeMax       int `yaml:"school_age_max"`
	WorkingAgeMin      int `yaml:"working_age_min"`
	WorkingAgeMax      int `yaml:"working_age_max"`
	MeanSchoolSize     int `yaml:"mean_school_size"`
	MeanWorkplaceSize  int `yaml:"mean_workplace_size"`
	NeighborhoodHouses int `yaml:"neighborhood_houses"`
}

// DefaultParams returns the built-in parameter set. Values are in line with
// the early-2020 natural-history estimates the original study used.
func DefaultParams() *Params {
	return &Params{
		Disease: DiseaseParams{
			BaseInfectiousness:   0.45,
			IndividualGammaShape: 0.25,
			IndividualGammaScale: 4.0,
			AsymptomaticFactor:   0.5,
			PresymptomaticFactor: 1.0,
			SymptomaticFactor:    1.0,
			CriticalFactor:       0.75,
			LatentDays:           GammaDays{Shape: 2.0, Scale: 1.5},
			PresymptomaticDays:   GammaDays{Shape: 2.0, Scale: 1.0},
			SymptomaticDays:      GammaDays{Shape: 4.0, Scale: 2.0},
			AsymptomaticDays:     GammaDays{Shape: 4.0, Scale: 1.75},
			CriticalDays:         GammaDays{Shape: 4.0, Scale: 2.5},
			ProbAsymptomatic: []AgeProb{
				{MaxAge: 19, Prob: 0.5},
				{MaxAge: 0, Prob: 0.3},
			},
			ProbCritical: []AgeProb{
				{MaxAge: 49, Prob: 0.01},
				{MaxAge: 69, Prob: 0.05},
				{MaxAge: 0, Prob: 0.2},
			},
			ProbDeathGivenCritical: []AgeProb{
				{MaxAge: 69, Prob: 0.3},
				{MaxAge: 0, Prob: 0.5},
			},
		},
		Population: PopulationParams{
			City: "holon",
			Size: 10000,
			AgeDistribution: []AgeBand{
				{MinAge: 0, MaxAge: 19, Weight: 0.33},
				{MinAge: 20, MaxAge: 39, Weight: 0.28},
				{MinAge: 40, MaxAge: 59, Weight: 0.22},
				{MinAge: 60, MaxAge: 79, Weight: 0.13},
				{MinAge: 80, MaxAge: 95, Weight: 0.04},
			},
			HouseholdSizeWeights:    []float64{0.22, 0.28, 0.17, 0.16, 0.10, 0.07},
			HouseholdContactProb:    0.4,
			WorkplaceContactProb:    0.02,
			SchoolContactProb:       0.025,
			CityContactProb:         0.0005,
			NeighborhoodContactProb: 0.002,
			SchoolAgeMin:            5,
			SchoolAgeMax:            18,
			WorkingAgeMin:           19,
			WorkingAgeMax:           67,
			MeanSchoolSize:          500,
			MeanWorkplaceSize:       50,
			NeighborhoodHouses:      200,
		},
	}
}

// LoadParams reads a YAML parameter file over the defaults.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading params file: %w", err)
	}
	params := DefaultParams()
	if err := yaml.Unmarshal(data, params); err != nil {
		return nil, fmt.Errorf("parsing params file: %w", err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks parameter ranges.
func (p *Params) Validate() error {
	if p.Disease.BaseInfectiousness < 0 || p.Disease.BaseInfectiousness > 1 {
		return fmt.Errorf("base_infectiousness must be in [0,1], got %f", p.Disease.BaseInfectiousness)
	}
	if p.Disease.IndividualGammaShape <= 0 || p.Disease.IndividualGammaScale <= 0 {
		return fmt.Errorf("individual infectiousness gamma parameters must be positive")
	}
	for _, g := range []GammaDays{
		p.Disease.LatentDays, p.Disease.PresymptomaticDays, p.Disease.SymptomaticDays,
		p.Disease.AsymptomaticDays, p.Disease.CriticalDays,
	} {
		if g.Shape <= 0 || g.Scale <= 0 {
			return fmt.Errorf("duration gamma parameters must be positive, got shape=%f scale=%f", g.Shape, g.Scale)
		}
	}
	for _, table := range [][]AgeProb{
		p.Disease.ProbAsymptomatic, p.Disease.ProbCritical, p.Disease.ProbDeathGivenCritical,
	} {
		if len(table) == 0 {
			return fmt.Errorf("age probability tables must not be empty")
		}
		if table[len(table)-1].MaxAge != 0 {
			return fmt.Errorf("age probability tables must end with an unbounded band")
		}
		for _, band := range table {
			if band.Prob < 0 || band.Prob > 1 {
				return fmt.Errorf("age band probability must be in [0,1], got %f", band.Prob)
			}
		}
	}
	if p.Population.Size <= 0 {
		return fmt.Errorf("population size must be positive, got %d", p.Population.Size)
	}
	if len(p.Population.AgeDistribution) == 0 {
		return fmt.Errorf("age_distribution must not be empty")
	}
	if len(p.Population.HouseholdSizeWeights) == 0 {
		return fmt.Errorf("household_size_weights must not be empty")
	}
	for _, prob := range []float64{
		p.Population.HouseholdContactProb, p.Population.WorkplaceContactProb,
		p.Population.SchoolContactProb, p.Population.CityContactProb,
		p.Population.NeighborhoodContactProb,
	} {
		if prob < 0 || prob > 1 {
			return fmt.Errorf("contact probabilities must be in [0,1], got %f", prob)
		}
	}
	return nil
}
