package sim

import "math/rand/v2"

// Routine names of the concrete environment kinds. A person holds at most
// one environment per name.
const (
	EnvHousehold    = "household"
	EnvWorkplace    = "workplace"
	EnvSchool       = "school"
	EnvCity         = "city_community"
	EnvNeighborhood = "neighborhood_community"
)

// Household is the fixed co-residence group of a person. It is both an
// infection environment and the unit of household-level seeding and of the
// age contact matrix analysis.
type Household struct {
	HomogeneousEnvironment
	city string
}

// NewHousehold creates an empty household in the given city.
func NewHousehold(city string, contactProb float64, rng *rand.Rand) *Household {
	return &Household{
		HomogeneousEnvironment: newHomogeneousEnvironment(EnvHousehold, contactProb, rng),
		city:                   city,
	}
}

// City returns the city the household belongs to.
func (h *Household) City() string { return h.city }

// Workplace groups working-age people during work days.
type Workplace struct {
	HomogeneousEnvironment
}

// NewWorkplace creates an empty workplace.
func NewWorkplace(contactProb float64, rng *rand.Rand) *Workplace {
	return &Workplace{HomogeneousEnvironment: newHomogeneousEnvironment(EnvWorkplace, contactProb, rng)}
}

// School groups school-age people.
type School struct {
	HomogeneousEnvironment
}

// NewSchool creates an empty school.
func NewSchool(contactProb float64, rng *rand.Rand) *School {
	return &School{HomogeneousEnvironment: newHomogeneousEnvironment(EnvSchool, contactProb, rng)}
}

// CityCommunity is the weak background mixing pool of a whole city.
type CityCommunity struct {
	HomogeneousEnvironment
	city string
}

// NewCityCommunity creates the community environment of a city.
func NewCityCommunity(city string, contactProb float64, rng *rand.Rand) *CityCommunity {
	return &CityCommunity{
		HomogeneousEnvironment: newHomogeneousEnvironment(EnvCity, contactProb, rng),
		city:                   city,
	}
}

// City returns the city this community covers.
func (c *CityCommunity) City() string { return c.city }

// NeighborhoodCommunity is the mixing pool of a group of nearby households.
type NeighborhoodCommunity struct {
	HomogeneousEnvironment
}

// NewNeighborhoodCommunity creates an empty neighborhood community.
func NewNeighborhoodCommunity(contactProb float64, rng *rand.Rand) *NeighborhoodCommunity {
	return &NeighborhoodCommunity{
		HomogeneousEnvironment: newHomogeneousEnvironment(EnvNeighborhood, contactProb, rng),
	}
}
