package state

import "fmt"

// House selects the AI movement strategy a character was born with. The set
// is closed; dispatch is a strategy table, not inheritance.
type House string

const (
	HouseJupiter House = "jupiter" // protector: keeps a stand-off distance
	HouseSaturn  House = "saturn"  // disciplined: straight lines, slow re-decisions
	HouseMars    House = "mars"    // aggressor: high jitter, speed bursts
	HouseNeptune House = "neptune" // mystic: sinusoidal weaving
	HouseMercury House = "mercury" // swift: rapid re-decisions, hit and run
	HouseVenus   House = "venus"   // graceful: crowd-aware escape, smoothed turns
	HouseSol     House = "sol"     // radiant: center-biased engagement
)

// Houses lists every house in declaration order.
var Houses = []House{
	HouseJupiter,
	HouseSaturn,
	HouseMars,
	HouseNeptune,
	HouseMercury,
	HouseVenus,
	HouseSol,
}

// ParseHouse validates a house string loaded from the data tables.
func ParseHouse(value string) (House, error) {
	switch House(value) {
	case HouseJupiter, HouseSaturn, HouseMars, HouseNeptune, HouseMercury, HouseVenus, HouseSol:
		return House(value), nil
	default:
		return "", fmt.Errorf("state: unknown planetary house %q", value)
	}
}
