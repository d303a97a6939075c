package element

import "fmt"

// Element enumerates the six damage affinities carried by characters and
// attacks.
type Element string

const (
	Fire     Element = "fire"
	Water    Element = "water"
	Electric Element = "electric"
	Earth    Element = "earth"
	Air      Element = "air"
	Ice      Element = "ice"
)

// All lists every element in declaration order.
var All = []Element{Fire, Water, Electric, Earth, Air, Ice}

// Parse validates an element string loaded from the data tables.
func Parse(value string) (Element, error) {
	switch Element(value) {
	case Fire, Water, Electric, Earth, Air, Ice:
		return Element(value), nil
	default:
		return "", fmt.Errorf("element: unknown element %q", value)
	}
}

func (e Element) String() string {
	return string(e)
}

// Effectiveness classifies a combined damage modifier for presentation
// feedback. The thresholds are intentionally independent of the modifier
// constants and always apply to the combined STAB x matchup product.
type Effectiveness string

const (
	SuperEffective   Effectiveness = "super-effective"
	NotVeryEffective Effectiveness = "not-very-effective"
	RegularAttack    Effectiveness = "regular-attack"
)

// Classify buckets the combined elemental modifier.
func Classify(modifier float64) Effectiveness {
	switch {
	case modifier > 1.2:
		return SuperEffective
	case modifier < 0.8:
		return NotVeryEffective
	default:
		return RegularAttack
	}
}
