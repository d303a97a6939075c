package element

import "fmt"

// Modifier constants. STAB (same-type-attack-bonus) applies when the
// attacker's own element matches the attack's element and stacks
// multiplicatively with the matchup term.
const (
	stabBonus     = 1.25
	weakMultiply  = 1.25
	resistReduce  = 0.75
	neutralFactor = 1.0
)

// Row is one defender entry in the matchup chart: the attack elements the
// defender is vulnerable to and the ones it resists.
type Row struct {
	Element     Element
	WeakTo      []Element
	ResistantTo []Element
}

type matchup struct {
	weakTo  map[Element]bool
	resists map[Element]bool
}

// Chart is the read-only elemental matchup table. It is built once at load
// time and never mutated afterwards.
type Chart struct {
	entries map[Element]matchup
}

// NewChart validates and indexes the defender rows. Every element must have
// exactly one row, every referenced element must be known, and no attack
// element may appear in both lists of the same row.
func NewChart(rows []Row) (*Chart, error) {
	entries := make(map[Element]matchup, len(All))
	for _, row := range rows {
		if _, err := Parse(string(row.Element)); err != nil {
			return nil, err
		}
		if _, dup := entries[row.Element]; dup {
			return nil, fmt.Errorf("element: duplicate chart row for %s", row.Element)
		}
		entry := matchup{
			weakTo:  make(map[Element]bool, len(row.WeakTo)),
			resists: make(map[Element]bool, len(row.ResistantTo)),
		}
		for _, weak := range row.WeakTo {
			if _, err := Parse(string(weak)); err != nil {
				return nil, fmt.Errorf("element: chart row %s: %w", row.Element, err)
			}
			entry.weakTo[weak] = true
		}
		for _, resist := range row.ResistantTo {
			if _, err := Parse(string(resist)); err != nil {
				return nil, fmt.Errorf("element: chart row %s: %w", row.Element, err)
			}
			if entry.weakTo[resist] {
				return nil, fmt.Errorf("element: chart row %s lists %s as both weak and resistant", row.Element, resist)
			}
			entry.resists[resist] = true
		}
		entries[row.Element] = entry
	}
	for _, elem := range All {
		if _, ok := entries[elem]; !ok {
			return nil, fmt.Errorf("element: chart is missing a row for %s", elem)
		}
	}
	return &Chart{entries: entries}, nil
}

// DefaultChart returns the built-in matchup table used when no external
// elements table is supplied.
func DefaultChart() *Chart {
	chart, err := NewChart(DefaultRows())
	if err != nil {
		panic(err)
	}
	return chart
}

// DefaultRows exposes the built-in defender rows so the config loader can
// serve them as the fallback table.
func DefaultRows() []Row {
	return []Row{
		{Element: Fire, WeakTo: []Element{Water, Earth}, ResistantTo: []Element{Air, Ice}},
		{Element: Water, WeakTo: []Element{Electric, Earth}, ResistantTo: []Element{Fire}},
		{Element: Electric, WeakTo: []Element{Earth}, ResistantTo: []Element{Air}},
		{Element: Earth, WeakTo: []Element{Water, Air, Ice}, ResistantTo: []Element{Electric, Fire}},
		{Element: Air, WeakTo: []Element{Electric, Ice}, ResistantTo: []Element{Earth}},
		{Element: Ice, WeakTo: []Element{Fire}, ResistantTo: []Element{Water, Ice}},
	}
}

// Modifier computes the combined elemental multiplier for an attack:
// STAB when the attacker's element matches the attack's element, times the
// matchup term derived from the defender's weak/resist lists. The two terms
// always compose multiplicatively.
func (c *Chart) Modifier(attackerElem, attackElem, defenderElem Element) float64 {
	modifier := neutralFactor
	if attackerElem == attackElem {
		modifier *= stabBonus
	}
	if entry, ok := c.entries[defenderElem]; ok {
		switch {
		case entry.weakTo[attackElem]:
			modifier *= weakMultiply
		case entry.resists[attackElem]:
			modifier *= resistReduce
		}
	}
	return modifier
}
