// Package config loads and validates the read-only data tables the
// simulation is seeded from: the elemental matchup chart, character
// archetypes, attack templates, and starter presets. Tables are parsed once
// at startup; malformed input fails fast with a descriptive error instead of
// leaking NaN or zero values into the simulation.
package config

import (
	"fmt"
	"time"

	"astral-arena/server/internal/element"
	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/state"
)

// Range bounds a randomized stat roll.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) validate(name string) error {
	if r.Min <= 0 {
		return fmt.Errorf("config: %s min must be positive, got %v", name, r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("config: %s max %v is below min %v", name, r.Max, r.Min)
	}
	return nil
}

// Archetype describes one row of the character generation table: sprite and
// color pools plus the stat ranges candidates are rolled within.
type Archetype struct {
	ID          string   `yaml:"id"`
	Emojis      []string `yaml:"emojis"`
	Colors      []string `yaml:"colors"`
	HP          Range    `yaml:"hp"`
	Defense     Range    `yaml:"defense"`
	AttackPower Range    `yaml:"attack_power"`
	Speed       Range    `yaml:"speed"`
}

func (a Archetype) validate() error {
	if a.ID == "" {
		return fmt.Errorf("config: archetype is missing an id")
	}
	if len(a.Emojis) == 0 {
		return fmt.Errorf("config: archetype %s has no emojis", a.ID)
	}
	if len(a.Colors) == 0 {
		return fmt.Errorf("config: archetype %s has no colors", a.ID)
	}
	for name, r := range map[string]Range{
		"hp":           a.HP,
		"defense":      a.Defense,
		"attack_power": a.AttackPower,
		"speed":        a.Speed,
	} {
		if err := r.validate(a.ID + "." + name); err != nil {
			return err
		}
	}
	return nil
}

// Starter is a preset character offered during character selection.
type Starter struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Emoji    string      `yaml:"emoji"`
	Color    string      `yaml:"color"`
	House    state.House `yaml:"house"`
	AttackID string      `yaml:"attack"`
	Stats    state.Stats `yaml:"stats"`
}

// Tables bundles every validated data table. The simulation treats the
// loaded value as immutable.
type Tables struct {
	Elements   []element.Row
	Chart      *element.Chart
	Archetypes []Archetype
	Attacks    []state.AttackEffect
	Starters   []Starter

	attacksByID map[string]state.AttackEffect
}

// AttackByID resolves an attack template from the table.
func (t *Tables) AttackByID(id string) (state.AttackEffect, bool) {
	attack, ok := t.attacksByID[id]
	return attack, ok
}

// finish validates cross-table references and builds lookup indexes.
func (t *Tables) finish() error {
	chart, err := element.NewChart(t.Elements)
	if err != nil {
		return err
	}
	t.Chart = chart

	if len(t.Archetypes) == 0 {
		return fmt.Errorf("config: archetype table is empty")
	}
	for _, archetype := range t.Archetypes {
		if err := archetype.validate(); err != nil {
			return err
		}
	}

	if len(t.Attacks) == 0 {
		return fmt.Errorf("config: attack table is empty")
	}
	t.attacksByID = make(map[string]state.AttackEffect, len(t.Attacks))
	for _, attack := range t.Attacks {
		if err := attack.Validate(); err != nil {
			return err
		}
		if _, dup := t.attacksByID[attack.ID]; dup {
			return fmt.Errorf("config: duplicate attack id %s", attack.ID)
		}
		t.attacksByID[attack.ID] = attack
	}

	for _, starter := range t.Starters {
		if starter.ID == "" {
			return fmt.Errorf("config: starter is missing an id")
		}
		if err := starter.Stats.Validate(); err != nil {
			return fmt.Errorf("config: starter %s: %w", starter.ID, err)
		}
		if _, err := state.ParseHouse(string(starter.House)); err != nil {
			return fmt.Errorf("config: starter %s: %w", starter.ID, err)
		}
		if _, ok := t.attacksByID[starter.AttackID]; !ok {
			return fmt.Errorf("config: starter %s references unknown attack %q", starter.ID, starter.AttackID)
		}
	}
	return nil
}

// yaml document shells

type elementsDoc struct {
	Elements []elementRow `yaml:"elements"`
}

type elementRow struct {
	ID          string   `yaml:"id"`
	WeakTo      []string `yaml:"weak_to"`
	ResistantTo []string `yaml:"resistant_to"`
}

type archetypesDoc struct {
	Archetypes []Archetype `yaml:"archetypes"`
}

type attacksDoc struct {
	Attacks []attackRow `yaml:"attacks"`
}

type attackRow struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Icon           string  `yaml:"icon"`
	BaseDamage     float64 `yaml:"base_damage"`
	CooldownMS     int     `yaml:"cooldown_ms"`
	Element        string  `yaml:"element"`
	Shape          string  `yaml:"shape"`
	Size           float64 `yaml:"size"`
	Width          float64 `yaml:"width"`
	Angle          float64 `yaml:"angle"`
	ParticleColor  string  `yaml:"particle_color"`
	ParticleEffect string  `yaml:"particle_effect"`
}

type startersDoc struct {
	Starters []Starter `yaml:"starters"`
}

func (row elementRow) toRow() (element.Row, error) {
	id, err := element.Parse(row.ID)
	if err != nil {
		return element.Row{}, err
	}
	out := element.Row{Element: id}
	for _, weak := range row.WeakTo {
		elem, err := element.Parse(weak)
		if err != nil {
			return element.Row{}, fmt.Errorf("config: element %s weak_to: %w", row.ID, err)
		}
		out.WeakTo = append(out.WeakTo, elem)
	}
	for _, resist := range row.ResistantTo {
		elem, err := element.Parse(resist)
		if err != nil {
			return element.Row{}, fmt.Errorf("config: element %s resistant_to: %w", row.ID, err)
		}
		out.ResistantTo = append(out.ResistantTo, elem)
	}
	return out, nil
}

func (row attackRow) toAttack() (state.AttackEffect, error) {
	elem, err := element.Parse(row.Element)
	if err != nil {
		return state.AttackEffect{}, fmt.Errorf("config: attack %s: %w", row.ID, err)
	}
	shape, ok := geom.ParseShape(row.Shape)
	if !ok {
		return state.AttackEffect{}, fmt.Errorf("config: attack %s has unknown shape %q", row.ID, row.Shape)
	}
	attack := state.AttackEffect{
		ID:             row.ID,
		Name:           row.Name,
		Icon:           row.Icon,
		BaseDamage:     row.BaseDamage,
		Cooldown:       time.Duration(row.CooldownMS) * time.Millisecond,
		Element:        elem,
		Footprint:      geom.Footprint{Shape: shape, Size: row.Size, Width: row.Width, Angle: row.Angle},
		ParticleColor:  row.ParticleColor,
		ParticleEffect: row.ParticleEffect,
	}
	if err := attack.Validate(); err != nil {
		return state.AttackEffect{}, err
	}
	return attack, nil
}
