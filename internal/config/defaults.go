package config

import (
	"time"

	"astral-arena/server/internal/element"
	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/state"
)

func defaultElementRows() []element.Row {
	return element.DefaultRows()
}

func defaultArchetypes() []Archetype {
	return []Archetype{
		{
			ID:          "bruiser",
			Emojis:      []string{"🐻", "🦏", "🐗", "🦬"},
			Colors:      []string{"#c0392b", "#8e44ad", "#7f5539"},
			HP:          Range{Min: 90, Max: 130},
			Defense:     Range{Min: 8, Max: 14},
			AttackPower: Range{Min: 90, Max: 110},
			Speed:       Range{Min: 70, Max: 95},
		},
		{
			ID:          "skirmisher",
			Emojis:      []string{"🐆", "🦊", "🐍", "🦅"},
			Colors:      []string{"#e67e22", "#16a085", "#2980b9"},
			HP:          Range{Min: 60, Max: 90},
			Defense:     Range{Min: 4, Max: 9},
			AttackPower: Range{Min: 100, Max: 130},
			Speed:       Range{Min: 110, Max: 150},
		},
		{
			ID:          "arcanist",
			Emojis:      []string{"🦉", "🐙", "🦎", "🐲"},
			Colors:      []string{"#9b59b6", "#34495e", "#1abc9c"},
			HP:          Range{Min: 55, Max: 80},
			Defense:     Range{Min: 3, Max: 7},
			AttackPower: Range{Min: 120, Max: 150},
			Speed:       Range{Min: 85, Max: 115},
		},
	}
}

func defaultAttacks() []state.AttackEffect {
	return []state.AttackEffect{
		{
			ID: "ember-burst", Name: "Ember Burst", Icon: "🔥",
			BaseDamage: 4, Cooldown: 900 * time.Millisecond, Element: element.Fire,
			Footprint:     geom.Footprint{Shape: geom.ShapeCircle, Size: 80},
			ParticleColor: "#e25822", ParticleEffect: "burst",
		},
		{
			ID: "magma-cone", Name: "Magma Cone", Icon: "🌋",
			BaseDamage: 6, Cooldown: 1400 * time.Millisecond, Element: element.Fire,
			Footprint:     geom.Footprint{Shape: geom.ShapeCone, Size: 120, Angle: 60},
			ParticleColor: "#ff6b35", ParticleEffect: "spray",
		},
		{
			ID: "tidal-lance", Name: "Tidal Lance", Icon: "🌊",
			BaseDamage: 5, Cooldown: 1100 * time.Millisecond, Element: element.Water,
			Footprint:     geom.Footprint{Shape: geom.ShapeLine, Size: 150, Width: 30},
			ParticleColor: "#2e86de", ParticleEffect: "stream",
		},
		{
			ID: "riptide-ring", Name: "Riptide Ring", Icon: "💧",
			BaseDamage: 4, Cooldown: 1000 * time.Millisecond, Element: element.Water,
			Footprint:     geom.Footprint{Shape: geom.ShapeArc, Size: 100, Angle: 200},
			ParticleColor: "#48cae4", ParticleEffect: "ring",
		},
		{
			ID: "static-fan", Name: "Static Fan", Icon: "⚡",
			BaseDamage: 3, Cooldown: 700 * time.Millisecond, Element: element.Electric,
			Footprint:     geom.Footprint{Shape: geom.ShapeCone, Size: 90, Angle: 45},
			ParticleColor: "#f9ca24", ParticleEffect: "spark",
		},
		{
			ID: "thunder-rail", Name: "Thunder Rail", Icon: "🌩️",
			BaseDamage: 7, Cooldown: 1700 * time.Millisecond, Element: element.Electric,
			Footprint:     geom.Footprint{Shape: geom.ShapeRectangle, Size: 180, Width: 40},
			ParticleColor: "#f1c40f", ParticleEffect: "bolt",
		},
		{
			ID: "quake-slab", Name: "Quake Slab", Icon: "🪨",
			BaseDamage: 6, Cooldown: 1500 * time.Millisecond, Element: element.Earth,
			Footprint:     geom.Footprint{Shape: geom.ShapeRectangle, Size: 110, Width: 70},
			ParticleColor: "#8d6e63", ParticleEffect: "rubble",
		},
		{
			ID: "stone-halo", Name: "Stone Halo", Icon: "⛰️",
			BaseDamage: 5, Cooldown: 1300 * time.Millisecond, Element: element.Earth,
			Footprint:     geom.Footprint{Shape: geom.ShapeArc, Size: 90, Angle: 300},
			ParticleColor: "#a1887f", ParticleEffect: "ring",
		},
		{
			ID: "gale-slash", Name: "Gale Slash", Icon: "💨",
			BaseDamage: 3, Cooldown: 600 * time.Millisecond, Element: element.Air,
			Footprint:     geom.Footprint{Shape: geom.ShapeCone, Size: 70, Angle: 80},
			ParticleColor: "#dfe6e9", ParticleEffect: "slash",
		},
		{
			ID: "zephyr-line", Name: "Zephyr Line", Icon: "🌬️",
			BaseDamage: 4, Cooldown: 900 * time.Millisecond, Element: element.Air,
			Footprint:     geom.Footprint{Shape: geom.ShapeLine, Size: 140, Width: 24},
			ParticleColor: "#b2bec3", ParticleEffect: "stream",
		},
		{
			ID: "frost-nova", Name: "Frost Nova", Icon: "❄️",
			BaseDamage: 5, Cooldown: 1200 * time.Millisecond, Element: element.Ice,
			Footprint:     geom.Footprint{Shape: geom.ShapeCircle, Size: 95},
			ParticleColor: "#81ecec", ParticleEffect: "burst",
		},
		{
			ID: "glacier-spike", Name: "Glacier Spike", Icon: "🧊",
			BaseDamage: 7, Cooldown: 1600 * time.Millisecond, Element: element.Ice,
			Footprint:     geom.Footprint{Shape: geom.ShapeLine, Size: 160, Width: 26},
			ParticleColor: "#74b9ff", ParticleEffect: "shard",
		},
	}
}

func defaultStarters() []Starter {
	return []Starter{
		{
			ID: "cinder", Name: "Cinder", Emoji: "🦊", Color: "#e25822",
			House: state.HouseMars, AttackID: "ember-burst",
			Stats: state.Stats{HP: 85, Defense: 6, AttackPower: 110, Speed: 115, Element: element.Fire},
		},
		{
			ID: "undertow", Name: "Undertow", Emoji: "🐙", Color: "#2e86de",
			House: state.HouseNeptune, AttackID: "tidal-lance",
			Stats: state.Stats{HP: 95, Defense: 8, AttackPower: 100, Speed: 95, Element: element.Water},
		},
		{
			ID: "volt", Name: "Volt", Emoji: "🦅", Color: "#f9ca24",
			House: state.HouseMercury, AttackID: "static-fan",
			Stats: state.Stats{HP: 70, Defense: 5, AttackPower: 120, Speed: 140, Element: element.Electric},
		},
		{
			ID: "bastion", Name: "Bastion", Emoji: "🦬", Color: "#8d6e63",
			House: state.HouseJupiter, AttackID: "quake-slab",
			Stats: state.Stats{HP: 125, Defense: 13, AttackPower: 95, Speed: 75, Element: element.Earth},
		},
		{
			ID: "aurora", Name: "Aurora", Emoji: "🦉", Color: "#74b9ff",
			House: state.HouseSol, AttackID: "frost-nova",
			Stats: state.Stats{HP: 80, Defense: 7, AttackPower: 115, Speed: 100, Element: element.Ice},
		},
	}
}
