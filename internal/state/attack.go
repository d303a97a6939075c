package state

import (
	"fmt"
	"time"

	"astral-arena/server/internal/element"
	"astral-arena/server/internal/geom"
)

// AttackEffect is the immutable template a character swings with. Particle
// fields are visual hints consumed only by the rendering collaborator; the
// simulation never reads them.
type AttackEffect struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	BaseDamage float64         `json:"baseDamage"`
	Cooldown   time.Duration   `json:"cooldown"`
	Element    element.Element `json:"element"`
	Footprint  geom.Footprint  `json:"footprint"`

	ParticleColor  string `json:"particleColor,omitempty"`
	ParticleEffect string `json:"particleEffect,omitempty"`
}

// Validate rejects malformed attack templates at load time.
func (a AttackEffect) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("state: attack is missing an id")
	}
	if a.BaseDamage <= 0 {
		return fmt.Errorf("state: attack %s baseDamage must be positive, got %v", a.ID, a.BaseDamage)
	}
	if a.Cooldown <= 0 {
		return fmt.Errorf("state: attack %s cooldown must be positive, got %v", a.ID, a.Cooldown)
	}
	if _, err := element.Parse(string(a.Element)); err != nil {
		return fmt.Errorf("state: attack %s: %w", a.ID, err)
	}
	if _, ok := geom.ParseShape(string(a.Footprint.Shape)); !ok {
		return fmt.Errorf("state: attack %s has unknown aoe shape %q", a.ID, a.Footprint.Shape)
	}
	if a.Footprint.Size <= 0 {
		return fmt.Errorf("state: attack %s aoe size must be positive, got %v", a.ID, a.Footprint.Size)
	}
	switch a.Footprint.Shape {
	case geom.ShapeLine, geom.ShapeRectangle:
		if a.Footprint.Width <= 0 {
			return fmt.Errorf("state: attack %s requires a positive aoe width", a.ID)
		}
	case geom.ShapeCone, geom.ShapeArc:
		if a.Footprint.Angle <= 0 {
			return fmt.Errorf("state: attack %s requires a positive aoe angle", a.ID)
		}
	}
	return nil
}
