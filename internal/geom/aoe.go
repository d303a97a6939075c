package geom

import "math"

// Shape identifies one of the area-of-effect footprints an attack can carry.
type Shape string

const (
	ShapeCircle    Shape = "circle"
	ShapeLine      Shape = "line"
	ShapeCone      Shape = "cone"
	ShapeRectangle Shape = "rectangle"
	ShapeArc       Shape = "arc"
)

// ArcInnerRadius is the hollow center excluded from arc footprints.
const ArcInnerRadius = 20.0

// ParseShape validates a shape string loaded from the attack tables.
func ParseShape(value string) (Shape, bool) {
	switch Shape(value) {
	case ShapeCircle, ShapeLine, ShapeCone, ShapeRectangle, ShapeArc:
		return Shape(value), true
	default:
		return "", false
	}
}

// Footprint describes the geometry of an attack relative to its origin and
// facing direction. Size is the primary dimension (radius, length, or range),
// Width applies to line/rectangle footprints, and Angle is the full cone/arc
// aperture in degrees.
type Footprint struct {
	Shape Shape   `json:"shape" yaml:"shape"`
	Size  float64 `json:"size" yaml:"size"`
	Width float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Angle float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
}

// Contains reports whether target lies inside the footprint anchored at
// origin and aimed along facing. Facing need not be normalized; a zero facing
// degenerates to omnidirectional checks for circle and to a miss for the
// directional shapes.
func (f Footprint) Contains(origin, facing, target Vec2) bool {
	switch f.Shape {
	case ShapeCircle:
		return DistanceSq(origin, target) <= f.Size*f.Size
	case ShapeLine, ShapeRectangle:
		return inBeam(origin, facing, target, f.Size, f.Width)
	case ShapeCone:
		return inSector(origin, facing, target, f.Size, f.Angle, 0)
	case ShapeArc:
		return inSector(origin, facing, target, f.Size, f.Angle, ArcInnerRadius)
	default:
		return false
	}
}

// inBeam projects the target onto the facing direction and accepts points
// whose projection falls within [0, length] and whose perpendicular offset
// stays within half the beam width. Lines and rectangles share this predicate.
func inBeam(origin, facing, target Vec2, length, width float64) bool {
	dir := facing.Normalize()
	if dir == (Vec2{}) {
		return false
	}
	rel := target.Sub(origin)
	along := rel.Dot(dir)
	if along < 0 || along > length {
		return false
	}
	lateral := math.Abs(rel.Dot(dir.Perp()))
	return lateral <= width/2
}

// inSector accepts targets within range whose bearing deviates from the
// facing direction by at most half the aperture. A positive innerRadius
// hollows out the center, which is how arc attacks skip point-blank targets.
func inSector(origin, facing, target Vec2, rangeLimit, angleDeg, innerRadius float64) bool {
	rel := target.Sub(origin)
	dist := rel.Length()
	if dist > rangeLimit {
		return false
	}
	if dist < innerRadius {
		return false
	}
	if dist == 0 {
		// Point-blank targets are always inside a solid sector.
		return true
	}
	dir := facing.Normalize()
	if dir == (Vec2{}) {
		return false
	}
	cos := rel.Dot(dir) / dist
	cos = Clamp(cos, -1, 1)
	deviation := math.Acos(cos)
	halfAperture := angleDeg * math.Pi / 180 / 2
	return deviation <= halfAperture
}
