// Package shape provides the geometric primitives a body is assembled from.
//
// A [Shape] is a single value type with a [Kind] tag; kind-specific sizes live
// in its fields and [Shape.Volume] / [Shape.ProjectedArea] dispatch on the
// tag. Composite geometry is an explicit tree: a group owns a sequence of
// [Placed] children, each with a local offset and orientation.
//
// Volume is an "extent measure" whose meaning depends on the kind:
//
//   - Line: length
//   - Circle: area, π·r²
//   - Cylinder: axis length × cap area (the cap's extent measure)
//   - Plate: chord × span
//   - Group: sum of children
//
// The cylinder formula multiplies sub-shape extents rather than computing a
// literal 3D volume; the force model depends on those units being
// internally consistent.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/subsim/internal/vec"
)

// ErrInvalidGeometry indicates a negative, non-finite or otherwise unusable size.
var ErrInvalidGeometry = errors.New("shape: invalid geometry")

type Kind int

const (
	KindLine Kind = iota
	KindCircle
	KindCylinder
	KindPlate
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindCircle:
		return "circle"
	case KindCylinder:
		return "cylinder"
	case KindPlate:
		return "plate"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Shape struct {
	Kind Kind

	// Length is the line length, the cylinder axis length or the plate chord.
	Length float64
	// Diameter of a circle or of a cylinder's caps.
	Diameter float64
	// Span is a plate's out-of-plane width.
	Span float64

	Children []Placed
}

// Placed positions a shape in its owner's frame.
type Placed struct {
	Offset vec.XZ
	Angle  float64
	Shape  Shape
}

func Line(length float64) Shape {
	return Shape{Kind: KindLine, Length: length}
}

func Circle(diameter float64) Shape {
	return Shape{Kind: KindCircle, Diameter: diameter}
}

func Cylinder(length, diameter float64) Shape {
	return Shape{Kind: KindCylinder, Length: length, Diameter: diameter}
}

func Plate(chord, span float64) Shape {
	return Shape{Kind: KindPlate, Length: chord, Span: span}
}

// Group copies children into a fresh slice.
func Group(children ...Placed) Shape {
	c := make([]Placed, len(children))
	copy(c, children)
	return Shape{Kind: KindGroup, Children: c}
}

func At(s Shape, offset vec.XZ, angle float64) Placed {
	return Placed{Offset: offset, Angle: angle, Shape: s}
}

func (s Shape) Radius() float64 { return s.Diameter / 2 }

// Axis is the line running the length of a cylinder.
func (s Shape) Axis() Shape { return Line(s.Length) }

// Cap is one end disc of a cylinder.
func (s Shape) Cap() Shape { return Circle(s.Diameter) }

func (s Shape) Validate() error {
	check := func(name string, v float64) error {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s %s = %v", ErrInvalidGeometry, s.Kind, name, v)
		}
		return nil
	}

	switch s.Kind {
	case KindLine:
		return check("length", s.Length)
	case KindCircle:
		return check("diameter", s.Diameter)
	case KindCylinder:
		if err := check("length", s.Length); err != nil {
			return err
		}
		return check("diameter", s.Diameter)
	case KindPlate:
		if err := check("chord", s.Length); err != nil {
			return err
		}
		return check("span", s.Span)
	case KindGroup:
		for i, c := range s.Children {
			if !c.Offset.IsValid() || math.IsNaN(c.Angle) || math.IsInf(c.Angle, 0) {
				return fmt.Errorf("%w: group child %d has non-finite placement", ErrInvalidGeometry, i)
			}
			if err := c.Shape.Validate(); err != nil {
				return fmt.Errorf("group child %d: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown %s", ErrInvalidGeometry, s.Kind)
	}
}

func (s Shape) Volume() float64 {
	switch s.Kind {
	case KindLine:
		return s.Length
	case KindCircle:
		r := s.Radius()
		return math.Pi * r * r
	case KindCylinder:
		return s.Axis().Volume() * s.Cap().Volume()
	case KindPlate:
		return s.Length * s.Span
	case KindGroup:
		total := 0.0
		for _, c := range s.Children {
			total += c.Shape.Volume()
		}
		return total
	default:
		return 0
	}
}

// ProjectedArea is the apparent cross-section of s seen along a view
// direction, where rel is the shape's angle minus the view angle. At rel = 0
// a line lies broadside to the view and projects its full length.
func (s Shape) ProjectedArea(rel float64) float64 {
	return s.projectedAt(vec.XZ{}, rel)
}

func (s Shape) projectedAt(offset vec.XZ, rel float64) float64 {
	switch s.Kind {
	case KindLine:
		return chord(offset, s.Length, rel)
	case KindCircle:
		// perimeter-style projection of the diameter line
		return 2 * math.Pi * chord(offset, s.Diameter, rel) / 2
	case KindCylinder:
		body := s.Diameter * s.Axis().projectedAt(offset, rel)
		// one cap is always occluded, so only one contributes
		capOffset, _ := Endpoints(offset, s.Length, rel)
		return body + s.Cap().projectedAt(capOffset, rel+math.Pi/2)
	case KindPlate:
		return s.Span * chord(offset, s.Length, rel)
	case KindGroup:
		total := 0.0
		for _, c := range s.Children {
			total += c.Shape.projectedAt(offset.Add(c.Offset), rel+c.Angle)
		}
		return total
	default:
		return 0
	}
}

// Endpoints returns both ends of a line of the given length centred on
// offset and rotated by angle.
func Endpoints(offset vec.XZ, length, angle float64) (vec.XZ, vec.XZ) {
	h := length / 2
	sin, cos := math.Sincos(angle)
	d := vec.XZ{X: h * cos, Z: h * sin}
	return offset.Sub(d), offset.Add(d)
}

func chord(offset vec.XZ, length, rel float64) float64 {
	p0, p1 := Endpoints(offset, length, rel)
	dz := p1.Z - p0.Z
	return math.Sqrt(math.Max(0, length*length-dz*dz))
}

func (p Placed) Volume() float64 { return p.Shape.Volume() }

// ProjectedArea evaluates the placed shape against an absolute view angle.
func (p Placed) ProjectedArea(view float64) float64 {
	return p.Shape.projectedAt(p.Offset, p.Angle-view)
}

// InFrame transforms p from a parent's local frame into the frame the
// parent is placed in.
func (p Placed) InFrame(origin vec.XZ, orientation float64) Placed {
	return Placed{
		Offset: origin.Add(p.Offset.Rotate(orientation)),
		Angle:  p.Angle + orientation,
		Shape:  p.Shape,
	}
}
