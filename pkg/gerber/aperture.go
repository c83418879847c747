package gerber

import (
	"fmt"
	"strconv"
	"strings"
)

// Aperture is the sum type over built-in shape templates, macro apertures,
// and aperture blocks (§3). Concrete apertures are immutable value types;
// sharing one by value (as happens whenever it is snapshotted onto a
// GraphicalObject) is always safe.
type Aperture interface {
	apertureTag()
}

// CircleAperture is the built-in "C" template.
type CircleAperture struct {
	Diameter float64
	Hole     *float64
}

func (CircleAperture) apertureTag() {}

// RectangleAperture is the built-in "R" template.
type RectangleAperture struct {
	XSize, YSize float64
	Hole         *float64
}

func (RectangleAperture) apertureTag() {}

// ObroundAperture is the built-in "O" template.
type ObroundAperture struct {
	XSize, YSize float64
	Hole         *float64
}

func (ObroundAperture) apertureTag() {}

// PolygonAperture is the built-in "P" template: a regular polygon
// inscribed in a circle of OuterDiameter, with 3 to 12 Vertices.
type PolygonAperture struct {
	OuterDiameter float64
	Vertices      int
	Rotation      float64
	Hole          *float64
}

func (PolygonAperture) apertureTag() {}

// MacroAperture is an instantiated user-defined macro template: the
// primitives produced by running the macro compiler (§4.5) against one
// concrete parameter list.
type MacroAperture struct {
	TemplateName string
	Primitives   []MacroPrimitive
}

func (MacroAperture) apertureTag() {}

// BlockAperture is an aperture whose "shape" is itself a mini scene graph,
// built via %AB...*% (§4.7). Flashing it places its Objects as a group.
type BlockAperture struct {
	Objects []GraphicalObject
}

func (BlockAperture) apertureTag() {}

// templateRegistry resolves a built-in template code to a parser over its
// positional, 'X'-separated parameter list (§4.4).
type templateRegistry struct {
	builtins map[string]func(params []string) (Aperture, error)
}

func newTemplateRegistry() *templateRegistry {
	r := &templateRegistry{builtins: make(map[string]func(params []string) (Aperture, error))}
	r.builtins["C"] = parseCircleTemplate
	r.builtins["R"] = parseRectangleTemplate
	r.builtins["O"] = parseObroundTemplate
	r.builtins["P"] = parsePolygonTemplate
	return r
}

func (r *templateRegistry) lookup(name string) (func(params []string) (Aperture, error), bool) {
	fn, ok := r.builtins[name]
	return fn, ok
}

func splitParams(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "X")
}

func parseFloatParam(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return v, nil
}

func parseCircleTemplate(params []string) (Aperture, error) {
	if len(params) < 1 || len(params) > 2 {
		return nil, fmt.Errorf("circle expects 1 or 2 parameters, got %d", len(params))
	}
	diameter, err := parseFloatParam(params[0], "diameter")
	if err != nil {
		return nil, err
	}
	ap := CircleAperture{Diameter: diameter}
	if len(params) == 2 {
		hole, err := parseFloatParam(params[1], "hole diameter")
		if err != nil {
			return nil, err
		}
		ap.Hole = &hole
	}
	return ap, nil
}

func parseRectangleTemplate(params []string) (Aperture, error) {
	if len(params) < 2 || len(params) > 3 {
		return nil, fmt.Errorf("rectangle expects 2 or 3 parameters, got %d", len(params))
	}
	x, err := parseFloatParam(params[0], "x size")
	if err != nil {
		return nil, err
	}
	y, err := parseFloatParam(params[1], "y size")
	if err != nil {
		return nil, err
	}
	ap := RectangleAperture{XSize: x, YSize: y}
	if len(params) == 3 {
		hole, err := parseFloatParam(params[2], "hole diameter")
		if err != nil {
			return nil, err
		}
		ap.Hole = &hole
	}
	return ap, nil
}

func parseObroundTemplate(params []string) (Aperture, error) {
	if len(params) < 2 || len(params) > 3 {
		return nil, fmt.Errorf("obround expects 2 or 3 parameters, got %d", len(params))
	}
	x, err := parseFloatParam(params[0], "x size")
	if err != nil {
		return nil, err
	}
	y, err := parseFloatParam(params[1], "y size")
	if err != nil {
		return nil, err
	}
	ap := ObroundAperture{XSize: x, YSize: y}
	if len(params) == 3 {
		hole, err := parseFloatParam(params[2], "hole diameter")
		if err != nil {
			return nil, err
		}
		ap.Hole = &hole
	}
	return ap, nil
}

func parsePolygonTemplate(params []string) (Aperture, error) {
	if len(params) < 2 || len(params) > 4 {
		return nil, fmt.Errorf("polygon expects 2 to 4 parameters, got %d", len(params))
	}
	outer, err := parseFloatParam(params[0], "outer diameter")
	if err != nil {
		return nil, err
	}
	verticesF, err := parseFloatParam(params[1], "vertices")
	if err != nil {
		return nil, err
	}
	vertices := int(verticesF)
	if vertices < 3 || vertices > 12 {
		return nil, fmt.Errorf("polygon vertices %d out of range [3,12]", vertices)
	}
	ap := PolygonAperture{OuterDiameter: outer, Vertices: vertices}
	if len(params) >= 3 {
		rotation, err := parseFloatParam(params[2], "rotation")
		if err != nil {
			return nil, err
		}
		ap.Rotation = rotation
	}
	if len(params) == 4 {
		hole, err := parseFloatParam(params[3], "hole diameter")
		if err != nil {
			return nil, err
		}
		ap.Hole = &hole
	}
	return ap, nil
}

// apertureTable maps ApertureId strings (e.g. "D10") to resolved Aperture
// instances (§3, §4.4). Ids are never redefined.
type apertureTable struct {
	byID map[string]Aperture
}

func newApertureTable() *apertureTable {
	return &apertureTable{byID: make(map[string]Aperture)}
}

func (t *apertureTable) define(id string, ap Aperture) error {
	if _, exists := t.byID[id]; exists {
		return fmt.Errorf("aperture %s already defined", id)
	}
	t.byID[id] = ap
	return nil
}

func (t *apertureTable) get(id string) (Aperture, bool) {
	ap, ok := t.byID[id]
	return ap, ok
}
