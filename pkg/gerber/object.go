package gerber

// GraphicalObject is the sum type over everything the object builder can
// emit (§3): Draw, Arc, Flash, Region, StepAndRepeat. All fields are value
// copies taken at emission time (§3 Invariants) — later modal mutations
// never reach an already-emitted object.
type GraphicalObject interface {
	graphicalObjectTag()

	// Translate returns a copy of the object shifted by (dx, dy), applied
	// to Origin and, where present, Endpoint (§9, needed for
	// step-and-repeat and block-aperture-flash expansion, §6.2).
	Translate(dx, dy int) GraphicalObject
}

// Draw is a line segment stroked with the current aperture (which must be
// a Circle). ApertureSnapshot is nil for segments emitted inside a region
// (§4.3, DESIGN.md Open Question 3).
type Draw struct {
	ApertureSnapshot  Aperture
	TransformSnapshot GraphicsTransform
	Origin, Endpoint  Point
}

func (Draw) graphicalObjectTag() {}

func (d Draw) Translate(dx, dy int) GraphicalObject {
	d.Origin = Point{d.Origin.X + dx, d.Origin.Y + dy}
	d.Endpoint = Point{d.Endpoint.X + dx, d.Endpoint.Y + dy}
	return d
}

// Arc is a circular-arc segment. Offset is the (I,J) center offset from
// Origin; IsCW distinguishes G02 from G03. ApertureSnapshot is nil inside
// a region, as for Draw.
type Arc struct {
	ApertureSnapshot  Aperture
	TransformSnapshot GraphicsTransform
	Origin, Endpoint  Point
	Offset            Point
	IsCW              bool
}

func (Arc) graphicalObjectTag() {}

func (a Arc) Translate(dx, dy int) GraphicalObject {
	a.Origin = Point{a.Origin.X + dx, a.Origin.Y + dy}
	a.Endpoint = Point{a.Endpoint.X + dx, a.Endpoint.Y + dy}
	return a
}

// Flash is a single placement of an aperture at a point.
type Flash struct {
	ApertureSnapshot  Aperture
	TransformSnapshot GraphicsTransform
	Origin            Point
}

func (Flash) graphicalObjectTag() {}

func (f Flash) Translate(dx, dy int) GraphicalObject {
	f.Origin = Point{f.Origin.X + dx, f.Origin.Y + dy}
	return f
}

// Contour is a (start, length) slice into a Region's Segments identifying
// one closed contour (§4.6).
type Contour struct {
	Start  int
	Length int
}

// Region is a filled area bounded by one or more closed contours made of
// Draw and Arc segments (§3, §4.6).
type Region struct {
	TransformSnapshot GraphicsTransform
	Segments          []GraphicalObject // Draw or Arc only
	Contours          []Contour
}

func (Region) graphicalObjectTag() {}

func (r Region) Translate(dx, dy int) GraphicalObject {
	segs := make([]GraphicalObject, len(r.Segments))
	for i, s := range r.Segments {
		segs[i] = s.Translate(dx, dy)
	}
	r.Segments = segs
	return r
}

// StepAndRepeat tiles Objects on an Nx x Ny grid with (StepX, StepY)
// spacing (§4.7, §6.2). The parser does not replicate: Objects here is the
// single template instance as built, and Expand produces the tiled copies.
type StepAndRepeat struct {
	Nx, Ny       int
	StepX, StepY int
	Objects      []GraphicalObject
}

func (StepAndRepeat) graphicalObjectTag() {}

func (s StepAndRepeat) Translate(dx, dy int) GraphicalObject {
	objs := make([]GraphicalObject, len(s.Objects))
	for i, o := range s.Objects {
		objs[i] = o.Translate(dx, dy)
	}
	s.Objects = objs
	return s
}

// Expand replicates StepAndRepeat.Objects across the Nx x Ny grid,
// returning the flattened list of translated objects (§6.2: "the consumer
// ... replicates objects on an nx X ny grid").
func (s StepAndRepeat) Expand() []GraphicalObject {
	out := make([]GraphicalObject, 0, len(s.Objects)*s.Nx*s.Ny)
	for j := 0; j < s.Ny; j++ {
		for i := 0; i < s.Nx; i++ {
			dx, dy := i*s.StepX, j*s.StepY
			for _, o := range s.Objects {
				out = append(out, o.Translate(dx, dy))
			}
		}
	}
	return out
}
