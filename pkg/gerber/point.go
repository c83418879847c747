package gerber

// Point is a coordinate pair in native (pre-format-scaling) integer units.
type Point struct {
	X, Y int
}

// InterpolationMode is the running interpolation mode set by G01/G02/G03.
type InterpolationMode int

const (
	// InterpolationLinear is also the implementation-defined default used
	// when a D01 is issued before any G01/G02/G03 has appeared (DESIGN.md
	// Open Question 1).
	InterpolationLinear InterpolationMode = iota
	InterpolationCWCircular
	InterpolationCCWCircular
)

func (m InterpolationMode) String() string {
	switch m {
	case InterpolationCWCircular:
		return "cw_circular"
	case InterpolationCCWCircular:
		return "ccw_circular"
	default:
		return "linear"
	}
}
