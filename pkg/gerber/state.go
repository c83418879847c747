package gerber

// modalState is the long-lived parser state carried across statements
// (§3 "Modal state", §5): coordinate format, unit, current point, current
// aperture, interpolation mode, and the active graphics transform.
type modalState struct {
	format           CoordinateFormat
	unit             Unit
	currentPoint     *Point // nil until the first D01/D02/D03
	currentAperture  string // empty until a D<nn> select
	interpolation    InterpolationMode
	transform        GraphicsTransform
}

func newModalState() *modalState {
	return &modalState{
		transform:     DefaultTransform(),
		interpolation: InterpolationLinear,
	}
}
