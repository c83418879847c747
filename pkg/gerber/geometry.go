package gerber

// VertexProvider is the contract published by the separate geometry
// collaborator (§6.3): a module that turns apertures and segments into
// polygonal vertex arrays for rendering. It is NOT implemented by this
// package (rasterization, tessellation, and polygon generation are
// explicitly out of scope, §1) — the interface exists so downstream
// renderers and this core agree on a shape. Signatures are grounded on
// original_source/vertices.py, the Python reference implementation of
// this same collaborator (see SPEC_FULL.md §12, DESIGN.md).
type VertexProvider interface {
	// Circle approximates a circle of the given diameter with at most
	// maxStepDeg degrees per segment.
	Circle(diameter, maxStepDeg float64) [][2]float64

	// RegularPoly returns n vertices of a regular n-gon inscribed in the
	// circle of the given diameter.
	RegularPoly(diameter float64, n int) [][2]float64

	// Rectangle returns 4 vertices of a centered rectangle.
	Rectangle(width, height float64) [][2]float64

	// Arc approximates a circular arc from startDeg to endDeg at the given
	// radius.
	Arc(radius, startDeg, endDeg, maxStepDeg float64) [][2]float64

	// RoundedLine returns a filled capsule polygon stroking (x1,y1)-(x2,y2)
	// with the given width.
	RoundedLine(width, x1, y1, x2, y2, maxStepDeg float64) [][2]float64

	// ThickLine returns a rectangle oriented along (x1,y1)-(x2,y2).
	ThickLine(width, x1, y1, x2, y2 float64) [][2]float64

	// RoundedArc returns a filled annular sector with rounded ends for an
	// arc centered at (cx,cy) from (x1,y1) to (x2,y2).
	RoundedArc(width, cx, cy, x1, y1, x2, y2 float64, isCW bool, maxStepDeg, maxStepTipDeg float64) [][2]float64

	// Translate shifts points in place by (dx, dy).
	Translate(points [][2]float64, dx, dy float64)

	// Rotate rotates points in place by degrees about the origin.
	Rotate(points [][2]float64, degrees float64)
}
