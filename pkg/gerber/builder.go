package gerber

import "fmt"

type frameKind int

const (
	frameTop frameKind = iota
	frameRegion
	frameBlock
	frameStepRepeat
)

// frame is one level of the object-builder stack (§3 "Object Builder",
// §4.6, §4.7). The bottom frame (frameTop) is never popped.
type frame struct {
	kind frameKind

	// objects accumulates plain GraphicalObjects for frameTop, frameBlock,
	// and frameStepRepeat frames.
	objects []GraphicalObject

	// region-only fields.
	transform GraphicsTransform
	segments  []GraphicalObject // Draw or Arc only
	contours  []Contour

	// step-and-repeat-only fields.
	nx, ny, stepX, stepY int
	// parentPlaceholderIdx is the index in the parent frame's objects
	// slice holding the placeholder StepAndRepeat appended at open time,
	// patched with the final value at close (§4.7).
	parentPlaceholderIdx int
}

func (f *frame) endContour() {
	if len(f.contours) > 0 {
		last := f.contours[len(f.contours)-1]
		start := last.Start + last.Length
		f.contours = append(f.contours, Contour{Start: start, Length: len(f.segments) - start})
	} else {
		f.contours = append(f.contours, Contour{Start: 0, Length: len(f.segments)})
	}
}

// builder is the stack of object collectors (§3, §6). It is never empty;
// the bottom frame is the top-level object list.
type builder struct {
	stack []*frame
}

func newBuilder() *builder {
	return &builder{stack: []*frame{{kind: frameTop}}}
}

func (b *builder) top() *frame {
	return b.stack[len(b.stack)-1]
}

// inRegion reports whether the top collector is a region, the condition
// under which D01/D02/D03 handlers switch to region-segment semantics
// (§4.3).
func (b *builder) inRegion() bool {
	return b.top().kind == frameRegion
}

// appendObject appends a non-segment object (Flash, Region, StepAndRepeat
// placeholder, a nested BlockAperture's flash, ...) to the top collector.
// It returns the index the object was stored at, for later patching by
// popStepRepeat.
func (b *builder) appendObject(o GraphicalObject) (int, error) {
	top := b.top()
	if top.kind == frameRegion {
		return -1, fmt.Errorf("cannot append a non-segment object inside a region")
	}
	top.objects = append(top.objects, o)
	return len(top.objects) - 1, nil
}

// appendSegment appends a Draw or Arc to the top region collector,
// finalizing a contour boundary first if the incoming segment's origin
// does not continue the previous segment's endpoint (§4.6).
func (b *builder) appendSegment(o GraphicalObject) error {
	top := b.top()
	if top.kind != frameRegion {
		return fmt.Errorf("appendSegment called outside a region")
	}
	switch o.(type) {
	case Draw, Arc:
	default:
		return fmt.Errorf("region only supports Draw and Arc objects")
	}
	if len(top.segments) > 0 {
		prevEnd := endpointOf(top.segments[len(top.segments)-1])
		if originOf(o) != prevEnd {
			top.endContour()
		}
	}
	top.segments = append(top.segments, o)
	return nil
}

func originOf(o GraphicalObject) Point {
	switch v := o.(type) {
	case Draw:
		return v.Origin
	case Arc:
		return v.Origin
	default:
		return Point{}
	}
}

func endpointOf(o GraphicalObject) Point {
	switch v := o.(type) {
	case Draw:
		return v.Endpoint
	case Arc:
		return v.Endpoint
	default:
		return Point{}
	}
}

// pushRegion opens a new region collector on top of the stack (§4.6, G36).
func (b *builder) pushRegion(transform GraphicsTransform) {
	b.stack = append(b.stack, &frame{kind: frameRegion, transform: transform})
}

// popRegion closes the top region collector (§4.6, G37), finalizing the
// trailing contour, and returns the completed Region. The caller is
// responsible for appending it to the collector now on top.
func (b *builder) popRegion() (Region, error) {
	top := b.top()
	if top.kind != frameRegion {
		return Region{}, fmt.Errorf("top collector is not a region")
	}
	if len(top.segments) > 0 {
		top.endContour()
	}
	region := Region{TransformSnapshot: top.transform, Segments: top.segments, Contours: top.contours}
	b.stack = b.stack[:len(b.stack)-1]
	return region, nil
}

// pushBlock opens a new aperture-block collector (§4.7, %AB<ident>*%).
func (b *builder) pushBlock() {
	b.stack = append(b.stack, &frame{kind: frameBlock})
}

// popBlock closes the top aperture-block collector (%AB*%) and returns the
// completed BlockAperture. The caller registers it in the aperture table.
func (b *builder) popBlock() (BlockAperture, error) {
	top := b.top()
	if top.kind != frameBlock {
		return BlockAperture{}, fmt.Errorf("top collector is not an aperture block")
	}
	ap := BlockAperture{Objects: top.objects}
	b.stack = b.stack[:len(b.stack)-1]
	return ap, nil
}

// pushStepRepeat opens a step-and-repeat collector (§4.7,
// %SRX<nx>Y<ny>I<stepx>J<stepy>*%): a placeholder StepAndRepeat is
// appended to the current collector immediately, and a fresh collector is
// pushed for the objects it will tile.
func (b *builder) pushStepRepeat(nx, ny, stepX, stepY int) error {
	placeholder := StepAndRepeat{Nx: nx, Ny: ny, StepX: stepX, StepY: stepY}
	idx, err := b.appendObject(placeholder)
	if err != nil {
		return err
	}
	b.stack = append(b.stack, &frame{
		kind: frameStepRepeat, nx: nx, ny: ny, stepX: stepX, stepY: stepY,
		parentPlaceholderIdx: idx,
	})
	return nil
}

// popStepRepeat closes the top step-and-repeat collector (%SR*%),
// patching the placeholder appended by pushStepRepeat with the final
// object list.
func (b *builder) popStepRepeat() error {
	top := b.top()
	if top.kind != frameStepRepeat {
		return fmt.Errorf("top collector is not a step-and-repeat group")
	}
	final := StepAndRepeat{Nx: top.nx, Ny: top.ny, StepX: top.stepX, StepY: top.stepY, Objects: top.objects}
	b.stack = b.stack[:len(b.stack)-1]
	parent := b.top()
	parent.objects[top.parentPlaceholderIdx] = final
	return nil
}

// objects returns the finished top-level object list. Valid only once the
// stack has unwound back to frameTop (i.e. at end of parsing).
func (b *builder) objects() []GraphicalObject {
	return b.stack[0].objects
}
