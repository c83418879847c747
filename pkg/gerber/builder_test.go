package gerber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderRegionContourPartition(t *testing.T) {
	b := newBuilder()
	b.pushRegion(DefaultTransform())

	// Triangle: three segments chained start-to-end.
	require.NoError(t, b.appendSegment(Draw{Origin: Point{100000, 100000}, Endpoint: Point{500000, 100000}}))
	require.NoError(t, b.appendSegment(Draw{Origin: Point{500000, 100000}, Endpoint: Point{300000, 400000}}))
	require.NoError(t, b.appendSegment(Draw{Origin: Point{300000, 400000}, Endpoint: Point{100000, 100000}}))

	// Disconnected square: origin breaks continuity, starting a new contour.
	require.NoError(t, b.appendSegment(Draw{Origin: Point{0, 200000}, Endpoint: Point{200000, 200000}}))
	require.NoError(t, b.appendSegment(Draw{Origin: Point{200000, 200000}, Endpoint: Point{200000, 400000}}))
	require.NoError(t, b.appendSegment(Draw{Origin: Point{200000, 400000}, Endpoint: Point{0, 400000}}))
	require.NoError(t, b.appendSegment(Draw{Origin: Point{0, 400000}, Endpoint: Point{0, 200000}}))

	region, err := b.popRegion()
	require.NoError(t, err)
	assert.Len(t, region.Segments, 7)
	assert.Equal(t, []Contour{{Start: 0, Length: 3}, {Start: 3, Length: 4}}, region.Contours)
}

func TestBuilderAppendSegmentOutsideRegionFails(t *testing.T) {
	b := newBuilder()
	err := b.appendSegment(Draw{})
	assert.Error(t, err)
}

func TestBuilderAppendObjectInsideRegionFails(t *testing.T) {
	b := newBuilder()
	b.pushRegion(DefaultTransform())
	_, err := b.appendObject(Flash{})
	assert.Error(t, err)
}

func TestBuilderStepRepeatPlaceholderPatch(t *testing.T) {
	b := newBuilder()
	require.NoError(t, b.pushStepRepeat(2, 3, 1000, 2000))
	_, err := b.appendObject(Flash{Origin: Point{1, 2}})
	require.NoError(t, err)
	require.NoError(t, b.popStepRepeat())

	objs := b.objects()
	require.Len(t, objs, 1)
	sr, ok := objs[0].(StepAndRepeat)
	require.True(t, ok)
	assert.Equal(t, 2, sr.Nx)
	assert.Equal(t, 3, sr.Ny)
	assert.Len(t, sr.Objects, 1)
}

func TestBuilderNestedBlocks(t *testing.T) {
	b := newBuilder()
	b.pushBlock()
	b.pushBlock()
	_, err := b.appendObject(Flash{})
	require.NoError(t, err)
	inner, err := b.popBlock()
	require.NoError(t, err)
	assert.Len(t, inner.Objects, 1)
	_, err = b.appendObject(Flash{ApertureSnapshot: inner})
	require.NoError(t, err)
	outer, err := b.popBlock()
	require.NoError(t, err)
	assert.Len(t, outer.Objects, 1)
}

func TestStepAndRepeatExpand(t *testing.T) {
	sr := StepAndRepeat{
		Nx: 2, Ny: 2, StepX: 100, StepY: 200,
		Objects: []GraphicalObject{Flash{Origin: Point{0, 0}}},
	}
	out := sr.Expand()
	require.Len(t, out, 4)
	assert.Equal(t, Point{0, 0}, out[0].(Flash).Origin)
	assert.Equal(t, Point{100, 0}, out[1].(Flash).Origin)
	assert.Equal(t, Point{0, 200}, out[2].(Flash).Origin)
	assert.Equal(t, Point{100, 200}, out[3].(Flash).Origin)
}
