package gerber

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) []GraphicalObject {
	t.Helper()
	p := NewParser()
	objs, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	return objs
}

// Scenario 1: two-line draw (§8.1).
func TestParseTwoLineDraw(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%ADD100C,1.5*%
G01*
D100*
X0Y0D02*
X2512000Y115000D01*
M02*
`
	objs := mustParse(t, input)
	require.Len(t, objs, 1)
	d, ok := objs[0].(Draw)
	require.True(t, ok)
	assert.Equal(t, Point{0, 0}, d.Origin)
	assert.Equal(t, Point{2512000, 115000}, d.Endpoint)
	assert.Equal(t, PolarityDark, d.TransformSnapshot.Polarity)
	circ, ok := d.ApertureSnapshot.(CircleAperture)
	require.True(t, ok)
	assert.InDelta(t, 1.5, circ.Diameter, 1e-9)
}

// Scenario 2: CW arc (§8.2).
func TestParseCWArc(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%ADD100C,1.5*%
D100*
G02*
X0Y0D02*
X5005000Y3506000I3000J0D01*
M02*
`
	objs := mustParse(t, input)
	require.Len(t, objs, 1)
	a, ok := objs[0].(Arc)
	require.True(t, ok)
	assert.Equal(t, Point{5005000, 3506000}, a.Endpoint)
	assert.Equal(t, Point{3000, 0}, a.Offset)
	assert.True(t, a.IsCW)
}

// Scenario 3: polarity snapshot (§8.3).
func TestParsePolaritySnapshot(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%ADD100C,1.5*%
D100*
X0Y0D03*
%LPC*%
X0Y0D03*
%LPD*%
M02*
`
	objs := mustParse(t, input)
	require.Len(t, objs, 2)
	first, ok := objs[0].(Flash)
	require.True(t, ok)
	second, ok := objs[1].(Flash)
	require.True(t, ok)
	assert.Equal(t, PolarityDark, first.TransformSnapshot.Polarity)
	assert.Equal(t, PolarityClear, second.TransformSnapshot.Polarity)
}

// Scenario 4: region with two contours (§8.4).
func TestParseRegionTwoContours(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
G36*
X100000Y100000D02*
X500000Y100000D01*
X300000Y400000D01*
X100000Y100000D01*
X0Y200000D02*
X200000Y200000D01*
X200000Y400000D01*
X0Y400000D01*
X0Y200000D01*
G37*
M02*
`
	objs := mustParse(t, input)
	require.Len(t, objs, 1)
	region, ok := objs[0].(Region)
	require.True(t, ok)
	assert.Len(t, region.Segments, 7)
	assert.Equal(t, []Contour{{Start: 0, Length: 3}, {Start: 3, Length: 4}}, region.Contours)
	for _, seg := range region.Segments {
		d, ok := seg.(Draw)
		require.True(t, ok)
		assert.Nil(t, d.ApertureSnapshot)
	}
}

// Scenario 5: macro with variable substitution (§8.5).
func TestParseMacroWithVariable(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%AMDONUTVAR*1,1,$1,$2,$3*1,0,$4,$2,$3*%
%ADD34DONUTVAR,0.100X0X0X0.080*%
D34*
X0Y0D03*
M02*
`
	objs := mustParse(t, input)
	require.Len(t, objs, 1)
	flash, ok := objs[0].(Flash)
	require.True(t, ok)
	mac, ok := flash.ApertureSnapshot.(MacroAperture)
	require.True(t, ok)
	require.Len(t, mac.Primitives, 2)

	c1, ok := mac.Primitives[0].(MacroCircle)
	require.True(t, ok)
	assert.InDelta(t, 1.0, c1.Exposure, 1e-9)
	assert.InDelta(t, 0.1, c1.Diameter, 1e-9)
	assert.InDelta(t, 0.0, c1.X, 1e-9)
	assert.InDelta(t, 0.0, c1.Y, 1e-9)

	c2, ok := mac.Primitives[1].(MacroCircle)
	require.True(t, ok)
	assert.InDelta(t, 0.0, c2.Exposure, 1e-9)
	assert.InDelta(t, 0.08, c2.Diameter, 1e-9)
}

// Scenario 6: nested aperture blocks (§8.6).
func TestParseNestedBlocks(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%ADD100R,1.0X1.0*%
%ABD102*%
%ABD101*%
D100*
X0Y0D03*
X1Y0D03*
X2Y0D03*
X3Y0D03*
%AB*%
D101*
X0Y0D03*
X1Y0D03*
X2Y0D03*
X3Y0D03*
X4Y0D03*
X5Y0D03*
%AB*%
M02*
`
	p := NewParser()
	objs, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, objs)

	d101, ok := p.apertures.get("D101")
	require.True(t, ok)
	block101, ok := d101.(BlockAperture)
	require.True(t, ok)
	assert.Len(t, block101.Objects, 4)

	d102, ok := p.apertures.get("D102")
	require.True(t, ok)
	block102, ok := d102.(BlockAperture)
	require.True(t, ok)
	assert.Len(t, block102.Objects, 6)

	for _, o := range block102.Objects {
		f, ok := o.(Flash)
		require.True(t, ok)
		_, ok = f.ApertureSnapshot.(BlockAperture)
		assert.True(t, ok)
	}
}

// Scenario 8: missing M02 fails with EofMissing (§8.8).
func TestParseMissingEOF(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%ADD100C,1.5*%
D100*
X0Y0D03*
`
	p := NewParser()
	_, err := p.Parse(strings.NewReader(input))
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, EofMissing, pe.Kind)
}

func TestParseFormatRejectsMismatchedDigits(t *testing.T) {
	const input = `
%FSLAX36Y46*%
%MOMM*%
M02*
`
	p := NewParser()
	_, err := p.Parse(strings.NewReader(input))
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, FormatError, pe.Kind)
}

func TestParseFormatRejectsSecondFS(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%FSLAX36Y36*%
%MOMM*%
M02*
`
	p := NewParser()
	_, err := p.Parse(strings.NewReader(input))
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, FormatError, pe.Kind)
}

func TestParseIsDeterministic(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%ADD100C,1.5*%
G01*
D100*
X0Y0D02*
X2512000Y115000D01*
M02*
`
	a := mustParse(t, input)
	b := mustParse(t, input)
	assert.Equal(t, a, b)
}

func TestParseUndefinedApertureSelection(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
D100*
M02*
`
	p := NewParser()
	_, err := p.Parse(strings.NewReader(input))
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, UndefinedAperture, pe.Kind)
}

func TestParseDuplicateApertureIsError(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%ADD100C,1.5*%
%ADD100C,2.0*%
M02*
`
	p := NewParser()
	_, err := p.Parse(strings.NewReader(input))
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, DuplicateAperture, pe.Kind)
}

func TestParseG74IsHardError(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
G74*
M02*
`
	p := NewParser()
	_, err := p.Parse(strings.NewReader(input))
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, NotImplementedError, pe.Kind)
}

func TestParseD03InsideRegionIsRegionError(t *testing.T) {
	const input = `
%FSLAX36Y36*%
%MOMM*%
%ADD100C,1.5*%
D100*
G36*
X0Y0D03*
G37*
M02*
`
	p := NewParser()
	_, err := p.Parse(strings.NewReader(input))
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, RegionError, pe.Kind)
}
