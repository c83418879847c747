package gerber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFormatValid(t *testing.T) {
	f, err := setFormat(3, 6)
	require.NoError(t, err)
	assert.True(t, f.IsSet())
	assert.Equal(t, 3, f.IntDigits)
	assert.Equal(t, 6, f.DecDigits)
}

func TestSetFormatIntDigitsOutOfRange(t *testing.T) {
	_, err := setFormat(7, 4)
	assert.Error(t, err)
}

func TestSetFormatDecDigitsOutOfRange(t *testing.T) {
	_, err := setFormat(3, 2)
	assert.Error(t, err)
}

func TestPolygonApertureVertexRange(t *testing.T) {
	_, err := parsePolygonTemplate([]string{"5.0", "2"})
	assert.Error(t, err)

	_, err = parsePolygonTemplate([]string{"5.0", "13"})
	assert.Error(t, err)

	ap, err := parsePolygonTemplate([]string{"5.0", "6"})
	require.NoError(t, err)
	poly, ok := ap.(PolygonAperture)
	require.True(t, ok)
	assert.Equal(t, 6, poly.Vertices)
}
