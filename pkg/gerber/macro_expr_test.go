package gerber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalExprArithmetic(t *testing.T) {
	v, err := evalExpr("(1.25-1.0)x2")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-9)
}

func TestEvalExprPrecedence(t *testing.T) {
	v, err := evalExpr("1+2x3")
	require.NoError(t, err)
	assert.InDelta(t, 7.0, v, 1e-9)
}

func TestEvalExprUnaryMinus(t *testing.T) {
	v, err := evalExpr("-2+5")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-9)
}

func TestEvalExprRejectsStar(t *testing.T) {
	_, err := evalExpr("1.25*2")
	assert.Error(t, err)
}

func TestEvalExprRejectsArbitraryCode(t *testing.T) {
	_, err := evalExpr("import sys")
	assert.Error(t, err)
}

func TestEvalExprDivisionByZero(t *testing.T) {
	_, err := evalExpr("1/0")
	assert.Error(t, err)
}
