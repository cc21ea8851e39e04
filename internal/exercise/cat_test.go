package exercise

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qkata/internal/circuit"
	"github.com/roach88/qkata/internal/verify"
)

const bellInput = "[[ 0.70710678,  0 ,  0.70710678,  0], [0 ,0.70710678, 0, 0.70710678], [ 0,  0.70710678,  0, -0.70710678], [ 0.70710678,  0, -0.70710678,  0]]"

const randomInput = "[[-0.00202114,  0.99211964, -0.05149589, -0.11420469], [-0.13637119, -0.1236727 , -0.30532593, -0.93428263], [0.89775373,  0.00794205, -0.363445  ,  0.24876274], [ 0.41885207, -0.01845563, -0.8786535 ,  0.22845207]]"

func TestEvolveAtomCat_Reference(t *testing.T) {
	ctx := context.Background()
	u, err := parseCatMatrix(bellInput)
	require.NoError(t, err)

	state, err := EvolveAtomCat(ctx, u, []float64{1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.62054458, real(state[0]), 1e-6)
	assert.InDelta(t, 0.0, real(state[2]), 1e-12)
	assert.InDelta(t, 0.0, real(state[3]), 1e-12)
}

func TestU3Parameters_Bell(t *testing.T) {
	u, err := parseCatMatrix(bellInput)
	require.NoError(t, err)

	params := U3Parameters(u)
	require.Len(t, params, 3)
	assert.InDelta(t, math.Pi/2, params[0], 1e-6)
	assert.Equal(t, 0.0, params[1])
	assert.Equal(t, math.Pi, params[2])

	state, err := EvolveAtomCat(context.Background(), u, params)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, real(state[0]), 1e-6)
	assert.InDelta(t, 0.5, real(state[1]), 1e-6)
}

func TestSchrodingerCat_PublicCases(t *testing.T) {
	ex := &SchrodingerCat{}
	ctx := context.Background()
	for _, input := range []string{bellInput, randomInput} {
		out, err := ex.Run(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, CatGenerated, out)
		assert.NoError(t, ex.Check(ctx, out, CatGenerated))
	}
}

func TestSchrodingerCat_CheckMismatch(t *testing.T) {
	err := (&SchrodingerCat{}).Check(context.Background(), CatNotGenerated, CatGenerated)
	require.Error(t, err)
	ae, ok := err.(*verify.AssertionError)
	require.True(t, ok)
	assert.Equal(t, verify.TypeEqual, ae.Type)
}

func TestSchrodingerCat_InvalidInput(t *testing.T) {
	ex := &SchrodingerCat{}
	for _, input := range []string{
		"[[1, 0], [0, 1]]",
		"[[1, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 0], [0, 0, 1]]",
		"[[1, 0, 0, 0]]",
		"not a matrix",
	} {
		_, err := ex.Run(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidInput, input)
	}
}

func TestCatTape(t *testing.T) {
	u, err := parseCatMatrix(bellInput)
	require.NoError(t, err)
	tape, err := CatTape(u, []float64{1, 0, math.Pi})
	require.NoError(t, err)
	assert.Equal(t, []string{circuit.QubitUnitary, circuit.QubitUnitary, circuit.QubitUnitary}, tape.Names())

	_, err = CatTape(u, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
