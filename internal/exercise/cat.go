package exercise

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/roach88/qkata/internal/circuit"
	"github.com/roach88/qkata/internal/sim"
	"github.com/roach88/qkata/internal/verify"
)

const (
	atomWire = 0
	catWire  = 1
	catWires = 2

	// catTolerance bounds the difference of the two branch magnitudes.
	catTolerance = 5e-2
)

// Verdicts of the cat exercise.
const (
	CatGenerated    = "Cat state generated"
	CatNotGenerated = "Cat state not generated"
)

// SchrodingerCat decides whether an atom-cat interaction followed by a
// single-qubit rotation and post-selection on the atom leaves the cat in
// an even superposition.
type SchrodingerCat struct{}

func (*SchrodingerCat) Name() string { return "schrodinger-cat" }

func (*SchrodingerCat) Description() string {
	return "post-selected atom rotation that leaves the cat in an even superposition"
}

// CatTape applies u to atom and cat, the rotation
// [[cos t/2, -cos d sin t/2], [sin t/2, cos d cos t/2]] with
// (t, _, d) = params to the atom, then projects the atom onto |0>.
func CatTape(u [][]complex128, params []float64) (*circuit.Tape, error) {
	if len(params) != 3 {
		return nil, fmt.Errorf("%w: want 3 rotation parameters, got %d", ErrInvalidInput, len(params))
	}
	theta, delta := params[0], params[2]
	c := math.Cos(theta / 2)
	s := math.Sin(theta / 2)
	cd := math.Cos(delta)
	rotation := [][]complex128{
		{complex(c, 0), complex(-cd*s, 0)},
		{complex(s, 0), complex(cd*c, 0)},
	}
	projector := [][]complex128{{1, 0}, {0, 0}}

	t := circuit.NewTape().
		QubitUnitary(u, atomWire, catWire).
		QubitUnitary(rotation, atomWire).
		QubitUnitary(projector, atomWire)
	if err := t.Validate(catWires); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return t, nil
}

// EvolveAtomCat runs CatTape and returns the unnormalised state.
func EvolveAtomCat(ctx context.Context, u [][]complex128, params []float64) ([]complex128, error) {
	tape, err := CatTape(u, params)
	if err != nil {
		return nil, err
	}
	dev, err := sim.NewStateVector(catWires)
	if err != nil {
		return nil, err
	}
	if err := dev.Run(ctx, tape); err != nil {
		return nil, err
	}
	return dev.Amplitudes(), nil
}

// U3Parameters picks the atom rotation for u. With delta = pi the
// post-selected amplitudes are
//
//	s0 = cos(t/2) a + sin(t/2) c
//	s1 = cos(t/2) b + sin(t/2) d
//
// for (a, b, c, d) = u|00>, and t = 2 atan2(a - b, d - c) makes them equal.
func U3Parameters(u [][]complex128) []float64 {
	a, b, c, d := real(u[0][0]), real(u[1][0]), real(u[2][0]), real(u[3][0])
	theta := 2 * math.Atan2(a-b, d-c)
	return []float64{theta, 0, math.Pi}
}

// Run parses a real 4x4 matrix and reports whether it yields a cat state.
func (*SchrodingerCat) Run(ctx context.Context, input string) (string, error) {
	u, err := parseCatMatrix(input)
	if err != nil {
		return "", err
	}
	state, err := EvolveAtomCat(ctx, u, U3Parameters(u))
	if err != nil {
		return "", err
	}
	if math.Abs(cmplx.Abs(state[0])-cmplx.Abs(state[1])) <= catTolerance {
		return CatGenerated, nil
	}
	return CatNotGenerated, nil
}

// Check runs the circuit on the Bell preparation unitary as a reference
// and compares the verdict.
func (*SchrodingerCat) Check(ctx context.Context, output, expected string) error {
	bell, err := sim.Matrix(ctx, circuit.NewTape().H(0).CNOT(0, 1), catWires)
	if err != nil {
		return err
	}
	state, err := EvolveAtomCat(ctx, bell, []float64{1, 1, 1})
	if err != nil {
		return err
	}
	if err := verify.Close(real(state[0]), 0.62054458, verify.DefaultRTol, verify.DefaultATol); err != nil {
		return err
	}
	return verify.Equal(output, expected)
}

// Tape returns CatTape for the parsed matrix and its chosen parameters.
func (*SchrodingerCat) Tape(_ context.Context, input string) (*circuit.Tape, error) {
	u, err := parseCatMatrix(input)
	if err != nil {
		return nil, err
	}
	return CatTape(u, U3Parameters(u))
}

func parseCatMatrix(input string) ([][]complex128, error) {
	var rows [][]float64
	if err := decodeInput(input, &rows); err != nil {
		return nil, err
	}
	dim := 1 << catWires
	if len(rows) != dim {
		return nil, fmt.Errorf("%w: want a %dx%d matrix, got %d rows", ErrInvalidInput, dim, dim, len(rows))
	}
	u := make([][]complex128, dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidInput, i, len(row), dim)
		}
		u[i] = make([]complex128, dim)
		for j, v := range row {
			u[i][j] = complex(v, 0)
		}
	}
	return u, nil
}
