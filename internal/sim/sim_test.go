package sim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qkata/internal/circuit"
)

const tol = 1e-9

func assertAmplitudes(t *testing.T, want, got []complex128) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, real(want[i]), real(got[i]), tol, "real part of amplitude %d", i)
		assert.InDelta(t, imag(want[i]), imag(got[i]), tol, "imag part of amplitude %d", i)
	}
}

func runState(t *testing.T, nWires int, tape *circuit.Tape) *StateVector {
	t.Helper()
	dev, err := NewStateVector(nWires)
	require.NoError(t, err)
	require.NoError(t, dev.Run(context.Background(), tape))
	return dev
}

func TestStateVectorStartsInZero(t *testing.T) {
	dev, err := NewStateVector(2)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{1, 0, 0, 0}, dev.Amplitudes())
	assert.Equal(t, 2, dev.Wires())
}

func TestNewStateVectorRejectsSize(t *testing.T) {
	_, err := NewStateVector(0)
	assert.ErrorIs(t, err, ErrTooManyWires)
	_, err = NewStateVector(MaxStateWires + 1)
	assert.ErrorIs(t, err, ErrTooManyWires)
	_, err = NewDensityMatrix(MaxDensityWires + 1)
	assert.ErrorIs(t, err, ErrTooManyWires)
}

func TestBellState(t *testing.T) {
	dev := runState(t, 2, circuit.NewTape().H(0).CNOT(0, 1))
	r := 1 / math.Sqrt2
	assertAmplitudes(t, []complex128{complex(r, 0), 0, 0, complex(r, 0)}, dev.Amplitudes())

	probs := dev.Probabilities()
	assert.InDelta(t, 0.5, probs[0], tol)
	assert.InDelta(t, 0.5, probs[3], tol)
}

func TestWireZeroIsMostSignificant(t *testing.T) {
	dev := runState(t, 3, circuit.NewTape().X(0))
	probs := dev.Probabilities()
	assert.InDelta(t, 1.0, probs[4], tol)

	dev = runState(t, 3, circuit.NewTape().X(2))
	probs = dev.Probabilities()
	assert.InDelta(t, 1.0, probs[1], tol)
}

func TestControlledXFamily(t *testing.T) {
	tests := []struct {
		name string
		tape *circuit.Tape
		want int
	}{
		{"cnot fires", circuit.NewTape().X(0).CNOT(0, 1), 0b110},
		{"cnot idle", circuit.NewTape().CNOT(0, 1), 0b000},
		{"toffoli fires", circuit.NewTape().X(0).X(1).Toffoli(0, 1, 2), 0b111},
		{"toffoli one control", circuit.NewTape().X(0).Toffoli(0, 1, 2), 0b100},
		{"mcx fires", circuit.NewTape().X(0).X(2).MultiControlledX([]int{0, 2}, 1), 0b111},
		{"mcx idle", circuit.NewTape().X(0).MultiControlledX([]int{0, 2}, 1), 0b100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probs := runState(t, 3, tt.tape).Probabilities()
			assert.InDelta(t, 1.0, probs[tt.want], tol)
		})
	}
}

func TestRotationExpectations(t *testing.T) {
	z0 := circuit.MustHamiltonian(circuit.Term{Coeff: 1, Paulis: "Z", Wires: []int{0}})
	x0 := circuit.MustHamiltonian(circuit.Term{Coeff: 1, Paulis: "X", Wires: []int{0}})
	y0 := circuit.MustHamiltonian(circuit.Term{Coeff: 1, Paulis: "Y", Wires: []int{0}})

	tests := []struct {
		name string
		tape *circuit.Tape
		obs  *circuit.Hamiltonian
		want float64
	}{
		{"rx z", circuit.NewTape().RX(0.7, 0), z0, math.Cos(0.7)},
		{"rx y", circuit.NewTape().RX(0.7, 0), y0, -math.Sin(0.7)},
		{"ry x", circuit.NewTape().RY(0.7, 0), x0, math.Sin(0.7)},
		{"ry half pi", circuit.NewTape().RY(math.Pi/2, 0), x0, 1},
		{"rz keeps z", circuit.NewTape().H(0).RZ(0.3, 0).H(0), z0, math.Cos(0.3)},
		{"phase shift", circuit.NewTape().H(0).PhaseShift(math.Pi/2, 0), y0, 1},
		{"pauli y flips", circuit.NewTape().Y(0), z0, -1},
		{"pauli z on plus", circuit.NewTape().H(0).Z(0), x0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runState(t, 1, tt.tape).Expval(tt.obs)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tol)
		})
	}
}

func TestQFT(t *testing.T) {
	tape := circuit.NewTape().X(1).QFT(0, 1)
	dev := runState(t, 2, tape)
	assertAmplitudes(t, []complex128{0.5, 0.5i, -0.5, -0.5i}, dev.Amplitudes())

	tape.AdjointQFT(0, 1)
	dev = runState(t, 2, tape)
	assertAmplitudes(t, []complex128{0, 1, 0, 0}, dev.Amplitudes())
}

func TestFourierAdder(t *testing.T) {
	// 3 + 2 on a three-wire register.
	const d = 2
	tape := circuit.NewTape()
	require.NoError(t, tape.BasisEmbedding(3, 0, 1, 2))
	tape.QFT(0, 1, 2)
	for j, w := range []int{0, 1, 2} {
		tape.PhaseShift(d*math.Pi/float64(int(1)<<j), w)
	}
	tape.AdjointQFT(0, 1, 2)

	probs := runState(t, 3, tape).Probabilities()
	assert.InDelta(t, 1.0, probs[5], 1e-9)
}

func TestQubitUnitaryProjector(t *testing.T) {
	tape := circuit.NewTape().H(0).QubitUnitary([][]complex128{{1, 0}, {0, 0}}, 0)
	dev := runState(t, 1, tape)
	assertAmplitudes(t, []complex128{complex(1/math.Sqrt2, 0), 0}, dev.Amplitudes())
}

func TestQubitUnitaryTwoWireOrder(t *testing.T) {
	// CNOT as a matrix: the first listed wire is the control.
	cnot := [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}
	dev := runState(t, 2, circuit.NewTape().X(1).QubitUnitary(cnot, 1, 0))
	assert.InDelta(t, 1.0, dev.Probabilities()[0b11], tol)
}

func TestApproxTimeEvolutionMatchesRotation(t *testing.T) {
	h := circuit.MustHamiltonian(
		circuit.Term{Coeff: 0.4, Paulis: "Z", Wires: []int{0}},
		circuit.Term{Coeff: 1.5, Paulis: "X", Wires: []int{1}},
	)
	evolved := runState(t, 2, circuit.NewTape().H(0).ApproxTimeEvolution(h, 0.3))
	rotated := runState(t, 2, circuit.NewTape().H(0).RZ(2*0.4*0.3, 0).RX(2*1.5*0.3, 1))
	assertAmplitudes(t, rotated.Amplitudes(), evolved.Amplitudes())
}

func TestApproxTimeEvolutionZZ(t *testing.T) {
	h := circuit.MustHamiltonian(circuit.Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{0, 1}})
	evolved := runState(t, 2, circuit.NewTape().H(0).H(1).ApproxTimeEvolution(h, 0.2))
	decomposed := runState(t, 2, circuit.NewTape().H(0).H(1).CNOT(0, 1).RZ(2*0.75*0.2, 1).CNOT(0, 1))
	assertAmplitudes(t, decomposed.Amplitudes(), evolved.Amplitudes())
}

func TestStateVectorErrors(t *testing.T) {
	dev, err := NewStateVector(2)
	require.NoError(t, err)

	err = dev.Run(context.Background(), circuit.NewTape().X(2))
	assert.ErrorIs(t, err, ErrWireOutOfRange)

	err = dev.Run(context.Background(), circuit.NewTape().Depolarizing(0.1, 0))
	assert.ErrorIs(t, err, ErrChannelOnPureState)

	err = dev.Run(context.Background(), circuit.NewTape().Append(circuit.Op{Name: "Swap", Wires: []int{0, 1}}))
	assert.ErrorContains(t, err, "unknown op")

	err = dev.Run(context.Background(), circuit.NewTape().Append(circuit.Op{Name: circuit.RX, Wires: []int{0}}))
	assert.ErrorContains(t, err, "expected 1 params")

	_, err = dev.Expval(circuit.MustHamiltonian(circuit.Term{Coeff: 1, Paulis: "Z", Wires: []int{5}}))
	assert.ErrorIs(t, err, ErrWireOutOfRange)
}

func TestRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dev, err := NewStateVector(1)
	require.NoError(t, err)
	assert.ErrorIs(t, dev.Run(ctx, circuit.NewTape().H(0)), context.Canceled)

	rho, err := NewDensityMatrix(1)
	require.NoError(t, err)
	assert.ErrorIs(t, rho.Run(ctx, circuit.NewTape().H(0)), context.Canceled)
}

func TestSetBasisState(t *testing.T) {
	dev, err := NewStateVector(2)
	require.NoError(t, err)
	require.NoError(t, dev.SetBasisState(2))
	assertAmplitudes(t, []complex128{0, 0, 1, 0}, dev.Amplitudes())
	assert.Error(t, dev.SetBasisState(4))
}

func TestAmplitudesIsCopy(t *testing.T) {
	dev, err := NewStateVector(1)
	require.NoError(t, err)
	amps := dev.Amplitudes()
	amps[0] = 0
	assert.Equal(t, complex128(1), dev.Amplitudes()[0])
}
