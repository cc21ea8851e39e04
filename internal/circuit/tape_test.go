package circuit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTapeIntrospection(t *testing.T) {
	tape := NewTape().
		H(0).
		CNOT(0, 1).
		RZ(0.5, 1).
		CNOT(0, 1).
		Depolarizing(0.01, 1)

	assert.Equal(t, 5, tape.Len())
	assert.Equal(t, []string{Hadamard, CNOT, RZ, CNOT, DepolarizingChannel}, tape.Names())
	assert.Equal(t, 2, tape.Count(CNOT))
	assert.Equal(t, 0, tape.Count(QubitUnitary))
	assert.Equal(t, []string{CNOT, DepolarizingChannel, Hadamard, RZ}, tape.NameSet())
	assert.Equal(t, 1, tape.MaxWire())
	assert.True(t, tape.HasChannels())
}

func TestEmptyTape(t *testing.T) {
	var tape Tape
	assert.Equal(t, 0, tape.Len())
	assert.Equal(t, -1, tape.MaxWire())
	assert.Empty(t, tape.NameSet())
	assert.False(t, tape.HasChannels())
	assert.NoError(t, tape.Validate(1))
}

func TestOpsReturnsCopy(t *testing.T) {
	tape := NewTape().X(0)
	ops := tape.Ops()
	ops[0].Name = "mutated"
	assert.Equal(t, PauliX, tape.Names()[0])
}

func TestBasisEmbedding(t *testing.T) {
	tests := []struct {
		value int
		want  []int
	}{
		{0, nil},
		{1, []int{5}},
		{4, []int{3}},
		{6, []int{3, 4}},
		{7, []int{3, 4, 5}},
	}
	for _, tt := range tests {
		tape := NewTape()
		require.NoError(t, tape.BasisEmbedding(tt.value, 3, 4, 5))
		var got []int
		for _, op := range tape.Ops() {
			assert.Equal(t, PauliX, op.Name)
			got = append(got, op.Wires[0])
		}
		assert.Equal(t, tt.want, got, "value %d", tt.value)
	}
}

func TestBasisEmbeddingOverflow(t *testing.T) {
	err := NewTape().BasisEmbedding(8, 0, 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit")

	require.Error(t, NewTape().BasisEmbedding(-1, 0))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      Op
		wantErr string
	}{
		{"unknown", Op{Name: "Frobnicate", Wires: []int{0}}, "unknown op"},
		{"rx missing param", Op{Name: RX, Wires: []int{0}}, "expected 1 params"},
		{"cnot one wire", Op{Name: CNOT, Wires: []int{0}}, "expected 2 wires"},
		{"duplicate wire", Op{Name: CNOT, Wires: []int{1, 1}}, "duplicate wire"},
		{"negative wire", Op{Name: PauliX, Wires: []int{-1}}, "negative wire"},
		{"mcx too few", Op{Name: MultiControlledX, Wires: []int{0}}, "at least 2"},
		{"unitary shape", Op{Name: QubitUnitary, Wires: []int{0}, Matrix: [][]complex128{{1}}}, "matrix must be 2x2"},
		{"unitary row", Op{Name: QubitUnitary, Wires: []int{0}, Matrix: [][]complex128{{1, 0}, {0}}}, "row 1"},
		{"depolarizing range", Op{Name: DepolarizingChannel, Wires: []int{0}, Params: []float64{1.5}}, "outside [0, 1]"},
		{"evolution needs hamiltonian", Op{Name: ApproxTimeEvolution, Params: []float64{1}}, "hamiltonian is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTapeValidateWireRange(t *testing.T) {
	tape := NewTape().CNOT(0, 3)
	assert.NoError(t, tape.Validate(4))

	err := tape.Validate(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wire 3 outside device of 3 wires")
}

func TestRender(t *testing.T) {
	tape := NewTape().
		RY(1.5707963267948966, 0).
		CNOT(0, 1).
		QubitUnitary([][]complex128{{1, 0}, {0, 0}}, 1)

	want := "RY(1.5708) [0]\nCNOT [0 1]\nQubitUnitary [1]\n"
	assert.Equal(t, want, tape.String())
}

func TestFingerprint(t *testing.T) {
	build := func(theta float64) *Tape {
		return NewTape().H(0).RX(theta, 1).CNOT(0, 1)
	}

	a := build(0.25).Fingerprint()
	b := build(0.25).Fingerprint()
	c := build(0.26).Fingerprint()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	withMatrix := NewTape().QubitUnitary([][]complex128{{0, 1}, {1, 0}}, 0).Fingerprint()
	assert.NotEqual(t, withMatrix, NewTape().X(0).Fingerprint())
}

func TestQubitUnitaryCopiesMatrix(t *testing.T) {
	m := [][]complex128{{1, 0}, {0, 1}}
	tape := NewTape().QubitUnitary(m, 0)
	m[0][0] = 5
	assert.Equal(t, complex128(1), tape.Ops()[0].Matrix[0][0])
}

func TestMultiControlledXDoesNotAliasControls(t *testing.T) {
	controls := make([]int, 3, 8)
	copy(controls, []int{6, 7, 8})
	tape := NewTape().MultiControlledX(controls, 9)
	_ = append(controls, 42)
	assert.Equal(t, []int{6, 7, 8, 9}, tape.Ops()[0].Wires)
	assert.True(t, strings.HasPrefix(tape.String(), "MultiControlledX [6 7 8 9]"))
}
