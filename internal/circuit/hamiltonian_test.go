package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coverHamiltonian() *Hamiltonian {
	return MustHamiltonian(
		Term{Coeff: 0.5, Paulis: "Z", Wires: []int{0}},
		Term{Coeff: 0.5, Paulis: "Z", Wires: []int{1}},
		Term{Coeff: 1.25, Paulis: "Z", Wires: []int{2}},
		Term{Coeff: -0.25, Paulis: "Z", Wires: []int{3}},
		Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{0, 1}},
		Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{0, 2}},
		Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{1, 2}},
		Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{2, 3}},
	)
}

func TestHamiltonianValidate(t *testing.T) {
	_, err := NewHamiltonian(Term{Coeff: 1, Paulis: "ZZ", Wires: []int{0}})
	require.Error(t, err)

	_, err = NewHamiltonian(Term{Coeff: 1, Paulis: "Q", Wires: []int{0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pauli")

	_, err = NewHamiltonian(Term{Coeff: 1, Paulis: "XX", Wires: []int{2, 2}})
	require.Error(t, err)

	assert.Panics(t, func() { MustHamiltonian(Term{Paulis: "X"}) })
}

func TestTermApply(t *testing.T) {
	tests := []struct {
		name      string
		term      Term
		in        int
		wantJ     int
		wantPhase complex128
	}{
		{"X flips msb", Term{Paulis: "X", Wires: []int{0}}, 0b00, 0b10, 1},
		{"Z on zero", Term{Paulis: "Z", Wires: []int{1}}, 0b00, 0b00, 1},
		{"Z on one", Term{Paulis: "Z", Wires: []int{1}}, 0b01, 0b01, -1},
		{"Y on zero", Term{Paulis: "Y", Wires: []int{0}}, 0b00, 0b10, 1i},
		{"Y on one", Term{Paulis: "Y", Wires: []int{0}}, 0b10, 0b00, -1i},
		{"ZZ odd parity", Term{Paulis: "ZZ", Wires: []int{0, 1}}, 0b10, 0b10, -1},
		{"ZZ even parity", Term{Paulis: "ZZ", Wires: []int{0, 1}}, 0b11, 0b11, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, phase := tt.term.Apply(tt.in, 2)
			assert.Equal(t, tt.wantJ, j)
			assert.Equal(t, tt.wantPhase, phase)
		})
	}
}

func TestHamiltonianWiresAndDiagonal(t *testing.T) {
	h := coverHamiltonian()
	assert.Equal(t, []int{0, 1, 2, 3}, h.Wires())
	assert.True(t, h.IsDiagonal())

	energies := h.Diagonal(4)
	require.Len(t, energies, 16)
	// |0000>: all z = +1.
	assert.InDelta(t, 0.5+0.5+1.25-0.25+4*0.75, energies[0], 1e-12)
}

func TestMinEigenvalueDiagonal(t *testing.T) {
	got, err := coverHamiltonian().MinEigenvalue(4)
	require.NoError(t, err)
	assert.InDelta(t, -3.0, got, 1e-12)
}

func TestMinEigenvalueTransverseField(t *testing.T) {
	mixer := MustHamiltonian(
		Term{Coeff: 1, Paulis: "X", Wires: []int{0}},
		Term{Coeff: 1, Paulis: "X", Wires: []int{1}},
		Term{Coeff: 1, Paulis: "X", Wires: []int{2}},
		Term{Coeff: 1, Paulis: "X", Wires: []int{3}},
	)
	assert.False(t, mixer.IsDiagonal())

	got, err := mixer.MinEigenvalue(4)
	require.NoError(t, err)
	assert.InDelta(t, -4.0, got, 1e-9)
}

func TestMinEigenvalueYY(t *testing.T) {
	// XX + YY has eigenvalues {-2, 0, 0, 2}; YY is real.
	h := MustHamiltonian(
		Term{Coeff: 1, Paulis: "XX", Wires: []int{0, 1}},
		Term{Coeff: 1, Paulis: "YY", Wires: []int{0, 1}},
	)
	got, err := h.MinEigenvalue(2)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, got, 1e-9)
}

func TestMinEigenvalueErrors(t *testing.T) {
	h := MustHamiltonian(Term{Coeff: 1, Paulis: "Y", Wires: []int{0}})
	_, err := h.MinEigenvalue(1)
	assert.ErrorIs(t, err, ErrComplexHamiltonian)

	_, err = coverHamiltonian().MinEigenvalue(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside 3 wires")
}

func TestHamiltonianString(t *testing.T) {
	h := MustHamiltonian(
		Term{Coeff: 0.5, Paulis: "Z", Wires: []int{0}},
		Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{0, 1}},
	)
	assert.Equal(t, "0.5*Z0 + 0.75*Z0Z1", h.String())
}

func TestApproxTimeEvolutionRecordsHamiltonianWires(t *testing.T) {
	h := MustHamiltonian(Term{Coeff: 1, Paulis: "ZZ", Wires: []int{2, 3}})
	tape := NewTape().ApproxTimeEvolution(h, 0.3)
	op := tape.Ops()[0]
	assert.Equal(t, ApproxTimeEvolution, op.Name)
	assert.Equal(t, []int{2, 3}, op.Wires)
	assert.Equal(t, []float64{0.3}, op.Params)
	assert.Same(t, h, op.Hamiltonian)
	require.NoError(t, op.Validate())
}
