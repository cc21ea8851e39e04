package circuit

import (
	"fmt"
	"slices"
)

// X records PauliX on wire.
func (t *Tape) X(wire int) *Tape {
	return t.Append(Op{Name: PauliX, Wires: []int{wire}})
}

// Y records PauliY on wire.
func (t *Tape) Y(wire int) *Tape {
	return t.Append(Op{Name: PauliY, Wires: []int{wire}})
}

// Z records PauliZ on wire.
func (t *Tape) Z(wire int) *Tape {
	return t.Append(Op{Name: PauliZ, Wires: []int{wire}})
}

// H records Hadamard on wire.
func (t *Tape) H(wire int) *Tape {
	return t.Append(Op{Name: Hadamard, Wires: []int{wire}})
}

// RX records an X rotation by theta on wire.
func (t *Tape) RX(theta float64, wire int) *Tape {
	return t.Append(Op{Name: RX, Wires: []int{wire}, Params: []float64{theta}})
}

// RY records a Y rotation by theta on wire.
func (t *Tape) RY(theta float64, wire int) *Tape {
	return t.Append(Op{Name: RY, Wires: []int{wire}, Params: []float64{theta}})
}

// RZ records a Z rotation by theta on wire.
func (t *Tape) RZ(theta float64, wire int) *Tape {
	return t.Append(Op{Name: RZ, Wires: []int{wire}, Params: []float64{theta}})
}

// PhaseShift records diag(1, e^{i phi}) on wire.
func (t *Tape) PhaseShift(phi float64, wire int) *Tape {
	return t.Append(Op{Name: PhaseShift, Wires: []int{wire}, Params: []float64{phi}})
}

// CNOT records a controlled-NOT.
func (t *Tape) CNOT(control, target int) *Tape {
	return t.Append(Op{Name: CNOT, Wires: []int{control, target}})
}

// Toffoli records a doubly controlled NOT.
func (t *Tape) Toffoli(c0, c1, target int) *Tape {
	return t.Append(Op{Name: Toffoli, Wires: []int{c0, c1, target}})
}

// MultiControlledX records a NOT on target controlled by every wire in
// controls being |1>.
func (t *Tape) MultiControlledX(controls []int, target int) *Tape {
	wires := append(slices.Clone(controls), target)
	return t.Append(Op{Name: MultiControlledX, Wires: wires})
}

// QFT records the quantum Fourier transform over wires (wires[0] is the
// most significant).
func (t *Tape) QFT(wires ...int) *Tape {
	return t.Append(Op{Name: QFT, Wires: slices.Clone(wires)})
}

// AdjointQFT records the inverse Fourier transform over wires.
func (t *Tape) AdjointQFT(wires ...int) *Tape {
	return t.Append(Op{Name: AdjointQFT, Wires: slices.Clone(wires)})
}

// QubitUnitary records an arbitrary matrix on wires. The matrix is copied
// and need not be unitary; projectors are allowed.
func (t *Tape) QubitUnitary(m [][]complex128, wires ...int) *Tape {
	cp := make([][]complex128, len(m))
	for i, row := range m {
		cp[i] = slices.Clone(row)
	}
	return t.Append(Op{Name: QubitUnitary, Wires: slices.Clone(wires), Matrix: cp})
}

// Depolarizing records a depolarizing channel with probability p on wire.
func (t *Tape) Depolarizing(p float64, wire int) *Tape {
	return t.Append(Op{Name: DepolarizingChannel, Wires: []int{wire}, Params: []float64{p}})
}

// ApproxTimeEvolution records a single Trotter step of exp(-i time h).
func (t *Tape) ApproxTimeEvolution(h *Hamiltonian, time float64) *Tape {
	return t.Append(Op{
		Name:        ApproxTimeEvolution,
		Wires:       h.Wires(),
		Params:      []float64{time},
		Hamiltonian: h,
	})
}

// BasisEmbedding flips the wires needed to encode value in binary, with
// wires[0] holding the most significant bit.
func (t *Tape) BasisEmbedding(value int, wires ...int) error {
	if value < 0 || value >= 1<<len(wires) {
		return fmt.Errorf("basis embedding: %d does not fit in %d wires", value, len(wires))
	}
	for i, w := range wires {
		if value>>(len(wires)-1-i)&1 == 1 {
			t.X(w)
		}
	}
	return nil
}
