package sim

import (
	"context"
	"fmt"

	"github.com/roach88/qkata/internal/circuit"
)

// DensityMatrix is a mixed-state device. rho is stored row-major.
type DensityMatrix struct {
	nWires int
	dim    int
	rho    []complex128
}

// NewDensityMatrix returns a device of nWires qubits in |0...0><0...0|.
func NewDensityMatrix(nWires int) (*DensityMatrix, error) {
	if nWires < 1 || nWires > MaxDensityWires {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyWires, nWires, MaxDensityWires)
	}
	dim := 1 << nWires
	rho := make([]complex128, dim*dim)
	rho[0] = 1
	return &DensityMatrix{nWires: nWires, dim: dim, rho: rho}, nil
}

// Wires returns the number of qubits.
func (d *DensityMatrix) Wires() int {
	return d.nWires
}

// Run applies every op of tape in order.
func (d *DensityMatrix) Run(ctx context.Context, tape *circuit.Tape) error {
	for i, op := range tape.Ops() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkOp(op, d.nWires); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		if op.IsChannel() {
			d.applyKraus(depolarizingKraus(op.Params[0]), op.Wires)
			continue
		}
		steps, err := resolve(op)
		if err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		for _, u := range steps {
			d.conjugate(d.rho, u)
		}
	}
	return nil
}

// conjugate replaces rho with U rho U^dagger. U acts on every column,
// then conj(U) on every row.
func (d *DensityMatrix) conjugate(rho []complex128, u unitary) {
	for c := 0; c < d.dim; c++ {
		u.apply(view{data: rho, start: c, stride: d.dim}, d.nWires, false)
	}
	for r := 0; r < d.dim; r++ {
		u.apply(view{data: rho, start: r * d.dim, stride: 1}, d.nWires, true)
	}
}

// applyKraus replaces rho with sum_k K rho K^dagger.
func (d *DensityMatrix) applyKraus(ops []*matrix, wires []int) {
	out := make([]complex128, len(d.rho))
	scratch := make([]complex128, len(d.rho))
	for _, k := range ops {
		copy(scratch, d.rho)
		d.conjugate(scratch, unitary{m: k, wires: wires})
		for i, x := range scratch {
			out[i] += x
		}
	}
	d.rho = out
}

// Matrix returns a copy of rho as rows.
func (d *DensityMatrix) Matrix() [][]complex128 {
	out := make([][]complex128, d.dim)
	for r := range out {
		out[r] = make([]complex128, d.dim)
		copy(out[r], d.rho[r*d.dim:(r+1)*d.dim])
	}
	return out
}

// Trace returns Tr(rho).
func (d *DensityMatrix) Trace() complex128 {
	var tr complex128
	for i := 0; i < d.dim; i++ {
		tr += d.rho[i*d.dim+i]
	}
	return tr
}

// Probabilities returns the diagonal of rho.
func (d *DensityMatrix) Probabilities() []float64 {
	out := make([]float64, d.dim)
	for i := range out {
		out[i] = real(d.rho[i*d.dim+i])
	}
	return out
}

// Expval returns Tr(rho H).
func (d *DensityMatrix) Expval(h *circuit.Hamiltonian) (float64, error) {
	if err := checkHamiltonian(h, d.nWires); err != nil {
		return 0, err
	}
	var total float64
	for _, term := range h.Terms {
		var acc complex128
		for i := 0; i < d.dim; i++ {
			j, phase := term.Apply(i, d.nWires)
			acc += d.rho[i*d.dim+j] * phase
		}
		total += term.Coeff * real(acc)
	}
	return total, nil
}
