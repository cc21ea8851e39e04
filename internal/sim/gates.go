package sim

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/roach88/qkata/internal/circuit"
)

// unitary is one resolved step. Either m is set (dense matrix on wires)
// or the step is a controlled X with the given controls and target.
type unitary struct {
	m        *matrix
	wires    []int
	controls []int
	target   int
}

// apply runs the step on v. With conj set the conjugate matrix is used,
// which is how the right-hand side of U rho U^dagger is applied row-wise.
func (u unitary) apply(v view, nWires int, conj bool) {
	if u.m == nil {
		applyControlledX(v, nWires, u.controls, u.target)
		return
	}
	m := u.m
	if conj {
		m = m.conj()
	}
	applyMatrix(v, nWires, m, u.wires)
}

var (
	pauliY   = newMatrix([][]complex128{{0, -1i}, {1i, 0}})
	pauliZ   = newMatrix([][]complex128{{1, 0}, {0, -1}})
	hadamard = newMatrix([][]complex128{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	})
)

// resolve turns a unitary op into the steps that implement it.
func resolve(op circuit.Op) ([]unitary, error) {
	switch op.Name {
	case circuit.PauliX:
		return []unitary{{target: op.Wires[0]}}, nil
	case circuit.CNOT, circuit.Toffoli, circuit.MultiControlledX:
		n := len(op.Wires)
		return []unitary{{controls: op.Wires[:n-1], target: op.Wires[n-1]}}, nil
	case circuit.PauliY:
		return dense(pauliY, op.Wires), nil
	case circuit.PauliZ:
		return dense(pauliZ, op.Wires), nil
	case circuit.Hadamard:
		return dense(hadamard, op.Wires), nil
	case circuit.RX:
		c, s := halfAngle(op.Params[0])
		return dense(newMatrix([][]complex128{
			{c, -1i * s},
			{-1i * s, c},
		}), op.Wires), nil
	case circuit.RY:
		c, s := halfAngle(op.Params[0])
		return dense(newMatrix([][]complex128{
			{c, -s},
			{s, c},
		}), op.Wires), nil
	case circuit.RZ:
		phi := op.Params[0]
		return dense(newMatrix([][]complex128{
			{cmplx.Exp(complex(0, -phi/2)), 0},
			{0, cmplx.Exp(complex(0, phi/2))},
		}), op.Wires), nil
	case circuit.PhaseShift:
		return dense(newMatrix([][]complex128{
			{1, 0},
			{0, cmplx.Exp(complex(0, op.Params[0]))},
		}), op.Wires), nil
	case circuit.QFT:
		return dense(fourier(len(op.Wires), false), op.Wires), nil
	case circuit.AdjointQFT:
		return dense(fourier(len(op.Wires), true), op.Wires), nil
	case circuit.QubitUnitary:
		return dense(newMatrix(op.Matrix), op.Wires), nil
	case circuit.ApproxTimeEvolution:
		return trotterStep(op.Hamiltonian, op.Params[0]), nil
	}
	return nil, fmt.Errorf("%s: not a unitary op", op.Name)
}

func dense(m *matrix, wires []int) []unitary {
	return []unitary{{m: m, wires: wires}}
}

func halfAngle(theta float64) (c, s complex128) {
	return complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
}

// fourier builds the k-wire QFT matrix F[r][c] = w^(rc)/sqrt(N),
// w = exp(2 pi i / N), or its adjoint.
func fourier(k int, adjoint bool) *matrix {
	n := 1 << k
	sign := 1.0
	if adjoint {
		sign = -1
	}
	norm := complex(1/math.Sqrt(float64(n)), 0)
	m := &matrix{dim: n, data: make([]complex128, n*n)}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			angle := sign * 2 * math.Pi * float64((r*c)%n) / float64(n)
			m.data[r*n+c] = norm * cmplx.Exp(complex(0, angle))
		}
	}
	return m
}

// trotterStep returns exp(-i t c P) for every term of h, in term order.
// Each factor is cos(tc) I - i sin(tc) P on the term's wires.
func trotterStep(h *circuit.Hamiltonian, t float64) []unitary {
	steps := make([]unitary, 0, len(h.Terms))
	for _, term := range h.Terms {
		k := len(term.Wires)
		if k == 0 {
			// Identity term: a global phase only.
			continue
		}
		local := circuit.Term{Coeff: term.Coeff, Paulis: term.Paulis, Wires: make([]int, k)}
		for i := range local.Wires {
			local.Wires[i] = i
		}
		angle := t * term.Coeff
		cos := complex(math.Cos(angle), 0)
		sin := complex(math.Sin(angle), 0)
		dim := 1 << k
		m := &matrix{dim: dim, data: make([]complex128, dim*dim)}
		for i := 0; i < dim; i++ {
			m.data[i*dim+i] += cos
			j, phase := local.Apply(i, k)
			m.data[j*dim+i] += -1i * sin * phase
		}
		steps = append(steps, unitary{m: m, wires: term.Wires})
	}
	return steps
}

// depolarizingKraus returns the Kraus operators of the single-qubit
// depolarizing channel with probability p.
func depolarizingKraus(p float64) []*matrix {
	identity := newMatrix([][]complex128{{1, 0}, {0, 1}})
	pauliX := newMatrix([][]complex128{{0, 1}, {1, 0}})
	keep := complex(math.Sqrt(1-p), 0)
	flip := complex(math.Sqrt(p/3), 0)
	return []*matrix{
		identity.scale(keep),
		pauliX.scale(flip),
		pauliY.scale(flip),
		pauliZ.scale(flip),
	}
}
