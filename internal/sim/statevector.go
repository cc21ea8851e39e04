package sim

import (
	"context"
	"fmt"
	"math/cmplx"

	"github.com/roach88/qkata/internal/circuit"
)

// StateVector is a pure-state device.
type StateVector struct {
	nWires int
	amps   []complex128
}

// NewStateVector returns a device of nWires qubits in |0...0>.
func NewStateVector(nWires int) (*StateVector, error) {
	if nWires < 1 || nWires > MaxStateWires {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyWires, nWires, MaxStateWires)
	}
	amps := make([]complex128, 1<<nWires)
	amps[0] = 1
	return &StateVector{nWires: nWires, amps: amps}, nil
}

// Wires returns the number of qubits.
func (s *StateVector) Wires() int {
	return s.nWires
}

// SetBasisState resets the device to the computational basis state |i>.
func (s *StateVector) SetBasisState(i int) error {
	if i < 0 || i >= len(s.amps) {
		return fmt.Errorf("basis state %d outside %d-wire device", i, s.nWires)
	}
	clear(s.amps)
	s.amps[i] = 1
	return nil
}

// Run applies every op of tape in order.
func (s *StateVector) Run(ctx context.Context, tape *circuit.Tape) error {
	for i, op := range tape.Ops() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkOp(op, s.nWires); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		if op.IsChannel() {
			return fmt.Errorf("op %d: %s: %w", i, op.Name, ErrChannelOnPureState)
		}
		steps, err := resolve(op)
		if err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		v := view{data: s.amps, stride: 1}
		for _, u := range steps {
			u.apply(v, s.nWires, false)
		}
	}
	return nil
}

// Amplitudes returns a copy of the state.
func (s *StateVector) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amps))
	copy(out, s.amps)
	return out
}

// Probabilities returns |amplitude|^2 for every basis state.
func (s *StateVector) Probabilities() []float64 {
	out := make([]float64, len(s.amps))
	for i, a := range s.amps {
		abs := cmplx.Abs(a)
		out[i] = abs * abs
	}
	return out
}

// Expval returns <psi|H|psi>.
func (s *StateVector) Expval(h *circuit.Hamiltonian) (float64, error) {
	if err := checkHamiltonian(h, s.nWires); err != nil {
		return 0, err
	}
	var total float64
	for _, term := range h.Terms {
		var acc complex128
		for i, a := range s.amps {
			if a == 0 {
				continue
			}
			j, phase := term.Apply(i, s.nWires)
			acc += cmplx.Conj(s.amps[j]) * phase * a
		}
		total += term.Coeff * real(acc)
	}
	return total, nil
}

func checkOp(op circuit.Op, nWires int) error {
	if err := op.Validate(); err != nil {
		return err
	}
	for _, w := range op.Wires {
		if w >= nWires {
			return fmt.Errorf("%s: wire %d on %d-wire device: %w", op.Name, w, nWires, ErrWireOutOfRange)
		}
	}
	if op.Hamiltonian != nil {
		return checkHamiltonian(op.Hamiltonian, nWires)
	}
	return nil
}

func checkHamiltonian(h *circuit.Hamiltonian, nWires int) error {
	if err := h.Validate(); err != nil {
		return err
	}
	for _, w := range h.Wires() {
		if w >= nWires {
			return fmt.Errorf("hamiltonian wire %d on %d-wire device: %w", w, nWires, ErrWireOutOfRange)
		}
	}
	return nil
}
