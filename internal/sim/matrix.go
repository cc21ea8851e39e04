package sim

import (
	"context"
	"fmt"

	"github.com/roach88/qkata/internal/circuit"
)

// Matrix returns the unitary implemented by tape on nWires qubits.
// Column j is the state reached from |j>.
func Matrix(ctx context.Context, tape *circuit.Tape, nWires int) ([][]complex128, error) {
	if tape.HasChannels() {
		return nil, fmt.Errorf("matrix of a noisy tape: %w", ErrChannelOnPureState)
	}
	dim := 1 << nWires
	out := make([][]complex128, dim)
	for r := range out {
		out[r] = make([]complex128, dim)
	}
	for j := 0; j < dim; j++ {
		dev, err := NewStateVector(nWires)
		if err != nil {
			return nil, err
		}
		if err := dev.SetBasisState(j); err != nil {
			return nil, err
		}
		if err := dev.Run(ctx, tape); err != nil {
			return nil, fmt.Errorf("column %d: %w", j, err)
		}
		for r, a := range dev.Amplitudes() {
			out[r][j] = a
		}
	}
	return out, nil
}
