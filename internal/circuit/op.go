package circuit

import "fmt"

// Gate and channel names recorded on the tape.
const (
	PauliX              = "PauliX"
	PauliY              = "PauliY"
	PauliZ              = "PauliZ"
	Hadamard            = "Hadamard"
	RX                  = "RX"
	RY                  = "RY"
	RZ                  = "RZ"
	PhaseShift          = "PhaseShift"
	CNOT                = "CNOT"
	Toffoli             = "Toffoli"
	MultiControlledX    = "MultiControlledX"
	QFT                 = "QFT"
	AdjointQFT          = "Adjoint(QFT)"
	QubitUnitary        = "QubitUnitary"
	DepolarizingChannel = "DepolarizingChannel"
	ApproxTimeEvolution = "ApproxTimeEvolution"
)

// Op is one tagged record on an instruction tape.
type Op struct {
	Name   string
	Wires  []int
	Params []float64

	// Matrix is set for QubitUnitary only.
	Matrix [][]complex128

	// Hamiltonian is set for ApproxTimeEvolution only; Params[0] is the
	// evolution time.
	Hamiltonian *Hamiltonian
}

// arity describes how many wires and params an op takes.
// A wires value of -1 means "at least minWires".
type arity struct {
	wires    int
	minWires int
	params   int
}

var arities = map[string]arity{
	PauliX:              {wires: 1},
	PauliY:              {wires: 1},
	PauliZ:              {wires: 1},
	Hadamard:            {wires: 1},
	RX:                  {wires: 1, params: 1},
	RY:                  {wires: 1, params: 1},
	RZ:                  {wires: 1, params: 1},
	PhaseShift:          {wires: 1, params: 1},
	CNOT:                {wires: 2},
	Toffoli:             {wires: 3},
	MultiControlledX:    {wires: -1, minWires: 2},
	QFT:                 {wires: -1, minWires: 1},
	AdjointQFT:          {wires: -1, minWires: 1},
	QubitUnitary:        {wires: -1, minWires: 1},
	DepolarizingChannel: {wires: 1, params: 1},
	ApproxTimeEvolution: {wires: -1, minWires: 0, params: 1},
}

// Validate checks wire and parameter counts for op.
func (op Op) Validate() error {
	a, ok := arities[op.Name]
	if !ok {
		return fmt.Errorf("unknown op %q", op.Name)
	}
	if a.wires >= 0 && len(op.Wires) != a.wires {
		return fmt.Errorf("%s: expected %d wires, got %d", op.Name, a.wires, len(op.Wires))
	}
	if a.wires < 0 && len(op.Wires) < a.minWires {
		return fmt.Errorf("%s: expected at least %d wires, got %d", op.Name, a.minWires, len(op.Wires))
	}
	if len(op.Params) != a.params {
		return fmt.Errorf("%s: expected %d params, got %d", op.Name, a.params, len(op.Params))
	}
	seen := make(map[int]bool, len(op.Wires))
	for _, w := range op.Wires {
		if w < 0 {
			return fmt.Errorf("%s: negative wire %d", op.Name, w)
		}
		if seen[w] {
			return fmt.Errorf("%s: duplicate wire %d", op.Name, w)
		}
		seen[w] = true
	}

	switch op.Name {
	case QubitUnitary:
		dim := 1 << len(op.Wires)
		if len(op.Matrix) != dim {
			return fmt.Errorf("%s: matrix must be %dx%d for %d wires", op.Name, dim, dim, len(op.Wires))
		}
		for i, row := range op.Matrix {
			if len(row) != dim {
				return fmt.Errorf("%s: matrix row %d has %d columns, want %d", op.Name, i, len(row), dim)
			}
		}
	case ApproxTimeEvolution:
		if op.Hamiltonian == nil {
			return fmt.Errorf("%s: hamiltonian is required", op.Name)
		}
	case DepolarizingChannel:
		if p := op.Params[0]; p < 0 || p > 1 {
			return fmt.Errorf("%s: probability %v outside [0, 1]", op.Name, p)
		}
	}
	return nil
}

// IsChannel reports whether op is a non-unitary noise channel.
func (op Op) IsChannel() bool {
	return op.Name == DepolarizingChannel
}
