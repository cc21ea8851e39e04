package circuit

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrComplexHamiltonian is returned by MinEigenvalue when a term has an odd
// number of Y factors, making the matrix complex Hermitian.
var ErrComplexHamiltonian = errors.New("hamiltonian has complex matrix elements")

// Term is one weighted Pauli word, e.g. 0.75 * Z0 Z1 is
// Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{0, 1}}.
type Term struct {
	Coeff  float64
	Paulis string
	Wires  []int
}

// Hamiltonian is a weighted sum of Pauli words.
type Hamiltonian struct {
	Terms []Term
}

// NewHamiltonian builds a Hamiltonian and validates every term.
func NewHamiltonian(terms ...Term) (*Hamiltonian, error) {
	h := &Hamiltonian{Terms: terms}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// MustHamiltonian is like NewHamiltonian but panics on error.
func MustHamiltonian(terms ...Term) *Hamiltonian {
	h, err := NewHamiltonian(terms...)
	if err != nil {
		panic(err)
	}
	return h
}

// Validate checks that each word matches its wires and only uses I, X, Y, Z.
func (h *Hamiltonian) Validate() error {
	for i, term := range h.Terms {
		if len(term.Paulis) != len(term.Wires) {
			return fmt.Errorf("term %d: %d paulis for %d wires", i, len(term.Paulis), len(term.Wires))
		}
		seen := make(map[int]bool)
		for j, p := range term.Paulis {
			if !strings.ContainsRune("IXYZ", p) {
				return fmt.Errorf("term %d: unknown pauli %q", i, p)
			}
			w := term.Wires[j]
			if w < 0 || seen[w] {
				return fmt.Errorf("term %d: invalid or repeated wire %d", i, w)
			}
			seen[w] = true
		}
	}
	return nil
}

// Wires returns the sorted set of wires any term acts on.
func (h *Hamiltonian) Wires() []int {
	set := make(map[int]struct{})
	for _, term := range h.Terms {
		for _, w := range term.Wires {
			set[w] = struct{}{}
		}
	}
	wires := make([]int, 0, len(set))
	for w := range set {
		wires = append(wires, w)
	}
	sort.Ints(wires)
	return wires
}

// IsDiagonal reports whether every term is built from I and Z only.
func (h *Hamiltonian) IsDiagonal() bool {
	for _, term := range h.Terms {
		if strings.ContainsAny(term.Paulis, "XY") {
			return false
		}
	}
	return true
}

// Apply computes P|i> = phase |j> for the term's Pauli word on an
// nWires-qubit basis state i.
func (term Term) Apply(i, nWires int) (j int, phase complex128) {
	j, phase = i, 1
	for k, p := range term.Paulis {
		bit := 1 << (nWires - 1 - term.Wires[k])
		set := i&bit != 0
		switch p {
		case 'X':
			j ^= bit
		case 'Y':
			j ^= bit
			if set {
				phase *= -1i
			} else {
				phase *= 1i
			}
		case 'Z':
			if set {
				phase = -phase
			}
		}
	}
	return j, phase
}

// Diagonal returns the energy of every basis state of an nWires system.
// Only valid when IsDiagonal is true.
func (h *Hamiltonian) Diagonal(nWires int) []float64 {
	energies := make([]float64, 1<<nWires)
	for i := range energies {
		for _, term := range h.Terms {
			_, phase := term.Apply(i, nWires)
			energies[i] += term.Coeff * real(phase)
		}
	}
	return energies
}

// MinEigenvalue returns the ground-state energy on nWires qubits.
// Diagonal Hamiltonians are enumerated directly; real non-diagonal ones
// are diagonalised with a symmetric eigensolver.
func (h *Hamiltonian) MinEigenvalue(nWires int) (float64, error) {
	if w := h.Wires(); len(w) > 0 && w[len(w)-1] >= nWires {
		return 0, fmt.Errorf("hamiltonian acts on wire %d outside %d wires", w[len(w)-1], nWires)
	}
	if h.IsDiagonal() {
		lowest := math.Inf(1)
		for _, e := range h.Diagonal(nWires) {
			lowest = min(lowest, e)
		}
		return lowest, nil
	}

	dim := 1 << nWires
	data := make([]float64, dim*dim)
	for _, term := range h.Terms {
		if strings.Count(term.Paulis, "Y")%2 == 1 {
			return 0, ErrComplexHamiltonian
		}
		for i := 0; i < dim; i++ {
			j, phase := term.Apply(i, nWires)
			data[j*dim+i] += term.Coeff * real(phase)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(mat.NewSymDense(dim, data), false); !ok {
		return 0, fmt.Errorf("eigendecomposition did not converge")
	}
	vals := eig.Values(nil)
	lowest := math.Inf(1)
	for _, v := range vals {
		lowest = min(lowest, v)
	}
	return lowest, nil
}

// String renders the Hamiltonian as "0.5*Z0 + 0.75*Z0Z1".
func (h *Hamiltonian) String() string {
	parts := make([]string, len(h.Terms))
	for i, term := range h.Terms {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%g*", term.Coeff)
		for k, p := range term.Paulis {
			fmt.Fprintf(&sb, "%c%d", p, term.Wires[k])
		}
		parts[i] = sb.String()
	}
	return strings.Join(parts, " + ")
}
