package sim

// view addresses a strided vector inside a larger buffer: element i lives
// at data[start+i*stride]. A state vector is a view with stride 1; the
// columns and rows of a density matrix are views with stride dim and 1.
type view struct {
	data   []complex128
	start  int
	stride int
}

func (v view) at(i int) complex128 {
	return v.data[v.start+i*v.stride]
}

func (v view) set(i int, x complex128) {
	v.data[v.start+i*v.stride] = x
}

// matrix is a dense square matrix stored row-major.
type matrix struct {
	dim  int
	data []complex128
}

func newMatrix(rows [][]complex128) *matrix {
	m := &matrix{dim: len(rows), data: make([]complex128, 0, len(rows)*len(rows))}
	for _, row := range rows {
		m.data = append(m.data, row...)
	}
	return m
}

func (m *matrix) at(r, c int) complex128 {
	return m.data[r*m.dim+c]
}

func (m *matrix) conj() *matrix {
	out := &matrix{dim: m.dim, data: make([]complex128, len(m.data))}
	for i, x := range m.data {
		out.data[i] = complex(real(x), -imag(x))
	}
	return out
}

func (m *matrix) scale(s complex128) *matrix {
	out := &matrix{dim: m.dim, data: make([]complex128, len(m.data))}
	for i, x := range m.data {
		out.data[i] = s * x
	}
	return out
}

// wireBit returns the basis-index bit for wire on an nWires device.
func wireBit(nWires, wire int) int {
	return 1 << (nWires - 1 - wire)
}

// applyMatrix applies m to the wires of v. wires[0] is the most
// significant index of m.
func applyMatrix(v view, nWires int, m *matrix, wires []int) {
	k := len(wires)
	dim := 1 << k
	offsets := make([]int, dim)
	mask := 0
	for j, w := range wires {
		bit := wireBit(nWires, w)
		mask |= bit
		for s := 0; s < dim; s++ {
			if s>>(k-1-j)&1 == 1 {
				offsets[s] |= bit
			}
		}
	}

	in := make([]complex128, dim)
	size := 1 << nWires
	for base := 0; base < size; base++ {
		if base&mask != 0 {
			continue
		}
		for s := 0; s < dim; s++ {
			in[s] = v.at(base | offsets[s])
		}
		for r := 0; r < dim; r++ {
			row := m.data[r*dim : (r+1)*dim]
			var acc complex128
			for c, x := range in {
				acc += row[c] * x
			}
			v.set(base|offsets[r], acc)
		}
	}
}

// applyControlledX swaps the target bit of every basis state whose
// control bits are all set. With no controls it is PauliX.
func applyControlledX(v view, nWires int, controls []int, target int) {
	cmask := 0
	for _, c := range controls {
		cmask |= wireBit(nWires, c)
	}
	tbit := wireBit(nWires, target)
	size := 1 << nWires
	for i := 0; i < size; i++ {
		if i&cmask == cmask && i&tbit == 0 {
			j := i | tbit
			a, b := v.at(i), v.at(j)
			v.set(i, b)
			v.set(j, a)
		}
	}
}
