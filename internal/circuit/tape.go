package circuit

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/qkata/internal/canon"
)

// Tape is an ordered instruction list. The zero value is an empty tape.
type Tape struct {
	ops []Op
}

// NewTape returns an empty tape.
func NewTape() *Tape {
	return &Tape{}
}

// Append adds ops to the end of the tape.
func (t *Tape) Append(ops ...Op) *Tape {
	t.ops = append(t.ops, ops...)
	return t
}

// Extend appends every op of other.
func (t *Tape) Extend(other *Tape) *Tape {
	t.ops = append(t.ops, other.ops...)
	return t
}

// Ops returns a copy of the recorded ops.
func (t *Tape) Ops() []Op {
	return slices.Clone(t.ops)
}

// Len returns the number of ops.
func (t *Tape) Len() int {
	return len(t.ops)
}

// Names returns op names in tape order.
func (t *Tape) Names() []string {
	names := make([]string, len(t.ops))
	for i, op := range t.ops {
		names[i] = op.Name
	}
	return names
}

// Count returns how many ops are named name.
func (t *Tape) Count(name string) int {
	n := 0
	for _, op := range t.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// NameSet returns the distinct op names, sorted.
func (t *Tape) NameSet() []string {
	set := make(map[string]struct{})
	for _, op := range t.ops {
		set[op.Name] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaxWire returns the highest wire index used, or -1 for an empty tape.
func (t *Tape) MaxWire() int {
	maxWire := -1
	for _, op := range t.ops {
		for _, w := range op.Wires {
			maxWire = max(maxWire, w)
		}
	}
	return maxWire
}

// Validate checks every op and that no wire exceeds nWires.
func (t *Tape) Validate(nWires int) error {
	for i, op := range t.ops {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		for _, w := range op.Wires {
			if w >= nWires {
				return fmt.Errorf("op %d: %s: wire %d outside device of %d wires", i, op.Name, w, nWires)
			}
		}
	}
	return nil
}

// HasChannels reports whether any op is a noise channel.
func (t *Tape) HasChannels() bool {
	return slices.ContainsFunc(t.ops, Op.IsChannel)
}

// Render writes one line per op: NAME(p1, p2) [w0 w1].
func (t *Tape) Render(w io.Writer) error {
	for _, op := range t.ops {
		if _, err := fmt.Fprintln(w, renderOp(op)); err != nil {
			return err
		}
	}
	return nil
}

// String renders the tape.
func (t *Tape) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

func renderOp(op Op) string {
	var sb strings.Builder
	sb.WriteString(op.Name)
	if len(op.Params) > 0 {
		sb.WriteByte('(')
		for i, p := range op.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%.4f", p)
		}
		sb.WriteByte(')')
	}
	sb.WriteString(" [")
	for i, w := range op.Wires {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(w))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Fingerprint returns a content hash of the tape. Two tapes with the same
// ops, wires, params (to 12 significant digits), matrices and Hamiltonians
// share a fingerprint.
func (t *Tape) Fingerprint() string {
	ops := make([]any, len(t.ops))
	for i, op := range t.ops {
		rec := map[string]any{
			"name":  op.Name,
			"wires": slices.Clone(op.Wires),
		}
		if len(op.Params) > 0 {
			rec["params"] = formatFloats(op.Params)
		}
		if op.Matrix != nil {
			rows := make([]any, len(op.Matrix))
			for r, row := range op.Matrix {
				cells := make([]string, len(row))
				for c, v := range row {
					cells[c] = strconv.FormatComplex(v, 'g', 12, 128)
				}
				rows[r] = cells
			}
			rec["matrix"] = rows
		}
		if op.Hamiltonian != nil {
			rec["hamiltonian"] = op.Hamiltonian.String()
		}
		ops[i] = rec
	}
	return canon.MustHash(canon.DomainTape, map[string]any{"ops": ops})
}

func formatFloats(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.FormatFloat(v, 'g', 12, 64)
	}
	return out
}
