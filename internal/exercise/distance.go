package exercise

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/roach88/qkata/internal/circuit"
	"github.com/roach88/qkata/internal/sim"
	"github.com/roach88/qkata/internal/verify"
)

// Distance oracle wire layout.
const (
	oracleWires = 11
	phaseWire   = 9
	carryWire   = 10
	registerMax = 8
)

var (
	firstRegister  = []int{0, 1, 2}
	secondRegister = []int{3, 4, 5}
	equalityFlags  = []int{6, 7, 8}
)

// DistanceOracle flips the phase of |m>|n> exactly when |m - n| = d for
// three-bit registers m and n.
type DistanceOracle struct{}

func (*DistanceOracle) Name() string { return "distance-oracle" }

func (*DistanceOracle) Description() string {
	return "phase oracle marking register pairs at exact distance d"
}

// OracleTape returns the oracle for distance d. It uses only QFT,
// PhaseShift, PauliX, Hadamard, Toffoli and MultiControlledX.
func OracleTape(d int) *circuit.Tape {
	t := circuit.NewTape()
	t.X(phaseWire).H(phaseWire)
	markShifted(t, firstRegister, secondRegister, d)
	if d != 0 {
		markShifted(t, secondRegister, firstRegister, d)
	}
	t.H(phaseWire).X(phaseWire)
	return t
}

// markShifted flips the phase when src + d == other with no overflow.
// The carry wire extends src to four bits so m + d never wraps.
func markShifted(t *circuit.Tape, src, other []int, d int) {
	register := append([]int{carryWire}, src...)
	fourierAdd(t, register, d)
	compareRegisters(t, src, other)
	t.X(carryWire)
	t.MultiControlledX(append(slices.Clone(equalityFlags), carryWire), phaseWire)
	t.X(carryWire)
	compareRegisters(t, src, other)
	fourierAdd(t, register, -d)
}

// fourierAdd adds d modulo 2^len(register); register[0] is the MSB.
func fourierAdd(t *circuit.Tape, register []int, d int) {
	t.QFT(register...)
	for j, w := range register {
		t.PhaseShift(float64(d)*math.Pi/float64(int(1)<<j), w)
	}
	t.AdjointQFT(register...)
}

// compareRegisters toggles equalityFlags[i] when a[i] == b[i]. It is its
// own inverse.
func compareRegisters(t *circuit.Tape, a, b []int) {
	for i := range a {
		t.Toffoli(a[i], b[i], equalityFlags[i])
	}
	for i := range a {
		t.X(a[i]).X(b[i])
	}
	for i := range a {
		t.Toffoli(a[i], b[i], equalityFlags[i])
	}
	for i := range a {
		t.X(a[i]).X(b[i])
	}
}

// DistanceCircuit prepares |first>|second> and applies the oracle.
func DistanceCircuit(first, second, d int) (*circuit.Tape, error) {
	t := circuit.NewTape()
	if err := t.BasisEmbedding(first, firstRegister...); err != nil {
		return nil, err
	}
	if err := t.BasisEmbedding(second, secondRegister...); err != nil {
		return nil, err
	}
	return t.Extend(OracleTape(d)), nil
}

// Evaluate runs DistanceCircuit on a fresh device and returns the sum of
// the real parts of the final state: -1 when marked, +1 otherwise.
func (*DistanceOracle) Evaluate(ctx context.Context, first, second, d int) (float64, error) {
	tape, err := DistanceCircuit(first, second, d)
	if err != nil {
		return 0, err
	}
	dev, err := sim.NewStateVector(oracleWires)
	if err != nil {
		return 0, err
	}
	if err := dev.Run(ctx, tape); err != nil {
		return 0, err
	}
	var sum float64
	for _, a := range dev.Amplitudes() {
		sum += real(a)
	}
	return sum, nil
}

// Run evaluates every register pair for distance d and returns the 64
// sums followed by d as a JSON list.
func (o *DistanceOracle) Run(ctx context.Context, input string) (string, error) {
	d, err := parseDistance(input)
	if err != nil {
		return "", err
	}
	out := make([]any, 0, registerMax*registerMax+1)
	for n := 0; n < registerMax; n++ {
		for m := 0; m < registerMax; m++ {
			v, err := o.Evaluate(ctx, n, m, d)
			if err != nil {
				return "", fmt.Errorf("circuit(%d, %d, %d): %w", n, m, d, err)
			}
			out = append(out, v)
		}
	}
	out = append(out, d)
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Check verifies the sign pattern, the expected literal, and that the
// oracle is built without custom unitaries.
func (o *DistanceOracle) Check(ctx context.Context, output, expected string) error {
	var vals []float64
	if err := json.Unmarshal([]byte(output), &vals); err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	if len(vals) != registerMax*registerMax+1 {
		return &verify.AssertionError{
			Type:     verify.TypeAllClose,
			Expected: fmt.Sprintf("%d values", registerMax*registerMax+1),
			Actual:   fmt.Sprintf("%d values", len(vals)),
		}
	}
	d, err := asInt("distance", vals[len(vals)-1])
	if err != nil {
		return err
	}
	if err := verify.Equal(expected, NoOutput); err != nil {
		return err
	}

	marked := make([]bool, 0, registerMax*registerMax)
	for n := 0; n < registerMax; n++ {
		for m := 0; m < registerMax; m++ {
			marked = append(marked, abs(n-m) == d)
		}
	}
	if err := verify.CloseToSign(vals[:len(vals)-1], marked); err != nil {
		return err
	}

	sample, err := o.Tape(ctx, fmt.Sprint(d))
	if err != nil {
		return err
	}
	return verify.GateAbsent(sample, circuit.QubitUnitary)
}

// Tape returns the circuit for the pair (0, d) at distance d.
func (*DistanceOracle) Tape(_ context.Context, input string) (*circuit.Tape, error) {
	d, err := parseDistance(input)
	if err != nil {
		return nil, err
	}
	return DistanceCircuit(0, d, d)
}

func parseDistance(input string) (int, error) {
	v, err := parseFloat(input)
	if err != nil {
		return 0, err
	}
	d, err := asInt("distance", v)
	if err != nil {
		return 0, err
	}
	if d < 0 || d >= registerMax {
		return 0, fmt.Errorf("%w: distance %d outside [0, %d)", ErrInvalidInput, d, registerMax)
	}
	return d, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
