package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/roach88/qkata/internal/circuit"
	"github.com/roach88/qkata/internal/optimize"
	"github.com/roach88/qkata/internal/sim"
	"github.com/roach88/qkata/internal/verify"
)

const qaoaWires = 4

// CoverHamiltonian is the minimum vertex cover cost for the graph with
// edges (0,1), (1,2), (2,0), (2,3). Its minimum eigenvalue is -3.
var CoverHamiltonian = circuit.MustHamiltonian(
	circuit.Term{Coeff: 0.5, Paulis: "Z", Wires: []int{0}},
	circuit.Term{Coeff: 0.5, Paulis: "Z", Wires: []int{1}},
	circuit.Term{Coeff: 1.25, Paulis: "Z", Wires: []int{2}},
	circuit.Term{Coeff: -0.25, Paulis: "Z", Wires: []int{3}},
	circuit.Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{0, 1}},
	circuit.Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{0, 2}},
	circuit.Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{1, 2}},
	circuit.Term{Coeff: 0.75, Paulis: "ZZ", Wires: []int{2, 3}},
)

// MixerHamiltonian is the sum of X on every wire.
var MixerHamiltonian = circuit.MustHamiltonian(
	circuit.Term{Coeff: 1, Paulis: "X", Wires: []int{0}},
	circuit.Term{Coeff: 1, Paulis: "X", Wires: []int{1}},
	circuit.Term{Coeff: 1, Paulis: "X", Wires: []int{2}},
	circuit.Term{Coeff: 1, Paulis: "X", Wires: []int{3}},
)

// NativeGates is the exact gate set of a noisy QAOA tape.
var NativeGates = []string{
	circuit.DepolarizingChannel,
	circuit.RX,
	circuit.RY,
	circuit.RZ,
	circuit.CNOT,
}

// NoisyQAOA optimizes a QAOA circuit compiled to native gates with
// depolarizing noise after every CNOT.
type NoisyQAOA struct {
	opts Options
}

// NewNoisyQAOA returns the exercise with opts applied.
func NewNoisyQAOA(opts Options) *NoisyQAOA {
	return &NoisyQAOA{opts: opts.withDefaults()}
}

func (*NoisyQAOA) Name() string { return "noisy-qaoa" }

func (*NoisyQAOA) Description() string {
	return "approximation ratio of QAOA for minimum vertex cover under depolarizing noise"
}

// NoisyTape compiles len(params)/2 QAOA layers, params laid out as
// [gamma0, alpha0, gamma1, alpha1, ...]. A DepolarizingChannel with
// probability p follows every CNOT on its target wire.
func NoisyTape(params []float64, p float64) *circuit.Tape {
	t := circuit.NewTape()
	for w := 0; w < qaoaWires; w++ {
		t.RY(math.Pi/2, w)
	}
	for l := 0; l+1 < len(params); l += 2 {
		gamma, alpha := params[l], params[l+1]
		for _, term := range CoverHamiltonian.Terms {
			angle := 2 * gamma * term.Coeff
			switch len(term.Wires) {
			case 1:
				t.RZ(angle, term.Wires[0])
			case 2:
				a, b := term.Wires[0], term.Wires[1]
				t.CNOT(a, b).Depolarizing(p, b)
				t.RZ(angle, b)
				t.CNOT(a, b).Depolarizing(p, b)
			}
		}
		for w := 0; w < qaoaWires; w++ {
			t.RX(2*alpha, w)
		}
	}
	return t
}

// NoiselessTape is the reference circuit built from Hadamards and
// ApproxTimeEvolution.
func NoiselessTape(params []float64) *circuit.Tape {
	t := circuit.NewTape()
	for w := 0; w < qaoaWires; w++ {
		t.H(w)
	}
	for l := 0; l+1 < len(params); l += 2 {
		t.ApproxTimeEvolution(CoverHamiltonian, params[l])
		t.ApproxTimeEvolution(MixerHamiltonian, params[l+1])
	}
	return t
}

// NoisyExpval returns <H_cost> after NoisyTape on a fresh density matrix.
func NoisyExpval(ctx context.Context, params []float64, p float64) (float64, error) {
	dev, err := sim.NewDensityMatrix(qaoaWires)
	if err != nil {
		return 0, err
	}
	if err := dev.Run(ctx, NoisyTape(params, p)); err != nil {
		return 0, err
	}
	return dev.Expval(CoverHamiltonian)
}

// NoiselessExpval returns <H_cost> after NoiselessTape on a fresh state
// vector.
func NoiselessExpval(ctx context.Context, params []float64) (float64, error) {
	dev, err := sim.NewStateVector(qaoaWires)
	if err != nil {
		return 0, err
	}
	if err := dev.Run(ctx, NoiselessTape(params)); err != nil {
		return 0, err
	}
	return dev.Expval(CoverHamiltonian)
}

// ApproximationRatio optimizes depth layers at noise p and returns the
// best noisy expectation divided by the true minimum.
func (q *NoisyQAOA) ApproximationRatio(ctx context.Context, depth int, p float64) (float64, error) {
	trueMin, err := CoverHamiltonian.MinEigenvalue(qaoaWires)
	if err != nil {
		return 0, err
	}

	rng := q.source()
	gd := optimize.GradientDescent{StepSize: q.opts.StepSize}
	cost := func(ctx context.Context, params []float64) (float64, error) {
		return NoisyExpval(ctx, params, p)
	}

	best := math.Inf(1)
	for r := 0; r < q.opts.Restarts; r++ {
		start := make([]float64, 2*depth)
		for i := range start {
			start[i] = rng.NormFloat64()
		}
		_, final, err := gd.Minimize(ctx, cost, start, q.opts.Steps)
		if err != nil {
			return 0, fmt.Errorf("restart %d: %w", r, err)
		}
		q.opts.Logger.Debug("qaoa restart finished",
			slog.Int("restart", r),
			slog.Int("depth", depth),
			slog.Float64("noise", p),
			slog.Float64("expval", final))
		best = min(best, final)
	}
	return best / trueMin, nil
}

func (q *NoisyQAOA) source() *rand.Rand {
	seed := q.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		q.opts.Logger.Info("qaoa seed chosen", slog.Uint64("seed", seed))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Run parses [depth, p] and returns the approximation ratio.
func (q *NoisyQAOA) Run(ctx context.Context, input string) (string, error) {
	depth, p, err := parseQAOAInput(input)
	if err != nil {
		return "", err
	}
	ratio, err := q.ApproximationRatio(ctx, depth, p)
	if err != nil {
		return "", err
	}
	return formatFloat(ratio), nil
}

// Check confirms the noisy circuit matches the reference at zero noise,
// that it is compiled to native gates, and that the ratio clears
// expected - 0.02.
func (q *NoisyQAOA) Check(ctx context.Context, output, expected string) error {
	have, err := parseFloat(output)
	if err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	want, err := parseFloat(expected)
	if err != nil {
		return fmt.Errorf("decode expected: %w", err)
	}

	rng := q.source()
	params := []float64{rng.Float64(), rng.Float64()}
	noiseless, err := NoiselessExpval(ctx, params)
	if err != nil {
		return err
	}
	noisy, err := NoisyExpval(ctx, params, 0)
	if err != nil {
		return err
	}
	if err := verify.Close(noisy, noiseless, verify.DefaultRTol, verify.DefaultATol); err != nil {
		return err
	}

	tape := NoisyTape(params, 0)
	if err := verify.GateAbsent(tape, circuit.ApproxTimeEvolution); err != nil {
		return err
	}
	if err := verify.GateSetEquals(tape, NativeGates...); err != nil {
		return err
	}
	return verify.Greater(have, want-0.02)
}

// Tape returns the noisy tape for depth layers of unit parameters.
func (*NoisyQAOA) Tape(_ context.Context, input string) (*circuit.Tape, error) {
	depth, p, err := parseQAOAInput(input)
	if err != nil {
		return nil, err
	}
	params := make([]float64, 2*depth)
	for i := range params {
		params[i] = 1
	}
	return NoisyTape(params, p), nil
}

func parseQAOAInput(input string) (int, float64, error) {
	vals, err := decodeFloats(input, 2)
	if err != nil {
		return 0, 0, err
	}
	depth, err := asInt("depth", vals[0])
	if err != nil {
		return 0, 0, err
	}
	if depth < 1 {
		return 0, 0, fmt.Errorf("%w: depth must be positive, got %d", ErrInvalidInput, depth)
	}
	p := vals[1]
	if p < 0 || p > 1 {
		return 0, 0, fmt.Errorf("%w: noise %v outside [0, 1]", ErrInvalidInput, p)
	}
	return depth, p, nil
}
