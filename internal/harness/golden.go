package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/qkata/internal/canon"
)

// Snapshot renders r as canonical JSON for golden comparison.
func Snapshot(r *Result) ([]byte, error) {
	outcomes := make([]any, len(r.Outcomes))
	for i, o := range r.Outcomes {
		m := map[string]any{
			"index":    o.Index,
			"input":    o.Input,
			"expected": o.Expected,
			"verdict":  string(o.Verdict),
			"seq":      o.Seq,
		}
		if o.Output != "" {
			m["output"] = o.Output
		}
		if o.Message != "" {
			m["message"] = o.Message
		}
		outcomes[i] = m
	}
	return canon.Marshal(map[string]any{
		"scenario":      r.Scenario,
		"exercise":      r.Exercise,
		"scenario_hash": r.ScenarioHash,
		"pass":          r.Pass,
		"passed":        r.Passed,
		"failed":        r.Failed,
		"outcomes":      outcomes,
	})
}

// AssertGolden compares data against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

// RunWithGolden runs scenario and compares its snapshot against the
// golden file named after the scenario.
func RunWithGolden(t *testing.T, scenario *Scenario, runner Runner) (*Result, error) {
	t.Helper()
	result, err := Run(context.Background(), scenario, runner, Options{})
	if err != nil {
		return nil, err
	}
	data, err := Snapshot(result)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, data)
	return result, nil
}
