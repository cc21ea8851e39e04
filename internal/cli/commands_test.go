package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qkata/internal/exercise"
	"github.com/roach88/qkata/scenarios"
)

const passingScenario = `name: discrimination-pass
description: passes
exercise: state-discrimination
cases:
  - input: "[0, 0.7853981633974483, 0.25, 0.75]"
    expected: "0.8952847075210476"
`

const failingScenario = `name: discrimination-fail
description: second case has the wrong expectation
exercise: state-discrimination
cases:
  - input: "[0, 0.7853981633974483, 0.25, 0.75]"
    expected: "0.8952847075210476"
  - input: "[0, 0.7853981633974483, 0.25, 0.75]"
    expected: "0.5"
  - input: "[0, 1]"
    expected: "0.5"
`

func writeScenario(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	resp := CLIResponse{Data: data}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	for _, name := range exercise.Names() {
		assert.Contains(t, out, name)
	}
}

func TestListCommandJSON(t *testing.T) {
	out, err := execute(t, "list", "--format", "json")
	require.NoError(t, err)

	var infos []ExerciseInfo
	resp := decodeResponse(t, out, &infos)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, infos, 4)
	assert.Equal(t, "distance-oracle", infos[0].Name)
	assert.True(t, infos[0].HasTape)
	assert.False(t, infos[2].HasTape)
}

func TestRunCommand_UnknownExercise(t *testing.T) {
	_, err := execute(t, "run", "teleportation")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown exercise")
}

func TestRunCommand_Builtin(t *testing.T) {
	out, err := execute(t, "run", "state-discrimination", "schrodinger-cat", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 1")
	assert.Contains(t, out, "Running test case 0 with input")
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "PASS state-discrimination-public: 2 passed, 0 failed")
	assert.Contains(t, out, "All scenarios passed")
	assert.NotContains(t, out, "distance-oracle-public")
}

func TestRunCommand_BuiltinOrder(t *testing.T) {
	list, err := loadBuiltin(scenarios.FS, nil)
	require.NoError(t, err)
	got := make([]string, len(list))
	for i, l := range list {
		got[i] = l.scenario.Exercise
	}
	assert.Equal(t, exercise.Names(), got)
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandMixedVerdicts(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "pass.yaml", passingScenario)
	writeScenario(t, dir, "fail.yaml", failingScenario)

	out, err := execute(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result RunResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_SCENARIO_FAILED", resp.Error.Code)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)

	// Files are walked in lexical order: fail.yaml first.
	fail := result.Scenarios[0]
	assert.Equal(t, "discrimination-fail", fail.Name)
	require.Len(t, fail.Outcomes, 3)
	assert.Equal(t, "correct", string(fail.Outcomes[0].Verdict))
	assert.Equal(t, "wrong_answer", string(fail.Outcomes[1].Verdict))
	assert.Equal(t, "runtime_error", string(fail.Outcomes[2].Verdict))

	// Sequence numbers continue across scenarios.
	pass := result.Scenarios[1]
	assert.Equal(t, int64(4), pass.Outcomes[0].Seq)
}

func TestTestCommandLoadErrorContinues(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a-broken.yaml", "name: broken\nexercise: state-discrimination\nbogus: true\n")
	writeScenario(t, dir, "b-pass.yaml", passingScenario)

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ a-broken.yaml")
	assert.Contains(t, out, "PASS discrimination-pass")
	assert.Contains(t, out, "Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "pass.yaml", passingScenario)
	writeScenario(t, dir, "fail.yaml", failingScenario)

	out, err := execute(t, "test", dir, "--filter", "pass*")
	require.NoError(t, err)
	assert.Contains(t, out, "discrimination-pass")
	assert.NotContains(t, out, "discrimination-fail")
}

func TestTestCommandUnknownExercise(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "x.yaml", `name: nope
description: unknown
exercise: teleportation
cases:
  - input: "1"
    expected: "1"
`)
	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "unknown exercise")
}

func TestTapeCommand(t *testing.T) {
	out, err := execute(t, "tape", "distance-oracle", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Exercise: distance-oracle")
	assert.Contains(t, out, "Input: 3")
	assert.Contains(t, out, "Fingerprint: ")
	assert.NotContains(t, out, "QubitUnitary")
}

func TestTapeCommand_DefaultInputJSON(t *testing.T) {
	out, err := execute(t, "tape", "noisy-qaoa", "--format", "json")
	require.NoError(t, err)

	var result TapeResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "noisy-qaoa", result.Exercise)
	assert.NotEmpty(t, result.Input)
	assert.NotEmpty(t, result.Ops)
	assert.Contains(t, result.Gates, "DepolarizingChannel")
	assert.Len(t, result.Fingerprint, 64)
}

func TestTapeCommand_Errors(t *testing.T) {
	_, err := execute(t, "tape", "state-discrimination")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "builds no circuit tape")

	_, err = execute(t, "tape", "distance-oracle", "nine")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "tape", "teleportation")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryCommand_NeedsDB(t *testing.T) {
	_, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "history", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not found")
}

func TestRunRecordsHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "qkata.db")
	dir := t.TempDir()
	writeScenario(t, dir, "fail.yaml", failingScenario)

	_, err := execute(t, "test", dir, "--db", db, "--seed", "99")
	require.Error(t, err)

	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "#1 ")
	assert.Contains(t, out, "FAIL discrimination-fail (state-discrimination): 1 passed, 2 failed, seed 99")

	out, err = execute(t, "history", "--db", db, "--format", "json")
	require.NoError(t, err)
	var runs []struct {
		ID string `json:"id"`
	}
	decodeResponse(t, out, &runs)
	require.Len(t, runs, 1)

	out, err = execute(t, "history", "--db", db, runs[0].ID, "--format", "json")
	require.NoError(t, err)
	var detail RunDetail
	decodeResponse(t, out, &detail)
	assert.Equal(t, int64(1), detail.Seq)
	assert.Equal(t, uint64(99), detail.Seed)
	require.Len(t, detail.Outcomes, 3)
	assert.Equal(t, "wrong_answer", detail.Outcomes[1].Verdict)

	_, err = execute(t, "history", "--db", db, "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown run")
}

func TestTapeCommand_HelpExamplesRun(t *testing.T) {
	long := NewTapeCommand(&RootOptions{}).Long
	ran := 0
	for _, line := range strings.Split(long, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "qkata tape ") {
			continue
		}
		args := []string{"tape"}
		rest := strings.TrimPrefix(line, "qkata tape ")
		if i := strings.Index(rest, "'"); i >= 0 {
			j := strings.LastIndex(rest, "'")
			args = append(args, strings.Fields(rest[:i])...)
			args = append(args, rest[i+1:j])
			args = append(args, strings.Fields(rest[j+1:])...)
		} else {
			args = append(args, strings.Fields(rest)...)
		}
		t.Run(line, func(t *testing.T) {
			_, err := execute(t, args...)
			assert.NoError(t, err)
		})
		ran++
	}
	assert.Equal(t, 3, ran)
}
