package harness

// Verdict is the classification of one case.
type Verdict string

const (
	VerdictCorrect      Verdict = "correct"
	VerdictWrongAnswer  Verdict = "wrong_answer"
	VerdictRuntimeError Verdict = "runtime_error"
)

// CaseOutcome records what happened to one case.
type CaseOutcome struct {
	Index    int     `json:"index"`
	Input    string  `json:"input"`
	Expected string  `json:"expected"`
	Output   string  `json:"output,omitempty"`
	Verdict  Verdict `json:"verdict"`
	// Message is the checker or runtime error text; empty when correct.
	Message string `json:"message,omitempty"`
	Seq     int64  `json:"seq"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Scenario and Exercise echo the scenario header.
	Scenario string `json:"scenario"`
	Exercise string `json:"exercise"`

	// ScenarioHash fingerprints the scenario's cases.
	ScenarioHash string `json:"scenario_hash"`

	// Pass is true when every case is correct.
	Pass bool `json:"pass"`

	Outcomes []CaseOutcome `json:"outcomes"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
}

// NewResult creates a new passing result.
func NewResult(s *Scenario) *Result {
	return &Result{
		Scenario: s.Name,
		Exercise: s.Exercise,
		Pass:     true,
		Outcomes: []CaseOutcome{},
	}
}

// Record appends an outcome and updates the tallies.
func (r *Result) Record(o CaseOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Verdict == VerdictCorrect {
		r.Passed++
		return
	}
	r.Failed++
	r.Pass = false
}
