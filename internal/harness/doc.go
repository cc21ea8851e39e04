// Package harness runs exercise scenarios case by case and reports a
// verdict for each.
//
// A scenario is a YAML file naming an exercise and a list of cases:
//
//	name: distance-oracle-public
//	description: public cases for the distance oracle
//	exercise: distance-oracle
//	cases:
//	  - input: "0"
//	    expected: No output
//
// Scenarios are decoded with unknown fields rejected and then validated
// against the CUE schema in schema.cue.
//
// For every case Run prints
//
//	Running test case <i> with input '<input>'...
//
// followed by exactly one verdict line:
//
//	Correct!
//	Wrong Answer. Have: '<output>'. Want: '<expected>'.
//	Runtime Error. <fault>
//
// A fault or panic in one case never stops the remaining cases.
//
// Outcomes carry a logical sequence number instead of wall-clock time, so
// the JSON snapshot of a run is stable and can be compared against golden
// files in testdata/golden.
package harness
