// Package circuit defines the instruction tape that every exercise emits.
//
// A Tape is an ordered list of Op records. Simulators execute it and
// verifiers inspect it directly (gate names, counts, wires) rather than
// querying an opaque circuit object.
//
// Wire convention: wire 0 is the most significant bit of a basis index,
// so on three wires |w0 w1 w2> = |1 0 0> is basis state 4.
package circuit
