// Package sim executes instruction tapes on small simulated devices.
//
// Two devices are provided:
//   - StateVector: pure states, complex amplitudes over 2^n basis states
//   - DensityMatrix: mixed states, required for noise channels
//
// A device is a value constructed for one circuit call; nothing is shared
// between calls. Both follow the circuit package's wire convention (wire 0
// is the most significant bit).
//
// Unitary ops are resolved to dense 2^k matrices on their k wires, except
// the X family (PauliX, CNOT, Toffoli, MultiControlledX), which permute
// amplitudes directly.
package sim
