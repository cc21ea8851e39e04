package sim

import "errors"

var (
	// ErrWireOutOfRange is returned when an op addresses a wire the device
	// does not have.
	ErrWireOutOfRange = errors.New("wire out of range")

	// ErrChannelOnPureState is returned when a noise channel is applied to
	// a StateVector.
	ErrChannelOnPureState = errors.New("noise channel requires a density matrix")

	// ErrTooManyWires is returned by constructors asked for more wires than
	// the device supports.
	ErrTooManyWires = errors.New("too many wires")
)

// Device size limits.
const (
	MaxStateWires   = 20
	MaxDensityWires = 10
)
