package exercise

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// decodeInput parses a JSON literal into v, rejecting trailing data.
func decodeInput(input string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(input)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON value", ErrInvalidInput)
	}
	return nil
}

// decodeFloats parses a JSON array of exactly n numbers.
func decodeFloats(input string, n int) ([]float64, error) {
	var vals []float64
	if err := decodeInput(input, &vals); err != nil {
		return nil, err
	}
	if len(vals) != n {
		return nil, fmt.Errorf("%w: want %d numbers, got %d", ErrInvalidInput, n, len(vals))
	}
	return vals, nil
}

// asInt converts an integral float to int.
func asInt(name string, v float64) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidInput, name, v)
	}
	return int(v), nil
}

// formatFloat renders v in the shortest form that parses back exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseFloat reads a single JSON number.
func parseFloat(s string) (float64, error) {
	var v float64
	if err := decodeInput(s, &v); err != nil {
		return 0, err
	}
	return v, nil
}
