package main

import (
	"fmt"
	"math"
	"strconv"
)

// parseInterval rejects anything that isn't a strict positive finite real,
// including boolean-like strings. pflag's own Float64Var would reject
// "true"/"false" too (they are not valid floats for ParseFloat), but a
// hand-parsed flag lets us give the exact wording spec.md's CLI scenarios
// require instead of pflag's generic parse-error text.
func parseInterval(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("interval must be a positive finite number")
	}
	return v, nil
}
