package analysis

import (
	"fmt"
	"math"
	"strconv"
)

// TrappingClass labels how an orbit moves in and out of the corotation
// capture region over a whole run. The numeric codes are stable and appear
// in batch tables.
type TrappingClass int

const (
	AlwaysTrapped TrappingClass = iota
	TrappedAtEndsNotMiddle
	TrappedThenFree
	FreeAtEndsTrappedMiddle
	AlwaysFree
	FreeThenTrapped
)

var classNames = [...]string{
	AlwaysTrapped:           "ALWAYS_TRAPPED",
	TrappedAtEndsNotMiddle:  "TRAPPED_AT_ENDS_NOT_MIDDLE",
	TrappedThenFree:         "TRAPPED_THEN_FREE",
	FreeAtEndsTrappedMiddle: "FREE_AT_ENDS_TRAPPED_MIDDLE",
	AlwaysFree:              "ALWAYS_FREE",
	FreeThenTrapped:         "FREE_THEN_TRAPPED",
}

func (c TrappingClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("TrappingClass(%d)", int(c))
	}
	return classNames[c]
}

// ParseTrappingClass accepts a label as printed by String or a numeric code.
func ParseTrappingClass(s string) (TrappingClass, error) {
	for i, name := range classNames {
		if s == name {
			return TrappingClass(i), nil
		}
	}
	if code, err := strconv.Atoi(s); err == nil && code >= 0 && code < len(classNames) {
		return TrappingClass(code), nil
	}
	return 0, fmt.Errorf("analysis: unknown trapping class %q", s)
}

// Trapped reports whether a Lambda value lies inside the capture region.
func Trapped(lambda float64) bool {
	return math.Abs(lambda) < 1
}

// Classify reduces a Lambda series to its trapping class from the state at
// both ends and whether the interior ever (or always) agrees.
func Classify(lambda []float64) (TrappingClass, error) {
	if len(lambda) == 0 {
		return 0, ErrEmptySeries
	}

	trappedCount := 0
	for i, v := range lambda {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: sample %d is %g", ErrUndefinedLambda, i, v)
		}
		if Trapped(v) {
			trappedCount++
		}
	}

	first := Trapped(lambda[0])
	last := Trapped(lambda[len(lambda)-1])

	switch {
	case first && last:
		if trappedCount == len(lambda) {
			return AlwaysTrapped, nil
		}
		return TrappedAtEndsNotMiddle, nil
	case first:
		return TrappedThenFree, nil
	case last:
		return FreeThenTrapped, nil
	case trappedCount > 0:
		return FreeAtEndsTrappedMiddle, nil
	default:
		return AlwaysFree, nil
	}
}
