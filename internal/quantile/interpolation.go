package quantile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownInterpolation is returned when an interpolation name is not recognized.
var ErrUnknownInterpolation = errors.New("unknown interpolation")

// Interpolation selects how a fractional rank maps to an order statistic.
type Interpolation int

// Supported interpolation policies. Lower is the zero value and the default.
const (
	Lower    Interpolation = iota // x[floor(h)]
	Higher                        // x[ceil(h)]
	Nearest                       // x[round(h)], halves to even
	Linear                        // x[floor(h)] + frac(h) * (x[ceil(h)] - x[floor(h)])
	Midpoint                      // (x[floor(h)] + x[ceil(h)]) / 2
)

var interpolationNames = map[Interpolation]string{
	Lower:    "lower",
	Higher:   "higher",
	Nearest:  "nearest",
	Linear:   "linear",
	Midpoint: "midpoint",
}

// Interpolations lists every policy in declaration order.
func Interpolations() []Interpolation {
	return []Interpolation{Lower, Higher, Nearest, Linear, Midpoint}
}

func (i Interpolation) String() string {
	if name, ok := interpolationNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// Valid reports whether i is one of the declared policies.
func (i Interpolation) Valid() bool {
	_, ok := interpolationNames[i]
	return ok
}

// ParseInterpolation parses a policy name, case-insensitively.
// The empty string parses as Lower.
func ParseInterpolation(s string) (Interpolation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Lower, nil
	}
	for i, name := range interpolationNames {
		if name == s {
			return i, nil
		}
	}
	return Lower, fmt.Errorf("%w: %q", ErrUnknownInterpolation, s)
}

// MarshalText implements encoding.TextMarshaler.
func (i Interpolation) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownInterpolation, int(i))
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Interpolation) UnmarshalText(text []byte) error {
	v, err := ParseInterpolation(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
