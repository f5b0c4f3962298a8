// Package fill estimates missing cells of an elevation grid from the valid
// cells around them.
package fill

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMethod indicates an unknown interpolation method.
var ErrInvalidMethod = errors.New("invalid interpolation method")

// Method selects how missing cells are estimated.
type Method int

const (
	// MethodNone leaves the grid untouched; missing cells are expected to
	// have been zero-filled during assembly.
	MethodNone Method = iota
	// MethodNearest copies the closest valid cell.
	MethodNearest
	// MethodLinear blends the first valid cell along each of eight rays,
	// weighted by inverse distance.
	MethodLinear
	// MethodCubic fits Akima splines along the row and column.
	MethodCubic
)

var methodNames = map[Method]string{
	MethodNone:    "none",
	MethodNearest: "nearest",
	MethodLinear:  "linear",
	MethodCubic:   "cubic",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Methods returns the method names in declaration order.
func Methods() []string {
	return []string{"none", "nearest", "linear", "cubic"}
}

// ParseMethod parses a method name (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return MethodNone, nil
	case "nearest":
		return MethodNearest, nil
	case "linear":
		return MethodLinear, nil
	case "cubic":
		return MethodCubic, nil
	default:
		return MethodNone, fmt.Errorf("%w: %q (must be %s)", ErrInvalidMethod, s, strings.Join(Methods(), ", "))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if _, ok := methodNames[m]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMethod, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
