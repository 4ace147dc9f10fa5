// Package palette maps escape-time iteration counts to colours.
package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm for unrecognised names.
var ErrUnknownAlgorithm = errors.New("palette: unknown algorithm")

// Algorithm selects one of the colouring functions. The numeric values match
// the selectors 1..8 of the settings file; anything else renders grayscale.
type Algorithm int

const (
	Grayscale Algorithm = iota
	HSV
	SineTriad
	CosineTriad
	MixedTrig
	LinearRGB
	LinearBGR
	ZoomedRGB
	ZoomedBGR
)

var algorithmNames = [...]string{
	Grayscale:   "grayscale",
	HSV:         "hsv",
	SineTriad:   "sine",
	CosineTriad: "cosine",
	MixedTrig:   "mixed",
	LinearRGB:   "linear",
	LinearBGR:   "linear-reverse",
	ZoomedRGB:   "zoomed",
	ZoomedBGR:   "zoomed-reverse",
}

// All lists every algorithm in selector order.
func All() []Algorithm {
	out := make([]Algorithm, len(algorithmNames))
	for i := range out {
		out[i] = Algorithm(i)
	}
	return out
}

func (a Algorithm) Valid() bool {
	return a >= Grayscale && a <= ZoomedBGR
}

func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Next cycles forward through the algorithms, wrapping at the end.
func (a Algorithm) Next() Algorithm {
	if !a.Valid() {
		return Grayscale
	}
	return (a + 1) % Algorithm(len(algorithmNames))
}

// Prev cycles backward through the algorithms, wrapping at the start.
func (a Algorithm) Prev() Algorithm {
	if !a.Valid() || a == Grayscale {
		return ZoomedBGR
	}
	return a - 1
}

// ParseAlgorithm accepts a name ("hsv", "sine", ...) or a selector number.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		a := Algorithm(n)
		if !a.Valid() {
			return Grayscale, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, n)
		}
		return a, nil
	}
	for i, name := range algorithmNames {
		if name == s {
			return Algorithm(i), nil
		}
	}
	return Grayscale, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// MarshalText encodes the algorithm by name, used by the YAML config.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
