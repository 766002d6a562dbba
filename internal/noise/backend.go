package noise

import (
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Backend names a noise implementation.
type Backend string

const (
	Classic Backend = "classic" // permutation-table gradient noise
	Simplex Backend = "simplex" // OpenSimplex
	Perlin  Backend = "perlin"  // multi-octave Perlin from go-perlin
)

// AllBackends returns all supported backends.
func AllBackends() []Backend {
	return []Backend{Classic, Simplex, Perlin}
}

// IsValid checks if a backend string is valid.
func IsValid(b string) bool {
	for _, valid := range AllBackends() {
		if string(valid) == b {
			return true
		}
	}
	return false
}

// ParseBackend parses a backend name; the empty string selects Classic.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Classic, nil
	}
	if !IsValid(s) {
		return "", fmt.Errorf("invalid noise backend %q, valid options: %v", s, AllBackends())
	}
	return Backend(s), nil
}

// NewField builds a deterministic field of the given backend from seed.
func NewField(b Backend, seed uint64) (Field, error) {
	switch b {
	case Classic, "":
		return NewSeeded(seed), nil
	case Simplex:
		return simplexField{n: opensimplex.New(int64(seed))}, nil
	case Perlin:
		return perlinField{p: perlin.NewPerlin(2, 2, 3, int64(seed))}, nil
	default:
		return nil, fmt.Errorf("invalid noise backend %q", b)
	}
}

type simplexField struct {
	n opensimplex.Noise
}

func (f simplexField) Noise2(x, y float64) float64 {
	return f.n.Eval2(x, y)
}

type perlinField struct {
	p *perlin.Perlin
}

func (f perlinField) Noise2(x, y float64) float64 {
	return f.p.Noise2D(x, y)
}
