// Package noise provides the seeded 2D gradient noise that drives every pattern.
//
// An Engine owns a shuffled permutation table and is read-only once built,
// so a single Engine can be shared by concurrent renders without locking.
package noise

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Field is a 2D noise source returning values in approximately [-1, 1].
type Field interface {
	Noise2(x, y float64) float64
}

// Engine is the classic gradient noise field backed by a 256-entry
// permutation table extended to 512 entries.
type Engine struct {
	perm [512]uint8
}

// New builds an engine whose table is Fisher-Yates shuffled with rng.
func New(rng *rand.Rand) *Engine {
	var table [256]uint8
	for i := range table {
		table[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := rng.IntN(i + 1)
		table[i], table[j] = table[j], table[i]
	}
	return FromTable(table)
}

// NewSeeded builds a reproducible engine from a PCG stream seeded with seed.
func NewSeeded(seed uint64) *Engine {
	return New(rand.New(rand.NewPCG(seed, seed)))
}

// FromTable builds an engine from an explicit permutation table.
func FromTable(table [256]uint8) *Engine {
	e := &Engine{}
	copy(e.perm[:256], table[:])
	copy(e.perm[256:], table[:])
	return e
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return New(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
})

// Default returns the process-wide engine, shuffled from system entropy on
// first use and never reshuffled afterwards.
func Default() *Engine {
	return defaultEngine()
}

// Table returns a copy of the first 256 permutation entries.
func (e *Engine) Table() [256]uint8 {
	var t [256]uint8
	copy(t[:], e.perm[:256])
	return t
}

// Noise2 samples the field at (x, y).
func (e *Engine) Noise2(x, y float64) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	xi := int(fx) & 255
	yi := int(fy) & 255
	xf := x - fx
	yf := y - fy

	p := &e.perm
	aa := p[int(p[xi])+yi]
	ab := p[int(p[xi])+yi+1]
	ba := p[int(p[xi+1])+yi]
	bb := p[int(p[xi+1])+yi+1]

	u := fade(xf)
	v := fade(yf)

	x1 := lerp(grad(aa, xf, yf), grad(ba, xf-1, yf), u)
	x2 := lerp(grad(ab, xf, yf-1), grad(bb, xf-1, yf-1), u)
	return lerp(x1, x2, v)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// grad picks one of four diagonal-ish gradients from the low two hash bits.
func grad(hash uint8, x, y float64) float64 {
	h := hash & 3
	u, v := y, x
	if h < 2 {
		u, v = x, y
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Turbulence sums octaves of f remapped to [0, 1], halving the amplitude
// and doubling the frequency at each step.
func Turbulence(f Field, x, y float64, octaves int) float64 {
	var sum float64
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += (f.Noise2(x*freq, y*freq) + 1) / 2 * amp
		amp /= 2
		freq *= 2
	}
	return sum
}
