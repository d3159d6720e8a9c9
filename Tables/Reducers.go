package Tables

import (
	"math"
	"math/bits"
)

// identity passes hashes through unchanged. The hash must already land in
// [0, d); order-preserving hashes trained to the directory size do.
type identity struct{}

func NewIdentity(uint) Reducer {
	return identity{}
}

func (identity) Reduce(h uint) uint {
	return h
}

func (identity) Name() string {
	return "do_nothing"
}

// fastModulo reduces by h mod d using a precomputed magic reciprocal instead
// of a hardware divide. Exact for operands up to 32 bits; larger values fall
// back to %.
type fastModulo struct {
	d uint
	m uint64
}

func NewFastModulo(d uint) Reducer {
	f := &fastModulo{d: d}
	if d > 1 && uint64(d) <= math.MaxUint32 {
		f.m = ^uint64(0)/uint64(d) + 1
	}
	return f
}

func (f *fastModulo) Reduce(h uint) uint {
	if f.d == 1 {
		return 0
	}
	if f.m != 0 && uint64(h) <= math.MaxUint32 {
		hi, _ := bits.Mul64(f.m*uint64(h), uint64(f.d))
		return uint(hi)
	}
	return h % f.d
}

func (f *fastModulo) Name() string {
	return "fast_modulo"
}

// linear probes origin+step, wrapping by repeated subtraction since step
// magnitudes stay small relative to d.
type linear struct {
	d uint
}

func NewLinear(d uint) Prober {
	return linear{d: d}
}

func (p linear) Probe(origin, step uint) uint {
	next := origin + step
	for next >= p.d {
		next -= p.d
	}
	return next
}

func (linear) Name() string {
	return "linear"
}

// quadratic probes origin+step², wrapping via fast modulo. Does not cover
// the full directory for arbitrary d.
type quadratic struct {
	mod Reducer
}

func NewQuadratic(d uint) Prober {
	return quadratic{mod: NewFastModulo(d)}
}

func (p quadratic) Probe(origin, step uint) uint {
	return p.mod.Reduce(origin + step*step)
}

func (quadratic) Name() string {
	return "quadratic"
}
