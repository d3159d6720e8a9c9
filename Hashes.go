/*
Package hashtable provides hash functions for the fixed-capacity table
engines under Tables. The engines consume any Tables.Hash; the types here
cover the common cases: identity and the learned min-max model are monotone
(usable for range queries), the multiplicative and byte hashes scramble.
*/
package hashtable

import (
	"encoding/binary"

	"github.com/IlariaPilo/hashtable/Tables"
	"github.com/cespare/xxhash/v2"
)

// Identity returns the key itself. Monotone; pair it with a modulo reducer
// unless keys already fit the directory.
type Identity[K Tables.Key] struct{}

func (Identity[K]) Hash(k K) uint {
	return uint(k)
}

func (Identity[K]) Name() string {
	return "identity"
}

// Fibonacci multiplies by the 64-bit golden-ratio constant.
type Fibonacci[K Tables.Key] struct{}

func (Fibonacci[K]) Hash(k K) uint {
	return uint(uint64(k) * 0x9E3779B97F4A7C15)
}

func (Fibonacci[K]) Name() string {
	return "fibonacci64"
}

// Murmur applies the murmur3 64-bit finalizer.
type Murmur[K Tables.Key] struct{}

func (Murmur[K]) Hash(k K) uint {
	h := uint64(k)
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	return uint(h)
}

func (Murmur[K]) Name() string {
	return "murmur_finalizer64"
}

// XX hashes the key's 8-byte little-endian encoding with xxHash64. Serves as
// the independent second hash for cuckoo tables.
type XX[K Tables.Key] struct{}

func (XX[K]) Hash(k K) uint {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(k))
	return uint(xxhash.Sum64(b[:]))
}

func (XX[K]) Name() string {
	return "xxh64"
}

// MinMax is a learned linear model trained over a sorted key sample: keys
// are interpolated between the observed min and max onto [0, n). Monotone,
// so tables using it support range lookups with the identity reducer.
type MinMax[K Tables.Key] struct {
	min   K
	scale float64
	n     uint
}

// NewMinMax trains the model; sorted must be ascending. n is the target
// address count, typically the table's directory size.
func NewMinMax[K Tables.Key](sorted []K, n uint) MinMax[K] {
	m := MinMax[K]{n: n}
	if len(sorted) == 0 || n == 0 {
		return m
	}
	m.min = sorted[0]
	m.scale = float64(n) / (float64(sorted[len(sorted)-1]-m.min) + 1)
	return m
}

func (u MinMax[K]) Hash(k K) uint {
	if u.n == 0 || k < u.min {
		return 0
	}
	h := uint(float64(k-u.min) * u.scale)
	if h >= u.n {
		h = u.n - 1
	}
	return h
}

func (u MinMax[K]) Name() string {
	return "min_max"
}
