package hashtable

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestMinMax_Monotone(t *testing.T) {
	keys := make([]uint64, 1<<12)
	for i := range keys {
		keys[i] = rand.Uint64() >> 1
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)
	const n = 1 << 10
	h := NewMinMax(keys, n)
	last := uint(0)
	for _, k := range keys {
		got := h.Hash(k)
		if got >= n {
			t.Fatalf("hash %d out of range", got)
		}
		if got < last {
			t.Fatalf("hash order violated: %d after %d", got, last)
		}
		last = got
	}
	if h.Hash(keys[0]) != 0 {
		t.Fatal("min key should hash to 0")
	}
}

func TestMinMax_Empty(t *testing.T) {
	h := NewMinMax[uint64](nil, 16)
	if h.Hash(42) != 0 {
		t.Fatal("untrained model should pin to 0")
	}
}

func TestHashes_Deterministic(t *testing.T) {
	mur := Murmur[uint64]{}
	xx := XX[uint64]{}
	fib := Fibonacci[uint64]{}
	id := Identity[uint64]{}
	for i := 0; i < 100; i++ {
		k := rand.Uint64()
		if mur.Hash(k) != mur.Hash(k) {
			t.Fatal("murmur")
		}
		if xx.Hash(k) != xx.Hash(k) {
			t.Fatal("xxh64")
		}
		if fib.Hash(k) != fib.Hash(k) {
			t.Fatal("fibonacci")
		}
		if id.Hash(k) != uint(k) {
			t.Fatal("identity")
		}
	}
}

func TestMemhash(t *testing.T) {
	a, b := NewMemhash[uint64](7), NewMemhash[uint64](7)
	for i := 0; i < 100; i++ {
		k := rand.Uint64()
		if a.Hash(k) != b.Hash(k) {
			t.Fatal("same seed, different hashes")
		}
	}
	c := NewMemhash[uint32](7)
	if c.Hash(1) == 0 && c.Hash(2) == 0 && c.Hash(3) == 0 {
		t.Fatal("32-bit path looks dead")
	}
}

func TestHashNames(t *testing.T) {
	mur := Murmur[uint64]{}
	xx := XX[uint64]{}
	fib := Fibonacci[uint64]{}
	id := Identity[uint64]{}
	if id.Name() != "identity" || fib.Name() != "fibonacci64" ||
		mur.Name() != "murmur_finalizer64" || xx.Name() != "xxh64" {
		t.Fatal("hash names")
	}
	if NewMemhash[uint64](0).Name() != "memhash" || NewMinMax[uint64](nil, 0).Name() != "min_max" {
		t.Fatal("hash names")
	}
}
