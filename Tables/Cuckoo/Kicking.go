package Cuckoo

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/IlariaPilo/hashtable/Tables"
)

// Kicker decides where a pair lands given its two candidate buckets. It
// either fills a free slot (evicted=false) or overwrites a victim and hands
// the displaced pair back to the insert loop. Called with both bucket locks
// held; b1 is the primary bucket.
type Kicker[K Tables.Key, V any] interface {
	Kick(b1, b2 []Tables.Slot[K, V], k K, v V) (dk K, dv V, evicted bool)
	Name() string
}

// Balanced fills the lesser-loaded bucket; when both are full it evicts from
// either with a coin flip. Buckets are not kept compacted, but under
// insert-only workloads occupied slots precede free ones, so the occupancy
// count doubles as the first free index.
type Balanced[K Tables.Key, V any] struct {
	rng func() uint32
}

func NewBalanced[K Tables.Key, V any]() *Balanced[K, V] {
	return &Balanced[K, V]{rng: rand.Uint32}
}

func (p *Balanced[K, V]) Kick(b1, b2 []Tables.Slot[K, V], k K, v V) (dk K, dv V, evicted bool) {
	sentinel := Tables.SentinelOf[K]()
	var c1, c2 uint
	for i := range b1 {
		if b1[i].Key != sentinel {
			c1++
		}
		if b2[i].Key != sentinel {
			c2++
		}
	}
	size := uint(len(b1))
	if c1 <= c2 && c1 < size {
		b1[c1] = Tables.Slot[K, V]{Key: k, Val: v}
		return
	}
	if c2 < size {
		b2[c2] = Tables.Slot[K, V]{Key: k, Val: v}
		return
	}
	r := p.rng()
	victim := b2
	if r&0x1 == 1 {
		victim = b1
	}
	i := uint(r) % size
	dk, dv = victim[i].Key, victim[i].Val
	victim[i] = Tables.Slot[K, V]{Key: k, Val: v}
	return dk, dv, true
}

func (p *Balanced[K, V]) Name() string {
	return "balanced_kicking"
}

// Biased prefers the primary bucket while it has space, then the secondary;
// when both are full the victim comes from the secondary bucket with the
// configured percentage chance, else from the primary.
type Biased[K Tables.Key, V any] struct {
	bias      uint8
	threshold uint32
	rng       func() uint32
}

func NewBiased[K Tables.Key, V any](bias uint8) *Biased[K, V] {
	return &Biased[K, V]{
		bias:      bias,
		threshold: uint32(float64(math.MaxUint32) * float64(bias) / 100.0),
		rng:       rand.Uint32,
	}
}

// NewUnbiased is Biased(0): overflow always evicts from the primary bucket.
func NewUnbiased[K Tables.Key, V any]() *Biased[K, V] {
	return NewBiased[K, V](0)
}

func (p *Biased[K, V]) Kick(b1, b2 []Tables.Slot[K, V], k K, v V) (dk K, dv V, evicted bool) {
	sentinel := Tables.SentinelOf[K]()
	var c1, c2 uint
	for i := range b1 {
		if b1[i].Key != sentinel {
			c1++
		}
		if b2[i].Key != sentinel {
			c2++
		}
	}
	size := uint(len(b1))
	if c1 < size {
		b1[c1] = Tables.Slot[K, V]{Key: k, Val: v}
		return
	}
	if c2 < size {
		b2[c2] = Tables.Slot[K, V]{Key: k, Val: v}
		return
	}
	r := p.rng()
	victim := b2
	if r > p.threshold {
		victim = b1
	}
	i := uint(r) % size
	dk, dv = victim[i].Key, victim[i].Val
	victim[i] = Tables.Slot[K, V]{Key: k, Val: v}
	return dk, dv, true
}

func (p *Biased[K, V]) Name() string {
	return "biased_kicking_" + strconv.Itoa(int(p.bias))
}
