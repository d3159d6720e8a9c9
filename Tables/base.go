/*
Package Tables holds the contracts shared by the fixed-capacity hashtable
engines (Chained, Probing, Cuckoo).

All engines store integer keys with one reserved value, the sentinel (the
maximum representable key), marking empty slots. The sentinel must never be
inserted. Capacity is fixed at construction; the directory never grows.

Insertion is safe from multiple goroutines per the locking rules of each
engine. Lookups are not synchronized against concurrent inserts; issue them
after all inserting goroutines quiesced, or concurrently with other lookups
only.
*/
package Tables

// Key is any fixed-width unsigned integer type usable as a table key.
type Key interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr
}

// SentinelOf returns the reserved empty-slot marker for K, its maximum value.
func SentinelOf[K Key]() K {
	return ^K(0)
}

// Slot is one key/payload pair. A slot is empty iff Key equals the sentinel;
// Val of an empty slot is indeterminate and never read.
type Slot[K Key, V any] struct {
	Key K
	Val V
}

// Hash maps a key to an unsigned integer of at least the key's width. A Hash
// may carry state (e.g. a model trained over the dataset) but must be
// deterministic per instance.
type Hash[K Key] interface {
	Hash(K) uint
	Name() string
}

// Reducer maps a full-width hash to a directory index in [0, d). Reducers are
// constructed with the directory size d.
type Reducer interface {
	Reduce(uint) uint
	Name() string
}

// Prober yields the directory index visited at the given probing step from
// origin. Step 0 must return origin. Probers are constructed with the
// directory size and need not cover it fully; engines detect a return to the
// origin index.
type Prober interface {
	Probe(origin, step uint) uint
	Name() string
}
