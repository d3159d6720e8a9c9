// Package Chained implements a fixed-capacity hashtable resolving collisions
// with one inline slot per directory entry plus a singly linked chain of
// fixed-size buckets.
package Chained

import (
	"unsafe"

	"github.com/IlariaPilo/hashtable/Tables"
)

// firstSlot is a directory entry: one inline key/payload plus the head of the
// overflow chain. The inline slot is always filled before any chain bucket.
type firstSlot[K Tables.Key, V any] struct {
	key  K
	val  V
	next *bucket[K, V]
}

// bucket holds bucketSize slots. Occupied slots sit at the lowest indices;
// the first sentinel terminates in-bucket search. Holds under insert-only
// workloads.
type bucket[K Tables.Key, V any] struct {
	slots []Tables.Slot[K, V]
	next  *bucket[K, V]
}

type Chained[K Tables.Key, V any] struct {
	hash       Tables.Hash[K]
	reduce     Tables.Reducer
	slots      []firstSlot[K, V]
	locks      []Tables.SpinLock
	capacity   uint
	bucketSize uint
	sentinel   K
}

// DirectoryAddressCount is the directory size for a given capacity: one
// first-level slot per expected key.
func DirectoryAddressCount(capacity uint) uint {
	return capacity
}

// New allocates the full directory up front. bucketSize is the slot count of
// each chain bucket. The reducer factory is invoked with the directory size.
func New[K Tables.Key, V any](capacity, bucketSize uint, h Tables.Hash[K], newReduce func(uint) Tables.Reducer) *Chained[K, V] {
	d := DirectoryAddressCount(capacity)
	u := &Chained[K, V]{
		hash:       h,
		reduce:     newReduce(d),
		slots:      make([]firstSlot[K, V], d),
		locks:      make([]Tables.SpinLock, d),
		capacity:   capacity,
		bucketSize: bucketSize,
		sentinel:   Tables.SentinelOf[K](),
	}
	for i := range u.slots {
		u.slots[i].key = u.sentinel
	}
	return u
}

func (u *Chained[K, V]) newBucket() *bucket[K, V] {
	b := &bucket[K, V]{slots: make([]Tables.Slot[K, V], u.bucketSize)}
	for j := range b.slots {
		b.slots[j].Key = u.sentinel
	}
	return b
}

// Insert stores the pair under the slot lock for reduce(hash(k)). It returns
// false when k already exists or k is the sentinel.
func (u *Chained[K, V]) Insert(k K, v V) bool {
	if k == u.sentinel {
		return false
	}
	i := u.reduce.Reduce(u.hash.Hash(k))
	u.locks[i].Lock()
	defer u.locks[i].Unlock()

	s := &u.slots[i]
	if s.key == u.sentinel {
		s.key, s.val = k, v
		return true
	}
	if s.key == k {
		return false
	}

	b := s.next
	if b == nil {
		b = u.newBucket()
		b.slots[0] = Tables.Slot[K, V]{Key: k, Val: v}
		s.next = b
		return true
	}
	for {
		for j := range b.slots {
			if b.slots[j].Key == u.sentinel {
				b.slots[j] = Tables.Slot[K, V]{Key: k, Val: v}
				return true
			} else if b.slots[j].Key == k {
				return false
			}
		}
		if b.next == nil {
			break
		}
		b = b.next
	}
	nb := u.newBucket()
	nb.slots[0] = Tables.Slot[K, V]{Key: k, Val: v}
	b.next = nb
	return true
}

// Lookup is unsynchronized; call it only after inserting goroutines have
// quiesced.
func (u *Chained[K, V]) Lookup(k K) (val V, ok bool) {
	if k == u.sentinel {
		return
	}
	s := &u.slots[u.reduce.Reduce(u.hash.Hash(k))]
	if s.key == k {
		return s.val, true
	}
	for b := s.next; b != nil; b = b.next {
		for j := range b.slots {
			if b.slots[j].Key == k {
				return b.slots[j].Val, true
			}
			if b.slots[j].Key == u.sentinel {
				return
			}
		}
	}
	return
}

// LookupRange collects the payloads of all keys in [min, max]. Only sensible
// with a monotone hash: the walk starts at min's slot, filters every slot by
// key range, and stops once a key >= max was seen (after finishing that
// entry's chain) or the directory was scanned exactly once.
func (u *Chained[K, V]) LookupRange(min, max K) []V {
	if min == u.sentinel || max == u.sentinel || max < min {
		return nil
	}
	var out []V
	d := uint(len(u.slots))
	start := u.reduce.Reduce(u.hash.Hash(min))
	for i, n := start, uint(0); n < d; n++ {
		s := &u.slots[i]
		stop := false
		if s.key != u.sentinel {
			if s.key >= min && s.key <= max {
				out = append(out, s.val)
			}
			if s.key >= max {
				stop = true
			}
		}
	chain:
		for b := s.next; b != nil; b = b.next {
			for j := range b.slots {
				k := b.slots[j].Key
				if k == u.sentinel {
					break chain
				}
				if k >= min && k <= max {
					out = append(out, b.slots[j].Val)
				}
				if k >= max {
					stop = true
				}
			}
		}
		if stop {
			break
		}
		if i++; i == d {
			i = 0
		}
	}
	return out
}

// Stats reports directory shape metrics; the dataset argument is unused but
// kept for a uniform surface across engines.
func (u *Chained[K, V]) Stats([]K) map[string]float64 {
	var emptySlots, additional, emptyAdditional, maxChain uint
	minChain, seen := ^uint(0), false
	for i := range u.slots {
		if u.slots[i].key == u.sentinel {
			emptySlots++
			continue
		}
		seen = true
		var chain uint
		for b := u.slots[i].next; b != nil; b = b.next {
			chain++
			additional++
			for j := range b.slots {
				if b.slots[j].Key == u.sentinel {
					emptyAdditional++
				}
			}
		}
		if chain < minChain {
			minChain = chain
		}
		if chain > maxChain {
			maxChain = chain
		}
	}
	if !seen {
		minChain = 0
	}
	return map[string]float64{
		"empty_buckets":          float64(emptySlots),
		"min_chain_length":       float64(minChain),
		"max_chain_length":       float64(maxChain),
		"additional_buckets":     float64(additional),
		"empty_additional_slots": float64(emptyAdditional),
	}
}

// Clear empties every slot and releases all chain buckets.
func (u *Chained[K, V]) Clear() {
	for i := range u.slots {
		u.slots[i].key = u.sentinel
		u.slots[i].next = nil
	}
}

// ByteSize is the current footprint including all chain buckets.
func (u *Chained[K, V]) ByteSize() uintptr {
	total := unsafe.Sizeof(*u)
	total += uintptr(len(u.slots)) * u.SlotByteSize()
	total += uintptr(len(u.locks)) * unsafe.Sizeof(Tables.SpinLock{})
	for i := range u.slots {
		for b := u.slots[i].next; b != nil; b = b.next {
			total += u.BucketByteSize()
		}
	}
	return total
}

func (u *Chained[K, V]) BucketByteSize() uintptr {
	return unsafe.Sizeof(bucket[K, V]{}) + uintptr(u.bucketSize)*unsafe.Sizeof(Tables.Slot[K, V]{})
}

func (u *Chained[K, V]) SlotByteSize() uintptr {
	return unsafe.Sizeof(firstSlot[K, V]{})
}

func (u *Chained[K, V]) Name() string {
	return "chained"
}

func (u *Chained[K, V]) HashName() string {
	return u.hash.Name()
}

func (u *Chained[K, V]) ReducerName() string {
	return u.reduce.Name()
}

func (u *Chained[K, V]) BucketSize() uint {
	return u.bucketSize
}
