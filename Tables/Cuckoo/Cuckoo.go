// Package Cuckoo implements a fixed-capacity two-way hashtable: every key
// lives in one of two candidate buckets chosen by independent hash/reducer
// pairs, with a pluggable eviction (kicking) policy.
package Cuckoo

import (
	"strconv"
	"sync/atomic"
	"unsafe"

	"github.com/IlariaPilo/hashtable/Tables"
)

// MaxKickCycleLength bounds the eviction chain of one insert.
const MaxKickCycleLength = 50000

type Cuckoo[K Tables.Key, V any] struct {
	hash1, hash2     Tables.Hash[K]
	reduce1, reduce2 Tables.Reducer
	kick             Kicker[K, V]
	dir              []Tables.Slot[K, V] //flat; bucket i is dir[i*bucketSize:(i+1)*bucketSize].
	locks            []Tables.SpinLock
	capacity         uint
	bucketSize       uint
	d                uint
	failed           atomic.Bool //sticky; set on kick overflow, short-circuits concurrent eviction chains.
	totalKicks       atomic.Uint64
	maxKicks         atomic.Uint64
	sentinel         K
}

// DirectoryAddressCount is the number of directory buckets for a capacity:
// ceil(capacity/bucketSize).
func DirectoryAddressCount(capacity, bucketSize uint) uint {
	return (capacity + bucketSize - 1) / bucketSize
}

// New allocates the directory eagerly. Reducer factories are invoked with
// the directory size.
func New[K Tables.Key, V any](capacity, bucketSize uint, h1, h2 Tables.Hash[K], newReduce1, newReduce2 func(uint) Tables.Reducer, kick Kicker[K, V]) *Cuckoo[K, V] {
	d := DirectoryAddressCount(capacity, bucketSize)
	u := &Cuckoo[K, V]{
		hash1: h1, hash2: h2,
		reduce1: newReduce1(d), reduce2: newReduce2(d),
		kick:       kick,
		dir:        make([]Tables.Slot[K, V], d*bucketSize),
		locks:      make([]Tables.SpinLock, d),
		capacity:   capacity,
		bucketSize: bucketSize,
		d:          d,
		sentinel:   Tables.SentinelOf[K](),
	}
	for i := range u.dir {
		u.dir[i].Key = u.sentinel
	}
	return u
}

func (u *Cuckoo[K, V]) bucket(i uint) []Tables.Slot[K, V] {
	return u.dir[i*u.bucketSize : (i+1)*u.bucketSize]
}

// indices returns the two candidate bucket indices for k, nudging the second
// to the next slot when both hashes collapse to the same index.
func (u *Cuckoo[K, V]) indices(k K) (uint, uint) {
	i1 := u.reduce1.Reduce(u.hash1.Hash(k))
	i2 := u.reduce2.Reduce(u.hash2.Hash(k))
	if i2 == i1 {
		if i1 == u.d-1 {
			i2 = 0
		} else {
			i2 = i1 + 1
		}
	}
	return i1, i2
}

// Insert places the pair, overwriting the payload when the key already lives
// in either candidate bucket. An eviction re-enters the loop with the
// displaced pair; chains longer than MaxKickCycleLength fail fatally and
// poison the table.
func (u *Cuckoo[K, V]) Insert(k K, v V) error {
	if k == u.sentinel {
		return nil
	}
	return u.insert(k, v, 0)
}

func (u *Cuckoo[K, V]) insert(k K, v V, kicks uint) error {
	for {
		if kicks > MaxKickCycleLength {
			u.failed.Store(true)
			return &Tables.BuildError{Table: u.Name(), Err: Tables.ErrKickCycleLimit}
		}
		if kicks > 0 {
			u.totalKicks.Add(1)
			for {
				cur := u.maxKicks.Load()
				if uint64(kicks) <= cur || u.maxKicks.CompareAndSwap(cur, uint64(kicks)) {
					break
				}
			}
		}

		i1, i2 := u.indices(k)
		lo, hi := i1, i2
		if hi < lo {
			lo, hi = hi, lo
		}
		//locks are always acquired in ascending index order.
		u.locks[lo].Lock()
		u.locks[hi].Lock()

		b1, b2 := u.bucket(i1), u.bucket(i2)
		for j := range b1 {
			if b1[j].Key == k {
				b1[j].Val = v
				u.locks[hi].Unlock()
				u.locks[lo].Unlock()
				return nil
			}
			if b2[j].Key == k {
				b2[j].Val = v
				u.locks[hi].Unlock()
				u.locks[lo].Unlock()
				return nil
			}
		}

		dk, dv, evicted := u.kick.Kick(b1, b2, k, v)
		u.locks[hi].Unlock()
		u.locks[lo].Unlock()
		if !evicted {
			return nil
		}
		k, v = dk, dv
		kicks++
		if u.failed.Load() {
			return nil
		}
	}
}

// Lookup scans the primary bucket, then the secondary. Unsynchronized.
func (u *Cuckoo[K, V]) Lookup(k K) (val V, ok bool) {
	if k == u.sentinel {
		return
	}
	i1 := u.reduce1.Reduce(u.hash1.Hash(k))
	b1 := u.bucket(i1)
	for j := range b1 {
		if b1[j].Key == k {
			return b1[j].Val, true
		}
	}
	i2 := u.reduce2.Reduce(u.hash2.Hash(k))
	if i2 == i1 {
		if i1 == u.d-1 {
			i2 = 0
		} else {
			i2 = i1 + 1
		}
	}
	b2 := u.bucket(i2)
	for j := range b2 {
		if b2[j].Key == k {
			return b2[j].Val, true
		}
	}
	return
}

// Failed reports whether a fatal kick overflow poisoned this table.
func (u *Cuckoo[K, V]) Failed() bool {
	return u.failed.Load()
}

// Stats reports the fraction of dataset keys resident in their primary
// bucket plus the eviction counters accumulated during the build.
func (u *Cuckoo[K, V]) Stats(dataset []K) map[string]float64 {
	var primary uint
	for _, k := range dataset {
		b1 := u.bucket(u.reduce1.Reduce(u.hash1.Hash(k)))
		for j := range b1 {
			if b1[j].Key == k {
				primary++
				break
			}
		}
	}
	ratio := 0.0
	if len(dataset) > 0 {
		ratio = float64(primary) / float64(len(dataset))
	}
	return map[string]float64{
		"primary_key_ratio": ratio,
		"total_kick_count":  float64(u.totalKicks.Load()),
		"max_kick_count":    float64(u.maxKicks.Load()),
	}
}

// Clear empties every slot. Failure state and kick counters are preserved;
// a poisoned table stays poisoned.
func (u *Cuckoo[K, V]) Clear() {
	for i := range u.dir {
		u.dir[i].Key = u.sentinel
	}
}

func (u *Cuckoo[K, V]) ByteSize() uintptr {
	return unsafe.Sizeof(*u) +
		uintptr(len(u.dir))*unsafe.Sizeof(Tables.Slot[K, V]{}) +
		uintptr(len(u.locks))*unsafe.Sizeof(Tables.SpinLock{})
}

func (u *Cuckoo[K, V]) BucketByteSize() uintptr {
	return uintptr(u.bucketSize) * u.SlotByteSize()
}

func (u *Cuckoo[K, V]) SlotByteSize() uintptr {
	return unsafe.Sizeof(Tables.Slot[K, V]{})
}

func (u *Cuckoo[K, V]) Name() string {
	return "cuckoo_" + strconv.FormatUint(uint64(u.bucketSize), 10) + "_" + u.kick.Name()
}

func (u *Cuckoo[K, V]) HashName() string {
	return u.hash1.Name() + "-" + u.hash2.Name()
}

func (u *Cuckoo[K, V]) ReducerName() string {
	return u.reduce1.Name() + "-" + u.reduce2.Name()
}

func (u *Cuckoo[K, V]) BucketSize() uint {
	return u.bucketSize
}
