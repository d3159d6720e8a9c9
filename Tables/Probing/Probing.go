// Package Probing implements fixed-capacity open-addressing hashtables with
// bucketized slots and a pluggable probe sequence, in a plain variant and a
// robin-hood variant that equalizes probe-sequence lengths.
package Probing

import (
	"unsafe"

	"github.com/IlariaPilo/hashtable/Tables"
)

// DefaultMaxSteps bounds the probe walk when no explicit limit is given.
const DefaultMaxSteps = 500

type Probing[K Tables.Key, V any] struct {
	hash       Tables.Hash[K]
	reduce     Tables.Reducer
	probe      Tables.Prober
	dir        []Tables.Slot[K, V] //flat; bucket i is dir[i*bucketSize:(i+1)*bucketSize].
	locks      []Tables.SpinLock
	capacity   uint
	bucketSize uint
	maxSteps   uint
	sentinel   K
}

// DirectoryAddressCount is the number of directory buckets for a capacity:
// ceil(capacity/bucketSize).
func DirectoryAddressCount(capacity, bucketSize uint) uint {
	return (capacity + bucketSize - 1) / bucketSize
}

// New allocates the directory eagerly. Reducer and prober factories are
// invoked with the directory size; maxSteps 0 selects DefaultMaxSteps.
func New[K Tables.Key, V any](capacity, bucketSize uint, h Tables.Hash[K], newReduce func(uint) Tables.Reducer, newProbe func(uint) Tables.Prober, maxSteps uint) *Probing[K, V] {
	d := DirectoryAddressCount(capacity, bucketSize)
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	u := &Probing[K, V]{
		hash:       h,
		reduce:     newReduce(d),
		probe:      newProbe(d),
		dir:        make([]Tables.Slot[K, V], d*bucketSize),
		locks:      make([]Tables.SpinLock, d),
		capacity:   capacity,
		bucketSize: bucketSize,
		maxSteps:   maxSteps,
		sentinel:   Tables.SentinelOf[K](),
	}
	for i := range u.dir {
		u.dir[i].Key = u.sentinel
	}
	return u
}

func (u *Probing[K, V]) bucket(i uint) []Tables.Slot[K, V] {
	return u.dir[i*u.bucketSize : (i+1)*u.bucketSize]
}

// Insert walks the probe sequence from reduce(hash(k)), holding only the
// currently probed bucket's lock. It returns false for duplicate or sentinel
// keys and a fatal BuildError when the walk cycles back to its origin or
// exceeds the step limit with every visited bucket full.
func (u *Probing[K, V]) Insert(k K, v V) (bool, error) {
	if k == u.sentinel {
		return false, nil
	}
	o := u.reduce.Reduce(u.hash.Hash(k))
	i := o
	for step := uint(0); ; {
		if step > u.maxSteps {
			return false, &Tables.BuildError{Table: u.Name(), Err: Tables.ErrMaxProbingSteps}
		}
		u.locks[i].Lock()
		b := u.bucket(i)
		for j := range b {
			if b[j].Key == u.sentinel {
				b[j] = Tables.Slot[K, V]{Key: k, Val: v}
				u.locks[i].Unlock()
				return true, nil
			} else if b[j].Key == k {
				u.locks[i].Unlock()
				return false, nil
			}
		}
		u.locks[i].Unlock()

		step++
		i = u.probe.Probe(o, step)
		if i == o {
			return false, &Tables.BuildError{Table: u.Name(), Err: Tables.ErrProbingCycle}
		}
	}
}

// Lookup is unsynchronized; it relies on the occupancy invariant that no
// probe walk skips an empty slot, so the first sentinel terminates the scan.
func (u *Probing[K, V]) Lookup(k K) (val V, ok bool) {
	if k == u.sentinel {
		return
	}
	o := u.reduce.Reduce(u.hash.Hash(k))
	i := o
	for step := uint(0); ; {
		b := u.bucket(i)
		for j := range b {
			if b[j].Key == k {
				return b[j].Val, true
			}
			if b[j].Key == u.sentinel {
				return
			}
		}
		step++
		i = u.probe.Probe(o, step)
		if i == o {
			return
		}
	}
}

// Stats re-probes the dataset and reports min/max/total/average probing-step
// lengths. Keys not in the table contribute nothing to min/max/total but
// count toward the average's divisor.
func (u *Probing[K, V]) Stats(dataset []K) map[string]float64 {
	minPsl, maxPsl, totalPsl := ^uint(0), uint(0), uint(0)
	found := false
	for _, k := range dataset {
		o := u.reduce.Reduce(u.hash.Hash(k))
		i := o
	walk:
		for step := uint(0); ; {
			b := u.bucket(i)
			for j := range b {
				if b[j].Key == k {
					found = true
					if step < minPsl {
						minPsl = step
					}
					if step > maxPsl {
						maxPsl = step
					}
					totalPsl += step
					break walk
				}
				if b[j].Key == u.sentinel {
					break walk
				}
			}
			step++
			i = u.probe.Probe(o, step)
			if i == o {
				break walk
			}
		}
	}
	if !found {
		minPsl = 0
	}
	avg := 0.0
	if len(dataset) > 0 {
		avg = float64(totalPsl) / float64(len(dataset))
	}
	return map[string]float64{
		"min_psl":     float64(minPsl),
		"max_psl":     float64(maxPsl),
		"total_psl":   float64(totalPsl),
		"average_psl": avg,
	}
}

// Clear empties every slot.
func (u *Probing[K, V]) Clear() {
	for i := range u.dir {
		u.dir[i].Key = u.sentinel
	}
}

func (u *Probing[K, V]) ByteSize() uintptr {
	return unsafe.Sizeof(*u) +
		uintptr(len(u.dir))*unsafe.Sizeof(Tables.Slot[K, V]{}) +
		uintptr(len(u.locks))*unsafe.Sizeof(Tables.SpinLock{})
}

func (u *Probing[K, V]) BucketByteSize() uintptr {
	return uintptr(u.bucketSize) * u.SlotByteSize()
}

func (u *Probing[K, V]) SlotByteSize() uintptr {
	return unsafe.Sizeof(Tables.Slot[K, V]{})
}

func (u *Probing[K, V]) Name() string {
	return u.probe.Name() + "_probing"
}

func (u *Probing[K, V]) HashName() string {
	return u.hash.Name()
}

func (u *Probing[K, V]) ReducerName() string {
	return u.reduce.Name()
}

func (u *Probing[K, V]) BucketSize() uint {
	return u.bucketSize
}
