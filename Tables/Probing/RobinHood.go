package Probing

import (
	"unsafe"

	"github.com/IlariaPilo/hashtable/Tables"
)

// rhSlot additionally records the probe-sequence length the entry was placed
// at. An entry is only displaced by one at a higher probing step, so every
// slot a key's probe walk passes before reaching the key holds psl >= that
// step; psl values along a probe sequence need not be non-decreasing.
// Lookups do not read psl; they rely on the sentinel early exit.
type rhSlot[K Tables.Key, V any] struct {
	key K
	val V
	psl uint
}

type RobinHood[K Tables.Key, V any] struct {
	hash       Tables.Hash[K]
	reduce     Tables.Reducer
	probe      Tables.Prober
	dir        []rhSlot[K, V]
	locks      []Tables.SpinLock
	capacity   uint
	bucketSize uint
	sentinel   K
}

// NewRobinHood allocates the directory eagerly; factories are invoked with
// the directory size.
func NewRobinHood[K Tables.Key, V any](capacity, bucketSize uint, h Tables.Hash[K], newReduce func(uint) Tables.Reducer, newProbe func(uint) Tables.Prober) *RobinHood[K, V] {
	d := DirectoryAddressCount(capacity, bucketSize)
	u := &RobinHood[K, V]{
		hash:       h,
		reduce:     newReduce(d),
		probe:      newProbe(d),
		dir:        make([]rhSlot[K, V], d*bucketSize),
		locks:      make([]Tables.SpinLock, d),
		capacity:   capacity,
		bucketSize: bucketSize,
		sentinel:   Tables.SentinelOf[K](),
	}
	for i := range u.dir {
		u.dir[i].key = u.sentinel
	}
	return u
}

func (u *RobinHood[K, V]) bucket(i uint) []rhSlot[K, V] {
	return u.dir[i*u.bucketSize : (i+1)*u.bucketSize]
}

// Insert probes like the plain variant but displaces a "richer" incumbent
// whose recorded psl is below the current probing step. The incumbent becomes
// the entry to place, carrying its own psl as the new probing step; its
// origin is recomputed so the probe arithmetic stays valid for non-linear
// probes. A displaced entry matching the caller's original key means the
// displacement chain closed on itself, which is fatal.
func (u *RobinHood[K, V]) Insert(k K, v V) (bool, error) {
	if k == u.sentinel {
		return false, nil
	}
	origKey := k
	o := u.reduce.Reduce(u.hash.Hash(k))
	i := o
	for step := uint(0); ; {
		u.locks[i].Lock()
		b := u.bucket(i)
		for j := range b {
			if b[j].key == u.sentinel {
				b[j] = rhSlot[K, V]{key: k, val: v, psl: step}
				u.locks[i].Unlock()
				return true, nil
			} else if b[j].key == k {
				u.locks[i].Unlock()
				return false, nil
			} else if b[j].psl < step {
				rich := b[j] //read before overwriting; the incumbent is the new carry.
				if rich.key == origKey {
					u.locks[i].Unlock()
					return false, &Tables.BuildError{Table: u.Name(), Err: Tables.ErrSelfCycle}
				}
				b[j] = rhSlot[K, V]{key: k, val: v, psl: step}
				k, v, step = rich.key, rich.val, rich.psl
				o = u.reduce.Reduce(u.hash.Hash(k))
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

// Lookup never consults psl; the sentinel early exit is enough because no
// key's probe walk passes an empty slot before reaching the key.
func (u *RobinHood[K, V]) Lookup(k K) (val V, ok bool) {
	if k == u.sentinel {
		return
	}
	o := u.reduce.Reduce(u.hash.Hash(k))
	i := o
	for step := uint(0); ; {
		b := u.bucket(i)
		for j := range b {
			if b[j].key == k {
				return b[j].val, true
			}
			if b[j].key == u.sentinel {
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

// Stats re-probes the dataset; same metrics as the plain variant.
func (u *RobinHood[K, V]) Stats(dataset []K) map[string]float64 {
	minPsl, maxPsl, totalPsl := ^uint(0), uint(0), uint(0)
	found := false
	for _, k := range dataset {
		o := u.reduce.Reduce(u.hash.Hash(k))
		i := o
	walk:
		for step := uint(0); ; {
			b := u.bucket(i)
			for j := range b {
				if b[j].key == k {
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
				if b[j].key == u.sentinel {
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
func (u *RobinHood[K, V]) Clear() {
	for i := range u.dir {
		u.dir[i].key = u.sentinel
		u.dir[i].psl = 0
	}
}

func (u *RobinHood[K, V]) ByteSize() uintptr {
	return unsafe.Sizeof(*u) +
		uintptr(len(u.dir))*unsafe.Sizeof(rhSlot[K, V]{}) +
		uintptr(len(u.locks))*unsafe.Sizeof(Tables.SpinLock{})
}

func (u *RobinHood[K, V]) BucketByteSize() uintptr {
	return uintptr(u.bucketSize) * u.SlotByteSize()
}

func (u *RobinHood[K, V]) SlotByteSize() uintptr {
	return unsafe.Sizeof(rhSlot[K, V]{})
}

func (u *RobinHood[K, V]) Name() string {
	return u.probe.Name() + "_robinhood_probing"
}

func (u *RobinHood[K, V]) HashName() string {
	return u.hash.Name()
}

func (u *RobinHood[K, V]) ReducerName() string {
	return u.reduce.Name()
}

func (u *RobinHood[K, V]) BucketSize() uint {
	return u.bucketSize
}
