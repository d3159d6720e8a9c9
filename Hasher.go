package hashtable

import (
	_ "runtime"
	"unsafe"

	"github.com/IlariaPilo/hashtable/Tables"
)

//go:linkname RTHash64 runtime.memhash64
//go:noescape
func RTHash64(ptr unsafe.Pointer, seed uint) uint

//go:linkname RTHash32 runtime.memhash32
//go:noescape
func RTHash32(ptr unsafe.Pointer, seed uint) uint

// Memhash bridges the runtime's AES-accelerated memory hash to the
// Tables.Hash capability. Seeded per instance; deterministic for that
// instance's lifetime, not across processes.
type Memhash[K Tables.Key] struct {
	seed uint
}

func NewMemhash[K Tables.Key](seed uint) Memhash[K] {
	return Memhash[K]{seed: seed}
}

func (u Memhash[K]) Hash(k K) uint {
	if unsafe.Sizeof(k) <= 4 {
		v := uint32(k)
		return RTHash32(unsafe.Pointer(&v), u.seed)
	}
	v := uint64(k)
	return RTHash64(unsafe.Pointer(&v), u.seed)
}

func (u Memhash[K]) Name() string {
	return "memhash"
}
