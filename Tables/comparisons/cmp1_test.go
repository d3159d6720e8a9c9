// Compares the fixed-capacity engines against general-purpose concurrent
// maps on the point-lookup path. The third-party maps resize dynamically and
// hash internally, so this is a ballpark comparison, not apples to apples.
package comparisons

import (
	"testing"

	"github.com/alphadose/haxmap"
	"github.com/cornelk/hashmap"
	godsmap "github.com/emirpasic/gods/maps/hashmap"

	hashtable "github.com/IlariaPilo/hashtable"
	"github.com/IlariaPilo/hashtable/Tables"
	"github.com/IlariaPilo/hashtable/Tables/Chained"
	"github.com/IlariaPilo/hashtable/Tables/Cuckoo"
	"github.com/IlariaPilo/hashtable/Tables/Probing"
)

const benchmarkItemCount = 1 << 10

func setupChained(b *testing.B) *Chained.Chained[uintptr, uintptr] {
	b.Helper()
	m := Chained.New[uintptr, uintptr](2*benchmarkItemCount, 2, hashtable.Murmur[uintptr]{}, Tables.NewFastModulo)
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		m.Insert(i, i)
	}
	return m
}

func setupProbing(b *testing.B) *Probing.Probing[uintptr, uintptr] {
	b.Helper()
	m := Probing.New[uintptr, uintptr](2*benchmarkItemCount, 4, hashtable.Murmur[uintptr]{}, Tables.NewFastModulo, Tables.NewLinear, 0)
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		if _, err := m.Insert(i, i); err != nil {
			b.Fatal(err)
		}
	}
	return m
}

func setupRobinHood(b *testing.B) *Probing.RobinHood[uintptr, uintptr] {
	b.Helper()
	m := Probing.NewRobinHood[uintptr, uintptr](2*benchmarkItemCount, 1, hashtable.Murmur[uintptr]{}, Tables.NewFastModulo, Tables.NewLinear)
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		if _, err := m.Insert(i, i); err != nil {
			b.Fatal(err)
		}
	}
	return m
}

func setupCuckoo(b *testing.B) *Cuckoo.Cuckoo[uintptr, uintptr] {
	b.Helper()
	m := Cuckoo.New[uintptr, uintptr](benchmarkItemCount*125/100, 4, hashtable.Murmur[uintptr]{}, hashtable.XX[uintptr]{}, Tables.NewFastModulo, Tables.NewFastModulo, Cuckoo.NewBalanced[uintptr, uintptr]())
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		if err := m.Insert(i, i); err != nil {
			b.Fatal(err)
		}
	}
	return m
}

func setupHaxMap(b *testing.B) *haxmap.Map[uintptr, uintptr] {
	b.Helper()
	m := haxmap.New[uintptr, uintptr]()
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		m.Set(i, i)
	}
	return m
}

func setupHashMap(b *testing.B) *hashmap.Map[uintptr, uintptr] {
	b.Helper()
	m := hashmap.New[uintptr, uintptr]()
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		m.Set(i, i)
	}
	return m
}

func setupGodsMap(b *testing.B) *godsmap.Map {
	b.Helper()
	m := godsmap.New()
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		m.Put(i, i)
	}
	return m
}

func Benchmark1ReadChained(b *testing.B) {
	m := setupChained(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for i := uintptr(0); i < benchmarkItemCount; i++ {
				if j, _ := m.Lookup(i); j != i {
					b.Fail()
				}
			}
		}
	})
}

func Benchmark1ReadProbing(b *testing.B) {
	m := setupProbing(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for i := uintptr(0); i < benchmarkItemCount; i++ {
				if j, _ := m.Lookup(i); j != i {
					b.Fail()
				}
			}
		}
	})
}

func Benchmark1ReadRobinHood(b *testing.B) {
	m := setupRobinHood(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for i := uintptr(0); i < benchmarkItemCount; i++ {
				if j, _ := m.Lookup(i); j != i {
					b.Fail()
				}
			}
		}
	})
}

func Benchmark1ReadCuckoo(b *testing.B) {
	m := setupCuckoo(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for i := uintptr(0); i < benchmarkItemCount; i++ {
				if j, _ := m.Lookup(i); j != i {
					b.Fail()
				}
			}
		}
	})
}

func Benchmark1ReadHaxMap(b *testing.B) {
	m := setupHaxMap(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for i := uintptr(0); i < benchmarkItemCount; i++ {
				if j, _ := m.Get(i); j != i {
					b.Fail()
				}
			}
		}
	})
}

func Benchmark1ReadHashMap(b *testing.B) {
	m := setupHashMap(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for i := uintptr(0); i < benchmarkItemCount; i++ {
				if j, _ := m.Get(i); j != i {
					b.Fail()
				}
			}
		}
	})
}

func Benchmark1ReadGodsMap(b *testing.B) {
	m := setupGodsMap(b)
	b.ResetTimer()
	for n := 0; n < b.N; n++ { //gods maps aren't thread-safe; read serially.
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			if j, ok := m.Get(i); !ok || j != i {
				b.Fail()
			}
		}
	}
}

func BenchmarkInsertChained(b *testing.B) {
	for n := 0; n < b.N; n++ {
		m := Chained.New[uintptr, uintptr](2*benchmarkItemCount, 2, hashtable.Murmur[uintptr]{}, Tables.NewFastModulo)
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			m.Insert(i, i)
		}
	}
}

func BenchmarkInsertHaxMap(b *testing.B) {
	for n := 0; n < b.N; n++ {
		m := haxmap.New[uintptr, uintptr]()
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			m.Set(i, i)
		}
	}
}

func BenchmarkInsertHashMap(b *testing.B) {
	for n := 0; n < b.N; n++ {
		m := hashmap.New[uintptr, uintptr]()
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			m.Set(i, i)
		}
	}
}
