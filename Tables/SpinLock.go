package Tables

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a test-and-test-and-set lock sized for one-per-bucket arrays.
// The zero value is unlocked. It must not be copied while held.
type SpinLock struct {
	f atomic.Bool
}

func (l *SpinLock) Lock() {
	for {
		if !l.f.Swap(true) {
			return
		}
		for l.f.Load() { //spin on plain loads to avoid bouncing the cache line.
			runtime.Gosched()
		}
	}
}

func (l *SpinLock) TryLock() bool {
	return !l.f.Load() && !l.f.Swap(true)
}

func (l *SpinLock) Unlock() {
	l.f.Store(false)
}
