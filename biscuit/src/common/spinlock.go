package common

import (
	"sync"
	"sync/atomic"
)

// IntrController is implemented by a CPU descriptor (biscuit/src/proc.CPU).
// Acquire/Release push/pop the interrupt-disable nesting count the way
// xv6's acquire()/release() call push_off()/pop_off(), so that "while any
// spinlock is held, interrupts are disabled on that cpu" (spec.md §5) holds
// even though this core runs hosted, not on bare metal.
type IntrController interface {
	PushOff()
	PopOff()
}

// Spinlock is the raw lock primitive spec.md §1 calls an external
// collaborator (acquire/release/holding). The core never assumes more
// about it than this interface; everything else (wait_lock, pid_lock,
// proc.lock) is built on top of it.
//
// A note on the name: xv6's spinlock busy-waits, because on bare metal
// there is nowhere else for a blocked hardware thread to go. Hosted under
// a real OS scheduler, busy-waiting a goroutine is a strictly worse
// version of the same mutual-exclusion guarantee sync.Mutex already gives
// us, so the lock itself is backed by sync.Mutex; the push_off/pop_off
// interrupt-nesting discipline is preserved because that discipline --not
// the busy-wait-- is the property the rest of the core depends on.
type Spinlock struct {
	mu     sync.Mutex
	name   string
	holder int64 // cpu id of holder, or -1
}

func NewSpinlock(name string) *Spinlock {
	return &Spinlock{name: name, holder: -1}
}

func (l *Spinlock) Name() string {
	return l.name
}

func (l *Spinlock) Acquire(cpuID int, ic IntrController) {
	ic.PushOff()
	l.mu.Lock()
	atomic.StoreInt64(&l.holder, int64(cpuID))
}

func (l *Spinlock) Release(ic IntrController) {
	atomic.StoreInt64(&l.holder, -1)
	l.mu.Unlock()
	ic.PopOff()
}

func (l *Spinlock) Holding(cpuID int) bool {
	return atomic.LoadInt64(&l.holder) == int64(cpuID)
}
