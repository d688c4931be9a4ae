package proc

import "xv6core/biscuit/src/common"

// Sleep atomically releases the caller-held spinlock lk and puts the
// caller to SLEEPING on chan c; on wakeup it reacquires lk (spec.md
// §4.5, C5). No wakeup issued after the caller commits to sleeping can be
// lost: the caller acquires its own slot lock before releasing lk and
// before setting SLEEPING, and Wakeup must acquire that same slot lock to
// observe SLEEPING and flip it to RUNNABLE (P3).
//
// Returns the CPU the caller was resumed on (see sched's doc).
func Sleep(t *Table, p *Proc, cpu *CPU, c uintptr, lk *common.Spinlock) *CPU {
	// Acquiring p.Lock before releasing lk (and the reverse order on the
	// way out) is what makes the sleep/wakeup handshake race-free even
	// though two different locks change hands (spec.md §4.5).
	p.Lock.Acquire(cpu.id, cpu)
	lk.Release(cpu)

	p.Chan = c
	p.State = SLEEPING

	newCPU := sched(t, p, cpu)

	p.Chan = 0
	p.Lock.Release(newCPU)

	lk.Acquire(newCPU.id, newCPU)
	return newCPU
}

// Wakeup wakes every SLEEPING process waiting on chan c, except the
// caller's own slot (self may be nil when called from outside any
// process's context, e.g. during boot). Spec.md §4.5, C5.
func Wakeup(t *Table, c uintptr, self *Proc, cpu *CPU) {
	for _, p := range t.Procs {
		if p == self {
			continue
		}
		p.Lock.Acquire(cpu.id, cpu)
		if p.State == SLEEPING && p.Chan == c {
			p.State = RUNNABLE
		}
		p.Lock.Release(cpu)
	}
}

// Kill marks pid killed; if it is SLEEPING, promotes it to RUNNABLE so it
// observes Killed at its next safe point (spec.md §4.5). Returns
// Err_fail if pid is not found among live slots.
func Kill(t *Table, pid int, cpu *CPU) common.Err_t {
	for _, p := range t.Procs {
		p.Lock.Acquire(cpu.id, cpu)
		if p.State != UNUSED && p.Pid == pid {
			p.Killed = true
			if p.State == SLEEPING {
				p.State = RUNNABLE
			}
			p.Lock.Release(cpu)
			return common.Err_ok
		}
		p.Lock.Release(cpu)
	}
	return common.Err_fail
}
