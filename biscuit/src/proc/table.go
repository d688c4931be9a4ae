package proc

import (
	"reflect"

	"xv6core/biscuit/src/common"
	"xv6core/biscuit/src/vm"
)

// Config bounds the process table and CPU pool (spec.md §3's NPROC/NCPU),
// constructed once and handed to procinit -- the explicit process-manager
// value §9 calls for, rather than the teacher's package-level
// allprocs/proclock globals (DESIGN.md's table.go entry).
type Config struct {
	NPROC      int
	NCPU       int
	KStackSize int
}

func DefaultConfig() Config {
	return Config{NPROC: 64, NCPU: 8, KStackSize: 4096 * 4}
}

// Table is the single process-manager value: the slot pool, the CPU pool,
// initproc, nextpid, and the two leaf/near-leaf locks (spec.md §3's
// Globals). Constructed once in Procinit before any CPU enters Scheduler,
// and never destroyed (§9).
type Table struct {
	cfg Config

	Procs []*Proc
	CPUs  []*CPU

	InitProc *Proc

	PidLock *common.Spinlock
	nextPID int

	WaitLock *common.Spinlock

	fsInitOnce bool
	fsInitLock *common.Spinlock
	fsInitHook func()

	execHook ExecHook
}

// Procinit constructs the process table and CPU pool. Grounded on xv6's
// procinit(): it runs once, before any scheduler() goroutine starts, and
// pre-maps (here: pre-allocates) each slot's kernel stack (C2) up front
// so slot reuse never remaps it.
func Procinit(cfg Config) *Table {
	t := &Table{
		cfg:        cfg,
		Procs:      make([]*Proc, cfg.NPROC),
		CPUs:       make([]*CPU, cfg.NCPU),
		PidLock:    common.NewSpinlock("pid_lock"),
		WaitLock:   common.NewSpinlock("wait_lock"),
		fsInitLock: common.NewSpinlock("fsinit_lock"),
	}
	for i := range t.Procs {
		t.Procs[i] = &Proc{
			idx:    i,
			Lock:   common.NewSpinlock("proc"),
			State:  UNUSED,
			Parent: -1,
		}
		t.Procs[i].kstack = make([]byte, cfg.KStackSize)
	}
	for i := range t.CPUs {
		t.CPUs[i] = &CPU{id: i}
	}
	return t
}

// SetFsInitHook installs the one-shot, process-wide file-system
// initialization forkret performs the first time any process is
// scheduled (spec.md §4.4). Kept as an injected hook because fsinit
// itself belongs to fsiface, an out-of-scope collaborator (spec.md §1).
func (t *Table) SetFsInitHook(fn func()) {
	t.fsInitHook = fn
}

// SetExecHook installs the seam Exec calls into to replace a process's
// user image (spec.md's exec itself is out of scope, but fork+exec
// together are how a complete system creates processes -- see Exec's
// doc). biscuit/src/kernel installs a real one backed by fsiface/vm;
// tests that never call Exec can leave this unset.
func (t *Table) SetExecHook(fn ExecHook) {
	t.execHook = fn
}

// Allocpid atomically returns the next pid, strictly increasing and never
// reused while a zombie bearing it exists (invariant 8).
func (t *Table) Allocpid(cpu *CPU) int {
	t.PidLock.Acquire(cpu.id, cpu)
	defer t.PidLock.Release(cpu)
	t.nextPID++
	return t.nextPID
}

// Allocproc scans for an UNUSED slot, marks it USED, assigns a pid, and
// initializes it enough that a future swtch into it enters Forkret with a
// kernel stack ready to go (spec.md §4.1). It returns the slot with its
// lock held; the caller must Release it once done initializing
// (userinit/fork follow this exact protocol, matching allocproc's C
// contract).
func (t *Table) Allocproc(cpu *CPU) (*Proc, bool) {
	for _, p := range t.Procs {
		p.Lock.Acquire(cpu.id, cpu)
		if p.State == UNUSED {
			p.Pid = t.Allocpid(cpu)
			p.State = USED
			p.Context = newContext()
			p.Context.fn = func(cpu *CPU) { Forkret(t, p, cpu) }
			p.Killed = false
			p.Xstate = 0
			p.Chan = 0
			p.Parent = -1
			return p, true
		}
		p.Lock.Release(cpu)
	}
	return nil, false
}

// Freeproc resets a slot to UNUSED. Caller holds p.Lock; p must not be
// RUNNING on any CPU (spec.md §4.1).
func (t *Table) Freeproc(p *Proc) {
	p.Trapframe = nil
	if p.Pagetable != nil {
		vm.Uvmfree(p.Pagetable)
	}
	p.Pagetable = nil
	p.Pid = 0
	p.Parent = -1
	p.setName("")
	p.Chan = 0
	p.Killed = false
	p.Xstate = 0
	p.Sz = 0
	p.Context = nil
	for i := range p.Ofile {
		p.Ofile[i] = nil
	}
	p.Cwd = nil
	p.State = UNUSED
}

// ChanOf returns a stable identity for a non-nil pointer a caller already
// owns, for use as a sleep channel -- the GLOSSARY's "conventionally the
// address of a kernel object." A *Proc maps to its slot index plus one
// rather than its address; any other pointer maps to its address, and a
// nil or non-pointer value panics.
func ChanOf(v any) uintptr {
	if p, ok := v.(*Proc); ok {
		return uintptr(p.idx) + 1
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		panic("proc.ChanOf: expected a non-nil pointer-shaped value")
	}
	return rv.Pointer()
}
