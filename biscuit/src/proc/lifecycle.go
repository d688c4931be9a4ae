package proc

import (
	"encoding/binary"
	"strings"

	"xv6core/biscuit/src/common"
	"xv6core/biscuit/src/fsiface"
	"xv6core/biscuit/src/vm"
)

// Userinit sets up the first user process (spec.md §4.6). It must be
// called exactly once at boot, before any CPU enters Scheduler.
func Userinit(t *Table, cpu *CPU) *Proc {
	p, ok := t.Allocproc(cpu)
	if !ok {
		panic("userinit: process table exhausted at boot")
	}

	p.Pagetable = vm.NewPagetable()
	vm.Uvminit(p.Pagetable, InitCode)
	p.Sz = PGSIZE

	p.Trapframe = &vm.Trapframe{Epc: 0, Sp: PGSIZE}

	p.setName("initcode")
	p.Cwd = fsiface.Namei("/")

	p.Context.fn = func(cpu *CPU) { Forkret(t, p, cpu) }
	p.Body = InitBody

	p.State = RUNNABLE
	p.Lock.Release(cpu)

	t.InitProc = p
	return p
}

// InitBody is initproc's default simulated program: reap whatever zombie
// children exist, yielding when there are none, forever (spec.md §4.6's
// reparenting contract, "init will eventually reap them"). Userinit
// installs it so a freshly booted table is never left with a nil Body --
// a kernel thread whose entry function returns is an invariant violation
// (sched.go's swtch panics on it), not a legitimate idle-forever state.
// Callers that want a different init program (the scenario tests in
// lifecycle_test.go, mostly) overwrite p.Body before any scheduler starts.
func InitBody(t *Table, p *Proc, cpu *CPU) {
	for {
		newCPU, _, _, err := Wait(t, p, cpu, 0)
		cpu = newCPU
		if err.Failed() {
			cpu = Yield(t, p, cpu)
		}
	}
}

// Fork creates a child of p, copying its user memory, trapframe (with the
// child's return value zeroed), open files (shared, ref-counted), and
// cwd (spec.md §4.6). body, if non-nil, becomes the child's simulated
// user program (see Proc.Body's doc); it stands in for whatever exec the
// child eventually runs, since exec itself is out of the core's scope
// (spec.md §1). Returns the child's pid, or -1 on resource exhaustion.
func Fork(t *Table, p *Proc, cpu *CPU, body func(t *Table, c *Proc, cpu *CPU)) (int, common.Err_t) {
	child, ok := t.Allocproc(cpu)
	if !ok {
		return -1, common.Err_fail
	}

	childPT, err := vm.Uvmcopy(p.Pagetable, p.Sz)
	if err.Failed() {
		t.Freeproc(child)
		child.Lock.Release(cpu)
		return -1, err
	}
	child.Pagetable = childPT
	child.Sz = p.Sz

	if p.Trapframe != nil {
		tf := *p.Trapframe
		tf.A0 = 0 // child's fork() returns 0
		child.Trapframe = &tf
	}

	for i := range p.Ofile {
		if p.Ofile[i] != nil {
			child.Ofile[i] = fsiface.Filedup(p.Ofile[i])
		}
	}
	child.Cwd = fsiface.Idup(p.Cwd)
	child.Name = p.Name

	pid := child.Pid
	child.Body = body
	child.Context.fn = func(cpu *CPU) { Forkret(t, child, cpu) }
	child.Lock.Release(cpu)

	t.WaitLock.Acquire(cpu.id, cpu)
	child.Parent = p.idx
	t.WaitLock.Release(cpu)

	child.Lock.Acquire(cpu.id, cpu)
	child.State = RUNNABLE
	child.Lock.Release(cpu)

	return pid, common.Err_ok
}

// ExecHook is the seam through which Exec replaces a process's user
// image: the real work xv6's exec() does (build a fresh pagetable from
// the program at path, load argv onto its stack, swap it in for the
// caller's) lives behind fsiface/vm, out-of-scope collaborators this
// core never reaches into directly (spec.md §1, §6).
type ExecHook func(p *Proc, path string, argv []string) common.Err_t

// Exec asks t's installed ExecHook to replace p's image with the program
// at path, mirroring sys_exec's call into exec(path, argv)
// (original_source/kernel/c/sysfile.c). fork()+Exec() together are a
// complete system's process-creation story even though exec's image
// loading itself is out of this core's scope. Returns Err_fail if no
// hook is installed or the hook itself fails. On success p's name is set
// to path's last component, matching exec()'s
// safestrcpy(p->name, last, sizeof(p->name)).
func Exec(t *Table, p *Proc, cpu *CPU, path string, argv []string) common.Err_t {
	if t.execHook == nil {
		return common.Err_fail
	}
	oldPagetable := p.Pagetable
	if err := t.execHook(p, path, argv); err.Failed() {
		return err
	}
	if oldPagetable != nil && oldPagetable != p.Pagetable {
		vm.Uvmfree(oldPagetable)
	}
	p.Lock.Acquire(cpu.id, cpu)
	p.setName(lastPathElem(path))
	p.Lock.Release(cpu)
	return common.Err_ok
}

func lastPathElem(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Reparent moves every child of p to init, so init will eventually reap
// them (spec.md §4.6). Caller must hold t.WaitLock.
func Reparent(t *Table, p *Proc, cpu *CPU) {
	for _, c := range t.Procs {
		if c.Parent == p.idx {
			c.Parent = t.InitProc.idx
			Wakeup(t, ChanOf(t.InitProc), nil, cpu)
		}
	}
}

// Exit tears down p's open files and cwd, reparents its children to
// init, wakes its parent, marks itself ZOMBIE, and switches away for the
// last time (spec.md §4.6). It must never return; a return means the
// scheduler resumed a ZOMBIE, which is an invariant violation (spec.md
// §7's panic rule).
func Exit(t *Table, p *Proc, cpu *CPU, status int) {
	if p == t.InitProc {
		panic("exit: initproc exiting")
	}

	for i := range p.Ofile {
		if p.Ofile[i] != nil {
			fsiface.Fileclose(p.Ofile[i])
			p.Ofile[i] = nil
		}
	}
	fsiface.Begin_op()
	fsiface.Iput(p.Cwd)
	fsiface.End_op()
	p.Cwd = nil

	t.WaitLock.Acquire(cpu.id, cpu)
	Reparent(t, p, cpu)
	if p.Parent >= 0 {
		Wakeup(t, ChanOf(t.Procs[p.Parent]), p, cpu)
	}

	p.Lock.Acquire(cpu.id, cpu)
	p.Xstate = status
	p.State = ZOMBIE

	// wait_lock is released before the final switch so a waiting parent
	// may run; p.Lock stays held across sched(), which the scheduler
	// releases on our behalf after the switch -- the same protocol every
	// context-switch-out path follows (spec.md §4.6's ordering rationale).
	t.WaitLock.Release(cpu)

	sched(t, p, cpu)
	panic("exit: a zombie process was resumed")
}

// Wait blocks until a child of p exits, reaps it, and returns its pid and
// exit status. addr, when non-zero, is a simulated user address the exit
// status is copied out to (spec.md §4.6); addr == 0 means the caller
// passed no pointer, mirroring xv6's own convention. Returns -1 if p has
// no children, if p has been killed, or if the copyout fails.
//
// Wait may block (sleeping on itself as the condition channel, the
// GLOSSARY's "wait_lock" entry) and so may resume on a different CPU than
// it started on; it returns that CPU so the caller's subsequent calls
// stay on the right one (see sched's doc).
func Wait(t *Table, p *Proc, cpu *CPU, addr int) (cpuOut *CPU, pid int, xstate int, err common.Err_t) {
	curCPU := cpu
	t.WaitLock.Acquire(curCPU.id, curCPU)

	for {
		haveKids := false
		for _, c := range t.Procs {
			if c.Parent != p.idx {
				continue
			}
			c.Lock.Acquire(curCPU.id, curCPU)
			haveKids = true
			if c.State == ZOMBIE {
				reapedPid := c.Pid
				reapedXstate := c.Xstate
				if addr != 0 {
					var buf [8]byte
					binary.LittleEndian.PutUint64(buf[:], uint64(int64(reapedXstate)))
					if vm.Copyout(p.Pagetable, addr, buf[:]).Failed() {
						c.Lock.Release(curCPU)
						t.WaitLock.Release(curCPU)
						return curCPU, -1, 0, common.Err_fail
					}
				}
				t.Freeproc(c)
				c.Lock.Release(curCPU)
				t.WaitLock.Release(curCPU)
				return curCPU, reapedPid, reapedXstate, common.Err_ok
			}
			c.Lock.Release(curCPU)
		}

		if !haveKids || p.Killed {
			t.WaitLock.Release(curCPU)
			return curCPU, -1, 0, common.Err_fail
		}

		curCPU = Sleep(t, p, curCPU, ChanOf(p), t.WaitLock)
	}
}
