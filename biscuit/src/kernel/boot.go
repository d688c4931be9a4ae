// Package main is the kernel's entry point, grounded on the teacher's
// biscuit/src/kernel/main.go: it owns process-table construction, brings
// up one scheduler goroutine per simulated CPU (the teacher's cpus_start
// bringing up one AP per hardware thread), and runs userinit. Real
// hardware bring-up (APIC IPIs, GDT/IDT secret-storage handoff, the
// mpentry.bin blob) has no meaning once the core runs hosted rather than
// on bare metal -- see DESIGN.md's "dropped teacher dependencies" entry --
// so it is replaced with an errgroup.Group fan-out of ordinary goroutines.
package main

import (
	"strings"

	"xv6core/biscuit/src/common"
	"xv6core/biscuit/src/fsiface"
	"xv6core/biscuit/src/proc"
	"xv6core/biscuit/src/vm"

	"golang.org/x/sync/errgroup"
)

// rootDev mirrors xv6's ROOTDEV passed to fsinit() the first time any
// process reaches forkret.
const rootDev = 1

// Boot constructs a fresh process table, runs userinit on a nominal boot
// CPU, and brings up cfg.NCPU scheduler goroutines. It returns the table
// (the single process-manager value, spec.md §9) and the errgroup
// supervising the scheduler goroutines, which run forever -- g.Wait()
// only returns if one of them panics or (a bug) returns.
func Boot(cfg proc.Config) (*proc.Table, *errgroup.Group) {
	t := proc.Procinit(cfg)
	t.SetFsInitHook(func() {
		fsiface.Fsinit(rootDev)
	})
	t.SetExecHook(execHook)

	// userinit runs before any scheduler goroutine starts, the same
	// ordering real xv6 enforces by calling userinit() from the BSP's
	// boot path before starting the APs (biscuit's main.go: procinit(),
	// userinit(), then cpus_start()).
	proc.Userinit(t, t.CPUs[0])

	g := new(errgroup.Group)
	for _, cpu := range t.CPUs {
		cpu := cpu
		g.Go(func() error {
			proc.Scheduler(t, cpu)
			return nil // unreachable: Scheduler(t, cpu) never returns
		})
	}

	return t, g
}

// execHook backs proc.ExecHook with this core's fsiface/vm stand-ins: look
// the path up through the file-system interface, then build a fresh
// one-page image whose contents are the argv strings joined by NUL bytes,
// loaded at address 0, with the trapframe's Sp at the top of the page. No
// argv pointer array or stack layout is built, and nothing is read from
// the file at path. Real ELF loading is out of scope (spec.md §1); this is
// enough to make "a process replaced its image" observable, matching
// Uvminit's treatment of initcode.
func execHook(p *proc.Proc, path string, argv []string) common.Err_t {
	ip := fsiface.Namei(path)
	if ip == nil {
		return common.Err_fail
	}
	defer fsiface.Iput(ip)

	image := []byte(strings.Join(argv, "\x00"))
	pt := vm.NewPagetable()
	vm.Uvminit(pt, image)

	p.Pagetable = pt
	p.Sz = proc.PGSIZE
	p.Trapframe = &vm.Trapframe{Epc: 0, Sp: proc.PGSIZE}
	return common.Err_ok
}
