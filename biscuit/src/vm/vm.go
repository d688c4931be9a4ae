// Package vm stands in for the page-table / virtual-memory allocator
// spec.md §1 places out of scope (uvminit, uvmcopy, kalloc, kvmmap,
// copyout). The core only ever calls these four operations through the
// narrow interface below; a real kernel would back Pagetable with actual
// page-table walks and physical frames, but the process table, scheduler,
// and sleep/wakeup core are oblivious to that -- exactly as spec.md §6
// specifies.
package vm

import "xv6core/biscuit/src/common"

// Pagetable is a fake user address space: a flat byte slice standing in
// for the real multi-level page table biscuit's vm package (see the
// replace-directive list any biscuit fork's go.mod carries) would own.
// It is enough to make fork's copy-on-fork semantics (P7) and exec's
// "install a fresh image" semantics observable in tests without pulling
// in real paging.
type Pagetable struct {
	Mem []byte
}

func NewPagetable() *Pagetable {
	return &Pagetable{}
}

// Uvminit loads init's first user page: a fresh Pagetable containing
// exactly the given bytes, as xv6's uvminit(pagetable, code, sz) does for
// the init process (original_source/kernel/c/proc.c's userinit).
func Uvminit(pt *Pagetable, code []byte) {
	pt.Mem = append([]byte(nil), code...)
}

// Uvmcopy duplicates the first sz bytes of the parent's address space (or
// all of it, if it holds fewer than sz bytes) into a fresh buffer for the
// child, so a write through one Pagetable is never observed through the
// other (P7).
func Uvmcopy(parent *Pagetable, sz int) (*Pagetable, common.Err_t) {
	child := NewPagetable()
	n := sz
	if n > len(parent.Mem) {
		n = len(parent.Mem)
	}
	child.Mem = make([]byte, n)
	copy(child.Mem, parent.Mem[:n])
	return child, common.Err_ok
}

// Uvmfree releases a process's user address space. Modeled as dropping
// the backing slice; a real kalloc-backed implementation would walk the
// page table and free physical frames.
func Uvmfree(pt *Pagetable) {
	pt.Mem = nil
}

// Copyout writes src into the pagetable's user memory starting at
// address addr, failing if it would run off the end -- mirroring xv6's
// copyout's bounds-checked copy, used by wait() to deliver xstate to
// user memory (spec.md §4.6).
func Copyout(pt *Pagetable, addr int, src []byte) common.Err_t {
	if addr < 0 || addr+len(src) > len(pt.Mem) {
		return common.Err_fail
	}
	copy(pt.Mem[addr:addr+len(src)], src)
	return common.Err_ok
}

// Trapframe is the fixed-layout register-snapshot page (GLOSSARY). Only
// the three fields userinit/fork touch are modeled; a real trapframe is a
// full register file living on a dedicated physical page.
type Trapframe struct {
	Epc uintptr
	Sp  uintptr
	A0  uintptr // syscall return-value register (fork's "child sees 0")
}
