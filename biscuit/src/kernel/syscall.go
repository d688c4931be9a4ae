package main

import "xv6core/biscuit/src/proc"

// Syscall is a minimal stand-in for the real syscall dispatch table
// spec.md §1 places out of scope (argstr/argaddr/fetchaddr/fetchstr and
// friends). sysfile.c's real syscalls (sys_exec, sys_wait, ...) are thin
// wrappers that check process state before and after doing the real
// work; Syscall reproduces exactly that shape so a killed process
// blocked inside Sleep surfaces -1 at its next syscall boundary (spec.md
// §4.5's kill contract, §8 scenario 4), without pulling in the full
// argument-marshalling machinery a real syscall table needs.
//
// fn may block (e.g. call proc.Sleep) and thus resume on a different CPU
// than it started on (spec.md's "any idle CPU picks any runnable
// process"); fn reports that CPU back so Syscall checks Killed on the
// right CPU's behalf instead of holding a stale reference.
func Syscall(p *proc.Proc, cpu *proc.CPU, fn func(cpu *proc.CPU) (int, *proc.CPU)) (int, *proc.CPU) {
	if p.IsKilled(cpu) {
		return -1, cpu
	}
	ret, newCPU := fn(cpu)
	if p.IsKilled(newCPU) {
		return -1, newCPU
	}
	return ret, newCPU
}
