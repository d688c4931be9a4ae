package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"xv6core/biscuit/src/proc"
)

// Boot must leave init as pid 1, named "initcode", with one CPU
// descriptor per configured CPU and a scheduler group that keeps running
// (spec.md §8 scenario 1, via the same path main() takes). Init's state is
// not checked: the schedulers are already running it.
func TestBootBringsUpInitAndSchedulers(t *testing.T) {
	cfg := proc.Config{NPROC: 8, NCPU: 4, KStackSize: 4096}
	table, g := Boot(cfg)

	require.NotNil(t, table.InitProc)
	require.Equal(t, 1, table.InitProc.Pid)
	require.Equal(t, "initcode", table.InitProc.NameString())
	require.Len(t, table.CPUs, cfg.NCPU)

	// Schedulers never return; g.Wait() returning at all (within a short
	// window) would mean one of them panicked or exited early.
	select {
	case err := <-waitAsync(g):
		t.Fatalf("scheduler group exited early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

func waitAsync(g interface{ Wait() error }) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- g.Wait() }()
	return ch
}

// Boot installs execHook (backed by fsiface/vm) as the table's
// proc.ExecHook. Exercised here against a table that was never handed to
// any Scheduler goroutine, so the test's own goroutine is the sole owner
// of CPUs[0] -- the same constraint every other direct cpu.CPUs[...] use
// in this package's tests follows (see DESIGN.md's "CPU migration" note).
func TestBootWiresExecHook(t *testing.T) {
	cfg := proc.Config{NPROC: 4, NCPU: 1, KStackSize: 4096}
	table := proc.Procinit(cfg)
	cpu := table.CPUs[0]
	table.SetExecHook(execHook)

	p := proc.Userinit(table, cpu)
	oldPT := p.Pagetable

	err := proc.Exec(table, p, cpu, "/bin/sh", []string{"sh", "-c", "echo hi"})

	require.False(t, err.Failed())
	require.Equal(t, "sh", p.NameString())
	require.NotSame(t, oldPT, p.Pagetable)
	require.NotNil(t, p.Trapframe)
	require.EqualValues(t, proc.PGSIZE, p.Trapframe.Sp)
}
