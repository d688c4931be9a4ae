package proc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Scenario 3 (spec.md §8): A forks B; B forks C; A waits (blocking on its
// only child, B); B exits before C does. C's parent becomes init. When C
// later exits, init's wait reaps it.
func TestReparentToInitOnExit(t *testing.T) {
	cPidCh := make(chan int, 1)
	releaseC := make(chan struct{})
	aReapedB := make(chan int, 1)
	initReapedC := make(chan int, 1)

	table, done := bootTable(12, 2, func(tbl *Table, initp *Proc, cpu *CPU) {
		cBody := func(tbl *Table, c *Proc, cpu *CPU) {
			<-releaseC
			Exit(tbl, c, cpu, 9)
		}
		bBody := func(tbl *Table, b *Proc, cpu *CPU) {
			cPid, cerr := Fork(tbl, b, cpu, cBody)
			require.False(t, cerr.Failed())
			cPidCh <- cPid
			Exit(tbl, b, cpu, 7) // B exits while C is still alive, held on releaseC
		}
		aBody := func(tbl *Table, a *Proc, cpu *CPU) {
			_, berr := Fork(tbl, a, cpu, bBody)
			require.False(t, berr.Failed())
			newCPU, pid, _, werr := Wait(tbl, a, cpu, 0)
			cpu = newCPU
			if !werr.Failed() {
				aReapedB <- pid
			}
			for {
				cpu = Yield(tbl, a, cpu)
			}
		}

		_, aerr := Fork(tbl, initp, cpu, aBody)
		require.False(t, aerr.Failed())

		// initproc's own reap loop, inlined so it can report what it reaps.
		for {
			newCPU, pid, _, err := Wait(tbl, initp, cpu, 0)
			cpu = newCPU
			if err.Failed() {
				cpu = Yield(tbl, initp, cpu)
				continue
			}
			initReapedC <- pid
		}
	})
	defer done()

	var cPid int
	select {
	case cPid = <-cPidCh:
	case <-time.After(2 * time.Second):
		t.Fatal("C never forked")
	}

	select {
	case bPid := <-aReapedB:
		require.Greater(t, bPid, 0)
	case <-time.After(2 * time.Second):
		t.Fatal("A never reaped B")
	}

	require.Eventually(t, func() bool {
		for _, slot := range table.Procs {
			if slot.Pid == cPid {
				return slot.Parent == table.InitProc.Idx()
			}
		}
		return false
	}, time.Second, time.Millisecond, "C must be reparented to init once B exits")

	close(releaseC)

	select {
	case reaped := <-initReapedC:
		require.Equal(t, cPid, reaped)
	case <-time.After(2 * time.Second):
		t.Fatal("init never reaped C")
	}
}
