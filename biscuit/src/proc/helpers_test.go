package proc

import "sync"

// bootTable constructs a table, runs Userinit on a nominal boot CPU, and
// starts one scheduler on each of the ncpu CPUs -- the minimal harness
// the fork/exit/wait/kill scenarios in spec.md §8 need, without pulling
// in the kernel package's boot sequence (which lives in package main and
// would make proc import it, backwards).
//
// body, if non-nil, replaces InitBody as init's simulated user program. It
// must be set before any scheduler starts: initproc is already RUNNABLE
// the moment Userinit returns, so a scheduler goroutine may pick it up and
// read p.Body the instant it is free to run. Assigning p.Body after
// starting schedulers would race that read.
func bootTable(nproc, ncpu int, body func(t *Table, p *Proc, cpu *CPU)) (*Table, func()) {
	cfg := Config{NPROC: nproc, NCPU: ncpu, KStackSize: 4096}
	t := Procinit(cfg)

	initp := Userinit(t, t.CPUs[0])
	if body != nil {
		initp.Body = body
	}

	var wg sync.WaitGroup
	wg.Add(len(t.CPUs))
	for _, cpu := range t.CPUs {
		cpu := cpu
		go func() {
			defer wg.Done()
			Scheduler(t, cpu)
		}()
	}

	// Scheduler never returns in normal operation; there is nothing
	// meaningful to wait for at shutdown in a teaching kernel that never
	// tears down (spec.md §9: "never destroyed"). Tests simply let the
	// scheduler goroutines leak for their duration, exactly as a real
	// kernel's scheduler cores never "stop" while the machine is up.
	return t, func() {}
}
