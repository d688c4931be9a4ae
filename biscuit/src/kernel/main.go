package main

import (
	"fmt"
	"os"

	"xv6core/biscuit/src/proc"
)

// main boots the kernel and blocks forever servicing the debug-dump
// hotkey, the way the teacher's main() never returns from cpus_start's
// caller once the BSP itself falls into scheduler() (biscuit/src/kernel
// /main.go). There is no real console here and nothing sends on the
// hotkey channel, so main simply blocks, matching a booted kernel with
// nothing happening on its console.
func main() {
	t, g := Boot(proc.DefaultConfig())

	hotkey := make(chan struct{})
	DumpOnSignal(os.Stdout, t, hotkey)

	fmt.Fprintf(os.Stdout, "booted: pid 1 (%s) is %s\n",
		t.InitProc.NameString(), t.InitProc.State)

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "kernel: scheduler goroutine exited: %v\n", err)
		os.Exit(1)
	}
}
