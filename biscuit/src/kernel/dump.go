package main

import (
	"io"

	"xv6core/biscuit/src/proc"
)

// DumpOnSignal starts a goroutine that calls proc.Dump(w, t) every time a
// value arrives on hotkey, standing in for the teacher's console-hotkey
// debug dump (biscuit/src/kernel/main.go's kbd_daemon reads keystrokes in
// a loop and dispatches on them; here the "keystroke" is already decoded
// into a channel send by whatever reads the console). It returns
// immediately; the caller owns hotkey's lifetime and should close it to
// stop the goroutine.
func DumpOnSignal(w io.Writer, t *proc.Table, hotkey <-chan struct{}) {
	go func() {
		for range hotkey {
			proc.Dump(w, t)
		}
	}()
}
