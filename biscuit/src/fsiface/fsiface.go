// Package fsiface stands in for the on-disk/in-memory file system and
// open-file table spec.md §1 places out of scope (namei, idup, iput,
// fileclose, filedup, begin_op, end_op, fsinit, pipes, devices). The
// shapes below are grounded on the xv6 C originals kept in
// original_source/kernel/c/file.h and sysfile.c: a ref-counted File
// standing in for "struct file", and a ref-counted Inode standing in for
// "struct inode". There is no device-major dispatch table ("struct devsw").
package fsiface

import "sync"

// File mirrors struct file (file.h): a ref-counted handle shared between
// every process that holds a descriptor pointing at it. fork's "same
// file-descriptor bindings, refcount incremented" requirement (P7) is
// exactly this type's Refs field.
type File struct {
	mu       sync.Mutex
	Readable bool
	Writable bool
	Refs     int
	closed   bool
}

func NewFile(readable, writable bool) *File {
	return &File{Readable: readable, Writable: writable, Refs: 1}
}

// Filedup increments the reference count and returns the same File,
// matching xv6's filedup(f) (sysfile.c's fdalloc callers expect to "take
// over" a reference, filedup is how fork shares one instead of copying).
func Filedup(f *File) *File {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Refs++
	return f
}

// Fileclose drops a reference, releasing the underlying resource once the
// last reference is gone.
func Fileclose(f *File) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Refs--
	if f.Refs <= 0 {
		f.closed = true
	}
}

// Inode mirrors struct inode (file.h): ref-counted, shared as a process's
// current working directory.
type Inode struct {
	mu   sync.Mutex
	Path string
	Refs int
}

func Namei(path string) *Inode {
	return &Inode{Path: path, Refs: 1}
}

func Idup(ip *Inode) *Inode {
	if ip == nil {
		return nil
	}
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.Refs++
	return ip
}

func Iput(ip *Inode) {
	if ip == nil {
		return
	}
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.Refs--
}

// Begin_op/End_op bracket a file-system transaction (xv6's logging
// layer). proc.Exit calls them around iput(p.Cwd), exactly where the xv6
// original brackets its own cwd release; here they are no-ops, so
// swapping in a real journaling implementation later touches nothing in
// proc.
func Begin_op() {}
func End_op()   {}

// Fsinit is the one-shot, process-wide file-system initialization hook run
// the first time any process reaches forkret (spec.md §4.4). dev names the
// root device, matching xv6's fsinit(ROOTDEV). Here it is a no-op, like
// Begin_op/End_op.
func Fsinit(dev int) {}
