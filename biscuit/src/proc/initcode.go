package proc

// PGSIZE is the simulated page size; userinit's init process gets exactly
// one page (spec.md §4.6, §8 scenario 1).
const PGSIZE = 4096

// InitCode is the RISC-V instruction sequence `exec("/init")` compiles
// to, reproduced verbatim from original_source/kernel/c/proc.c (xv6-riscv
// proc.c's `initcode[]`, generated by `od -t xC initcode`). Spec.md §6
// calls this byte string part of the external interface with the boot
// loader: it must be reproduced verbatim or regenerated to equivalent
// effect, so it is kept exactly as the original C array literal.
var InitCode = []byte{
	0x17, 0x05, 0x00, 0x00, 0x13, 0x05, 0x45, 0x02,
	0x97, 0x05, 0x00, 0x00, 0x93, 0x85, 0x35, 0x02,
	0x93, 0x08, 0x70, 0x00, 0x73, 0x00, 0x00, 0x00,
	0x93, 0x08, 0x20, 0x00, 0x73, 0x00, 0x00, 0x00,
	0xef, 0xf0, 0x9f, 0xff, 0x2f, 0x69, 0x6e, 0x69,
	0x74, 0x00, 0x00, 0x24, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}
