// Package mem provides the byte-addressable memory collaborator used by
// the simulator's CLI, loader and conformance harness.
package mem

import (
	"github.com/hamish-milne/mipsim/pkg/cpu"
)

// RAM is a flat bounds-checked byte store starting at a base address. It
// is byte-granular: the CPU issues spans of 1, 2 and 4 bytes, including
// odd-address spans for the unaligned load/store family, and RAM accepts
// them all. A span falling outside [base, base+size) is InvalidAddress; a
// store into a protected span is AccessViolation. Contents are never
// modified by a failing access.
type RAM struct {
	base uint32
	data []byte

	// protected spans, [lo, hi) in absolute addresses
	protected [][2]uint32
}

// NewRAM allocates size bytes of zeroed memory starting at base.
func NewRAM(base, size uint32) *RAM {
	return &RAM{base: base, data: make([]byte, size)}
}

// Base returns the first valid address.
func (r *RAM) Base() uint32 { return r.base }

// Size returns the number of addressable bytes.
func (r *RAM) Size() uint32 { return uint32(len(r.data)) }

// Protect marks [lo, hi) read-only. Later writes overlapping the span
// fail with AccessViolation. Protection is not reversible.
func (r *RAM) Protect(lo, hi uint32) {
	if hi > lo {
		r.protected = append(r.protected, [2]uint32{lo, hi})
	}
}

func (r *RAM) span(addr uint32, n int) (int, error) {
	off := addr - r.base
	if addr < r.base || uint64(off)+uint64(n) > uint64(len(r.data)) {
		return 0, cpu.FaultInvalidAddress
	}
	return int(off), nil
}

// Read fills p with the bytes at addr.
func (r *RAM) Read(addr uint32, p []byte) error {
	off, err := r.span(addr, len(p))
	if err != nil {
		return err
	}
	copy(p, r.data[off:])
	return nil
}

// Write stores p at addr.
func (r *RAM) Write(addr uint32, p []byte) error {
	off, err := r.span(addr, len(p))
	if err != nil {
		return err
	}
	for _, pr := range r.protected {
		if addr < pr[1] && addr+uint32(len(p)) > pr[0] {
			return cpu.FaultAccessViolation
		}
	}
	copy(r.data[off:], p)
	return nil
}
