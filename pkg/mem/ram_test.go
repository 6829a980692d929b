package mem

import (
	"errors"
	"testing"

	"github.com/hamish-milne/mipsim/pkg/cpu"
)

func TestRAMReadWrite(t *testing.T) {
	r := NewRAM(0, 64)
	if err := r.Write(4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 4)
	if err := r.Read(4, got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 1 || got[3] != 4 {
		t.Errorf("read back % x", got)
	}

	// Odd-address and single-byte spans are fine; RAM is byte-granular.
	if err := r.Read(5, got[:2]); err != nil {
		t.Errorf("odd-address read: %v", err)
	}
	if err := r.Write(63, got[:1]); err != nil {
		t.Errorf("last-byte write: %v", err)
	}
}

func TestRAMBounds(t *testing.T) {
	r := NewRAM(0x1000, 64)
	buf := make([]byte, 4)

	if err := r.Read(0x0FFF, buf); !errors.Is(err, cpu.FaultInvalidAddress) {
		t.Errorf("read below base: %v", err)
	}
	if err := r.Read(0x1040, buf); !errors.Is(err, cpu.FaultInvalidAddress) {
		t.Errorf("read past end: %v", err)
	}
	// A span straddling the end fails even though it starts in range.
	if err := r.Write(0x103E, buf); !errors.Is(err, cpu.FaultInvalidAddress) {
		t.Errorf("straddling write: %v", err)
	}
	// An address wrapping below base must not alias into the array.
	if err := r.Read(0xFFFFFFFC, buf); !errors.Is(err, cpu.FaultInvalidAddress) {
		t.Errorf("wrapped read: %v", err)
	}
}

func TestRAMProtect(t *testing.T) {
	r := NewRAM(0, 128)
	if err := r.Write(16, []byte{0xAA}); err != nil {
		t.Fatal(err)
	}
	r.Protect(16, 32)

	if err := r.Write(16, []byte{0xBB}); !errors.Is(err, cpu.FaultAccessViolation) {
		t.Fatalf("write into protected span: %v", err)
	}
	// The failing write left the old contents in place.
	got := make([]byte, 1)
	if err := r.Read(16, got); err != nil || got[0] != 0xAA {
		t.Errorf("protected byte = %02x, %v", got[0], err)
	}
	// A span overlapping the protected tail fails too.
	if err := r.Write(30, []byte{1, 2, 3, 4}); !errors.Is(err, cpu.FaultAccessViolation) {
		t.Errorf("overlapping write: %v", err)
	}
	// Reads inside the span and writes outside it are unaffected.
	if err := r.Read(16, got); err != nil {
		t.Errorf("protected read: %v", err)
	}
	if err := r.Write(32, []byte{1}); err != nil {
		t.Errorf("write past protected span: %v", err)
	}
}
