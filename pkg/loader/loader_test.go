package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/hamish-milne/mipsim/pkg/cpu"
	"github.com/hamish-milne/mipsim/pkg/mem"
)

func TestBinary(t *testing.T) {
	ram := mem.NewRAM(0, 64)
	n, err := Binary(ram, 8, strings.NewReader("\x21\x43\x65\x87"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("loaded %d bytes", n)
	}
	got := make([]byte, 4)
	if err := ram.Read(8, got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0x21 || got[3] != 0x87 {
		t.Errorf("image bytes % x", got)
	}
}

func TestBinaryTooLarge(t *testing.T) {
	ram := mem.NewRAM(0, 4)
	_, err := Binary(ram, 0, strings.NewReader("12345678"))
	if !errors.Is(err, cpu.FaultInvalidAddress) {
		t.Errorf("oversized image: %v", err)
	}
}

func TestHex(t *testing.T) {
	src := `
0x00221820   # add r3, r1, r2
0x0000000C   # syscall

# a comment-only line and blanks are skipped
0x24010001
`
	ram := mem.NewRAM(0, 64)
	n, err := Hex(ram, 0, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if n != 12 {
		t.Fatalf("loaded %d bytes, want 12", n)
	}
	// Words land big-endian.
	got := make([]byte, 4)
	if err := ram.Read(0, got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0x00 || got[1] != 0x22 || got[2] != 0x18 || got[3] != 0x20 {
		t.Errorf("word bytes % x", got)
	}
}

func TestHexBadLine(t *testing.T) {
	ram := mem.NewRAM(0, 64)
	_, err := Hex(ram, 0, strings.NewReader("0x00221820\nnot-a-word\n"))
	if !errors.Is(err, cpu.FaultInvalidArgument) {
		t.Errorf("bad line: %v", err)
	}
}
