// Package harness runs conformance test vectors against the simulator.
//
// A vector describes one scenario: initial register, PC and memory state,
// a number of steps to execute, and the expected outcome (a fault kind on
// the final step, or none) together with the register, PC and HI/LO
// values to check afterwards. Vectors serialize as JSON so a suite can be
// shared between the package tests and the CLI verify command.
package harness

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hamish-milne/mipsim/pkg/cpu"
	"github.com/hamish-milne/mipsim/pkg/mem"
)

// DefaultMemSize is the RAM size used by vectors that do not name one.
const DefaultMemSize = 64 * 1024

// RegValue pairs a general purpose register index with a value.
type RegValue struct {
	Index uint32 `json:"index"`
	Value uint32 `json:"value"`
}

// MemWord places one 32-bit word at an address, big-endian.
type MemWord struct {
	Addr uint32 `json:"addr"`
	Word uint32 `json:"word"`
}

// MemByte places one raw byte at an address.
type MemByte struct {
	Addr  uint32 `json:"addr"`
	Value uint8  `json:"value"`
}

// Vector is one conformance scenario.
type Vector struct {
	Name string `json:"name"`

	// Environment. Size zero means DefaultMemSize.
	Base uint32 `json:"base,omitempty"`
	Size uint32 `json:"size,omitempty"`

	// Initial state. Unnamed registers are zero.
	PC    uint32     `json:"pc,omitempty"`
	Regs  []RegValue `json:"regs,omitempty"`
	HI    uint32     `json:"hi,omitempty"`
	LO    uint32     `json:"lo,omitempty"`
	Words []MemWord  `json:"words,omitempty"`
	Bytes []MemByte  `json:"bytes,omitempty"`

	// Steps to execute; zero means one.
	Steps int `json:"steps,omitempty"`

	// Expected outcome. WantFault names the fault the final step must
	// return (earlier steps must succeed); empty means every step
	// succeeds. Pointer fields are only checked when present.
	WantFault string     `json:"want_fault,omitempty"`
	WantRegs  []RegValue `json:"want_regs,omitempty"`
	WantPC    *uint32    `json:"want_pc,omitempty"`
	WantHI    *uint32    `json:"want_hi,omitempty"`
	WantLO    *uint32    `json:"want_lo,omitempty"`
}

// Run executes one vector on a fresh CPU and RAM. It returns nil when
// every expectation holds, or an error naming the first mismatch.
func Run(v Vector) error {
	size := v.Size
	if size == 0 {
		size = DefaultMemSize
	}
	ram := mem.NewRAM(v.Base, size)
	for _, mw := range v.Words {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], mw.Word)
		if err := ram.Write(mw.Addr, b[:]); err != nil {
			return fmt.Errorf("setup word at %08x: %w", mw.Addr, err)
		}
	}
	for _, mb := range v.Bytes {
		if err := ram.Write(mb.Addr, []byte{mb.Value}); err != nil {
			return fmt.Errorf("setup byte at %08x: %w", mb.Addr, err)
		}
	}

	c, err := cpu.New(ram)
	if err != nil {
		return err
	}
	c.SetPC(v.PC)
	c.SetHI(v.HI)
	c.SetLO(v.LO)
	for _, rv := range v.Regs {
		if err := c.SetRegister(rv.Index, rv.Value); err != nil {
			return fmt.Errorf("setup r%d: %w", rv.Index, err)
		}
	}

	var wantFault cpu.Fault
	if v.WantFault != "" {
		if wantFault, err = cpu.ParseFault(v.WantFault); err != nil {
			return fmt.Errorf("vector %q: unknown fault %q", v.Name, v.WantFault)
		}
	}

	steps := v.Steps
	if steps == 0 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		err := c.Step()
		last := i == steps-1
		switch {
		case err == nil && last && v.WantFault != "":
			return fmt.Errorf("step %d: want fault %s, got none", i+1, wantFault)
		case err != nil && (!last || v.WantFault == ""):
			return fmt.Errorf("step %d: unexpected fault %v", i+1, err)
		case err != nil && !errors.Is(err, wantFault):
			return fmt.Errorf("step %d: want fault %s, got %v", i+1, wantFault, err)
		}
	}

	for _, rv := range v.WantRegs {
		got, err := c.Register(rv.Index)
		if err != nil {
			return fmt.Errorf("check r%d: %w", rv.Index, err)
		}
		if got != rv.Value {
			return fmt.Errorf("r%d = %08x, want %08x", rv.Index, got, rv.Value)
		}
	}
	if v.WantPC != nil && c.PC() != *v.WantPC {
		return fmt.Errorf("pc = %08x, want %08x", c.PC(), *v.WantPC)
	}
	if v.WantHI != nil && c.HI() != *v.WantHI {
		return fmt.Errorf("hi = %08x, want %08x", c.HI(), *v.WantHI)
	}
	if v.WantLO != nil && c.LO() != *v.WantLO {
		return fmt.Errorf("lo = %08x, want %08x", c.LO(), *v.WantLO)
	}
	return nil
}

// WriteJSON writes vectors as indented JSON.
func WriteJSON(w io.Writer, vectors []Vector) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(vectors)
}

// ReadJSON reads a vector suite written by WriteJSON.
func ReadJSON(r io.Reader) ([]Vector, error) {
	var vectors []Vector
	if err := json.NewDecoder(r).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("%w: %v", cpu.FaultFileRead, err)
	}
	return vectors, nil
}
