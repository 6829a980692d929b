// Package cpu implements an interpreting simulator of the MIPS-I 32-bit
// instruction set architecture.
//
// The simulated processor is big-endian: the byte at the lowest address of
// an aligned word is the most significant byte. All multi-byte quantities
// crossing the memory boundary are converted with encoding/binary.
//
// Control flow uses the MIPS single branch-delay slot. The processor keeps
// two program counters: pc is the instruction being executed and pcN is
// what pc becomes after the current step. Straight-line instructions rotate
// (pc, pcN) forward by four; a taken branch or jump instead writes its
// target into pcN, so the instruction textually after the branch always
// executes before control transfers. Link instructions (JAL, JALR, BLTZAL,
// BGEZAL) store pc+8, the address after the delay slot.
//
// A CPU instance is single-threaded and synchronous; callers sharing one
// instance across goroutines must serialise. Step runs to completion,
// including its memory accesses, before returning. When Step returns a
// fault the architectural state is unchanged: handlers order their checks
// and memory transfers before the first register or PC write.
package cpu

import "io"

const (
	// NumRegisters is the number of general purpose registers. Register 0
	// is hard-wired to zero; writes addressed to it are discarded.
	NumRegisters = 32

	// NumCoprocessors is the number of pluggable coprocessor slots.
	NumCoprocessors = 4

	// NumExceptionSlots is the size of the exception-handler address
	// table. The table is populated through the API but never dispatched;
	// raising a fault does not transfer control inside the simulator.
	NumExceptionSlots = 16
)

// Memory is the byte-addressable memory collaborator the CPU executes
// against. The CPU does not own it and never closes or frees it.
//
// Read fills p with len(p) bytes starting at addr; Write stores len(p)
// bytes from p at addr. Both return nil or a fault; implementations define
// their own alignment and bounds policy, and faults propagate out of Step
// verbatim. The CPU issues spans of 1, 2 and 4 bytes. An implementation
// must preserve its contents on a failing access.
type Memory interface {
	Read(addr uint32, p []byte) error
	Write(addr uint32, p []byte) error
}

// TraceFunc receives one formatted diagnostic line, without ownership of
// the buffer: the slice is reused by the next emission.
type TraceFunc func(c *CPU, line []byte)

// CPU is one simulated MIPS-I processor core.
type CPU struct {
	reg    [NumRegisters]uint32
	hi, lo uint32
	pc     uint32 // address of the next instruction to execute
	pcN    uint32 // address pc takes after the current step

	mem Memory

	debugLevel int
	debugSink  io.Writer
	debugFn    TraceFunc
	traceBuf   []byte

	coproc   [NumCoprocessors]Coprocessor
	handlers [NumExceptionSlots]uint32
}

// New creates a CPU bound to mem with all architectural state zeroed and
// pc=0, pcN=4.
func New(mem Memory) (*CPU, error) {
	if mem == nil {
		return nil, FaultInvalidArgument
	}
	return &CPU{mem: mem, pcN: 4}, nil
}

// Reset zeroes all architectural state (registers, HI/LO, PC) and clears
// the exception-handler table. The memory binding, debug configuration and
// coprocessor slots are preserved.
func (c *CPU) Reset() {
	c.reg = [NumRegisters]uint32{}
	c.hi, c.lo = 0, 0
	c.pc, c.pcN = 0, 4
	c.handlers = [NumExceptionSlots]uint32{}
}

// Register returns the value of general purpose register i.
func (c *CPU) Register(i uint32) (uint32, error) {
	if i >= NumRegisters {
		return 0, FaultInvalidArgument
	}
	return c.reg[i], nil
}

// SetRegister stores v into general purpose register i. A write to
// register 0 is silently discarded.
func (c *CPU) SetRegister(i, v uint32) error {
	if i >= NumRegisters {
		return FaultInvalidArgument
	}
	if i != 0 {
		c.reg[i] = v
	}
	return nil
}

// PC returns the address of the next instruction to execute.
func (c *CPU) PC() uint32 {
	return c.pc
}

// SetPC sets the next-instruction address and re-establishes the
// straight-line successor pcN = v+4, discarding any pending branch.
func (c *CPU) SetPC(v uint32) {
	c.pc = v
	c.pcN = v + 4
}

// HI returns the high half of the multiply/divide register pair.
func (c *CPU) HI() uint32 { return c.hi }

// LO returns the low half of the multiply/divide register pair.
func (c *CPU) LO() uint32 { return c.lo }

// SetHI stores v into the HI register.
func (c *CPU) SetHI(v uint32) { c.hi = v }

// SetLO stores v into the LO register.
func (c *CPU) SetLO(v uint32) { c.lo = v }

// SetDebugLevel configures diagnostic tracing. Level 0 is silent; 1 emits
// one line per fault, 2 adds one line per executed instruction, 3 and
// above add register-write and effective-address detail. Lines go to sink,
// unless a handler installed with SetDebugHandler takes precedence; with
// neither set, standard output is used.
//
// The CPU takes ownership of sink: if it implements io.Closer it is closed
// by Close.
func (c *CPU) SetDebugLevel(level int, sink io.Writer) {
	c.debugLevel = level
	c.debugSink = sink
}

// SetDebugHandler installs fn as the trace destination. A nil fn reverts
// to the configured sink.
func (c *CPU) SetDebugHandler(fn TraceFunc) {
	c.debugFn = fn
}

// SetCoprocessor installs cp into coprocessor slot i. Instructions naming
// a slot whose required hook is unset raise CoprocessorUnusable.
func (c *CPU) SetCoprocessor(i uint32, cp Coprocessor) error {
	if i >= NumCoprocessors {
		return FaultInvalidArgument
	}
	c.coproc[i] = cp
	return nil
}

// SetExceptionHandler records addr as the handler address for the given
// architectural fault kind. The table is configuration only: Step never
// dispatches through it.
func (c *CPU) SetExceptionHandler(kind Fault, addr uint32) error {
	if !kind.Architectural() || int(kind) >= NumExceptionSlots {
		return FaultInvalidArgument
	}
	c.handlers[kind] = addr
	return nil
}

// ExceptionHandler returns the recorded handler address for kind.
func (c *CPU) ExceptionHandler(kind Fault) (uint32, error) {
	if !kind.Architectural() || int(kind) >= NumExceptionSlots {
		return 0, FaultInvalidArgument
	}
	return c.handlers[kind], nil
}

// Close releases the debug sink if the CPU owns a closable one. The memory
// collaborator is referenced, not owned, and is never touched.
func (c *CPU) Close() error {
	if closer, ok := c.debugSink.(io.Closer); ok {
		c.debugSink = nil
		return closer.Close()
	}
	return nil
}

// setReg writes a register from an instruction handler, discarding writes
// to register 0.
func (c *CPU) setReg(i, v uint32) {
	if i == 0 {
		return
	}
	c.reg[i] = v
	c.tracef(3, "        r%-2d <- %08x", i, v)
}
