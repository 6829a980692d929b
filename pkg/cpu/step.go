package cpu

import "encoding/binary"

// Step executes one instruction: it validates PC alignment, fetches four
// bytes from memory, converts them to a host-order word, dispatches and
// runs the handler, and rotates the (pc, pcN) pair. On any fault the step
// is abandoned with the architectural state unchanged and the fault is
// returned; the caller decides whether to continue.
func (c *CPU) Step() error {
	if c.pc&3 != 0 {
		c.tracef(1, "fault: %s: pc=%08x", FaultInvalidAlignment, c.pc)
		return FaultInvalidAlignment
	}
	var buf [4]byte
	if err := c.mem.Read(c.pc, buf[:]); err != nil {
		c.tracef(1, "fault: %v: fetch pc=%08x", err, c.pc)
		return err
	}
	w := binary.BigEndian.Uint32(buf[:])
	o := lookup(w)
	if o.fn == nil {
		c.tracef(1, "fault: %s: word=%08x pc=%08x", FaultInvalidInstruction, w, c.pc)
		return FaultInvalidInstruction
	}
	c.tracef(2, "%08x: %s", c.pc, o.name)
	if err := o.fn(c, w); err != nil {
		c.tracef(1, "fault: %v: pc=%08x", err, c.pc)
		return err
	}
	return nil
}

// advancePC rotates the PC pair forward one straight-line instruction:
// pc takes the pending successor and pcN follows four bytes behind.
func (c *CPU) advancePC() {
	c.pc = c.pcN
	c.pcN = c.pc + 4
}

// branchTo schedules a delayed control transfer: pc moves into the delay
// slot and pcN holds the branch target, which pc takes one step later.
func (c *CPU) branchTo(target uint32) {
	c.pc = c.pcN
	c.pcN = target
	c.tracef(3, "        pc  -> %08x (delayed)", target)
}
