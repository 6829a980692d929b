package cpu

import "encoding/binary"

// Load and store handlers. The effective address is always rs plus the
// sign-extended immediate. Word accesses require 4-byte alignment and
// halfword accesses 2-byte alignment; a violation raises InvalidAlignment
// before any transfer. Memory faults propagate verbatim, and the
// destination register is only written after a successful read, so a
// failing access leaves the architectural state untouched.

func (c *CPU) memRead(addr uint32, p []byte) error {
	if err := c.mem.Read(addr, p); err != nil {
		return err
	}
	c.tracef(3, "        mem[%08x] -> %d bytes", addr, len(p))
	return nil
}

func (c *CPU) memWrite(addr uint32, p []byte) error {
	if err := c.mem.Write(addr, p); err != nil {
		return err
	}
	c.tracef(3, "        mem[%08x] <- %d bytes", addr, len(p))
	return nil
}

func effectiveAddr(c *CPU, in IInst) uint32 {
	return c.reg[in.Rs] + in.Imm
}

// === Loads ===

func execLB(c *CPU, w uint32) error {
	in := DecodeI(w)
	var b [1]byte
	if err := c.memRead(effectiveAddr(c, in), b[:]); err != nil {
		return err
	}
	c.setReg(in.Rt, SignExtend8(uint32(b[0])))
	c.advancePC()
	return nil
}

func execLBU(c *CPU, w uint32) error {
	in := DecodeI(w)
	var b [1]byte
	if err := c.memRead(effectiveAddr(c, in), b[:]); err != nil {
		return err
	}
	c.setReg(in.Rt, uint32(b[0]))
	c.advancePC()
	return nil
}

func execLH(c *CPU, w uint32) error {
	in := DecodeI(w)
	addr := effectiveAddr(c, in)
	if addr&1 != 0 {
		return FaultInvalidAlignment
	}
	var b [2]byte
	if err := c.memRead(addr, b[:]); err != nil {
		return err
	}
	c.setReg(in.Rt, SignExtend16(uint32(binary.BigEndian.Uint16(b[:]))))
	c.advancePC()
	return nil
}

func execLHU(c *CPU, w uint32) error {
	in := DecodeI(w)
	addr := effectiveAddr(c, in)
	if addr&1 != 0 {
		return FaultInvalidAlignment
	}
	var b [2]byte
	if err := c.memRead(addr, b[:]); err != nil {
		return err
	}
	c.setReg(in.Rt, uint32(binary.BigEndian.Uint16(b[:])))
	c.advancePC()
	return nil
}

func execLW(c *CPU, w uint32) error {
	in := DecodeI(w)
	addr := effectiveAddr(c, in)
	if addr&3 != 0 {
		return FaultInvalidAlignment
	}
	var b [4]byte
	if err := c.memRead(addr, b[:]); err != nil {
		return err
	}
	c.setReg(in.Rt, binary.BigEndian.Uint32(b[:]))
	c.advancePC()
	return nil
}

// === Stores ===

func execSB(c *CPU, w uint32) error {
	in := DecodeI(w)
	b := [1]byte{byte(c.reg[in.Rt])}
	if err := c.memWrite(effectiveAddr(c, in), b[:]); err != nil {
		return err
	}
	c.advancePC()
	return nil
}

func execSH(c *CPU, w uint32) error {
	in := DecodeI(w)
	addr := effectiveAddr(c, in)
	if addr&1 != 0 {
		return FaultInvalidAlignment
	}
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(c.reg[in.Rt]))
	if err := c.memWrite(addr, b[:]); err != nil {
		return err
	}
	c.advancePC()
	return nil
}

func execSW(c *CPU, w uint32) error {
	in := DecodeI(w)
	addr := effectiveAddr(c, in)
	if addr&3 != 0 {
		return FaultInvalidAlignment
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], c.reg[in.Rt])
	if err := c.memWrite(addr, b[:]); err != nil {
		return err
	}
	c.advancePC()
	return nil
}

// === Unaligned loads and stores ===
//
// LWL/LWR and SWL/SWR move a 16-bit window with byte granularity: the
// left form at the effective address, the right form one byte below it.
// After the transfer the halves merge: the left forms cover the upper 16
// bits of rt and the right forms the lower 16. No alignment is required;
// the memory collaborator may still reject the span.

func execLWL(c *CPU, w uint32) error {
	in := DecodeI(w)
	var b [2]byte
	if err := c.memRead(effectiveAddr(c, in), b[:]); err != nil {
		return err
	}
	half := uint32(binary.BigEndian.Uint16(b[:]))
	c.setReg(in.Rt, half<<16|c.reg[in.Rt]&0xFFFF)
	c.advancePC()
	return nil
}

func execLWR(c *CPU, w uint32) error {
	in := DecodeI(w)
	var b [2]byte
	if err := c.memRead(effectiveAddr(c, in)-1, b[:]); err != nil {
		return err
	}
	half := uint32(binary.BigEndian.Uint16(b[:]))
	c.setReg(in.Rt, c.reg[in.Rt]&0xFFFF0000|half)
	c.advancePC()
	return nil
}

func execSWL(c *CPU, w uint32) error {
	in := DecodeI(w)
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(c.reg[in.Rt]>>16))
	if err := c.memWrite(effectiveAddr(c, in), b[:]); err != nil {
		return err
	}
	c.advancePC()
	return nil
}

func execSWR(c *CPU, w uint32) error {
	in := DecodeI(w)
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(c.reg[in.Rt]))
	if err := c.memWrite(effectiveAddr(c, in)-1, b[:]); err != nil {
		return err
	}
	c.advancePC()
	return nil
}
