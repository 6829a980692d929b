package cpu

// Jump, branch and trap handlers.
//
// Branch targets are relative to the delay slot: at handler entry pcN
// already holds the delay-slot address, so a taken branch transfers to
// pcN + imm<<2 and a jump merges its 26-bit target with the delay slot's
// top four address bits. Link values are pc+8, the instruction after the
// delay slot, computed before the PC pair rotates.

// condBranch commits a conditional branch decision.
func (c *CPU) condBranch(in IInst, taken bool) {
	if taken {
		c.branchTo(c.pcN + in.Imm<<2)
	} else {
		c.advancePC()
	}
}

// === Jumps ===

func execJ(c *CPU, w uint32) error {
	in := DecodeJ(w)
	c.branchTo(c.pcN&0xF0000000 | in.Target<<2)
	return nil
}

func execJAL(c *CPU, w uint32) error {
	in := DecodeJ(w)
	c.setReg(31, c.pc+8)
	c.branchTo(c.pcN&0xF0000000 | in.Target<<2)
	return nil
}

func execJR(c *CPU, w uint32) error {
	in := DecodeR(w)
	target := c.reg[in.Rs]
	if target&3 != 0 {
		return FaultInvalidAlignment
	}
	c.branchTo(target)
	return nil
}

func execJALR(c *CPU, w uint32) error {
	in := DecodeR(w)
	target := c.reg[in.Rs]
	if target&3 != 0 {
		return FaultInvalidAlignment
	}
	c.setReg(in.Rd, c.pc+8)
	c.branchTo(target)
	return nil
}

// === Conditional branches ===

func execBEQ(c *CPU, w uint32) error {
	in := DecodeI(w)
	c.condBranch(in, c.reg[in.Rs] == c.reg[in.Rt])
	return nil
}

func execBNE(c *CPU, w uint32) error {
	in := DecodeI(w)
	c.condBranch(in, c.reg[in.Rs] != c.reg[in.Rt])
	return nil
}

// execBranchZero serves BLEZ and BGTZ, keyed by the low opcode bit.
func execBranchZero(c *CPU, w uint32) error {
	in := DecodeI(w)
	v := int32(c.reg[in.Rs])
	taken := v <= 0
	if in.Op&1 != 0 {
		taken = v > 0
	}
	c.condBranch(in, taken)
	return nil
}

// === REGIMM branches ===
//
// The AL forms link unconditionally: register 31 receives pc+8 whether or
// not the branch is taken.

func execBLTZ(c *CPU, w uint32) error {
	in := DecodeI(w)
	c.condBranch(in, int32(c.reg[in.Rs]) < 0)
	return nil
}

func execBGEZ(c *CPU, w uint32) error {
	in := DecodeI(w)
	c.condBranch(in, int32(c.reg[in.Rs]) >= 0)
	return nil
}

func execBLTZAL(c *CPU, w uint32) error {
	in := DecodeI(w)
	c.setReg(31, c.pc+8)
	c.condBranch(in, int32(c.reg[in.Rs]) < 0)
	return nil
}

func execBGEZAL(c *CPU, w uint32) error {
	in := DecodeI(w)
	c.setReg(31, c.pc+8)
	c.condBranch(in, int32(c.reg[in.Rs]) >= 0)
	return nil
}

// === Traps ===

func execSYSCALL(c *CPU, w uint32) error {
	return FaultSystemCall
}

func execBREAK(c *CPU, w uint32) error {
	return FaultBreak
}
