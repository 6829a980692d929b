package cpu

import "encoding/binary"

// Coprocessor is a pluggable triple of hooks for one of the four
// coprocessor slots. Each hook is optional; an instruction naming a slot
// whose hook is unset raises CoprocessorUnusable.
//
// Op handles a COPz instruction and receives the raw word. LWC receives
// the word freshly loaded by LWCz. SWC supplies the word SWCz stores.
// Hooks may read and write the CPU through the handle they are given.
type Coprocessor struct {
	Op  func(c *CPU, word uint32) error
	LWC func(c *CPU, rt uint32, word uint32) error
	SWC func(c *CPU, rt uint32) (uint32, error)
}

func execCOP(c *CPU, w uint32) error {
	z := DecodeOpcode(w) - 16
	fn := c.coproc[z].Op
	if fn == nil {
		return FaultCoprocessorUnusable
	}
	if err := fn(c, w); err != nil {
		return err
	}
	c.advancePC()
	return nil
}

func execLWC(c *CPU, w uint32) error {
	in := DecodeI(w)
	fn := c.coproc[in.Op-48].LWC
	if fn == nil {
		return FaultCoprocessorUnusable
	}
	addr := effectiveAddr(c, in)
	if addr&3 != 0 {
		return FaultInvalidAlignment
	}
	var b [4]byte
	if err := c.memRead(addr, b[:]); err != nil {
		return err
	}
	if err := fn(c, in.Rt, binary.BigEndian.Uint32(b[:])); err != nil {
		return err
	}
	c.advancePC()
	return nil
}

func execSWC(c *CPU, w uint32) error {
	in := DecodeI(w)
	fn := c.coproc[in.Op-56].SWC
	if fn == nil {
		return FaultCoprocessorUnusable
	}
	addr := effectiveAddr(c, in)
	if addr&3 != 0 {
		return FaultInvalidAlignment
	}
	word, err := fn(c, in.Rt)
	if err != nil {
		return err
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], word)
	if err := c.memWrite(addr, b[:]); err != nil {
		return err
	}
	c.advancePC()
	return nil
}
