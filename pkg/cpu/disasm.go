package cpu

import "fmt"

// Mnemonic returns the mnemonic an instruction word dispatches to, or ""
// for an unmapped encoding.
func Mnemonic(w uint32) string {
	return lookup(w).name
}

// Disassemble returns assembly text for a single instruction word.
// Branch and jump operands are printed as they appear in the encoding:
// branches as signed byte offsets relative to the delay slot, jumps as the
// in-page target address.
func Disassemble(w uint32) string {
	o := lookup(w)
	if o.fn == nil {
		return fmt.Sprintf("<unknown instruction: 0x%08x>", w)
	}
	switch DecodeOpcode(w) {
	case 0:
		return disasmSpecial(o.name, DecodeR(w))
	case 1:
		in := DecodeI(w)
		return fmt.Sprintf("%s r%d, %d", o.name, in.Rs, int32(in.Imm)<<2)
	case 2, 3:
		in := DecodeJ(w)
		return fmt.Sprintf("%s 0x%08x", o.name, in.Target<<2)
	case 4, 5:
		in := DecodeI(w)
		return fmt.Sprintf("%s r%d, r%d, %d", o.name, in.Rs, in.Rt, int32(in.Imm)<<2)
	case 6, 7:
		in := DecodeI(w)
		return fmt.Sprintf("%s r%d, %d", o.name, in.Rs, int32(in.Imm)<<2)
	case 8, 9, 10, 11:
		in := DecodeI(w)
		return fmt.Sprintf("%s r%d, r%d, %d", o.name, in.Rt, in.Rs, int32(in.Imm))
	case 12, 13, 14:
		in := DecodeI(w)
		return fmt.Sprintf("%s r%d, r%d, 0x%x", o.name, in.Rt, in.Rs, in.Imm&0xFFFF)
	case 15:
		in := DecodeI(w)
		return fmt.Sprintf("%s r%d, 0x%x", o.name, in.Rt, in.Imm&0xFFFF)
	case 16, 17, 18, 19:
		return fmt.Sprintf("%s 0x%07x", o.name, w&0x03FFFFFF)
	default:
		// Loads, stores and coprocessor transfers.
		in := DecodeI(w)
		return fmt.Sprintf("%s r%d, %d(r%d)", o.name, in.Rt, int32(in.Imm), in.Rs)
	}
}

func disasmSpecial(name string, in RInst) string {
	switch in.Funct {
	case 0, 2, 3: // constant shifts
		return fmt.Sprintf("%s r%d, r%d, %d", name, in.Rd, in.Rt, in.Shamt)
	case 4, 6, 7: // variable shifts
		return fmt.Sprintf("%s r%d, r%d, r%d", name, in.Rd, in.Rt, in.Rs)
	case 8: // jr
		return fmt.Sprintf("%s r%d", name, in.Rs)
	case 9: // jalr
		return fmt.Sprintf("%s r%d, r%d", name, in.Rd, in.Rs)
	case 12, 13: // syscall, break
		return name
	case 16, 18: // mfhi, mflo
		return fmt.Sprintf("%s r%d", name, in.Rd)
	case 17, 19: // mthi, mtlo
		return fmt.Sprintf("%s r%d", name, in.Rs)
	case 24, 25, 26, 27: // mult, multu, div, divu
		return fmt.Sprintf("%s r%d, r%d", name, in.Rs, in.Rt)
	default:
		return fmt.Sprintf("%s r%d, r%d, r%d", name, in.Rd, in.Rs, in.Rt)
	}
}
