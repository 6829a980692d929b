package cpu

// The instruction set is encoded in three fixed-size dispatch tables of
// (mnemonic, handler) pairs. The primary table is indexed by the opcode
// field; opcode 0 diverts to the R-type table indexed by funct, and
// opcode 1 to the REGIMM table indexed by rt. An unmapped slot has a nil
// handler, which Step turns into InvalidInstruction.

type handler func(c *CPU, w uint32) error

type op struct {
	name string
	fn   handler
}

var primary = [64]op{
	2: {"j", execJ},
	3: {"jal", execJAL},
	4: {"beq", execBEQ},
	5: {"bne", execBNE},
	6: {"blez", execBranchZero},
	7: {"bgtz", execBranchZero},

	8:  {"addi", execADDI},
	9:  {"addiu", execADDIU},
	10: {"slti", execSLTI},
	11: {"sltiu", execSLTIU},
	12: {"andi", execANDI},
	13: {"ori", execORI},
	14: {"xori", execXORI},
	15: {"lui", execLUI},

	16: {"cop0", execCOP},
	17: {"cop1", execCOP},
	18: {"cop2", execCOP},
	19: {"cop3", execCOP},

	32: {"lb", execLB},
	33: {"lh", execLH},
	34: {"lwl", execLWL},
	35: {"lw", execLW},
	36: {"lbu", execLBU},
	37: {"lhu", execLHU},
	38: {"lwr", execLWR},

	40: {"sb", execSB},
	41: {"sh", execSH},
	42: {"swl", execSWL},
	43: {"sw", execSW},
	46: {"swr", execSWR},

	48: {"lwc0", execLWC},
	49: {"lwc1", execLWC},
	50: {"lwc2", execLWC},
	51: {"lwc3", execLWC},

	56: {"swc0", execSWC},
	57: {"swc1", execSWC},
	58: {"swc2", execSWC},
	59: {"swc3", execSWC},
}

// R-type secondary table, indexed by funct.
var special = [64]op{
	0: {"sll", execSLL},
	2: {"srl", execSRL},
	3: {"sra", execSRA},
	4: {"sllv", execSLLV},
	6: {"srlv", execSRLV},
	7: {"srav", execSRAV},

	8:  {"jr", execJR},
	9:  {"jalr", execJALR},
	12: {"syscall", execSYSCALL},
	13: {"break", execBREAK},

	16: {"mfhi", execMFHI},
	17: {"mthi", execMTHI},
	18: {"mflo", execMFLO},
	19: {"mtlo", execMTLO},

	24: {"mult", execMULT},
	25: {"multu", execMULTU},
	26: {"div", execDIV},
	27: {"divu", execDIVU},

	32: {"add", execADD},
	33: {"addu", execADDU},
	34: {"sub", execSUB},
	35: {"subu", execSUBU},
	36: {"and", execAND},
	37: {"or", execOR},
	38: {"xor", execXOR},
	39: {"nor", execNOR},

	42: {"slt", execSLT},
	43: {"sltu", execSLTU},
}

// REGIMM secondary table, indexed by the rt field.
var regimm = [32]op{
	0:  {"bltz", execBLTZ},
	1:  {"bgez", execBGEZ},
	16: {"bltzal", execBLTZAL},
	17: {"bgezal", execBGEZAL},
}

// lookup resolves an instruction word to its table entry, following the
// secondary tables for opcodes 0 and 1.
func lookup(w uint32) op {
	switch DecodeOpcode(w) {
	case 0:
		return special[w&63]
	case 1:
		return regimm[(w>>16)&31]
	default:
		return primary[w>>26]
	}
}
