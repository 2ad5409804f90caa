// debug_disasm_arm.go - ARM32/Thumb disassembler for the machine
// monitor. Grounded on debug_disasm_ie32.go's shape (a flat opcode
// table plus a fixed-width decode loop) but classifying by ARM's
// condition/class bit fields the way cpu_arm_ops.go's classifyArm
// already does, rather than a byte-indexed opcode table - ARM has no
// one-byte opcode to key a map on.

package main

import "fmt"

var armCondNames = [16]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "", "NV",
}

var armDpMnemonics = [16]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

var armRegNames = [16]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "sp", "lr", "pc",
}

// disassembleArm decodes count 32-bit ARM words starting at addr via
// readMem, the way disassembleIE32 decodes fixed 8-byte IE32 words.
func disassembleArm(readMem func(addr uint64, size int) []byte, addr uint64, count int) []DisassembledLine {
	var lines []DisassembledLine
	for i := 0; i < count; i++ {
		data := readMem(addr, 4)
		if len(data) < 4 {
			break
		}
		instr := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
		hexBytes := fmt.Sprintf("%02X %02X %02X %02X", data[0], data[1], data[2], data[3])

		mnemonic, isBranch, target := decodeArmWord(instr, uint32(addr))

		lines = append(lines, DisassembledLine{
			Address:      addr,
			HexBytes:     hexBytes,
			Mnemonic:     mnemonic,
			Size:         4,
			IsBranch:     isBranch,
			BranchTarget: uint64(target),
		})
		addr += 4
	}
	return lines
}

// disassembleThumb decodes count 16-bit Thumb halfwords, for when the
// focused CPU reports T-bit set (spec 4.1's ARMv5TE dual instruction
// set). Thumb's dozen-odd formats aren't each broken out here; unknown
// shapes still print as a hex word rather than failing the command.
func disassembleThumb(readMem func(addr uint64, size int) []byte, addr uint64, count int) []DisassembledLine {
	var lines []DisassembledLine
	for i := 0; i < count; i++ {
		data := readMem(addr, 2)
		if len(data) < 2 {
			break
		}
		instr := uint16(data[0]) | uint16(data[1])<<8
		hexBytes := fmt.Sprintf("%02X %02X", data[0], data[1])

		mnemonic, isBranch, target := decodeThumbHalfword(instr, uint32(addr))

		lines = append(lines, DisassembledLine{
			Address:      addr,
			HexBytes:     hexBytes,
			Mnemonic:     mnemonic,
			Size:         2,
			IsBranch:     isBranch,
			BranchTarget: uint64(target),
		})
		addr += 2
	}
	return lines
}

// decodeArmWord classifies one ARM word the way classifyArm
// (cpu_arm_ops.go) picks a handler, but renders a mnemonic string
// instead of dispatching to an execution handler.
func decodeArmWord(instr, pc uint32) (mnemonic string, isBranch bool, target uint32) {
	cond := armCondNames[instr>>28]
	condSuffix := cond

	switch {
	case instr&0x0FFFFFF0 == 0x012FFF10:
		rn := instr & 0xF
		return fmt.Sprintf("BX%s %s", condSuffix, armRegNames[rn]), true, 0

	case instr&0x0F000000 == 0x0F000000:
		return fmt.Sprintf("SWI%s $%06X", condSuffix, instr&0x00FFFFFF), false, 0

	case instr&0x0E000000 == 0x0A000000:
		link := instr&0x01000000 != 0
		offset := int32(instr&0x00FFFFFF) << 8 >> 8
		dest := pc + 8 + uint32(offset*4)
		name := "B"
		if link {
			name = "BL"
		}
		return fmt.Sprintf("%s%s $%08X", name, condSuffix, dest), true, dest

	case instr&0x0FC000F0 == 0x00000090:
		rd := (instr >> 16) & 0xF
		rn := instr & 0xF
		rm := (instr >> 8) & 0xF
		return fmt.Sprintf("MUL%s %s, %s, %s", condSuffix, armRegNames[rd], armRegNames[rn], armRegNames[rm]), false, 0

	case instr&0x0E000010 == 0x06000010:
		return fmt.Sprintf("UNDEF%s $%08X", condSuffix, instr), false, 0

	case instr&0x0C000000 == 0x00000000:
		op := (instr >> 21) & 0xF
		s := ""
		if instr&0x00100000 != 0 {
			s = "S"
		}
		rd := (instr >> 12) & 0xF
		rn := (instr >> 16) & 0xF
		imm := instr&0x02000000 != 0
		op2 := fmt.Sprintf("%s", armRegNames[instr&0xF])
		if imm {
			rot := (instr >> 8) & 0xF
			imm8 := instr & 0xFF
			op2 = fmt.Sprintf("#$%X", rotateRight32(imm8, rot*2))
		}
		switch op {
		case 0x8, 0x9, 0xA, 0xB: // TST/TEQ/CMP/CMN - no Rd
			return fmt.Sprintf("%s%s%s %s, %s", armDpMnemonics[op], condSuffix, s, armRegNames[rn], op2), false, 0
		case 0xD, 0xF: // MOV/MVN - no Rn
			return fmt.Sprintf("%s%s%s %s, %s", armDpMnemonics[op], condSuffix, s, armRegNames[rd], op2), false, 0
		default:
			return fmt.Sprintf("%s%s%s %s, %s, %s", armDpMnemonics[op], condSuffix, s, armRegNames[rd], armRegNames[rn], op2), false, 0
		}

	case instr&0x0C000000 == 0x04000000:
		load := instr&0x00100000 != 0
		byteAccess := instr&0x00400000 != 0
		rd := (instr >> 12) & 0xF
		rn := (instr >> 16) & 0xF
		name := "STR"
		if load {
			name = "LDR"
		}
		if byteAccess {
			name += "B"
		}
		return fmt.Sprintf("%s%s %s, [%s]", name, condSuffix, armRegNames[rd], armRegNames[rn]), false, 0

	case instr&0x0E000000 == 0x08000000:
		load := instr&0x00100000 != 0
		rn := (instr >> 16) & 0xF
		name := "STM"
		if load {
			name = "LDM"
		}
		return fmt.Sprintf("%s%s %s, {$%04X}", name, condSuffix, armRegNames[rn], instr&0xFFFF), false, 0

	default:
		return fmt.Sprintf("dw $%08X", instr), false, 0
	}
}

// decodeThumbHalfword renders a coarse mnemonic for the common Thumb
// formats (shift/add/sub, data processing, load/store, branch); less
// exhaustive than decodeArmWord since the debugger only needs a
// readable line, not a reusable assembler.
func decodeThumbHalfword(instr uint16, pc uint32) (mnemonic string, isBranch bool, target uint32) {
	switch {
	case instr&0xF800 == 0xE000: // unconditional branch
		offset := int32(instr&0x07FF) << 21 >> 20
		dest := pc + 4 + uint32(offset)
		return fmt.Sprintf("B $%08X", dest), true, dest

	case instr&0xFF00 == 0xDF00: // SWI
		return fmt.Sprintf("SWI $%02X", instr&0xFF), false, 0

	case instr&0xF000 == 0xD000: // conditional branch
		cond := armCondNames[(instr>>8)&0xF]
		offset := int32(int8(instr & 0xFF))
		dest := pc + 4 + uint32(offset*2)
		return fmt.Sprintf("B%s $%08X", cond, dest), true, dest

	case instr&0xF800 == 0x4800: // LDR Rd, [PC, #imm]
		rd := (instr >> 8) & 0x7
		imm := uint32(instr&0xFF) * 4
		return fmt.Sprintf("LDR %s, [pc, #$%X]", armRegNames[rd], imm), false, 0

	case instr&0xFC00 == 0x1C00: // ADD Rd, Rs, #imm3
		rd := instr & 0x7
		rs := (instr >> 3) & 0x7
		imm := (instr >> 6) & 0x7
		return fmt.Sprintf("ADD %s, %s, #$%X", armRegNames[rd], armRegNames[rs], imm), false, 0

	default:
		return fmt.Sprintf("dw $%04X", instr), false, 0
	}
}

func rotateRight32(v, n uint32) uint32 {
	n &= 31
	if n == 0 {
		return v
	}
	return (v >> n) | (v << (32 - n))
}
