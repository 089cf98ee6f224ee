package instr

// Encoders for building instruction words by hand. Immediates are given
// as signed byte values where the format allows it.

func EncodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func EncodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(imm)&0xfff<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func EncodeS(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0xfff

	return (u>>5)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | opcode
}

// EncodeB takes the byte offset of the branch target. Bit 0 is dropped.
func EncodeB(opcode, funct3, rs1, rs2 uint32, offset int32) uint32 {
	u := uint32(offset)

	return (u>>12&1)<<31 | (u>>5&0x3f)<<25 | rs2<<20 | rs1<<15 |
		funct3<<12 | (u>>1&0xf)<<8 | (u>>11&1)<<7 | opcode
}

// EncodeU takes the 20-bit upper immediate, not the shifted value.
func EncodeU(opcode, rd, imm uint32) uint32 {
	return (imm&0xfffff)<<12 | rd<<7 | opcode
}

// EncodeJ takes the byte offset of the jump target. Bit 0 is dropped.
func EncodeJ(opcode, rd uint32, offset int32) uint32 {
	u := uint32(offset)

	return (u>>20&1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&1)<<20 |
		(u>>12&0xff)<<12 | rd<<7 | opcode
}
