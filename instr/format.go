package instr

// RType is the register-register layout.
type RType struct {
	Opcode uint32
	Rd     uint32
	Funct3 uint32
	Rs1    uint32
	Rs2    uint32
	Funct7 uint32
}

// IType is the register-immediate layout used by loads, JALR and the
// immediate ALU instructions.
type IType struct {
	Opcode uint32
	Rd     uint32
	Funct3 uint32
	Rs1    uint32
	Imm    uint32 // imm[11:0]
}

// FullImm returns the 12-bit immediate.
func (f IType) FullImm() uint32 { return f.Imm }

// SextImm returns the immediate sign-extended to 32 bits.
func (f IType) SextImm() uint32 { return SignExtend(f.FullImm(), 12) }

// Shamt returns the shift amount of a shift-immediate instruction.
func (f IType) Shamt() uint32 { return f.Imm & 0x1f }

// Funct7 returns the upper seven immediate bits, which select the shift
// kind for shift-immediates.
func (f IType) Funct7() uint32 { return f.Imm >> 5 }

// SType is the store layout.
type SType struct {
	Opcode  uint32
	Imm4_0  uint32
	Funct3  uint32
	Rs1     uint32
	Rs2     uint32
	Imm11_5 uint32
}

func (f SType) FullImm() uint32 { return f.Imm11_5<<5 | f.Imm4_0 }

func (f SType) SextImm() uint32 { return SignExtend(f.FullImm(), 12) }

// BType is the conditional branch layout.
type BType struct {
	Opcode  uint32
	Imm11   uint32
	Imm4_1  uint32
	Funct3  uint32
	Rs1     uint32
	Rs2     uint32
	Imm10_5 uint32
	Imm12   uint32
}

// FullImm returns imm[12:1] packed into the low 12 bits. Bit 0 of the
// branch offset is implicit, so the offset is the sign-extended value
// shifted left by one. See Offset.
func (f BType) FullImm() uint32 {
	return f.Imm12<<11 | f.Imm11<<10 | f.Imm10_5<<4 | f.Imm4_1
}

func (f BType) SextImm() uint32 { return SignExtend(f.FullImm(), 12) }

// Offset is the signed byte offset of the branch target.
func (f BType) Offset() uint32 { return f.SextImm() << 1 }

// UType is the upper-immediate layout.
type UType struct {
	Opcode uint32
	Rd     uint32
	Imm    uint32 // imm[31:12]
}

func (f UType) FullImm() uint32 { return f.Imm }

func (f UType) SextImm() uint32 { return SignExtend(f.FullImm(), 20) }

// Value is the immediate placed in the upper 20 bits.
func (f UType) Value() uint32 { return f.Imm << 12 }

// JType is the jump layout.
type JType struct {
	Opcode   uint32
	Rd       uint32
	Imm19_12 uint32
	Imm11    uint32
	Imm10_1  uint32
	Imm20    uint32
}

// FullImm returns imm[20:1] packed into the low 20 bits.
func (f JType) FullImm() uint32 {
	return f.Imm20<<19 | f.Imm19_12<<11 | f.Imm11<<10 | f.Imm10_1
}

func (f JType) SextImm() uint32 { return SignExtend(f.FullImm(), 20) }

// Offset is the signed byte offset of the jump target.
func (f JType) Offset() uint32 { return f.SextImm() << 1 }

// Undecided is the view shared by every format. It only exposes the
// fields that sit at the same place in all layouts.
type Undecided struct {
	Opcode uint32
	Rd     uint32
	Funct3 uint32
	Rs1    uint32
	Rs2    uint32
	Funct7 uint32
}

func bits(w uint32, lo, n uint) uint32 {
	return (w >> lo) & (1<<n - 1)
}

// DecodeR extracts the R-format fields of w.
func DecodeR(w uint32) RType {
	return RType{
		Opcode: bits(w, 0, 7),
		Rd:     bits(w, 7, 5),
		Funct3: bits(w, 12, 3),
		Rs1:    bits(w, 15, 5),
		Rs2:    bits(w, 20, 5),
		Funct7: bits(w, 25, 7),
	}
}

// DecodeI extracts the I-format fields of w.
func DecodeI(w uint32) IType {
	return IType{
		Opcode: bits(w, 0, 7),
		Rd:     bits(w, 7, 5),
		Funct3: bits(w, 12, 3),
		Rs1:    bits(w, 15, 5),
		Imm:    bits(w, 20, 12),
	}
}

// DecodeS extracts the S-format fields of w.
func DecodeS(w uint32) SType {
	return SType{
		Opcode:  bits(w, 0, 7),
		Imm4_0:  bits(w, 7, 5),
		Funct3:  bits(w, 12, 3),
		Rs1:     bits(w, 15, 5),
		Rs2:     bits(w, 20, 5),
		Imm11_5: bits(w, 25, 7),
	}
}

// DecodeB extracts the B-format fields of w.
func DecodeB(w uint32) BType {
	return BType{
		Opcode:  bits(w, 0, 7),
		Imm11:   bits(w, 7, 1),
		Imm4_1:  bits(w, 8, 4),
		Funct3:  bits(w, 12, 3),
		Rs1:     bits(w, 15, 5),
		Rs2:     bits(w, 20, 5),
		Imm10_5: bits(w, 25, 6),
		Imm12:   bits(w, 31, 1),
	}
}

// DecodeU extracts the U-format fields of w.
func DecodeU(w uint32) UType {
	return UType{
		Opcode: bits(w, 0, 7),
		Rd:     bits(w, 7, 5),
		Imm:    bits(w, 12, 20),
	}
}

// DecodeJ extracts the J-format fields of w.
func DecodeJ(w uint32) JType {
	return JType{
		Opcode:   bits(w, 0, 7),
		Rd:       bits(w, 7, 5),
		Imm19_12: bits(w, 12, 8),
		Imm11:    bits(w, 20, 1),
		Imm10_1:  bits(w, 21, 10),
		Imm20:    bits(w, 31, 1),
	}
}

// DecodeUndecided extracts the fields common to every format.
func DecodeUndecided(w uint32) Undecided {
	r := DecodeR(w)
	return Undecided(r)
}

// SignExtend treats the low n bits of v as a two's complement number and
// extends it to 32 bits. n must be in [1, 32].
func SignExtend(v uint32, n uint) uint32 {
	if n == 0 || n > 32 {
		panic("instr: sign extension length out of range")
	}

	shift := 32 - n

	return uint32(int32(v<<shift) >> shift)
}
