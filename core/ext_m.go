package core

import "github.com/sarchlab/rvemu/instr"

var extM = newExtension('m',
	def("MUL", "0000001xxxxxxxxxx000xxxxx0110011", mulOp(mul)),
	def("MULH", "0000001xxxxxxxxxx001xxxxx0110011", mulOp(mulh)),
	def("MULHSU", "0000001xxxxxxxxxx010xxxxx0110011", mulOp(mulhsu)),
	def("MULHU", "0000001xxxxxxxxxx011xxxxx0110011", mulOp(mulhu)),
	def("DIV", "0000001xxxxxxxxxx100xxxxx0110011", mulOp(div)),
	def("DIVU", "0000001xxxxxxxxxx101xxxxx0110011", mulOp(divu)),
	def("REM", "0000001xxxxxxxxxx110xxxxx0110011", mulOp(rem)),
	def("REMU", "0000001xxxxxxxxxx111xxxxx0110011", mulOp(remu)),
)

func mulOp(op func(a, b uint32) uint32) func(instr.Inst, *State) error {
	return func(inst instr.Inst, s *State) error {
		r := inst.R()
		s.X[r.Rd] = op(s.X[r.Rs1], s.X[r.Rs2])
		return nil
	}
}

func mul(a, b uint32) uint32 { return a * b }

func mulh(a, b uint32) uint32 {
	return uint32(uint64(int64(int32(a))*int64(int32(b))) >> 32)
}

func mulhsu(a, b uint32) uint32 {
	return uint32(uint64(int64(int32(a))*int64(b)) >> 32)
}

func mulhu(a, b uint32) uint32 {
	return uint32(uint64(a) * uint64(b) >> 32)
}

const minInt32Word uint32 = 0x80000000

func div(a, b uint32) uint32 {
	switch {
	case b == 0:
		return 0xffffffff
	case a == minInt32Word && b == 0xffffffff:
		return a
	}

	return uint32(int32(a) / int32(b))
}

func divu(a, b uint32) uint32 {
	if b == 0 {
		return 0xffffffff
	}

	return a / b
}

func rem(a, b uint32) uint32 {
	switch {
	case b == 0:
		return a
	case a == minInt32Word && b == 0xffffffff:
		return 0
	}

	return uint32(int32(a) % int32(b))
}

func remu(a, b uint32) uint32 {
	if b == 0 {
		return a
	}

	return a % b
}
