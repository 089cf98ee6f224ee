package core

import (
	"github.com/sarchlab/rvemu/instr"
)

// Base integer instructions. SHIFTI must stay ahead of IMM, and OP leaves
// funct7 = 1 to the M extension.
var extI = newExtension('i',
	def("LUI", "xxxxxxxxxxxxxxxxxxxxxxxxx0110111", runLUI),
	def("AUIPC", "xxxxxxxxxxxxxxxxxxxxxxxxx0010111", runAUIPC),
	def("JAL", "xxxxxxxxxxxxxxxxxxxxxxxxx1101111", runJAL),
	def("JALR", "xxxxxxxxxxxxxxxxx000xxxxx1100111", runJALR),
	def("BRANCH", "xxxxxxxxxxxxxxxxxxxxxxxxx1100011", runBranch),
	def("LOAD", "xxxxxxxxxxxxxxxxxxxxxxxxx0000011", runLoad),
	def("STORE", "xxxxxxxxxxxxxxxxxxxxxxxxx0100011", runStore),
	def("SHIFTI", "xxxxxxxxxxxxxxxxxx01xxxxx0010011", runShiftImm),
	def("IMM", "xxxxxxxxxxxxxxxxxxxxxxxxx0010011", runImm),
	def("OP", "0x00000xxxxxxxxxxxxxxxxxx0110011", runOp),
	def("FENCE", "xxxxxxxxxxxxxxxxxxxxxxxxx0001111", runFence),
	def("ECALL", "00000000000000000000000001110011", runEcall),
	def("EBREAK", "00000000000100000000000001110011", runEbreak),
)

func runLUI(inst instr.Inst, s *State) error {
	u := inst.U()
	s.X[u.Rd] = u.Value()
	return nil
}

func runAUIPC(inst instr.Inst, s *State) error {
	u := inst.U()
	s.X[u.Rd] = s.PC + u.Value()
	return nil
}

func runJAL(inst instr.Inst, s *State) error {
	j := inst.J()
	target := s.PC + j.Offset()
	s.X[j.Rd] = s.PC + instr.WordSize
	s.Jump(target)
	return nil
}

func runJALR(inst instr.Inst, s *State) error {
	i := inst.I()
	target := (s.X[i.Rs1] + i.SextImm()) &^ 1
	s.X[i.Rd] = s.PC + instr.WordSize
	s.Jump(target)
	return nil
}

func runBranch(inst instr.Inst, s *State) error {
	b := inst.B()
	a, c := s.X[b.Rs1], s.X[b.Rs2]

	var taken bool

	switch b.Funct3 {
	case 0b000:
		taken = a == c
	case 0b001:
		taken = a != c
	case 0b100:
		taken = int32(a) < int32(c)
	case 0b101:
		taken = int32(a) >= int32(c)
	case 0b110:
		taken = a < c
	case 0b111:
		taken = a >= c
	default:
		s.RaiseTrap(TrapIllegalInst)
		return nil
	}

	if taken {
		s.Jump(s.PC + b.Offset())
	}

	return nil
}

func runLoad(inst instr.Inst, s *State) error {
	i := inst.I()
	addr := s.X[i.Rs1] + i.SextImm()

	var v uint32

	switch i.Funct3 {
	case 0b000, 0b100:
		b, err := s.Bus.Load8(addr)
		if err != nil {
			return err
		}
		v = uint32(b)
		if i.Funct3 == 0b000 {
			v = instr.SignExtend(v, 8)
		}
	case 0b001, 0b101:
		h, err := s.Bus.Load16(addr)
		if err != nil {
			return err
		}
		v = uint32(h)
		if i.Funct3 == 0b001 {
			v = instr.SignExtend(v, 16)
		}
	case 0b010:
		w, err := s.Bus.Load32(addr)
		if err != nil {
			return err
		}
		v = w
	default:
		s.RaiseTrap(TrapIllegalInst)
		return nil
	}

	s.X[i.Rd] = v

	return nil
}

func runStore(inst instr.Inst, s *State) error {
	st := inst.S()
	addr := s.X[st.Rs1] + st.SextImm()
	v := s.X[st.Rs2]

	switch st.Funct3 {
	case 0b000:
		return s.Bus.Store8(addr, uint8(v))
	case 0b001:
		return s.Bus.Store16(addr, uint16(v))
	case 0b010:
		return s.Bus.Store32(addr, v)
	}

	s.RaiseTrap(TrapIllegalInst)

	return nil
}

func runShiftImm(inst instr.Inst, s *State) error {
	i := inst.I()
	src := s.X[i.Rs1]

	switch {
	case i.Funct3 == 0b001 && i.Funct7() == 0:
		s.X[i.Rd] = src << i.Shamt()
	case i.Funct3 == 0b101 && i.Funct7() == 0:
		s.X[i.Rd] = src >> i.Shamt()
	case i.Funct3 == 0b101 && i.Funct7() == 0b0100000:
		s.X[i.Rd] = uint32(int32(src) >> i.Shamt())
	default:
		s.RaiseTrap(TrapIllegalInst)
	}

	return nil
}

func runImm(inst instr.Inst, s *State) error {
	i := inst.I()
	src := s.X[i.Rs1]
	imm := i.SextImm()

	switch i.Funct3 {
	case 0b000:
		s.X[i.Rd] = src + imm
	case 0b010:
		s.X[i.Rd] = boolToWord(int32(src) < int32(imm))
	case 0b011:
		s.X[i.Rd] = boolToWord(src < imm)
	case 0b100:
		s.X[i.Rd] = src ^ imm
	case 0b110:
		s.X[i.Rd] = src | imm
	case 0b111:
		s.X[i.Rd] = src & imm
	default:
		s.RaiseTrap(TrapIllegalInst)
	}

	return nil
}

func runOp(inst instr.Inst, s *State) error {
	r := inst.R()
	a, b := s.X[r.Rs1], s.X[r.Rs2]
	alt := r.Funct7 == 0b0100000

	switch {
	case r.Funct3 == 0b000 && !alt:
		s.X[r.Rd] = a + b
	case r.Funct3 == 0b000 && alt:
		s.X[r.Rd] = a - b
	case r.Funct3 == 0b101 && !alt:
		s.X[r.Rd] = a >> (b & 0x1f)
	case r.Funct3 == 0b101 && alt:
		s.X[r.Rd] = uint32(int32(a) >> (b & 0x1f))
	case alt:
		s.RaiseTrap(TrapIllegalInst)
	case r.Funct3 == 0b001:
		s.X[r.Rd] = a << (b & 0x1f)
	case r.Funct3 == 0b010:
		s.X[r.Rd] = boolToWord(int32(a) < int32(b))
	case r.Funct3 == 0b011:
		s.X[r.Rd] = boolToWord(a < b)
	case r.Funct3 == 0b100:
		s.X[r.Rd] = a ^ b
	case r.Funct3 == 0b110:
		s.X[r.Rd] = a | b
	case r.Funct3 == 0b111:
		s.X[r.Rd] = a & b
	}

	return nil
}

// runFence is a no-op. There is a single hart and no caches.
func runFence(_ instr.Inst, _ *State) error {
	return nil
}

func runEcall(_ instr.Inst, s *State) error {
	if s.Priv() == privMachine {
		s.RaiseTrap(TrapEcallM)
	} else {
		s.RaiseTrap(TrapEcallU)
	}

	return nil
}

func runEbreak(_ instr.Inst, s *State) error {
	s.RaiseTrap(TrapBreakpoint)
	return nil
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}

	return 0
}
