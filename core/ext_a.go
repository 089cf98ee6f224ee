package core

import "github.com/sarchlab/rvemu/instr"

// Misaligned atomic accesses.
const (
	TrapLoadMisaligned     uint32 = 5
	TrapStoreAMOMisaligned uint32 = 7
)

// Word atomics. The aq and rl bits are ignored since there is one hart.
var extA = newExtension('a',
	def("LR.W", "00010xx00000xxxxx010xxxxx0101111", runLR),
	def("SC.W", "00011xxxxxxxxxxxx010xxxxx0101111", runSC),
	def("AMOSWAP.W", "00001xxxxxxxxxxxx010xxxxx0101111", amoOp(func(_, b uint32) uint32 { return b })),
	def("AMOADD.W", "00000xxxxxxxxxxxx010xxxxx0101111", amoOp(func(a, b uint32) uint32 { return a + b })),
	def("AMOXOR.W", "00100xxxxxxxxxxxx010xxxxx0101111", amoOp(func(a, b uint32) uint32 { return a ^ b })),
	def("AMOAND.W", "01100xxxxxxxxxxxx010xxxxx0101111", amoOp(func(a, b uint32) uint32 { return a & b })),
	def("AMOOR.W", "01000xxxxxxxxxxxx010xxxxx0101111", amoOp(func(a, b uint32) uint32 { return a | b })),
	def("AMOMIN.W", "10000xxxxxxxxxxxx010xxxxx0101111", amoOp(amoMin)),
	def("AMOMAX.W", "10100xxxxxxxxxxxx010xxxxx0101111", amoOp(amoMax)),
	def("AMOMINU.W", "11000xxxxxxxxxxxx010xxxxx0101111", amoOp(amoMinu)),
	def("AMOMAXU.W", "11100xxxxxxxxxxxx010xxxxx0101111", amoOp(amoMaxu)),
)

func runLR(inst instr.Inst, s *State) error {
	r := inst.R()
	addr := s.X[r.Rs1]

	if addr&3 != 0 {
		s.FaultAddr = addr
		s.RaiseTrap(TrapLoadMisaligned)
		return nil
	}

	v, err := s.Bus.Load32(addr)
	if err != nil {
		return err
	}

	s.X[r.Rd] = v
	s.reserve(addr)

	return nil
}

func runSC(inst instr.Inst, s *State) error {
	r := inst.R()
	addr := s.X[r.Rs1]

	if addr&3 != 0 {
		s.FaultAddr = addr
		s.RaiseTrap(TrapStoreAMOMisaligned)
		return nil
	}

	ok := s.reservedFor(addr)
	s.clearReservation()

	if !ok {
		s.X[r.Rd] = 1
		return nil
	}

	if err := s.Bus.Store32(addr, s.X[r.Rs2]); err != nil {
		return err
	}

	s.X[r.Rd] = 0

	return nil
}

// amoOp loads the word at rs1, stores op(old, rs2) back and returns the
// old value in rd.
func amoOp(op func(old, src uint32) uint32) func(instr.Inst, *State) error {
	return func(inst instr.Inst, s *State) error {
		r := inst.R()
		addr := s.X[r.Rs1]
		src := s.X[r.Rs2]

		if addr&3 != 0 {
			s.FaultAddr = addr
			s.RaiseTrap(TrapStoreAMOMisaligned)
			return nil
		}

		old, err := s.Bus.Load32(addr)
		if err != nil {
			return err
		}

		if err := s.Bus.Store32(addr, op(old, src)); err != nil {
			return err
		}

		s.X[r.Rd] = old

		return nil
	}
}

func amoMin(a, b uint32) uint32 {
	if int32(a) < int32(b) {
		return a
	}
	return b
}

func amoMax(a, b uint32) uint32 {
	if int32(a) > int32(b) {
		return a
	}
	return b
}

func amoMinu(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func amoMaxu(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
