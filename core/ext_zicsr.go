package core

import "github.com/sarchlab/rvemu/instr"

type csrKind int

const (
	csrWrite csrKind = iota
	csrSet
	csrClear
)

var extZicsr = newExtension('z',
	def("CSRRW", "xxxxxxxxxxxxxxxxx001xxxxx1110011", csrOp(csrWrite, false)),
	def("CSRRS", "xxxxxxxxxxxxxxxxx010xxxxx1110011", csrOp(csrSet, false)),
	def("CSRRC", "xxxxxxxxxxxxxxxxx011xxxxx1110011", csrOp(csrClear, false)),
	def("CSRRWI", "xxxxxxxxxxxxxxxxx101xxxxx1110011", csrOp(csrWrite, true)),
	def("CSRRSI", "xxxxxxxxxxxxxxxxx110xxxxx1110011", csrOp(csrSet, true)),
	def("CSRRCI", "xxxxxxxxxxxxxxxxx111xxxxx1110011", csrOp(csrClear, true)),
	def("MRET", "00110000001000000000000001110011", runMRET),
	def("WFI", "00010000010100000000000001110011", runWFI),
)

// csrOp builds one of the six CSR instructions. For the immediate forms
// the rs1 field is the 5-bit unsigned source value. Set and clear do not
// write when the source field is zero.
func csrOp(kind csrKind, imm bool) func(instr.Inst, *State) error {
	return func(inst instr.Inst, s *State) error {
		i := inst.I()
		num := i.FullImm()

		src := s.X[i.Rs1]
		if imm {
			src = i.Rs1
		}

		old, ok := s.CSR.Read(num)
		if !ok {
			s.RaiseTrap(TrapIllegalInst)
			return nil
		}

		if kind == csrWrite || i.Rs1 != 0 {
			v := src
			switch kind {
			case csrSet:
				v = old | src
			case csrClear:
				v = old &^ src
			}

			if !s.CSR.Write(num, v) {
				s.RaiseTrap(TrapIllegalInst)
				return nil
			}
		}

		s.X[i.Rd] = old

		return nil
	}
}

// runMRET returns from a machine-mode trap handler.
func runMRET(_ instr.Inst, s *State) error {
	st := s.CSR.Mstatus
	prev := st & mstatusMPP >> 11

	st &^= mstatusMIE | mstatusMPP
	if s.CSR.Mstatus&mstatusMPIE != 0 {
		st |= mstatusMIE
	}
	st |= mstatusMPIE | privUser<<11

	s.CSR.Mstatus = st
	s.setPriv(prev)
	s.Jump(s.CSR.Mepc)

	return nil
}

// runWFI enables interrupts and parks the hart until the timer fires.
func runWFI(_ instr.Inst, s *State) error {
	s.CSR.Mstatus |= mstatusMIE
	s.CSR.Extraflags |= wfiFlag
	return nil
}
