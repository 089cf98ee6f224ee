package core

// Bus is the memory system the hart fetches from and loads and stores to.
type Bus interface {
	Load8(addr uint32) (uint8, error)
	Load16(addr uint32) (uint16, error)
	Load32(addr uint32) (uint32, error)
	Load64(addr uint32) (uint64, error)
	Store8(addr uint32, value uint8) error
	Store16(addr uint32, value uint16) error
	Store32(addr uint32, value uint32) error
	Store64(addr uint32, value uint64) error
}

// Trap values are the exception cause plus one, so that zero means no
// trap. Interrupts carry the top bit and are stored as the cause itself.
const (
	TrapInstAddrMisaligned uint32 = 1
	TrapIllegalInst        uint32 = 3
	TrapBreakpoint         uint32 = 4
	TrapEcallU             uint32 = 9
	TrapEcallM             uint32 = 12

	interruptBit       uint32 = 0x80000000
	TrapTimerInterrupt uint32 = interruptBit | 7
)

// Fields of mstatus, mie and mip.
const (
	mstatusMIE  uint32 = 1 << 3
	mstatusMPIE uint32 = 1 << 7
	mstatusMPP  uint32 = 3 << 11
	mipMTIP     uint32 = 1 << 7
	mieMTIE     uint32 = 1 << 7
)

// Layout of extraflags.
const (
	privMask         uint32 = 3
	wfiFlag          uint32 = 1 << 2
	reservationShift        = 3

	privUser    uint32 = 0
	privMachine uint32 = 3
)

// CSRBank holds the control and status registers of the hart.
type CSRBank struct {
	Mstatus uint32
	Cyclel  uint32
	Cycleh  uint32

	Timel    uint32
	Timeh    uint32
	Timecmpl uint32
	Timecmph uint32

	Mvendorid uint32
	Marchid   uint32
	Mimpid    uint32
	Mhartid   uint32
	Misa      uint32

	Mscratch uint32
	Mtvec    uint32
	Mie      uint32
	Mip      uint32
	Mepc     uint32
	Mtval    uint32
	Mcause   uint32

	// Extraflags packs the privilege mode (bits 1:0), the WFI flag (bit 2)
	// and the LR/SC reservation address (bits 31:3).
	Extraflags uint32
}

// State is the architectural state one instruction executes against.
type State struct {
	X    [32]uint32
	PC   uint32
	Trap uint32
	CSR  CSRBank
	Bus  Bus

	// FaultAddr is reported in mtval for load and store faults.
	FaultAddr uint32

	nextPC uint32
	jumped bool
}

// Jump makes target the next pc instead of the following instruction.
func (s *State) Jump(target uint32) {
	s.nextPC = target
	s.jumped = true
}

// RaiseTrap records a synchronous trap. The trap is taken at the end of
// the step and the faulting instruction is not retired.
func (s *State) RaiseTrap(trap uint32) {
	s.Trap = trap
}

// Priv returns the current privilege mode.
func (s *State) Priv() uint32 {
	return s.CSR.Extraflags & privMask
}

func (s *State) setPriv(p uint32) {
	s.CSR.Extraflags = s.CSR.Extraflags&^privMask | p&privMask
}

// The reservation field holds the reserved word index plus a valid bit,
// so that an empty field never matches an address.
const reservationValid uint32 = 1 << 28

func reservationTag(addr uint32) uint32 {
	return (addr>>2)&(reservationValid-1) | reservationValid
}

func (s *State) reserve(addr uint32) {
	s.CSR.Extraflags = s.CSR.Extraflags&(1<<reservationShift-1) |
		reservationTag(addr)<<reservationShift
}

func (s *State) reservedFor(addr uint32) bool {
	return s.CSR.Extraflags>>reservationShift == reservationTag(addr)
}

func (s *State) clearReservation() {
	s.CSR.Extraflags &= 1<<reservationShift - 1
}
