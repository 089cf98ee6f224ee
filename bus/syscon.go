package bus

import "sync/atomic"

// Values written to the syscon register.
const (
	SysconPowerOff uint32 = 0x5555
	SysconRestart  uint32 = 0x7777
)

// Syscon lets the guest power off or restart the machine.
type Syscon struct {
	poweredOff atomic.Bool
	restart    atomic.Bool
}

func NewSyscon() *Syscon {
	return &Syscon{}
}

func (s *Syscon) Load(addr uint32, size int) (uint64, error) {
	return 0, nil
}

func (s *Syscon) Store(addr uint32, size int, value uint64) error {
	switch uint32(value) {
	case SysconPowerOff:
		s.poweredOff.Store(true)
	case SysconRestart:
		s.restart.Store(true)
	}

	return nil
}

// PoweredOff tells whether the guest asked for power off.
func (s *Syscon) PoweredOff() bool {
	return s.poweredOff.Load()
}

// TakeRestart reports a pending restart request and clears it.
func (s *Syscon) TakeRestart() bool {
	return s.restart.Swap(false)
}
