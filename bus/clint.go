package bus

// CLINT register offsets.
const (
	CLINTTimeCmpLow  uint32 = 0x4000
	CLINTTimeCmpHigh uint32 = 0x4004
	CLINTTimeLow     uint32 = 0xbff8
	CLINTTimeHigh    uint32 = 0xbffc
)

// TimerRegisters is the timer state a CLINT exposes. The hart owns it.
type TimerRegisters interface {
	Time() uint64
	TimerCompare() uint64
	SetTimeLow(v uint32)
	SetTimeHigh(v uint32)
	SetTimerCompareLow(v uint32)
	SetTimerCompareHigh(v uint32)
}

// CLINT maps the machine timer and its comparator into memory.
type CLINT struct {
	base  uint32
	timer TimerRegisters
}

func NewCLINT(base uint32, timer TimerRegisters) *CLINT {
	return &CLINT{base: base, timer: timer}
}

func (c *CLINT) Load(addr uint32, size int) (uint64, error) {
	off := addr - c.base

	switch {
	case off == CLINTTimeLow && size == 8:
		return c.timer.Time(), nil
	case off == CLINTTimeCmpLow && size == 8:
		return c.timer.TimerCompare(), nil
	case off == CLINTTimeLow:
		return c.timer.Time() & 0xffffffff, nil
	case off == CLINTTimeHigh:
		return c.timer.Time() >> 32, nil
	case off == CLINTTimeCmpLow:
		return c.timer.TimerCompare() & 0xffffffff, nil
	case off == CLINTTimeCmpHigh:
		return c.timer.TimerCompare() >> 32, nil
	}

	return 0, nil
}

func (c *CLINT) Store(addr uint32, size int, value uint64) error {
	off := addr - c.base

	switch off {
	case CLINTTimeCmpLow:
		c.timer.SetTimerCompareLow(uint32(value))
		if size == 8 {
			c.timer.SetTimerCompareHigh(uint32(value >> 32))
		}
	case CLINTTimeCmpHigh:
		c.timer.SetTimerCompareHigh(uint32(value))
	case CLINTTimeLow:
		c.timer.SetTimeLow(uint32(value))
		if size == 8 {
			c.timer.SetTimeHigh(uint32(value >> 32))
		}
	case CLINTTimeHigh:
		c.timer.SetTimeHigh(uint32(value))
	}

	return nil
}
