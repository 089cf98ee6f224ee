package core

// CSR numbers.
const (
	CSRMstatus   uint32 = 0x300
	CSRMisa      uint32 = 0x301
	CSRMie       uint32 = 0x304
	CSRMtvec     uint32 = 0x305
	CSRMscratch  uint32 = 0x340
	CSRMepc      uint32 = 0x341
	CSRMcause    uint32 = 0x342
	CSRMtval     uint32 = 0x343
	CSRMip       uint32 = 0x344
	CSRCycle     uint32 = 0xc00
	CSRTime      uint32 = 0xc01
	CSRCycleh    uint32 = 0xc80
	CSRTimeh     uint32 = 0xc81
	CSRMvendorid uint32 = 0xf11
	CSRMarchid   uint32 = 0xf12
	CSRMimpid    uint32 = 0xf13
	CSRMhartid   uint32 = 0xf14
)

// csrReadOnly tells whether the number falls in a read-only CSR block.
func csrReadOnly(num uint32) bool {
	return num>>10&3 == 3
}

// csrRef returns the storage behind a CSR number, or nil for an
// unimplemented CSR. misa is implemented but never written.
func (b *CSRBank) csrRef(num uint32) *uint32 {
	switch num {
	case CSRMstatus:
		return &b.Mstatus
	case CSRMisa:
		return &b.Misa
	case CSRMie:
		return &b.Mie
	case CSRMtvec:
		return &b.Mtvec
	case CSRMscratch:
		return &b.Mscratch
	case CSRMepc:
		return &b.Mepc
	case CSRMcause:
		return &b.Mcause
	case CSRMtval:
		return &b.Mtval
	case CSRMip:
		return &b.Mip
	case CSRCycle:
		return &b.Cyclel
	case CSRCycleh:
		return &b.Cycleh
	case CSRTime:
		return &b.Timel
	case CSRTimeh:
		return &b.Timeh
	case CSRMvendorid:
		return &b.Mvendorid
	case CSRMarchid:
		return &b.Marchid
	case CSRMimpid:
		return &b.Mimpid
	case CSRMhartid:
		return &b.Mhartid
	}

	return nil
}

// Read returns the value of a CSR. ok is false for an unimplemented CSR.
func (b *CSRBank) Read(num uint32) (v uint32, ok bool) {
	ref := b.csrRef(num)
	if ref == nil {
		return 0, false
	}

	return *ref, true
}

// Write sets a CSR. ok is false when the CSR does not exist or is read
// only.
func (b *CSRBank) Write(num, v uint32) (ok bool) {
	ref := b.csrRef(num)
	if ref == nil || csrReadOnly(num) {
		return false
	}

	if num == CSRMisa {
		return true
	}

	*ref = v

	return true
}

// misaFor computes misa from the extensions a decoder searches. Zicsr
// has no misa bit.
func misaFor(exts []Extension) uint32 {
	misa := uint32(1) << 30

	for _, ext := range exts {
		id := ext.ID()
		if id >= 'a' && id < 'z' {
			misa |= 1 << (id - 'a')
		}
	}

	return misa
}
