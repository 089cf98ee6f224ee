package core

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/bus"
	"github.com/sarchlab/rvemu/instr"
)

var _ = Describe("CSR instructions", func() {
	var (
		c *CPU
		b *bus.Bus
		p uint32
	)

	BeforeEach(func() {
		c, b = newTestCPU()
		p = bus.DRAMBase
	})

	It("should swap a CSR with a register", func() {
		c.state.X[1] = 0x1234
		c.state.CSR.Mscratch = 0x55
		loadWords(b, p, csrrw(2, CSRMscratch, 1))
		stepN(c, 1)

		Expect(c.Reg(2)).To(Equal(uint32(0x55)))
		Expect(c.state.CSR.Mscratch).To(Equal(uint32(0x1234)))
	})

	It("should set and clear bits", func() {
		c.state.CSR.Mie = 0x0f
		c.state.X[1] = 0xf0
		c.state.X[2] = 0x03
		loadWords(b, p,
			csrrs(3, CSRMie, 1),
			instr.EncodeI(0x73, 4, 3, 2, int32(CSRMie)), // csrrc
		)
		stepN(c, 2)

		Expect(c.Reg(3)).To(Equal(uint32(0x0f)))
		Expect(c.Reg(4)).To(Equal(uint32(0xff)))
		Expect(c.state.CSR.Mie).To(Equal(uint32(0xfc)))
	})

	It("should use the register field as an immediate", func() {
		loadWords(b, p,
			instr.EncodeI(0x73, 0, 5, 0x1f, int32(CSRMtvec)),   // csrrwi
			instr.EncodeI(0x73, 0, 6, 0x08, int32(CSRMstatus)), // csrrsi
			instr.EncodeI(0x73, 0, 7, 0x01, int32(CSRMtvec)),   // csrrci
		)
		stepN(c, 3)

		Expect(c.state.CSR.Mtvec).To(Equal(uint32(0x1e)))
		Expect(c.state.CSR.Mstatus).To(Equal(uint32(0x08)))
	})

	It("should read the identification and counter registers", func() {
		loadWords(b, p,
			csrrs(1, CSRMvendorid, 0),
			csrrs(2, CSRMisa, 0),
			csrrs(3, CSRCycle, 0),
		)
		stepN(c, 3)

		Expect(c.Reg(1)).To(Equal(VendorID))
		Expect(c.Reg(2)).To(Equal(uint32(0x40001101)))
		Expect(c.Reg(3)).To(Equal(uint32(2)))
	})

	It("should reject writes to read-only CSRs", func() {
		c.state.CSR.Mtvec = p + 0x400
		c.state.X[1] = 1
		loadWords(b, p, csrrw(2, CSRCycle, 1))
		stepN(c, 1)

		Expect(c.state.CSR.Mcause).To(Equal(TrapIllegalInst - 1))
		Expect(c.Reg(2)).To(BeZero())
	})

	It("should reject unknown CSRs", func() {
		c.state.CSR.Mtvec = p + 0x400
		loadWords(b, p, csrrs(2, 0x7c0, 0))
		stepN(c, 1)

		Expect(c.state.CSR.Mcause).To(Equal(TrapIllegalInst - 1))
	})

	It("should ignore writes to misa", func() {
		c.state.X[1] = 0
		loadWords(b, p, csrrw(0, CSRMisa, 1))
		stepN(c, 1)

		Expect(c.state.CSR.Misa).To(Equal(uint32(0x40001101)))
	})

	It("should return from a trap", func() {
		c.state.CSR.Mepc = p + 0x40
		c.state.CSR.Mstatus = mstatusMPIE | privUser<<11
		loadWords(b, p, mret)
		stepN(c, 1)

		Expect(c.PC()).To(Equal(p + 0x40))
		Expect(c.state.CSR.Mstatus & mstatusMIE).NotTo(BeZero())
		Expect(c.state.CSR.Mstatus & mstatusMPIE).NotTo(BeZero())
		Expect(c.state.Priv()).To(Equal(privUser))
	})

	It("should wait for an interrupt", func() {
		loadWords(b, p, wfi, addi(1, 0, 1))
		stepN(c, 1)

		Expect(c.Waiting()).To(BeTrue())
		Expect(c.PC()).To(Equal(p + 4))
		Expect(c.state.CSR.Mstatus & mstatusMIE).NotTo(BeZero())

		stepN(c, 5)
		Expect(c.PC()).To(Equal(p + 4))
		Expect(c.Reg(1)).To(BeZero())
	})
})
