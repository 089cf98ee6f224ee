package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/instr"
	valgen "github.com/sarchlab/rvemu/util"
)

var _ = Describe("SignExtend", func() {
	It("should be idempotent for every length", func() {
		gen := valgen.MakeEdgeWordGen(1)
		for i := 0; i < 200; i++ {
			v := gen()
			for n := uint(1); n <= 32; n++ {
				once := instr.SignExtend(v, n)
				Expect(instr.SignExtend(once, n)).To(Equal(once))
			}
		}
	})

	It("should leave 32-bit values unchanged", func() {
		gen := valgen.MakeEdgeWordGen(7)
		for i := 0; i < 200; i++ {
			v := gen()
			Expect(instr.SignExtend(v, 32)).To(Equal(v))
		}
	})

	It("should fill the upper bits from the sign bit", func() {
		Expect(instr.SignExtend(0x800, 12)).To(Equal(uint32(0xfffff800)))
		Expect(instr.SignExtend(0x7ff, 12)).To(Equal(uint32(0x7ff)))
		Expect(instr.SignExtend(1, 1)).To(Equal(uint32(0xffffffff)))
		Expect(instr.SignExtend(0, 1)).To(Equal(uint32(0)))
	})

	It("should panic on a zero length", func() {
		Expect(func() { instr.SignExtend(1, 0) }).To(Panic())
	})
})

var _ = Describe("Template", func() {
	It("should match every word when all bits are wildcards", func() {
		t := instr.MustParseTemplate("xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx")
		gen := valgen.MakeEdgeWordGen(3)
		for i := 0; i < 100; i++ {
			Expect(t.Match(gen())).To(BeTrue())
		}
	})

	It("should require every literal bit", func() {
		t := instr.MustParseTemplate("xxxxxxxxxxxxxxxxx000xxxxx1100111")
		Expect(t.Mask).To(Equal(uint32(0x0000707f)))
		Expect(t.Value).To(Equal(uint32(0x00000067)))

		jalr := instr.EncodeI(0x67, 1, 0, 2, 16)
		Expect(t.Match(jalr)).To(BeTrue())
		Expect(t.Match(jalr | 1<<12)).To(BeFalse())
		Expect(t.Match(jalr &^ 1)).To(BeFalse())
	})

	It("should ignore the bits at wildcard positions", func() {
		t := instr.MustParseTemplate("0000001xxxxxxxxxx000xxxxx0110011")
		gen := valgen.MakeWordGen(11)
		for i := 0; i < 100; i++ {
			w := gen()&^t.Mask | t.Value
			Expect(t.Match(w)).To(BeTrue())
		}
	})

	It("should treat any other character as a wildcard", func() {
		t := instr.MustParseTemplate("................................")
		Expect(t.Mask).To(BeZero())
	})

	It("should reject patterns of the wrong length", func() {
		_, err := instr.ParseTemplate("0101")
		Expect(err).To(MatchError(instr.ErrBadTemplate))
		Expect(func() { instr.MustParseTemplate("0") }).To(Panic())
	})
})

var _ = Describe("Formats", func() {
	It("should extract R fields", func() {
		w := instr.EncodeR(0x33, 3, 0, 1, 2, 0x20)
		r := instr.DecodeR(w)
		Expect(r).To(Equal(instr.RType{
			Opcode: 0x33, Rd: 3, Funct3: 0, Rs1: 1, Rs2: 2, Funct7: 0x20,
		}))
	})

	It("should sign-extend I immediates", func() {
		i := instr.DecodeI(instr.EncodeI(0x13, 2, 0, 1, -3))
		Expect(i.FullImm()).To(Equal(uint32(0xffd)))
		Expect(int32(i.SextImm())).To(Equal(int32(-3)))
	})

	It("should rebuild S immediates from both halves", func() {
		s := instr.DecodeS(instr.EncodeS(0x23, 2, 1, 5, -100))
		Expect(int32(s.SextImm())).To(Equal(int32(-100)))
		Expect(s.Rs1).To(Equal(uint32(1)))
		Expect(s.Rs2).To(Equal(uint32(5)))
	})

	DescribeTable("B offsets",
		func(word uint32, offset int32) {
			Expect(int32(instr.DecodeB(word).Offset())).To(Equal(offset))
		},
		// beq x0, x0, +8
		Entry("forward", uint32(0x00000463), int32(8)),
		// bne x1, x2, -4
		Entry("backward", uint32(0xfe209ee3), int32(-4)),
		// beq x0, x0, +2048
		Entry("bit 11", uint32(0x00000063|1<<7), int32(2048)),
		// beq x0, x0, -4096
		Entry("most negative", uint32(0x80000063), int32(-4096)),
	)

	DescribeTable("J offsets",
		func(word uint32, offset int32) {
			Expect(int32(instr.DecodeJ(word).Offset())).To(Equal(offset))
		},
		// jal x1, 8
		Entry("forward", uint32(0x008000ef), int32(8)),
		// jal x0, -8
		Entry("backward", uint32(0xff9ff06f), int32(-8)),
		// jal x0, +2048
		Entry("bit 11", uint32(0x0010006f), int32(2048)),
		// jal x0, -1048576
		Entry("most negative", uint32(0x8000006f), int32(-1048576)),
	)

	It("should round trip B and J offsets through the encoders", func() {
		for _, off := range []int32{-4096, -2048, -2, 0, 2, 4, 2046, 4094} {
			w := instr.EncodeB(0x63, 0, 1, 2, off)
			Expect(int32(instr.DecodeB(w).Offset())).To(Equal(off))
		}
		for _, off := range []int32{-1048576, -4, 0, 2, 2048, 1048574} {
			w := instr.EncodeJ(0x6f, 1, off)
			Expect(int32(instr.DecodeJ(w).Offset())).To(Equal(off))
		}
	})

	It("should shift U immediates into place", func() {
		u := instr.DecodeU(instr.EncodeU(0x37, 5, 0x12345))
		Expect(u.Value()).To(Equal(uint32(0x12345000)))
		Expect(u.Rd).To(Equal(uint32(5)))
	})
})

var _ = Describe("Inst", func() {
	It("should refuse layout reads before a match", func() {
		inst := instr.Fetched(0x00000463)
		Expect(inst.IsMatched()).To(BeFalse())
		Expect(func() { inst.B() }).To(Panic())
	})

	It("should alias every view onto the same word", func() {
		inst := instr.Fetched(instr.EncodeR(0x33, 3, 0, 1, 2, 0)).Matched()
		Expect(inst.R().Rd).To(Equal(inst.I().Rd))
		Expect(inst.Undecided().Rs1).To(Equal(inst.S().Rs1))
		Expect(inst.Word()).To(Equal(inst.Matched().Word()))
	})
})
