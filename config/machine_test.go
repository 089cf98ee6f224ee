package config_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rvemu/api"
	"github.com/sarchlab/rvemu/bus"
	"github.com/sarchlab/rvemu/config"
	"github.com/sarchlab/rvemu/instr"
)

func addi(rd, rs1 uint32, imm int32) uint32 { return instr.EncodeI(0x13, rd, 0, rs1, imm) }

func lui(rd, imm uint32) uint32 { return instr.EncodeU(0x37, rd, imm) }

func sw(rs1, rs2 uint32, imm int32) uint32 { return instr.EncodeS(0x23, 2, rs1, rs2, imm) }

func lw(rd, rs1 uint32, imm int32) uint32 { return instr.EncodeI(0x03, rd, 2, rs1, imm) }

var helloProgram = []uint32{
	lui(5, 0x10000), // t0 = UART
	addi(6, 0, 'H'),
	sw(5, 6, 0),
	addi(6, 0, 'i'),
	sw(5, 6, 0),
	lui(7, 0x11100), // t2 = syscon
	lui(28, 0x5),
	addi(28, 28, 0x555),
	sw(7, 28, 0),
}

var _ = Describe("Machine", func() {
	var (
		out *bytes.Buffer
		m   *config.Machine
	)

	BeforeEach(func() {
		out = new(bytes.Buffer)
		m = config.MakeMachineBuilder().
			WithRAMSize(0x100000).
			WithUARTOutput(out).
			Build("Machine")
	})

	It("should reset the hart to the start of DRAM", func() {
		Expect(m.CPU.PC()).To(Equal(bus.DRAMBase))
		Expect(m.CPU.Reg(2)).To(Equal(bus.DRAMBase + 0x100000))
		Expect(m.Running()).To(BeTrue())
	})

	It("should load flat images byte by byte", func() {
		Expect(m.LoadImage([]byte{0x13, 0x05, 0xa0, 0x02})).To(Succeed())
		w, err := m.Bus.Load32(bus.DRAMBase)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(addi(10, 0, 42)))

		Expect(m.Step(0)).To(Succeed())
		Expect(m.CPU.Reg(10)).To(Equal(uint32(42)))
	})

	It("should refuse images larger than RAM", func() {
		Expect(m.LoadImage(make([]byte, 0x100001))).NotTo(Succeed())
	})

	It("should load images from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "image.bin")
		Expect(os.WriteFile(path, []byte{0x13, 0x05, 0xa0, 0x02}, 0o644)).To(Succeed())

		Expect(m.LoadImageFile(path)).To(Succeed())
		Expect(m.Step(0)).To(Succeed())
		Expect(m.CPU.Reg(10)).To(Equal(uint32(42)))
	})

	It("should print through the UART and power off", func() {
		Expect(m.LoadWords(helloProgram...)).To(Succeed())

		driver := api.DriverBuilder{}.
			WithEngine(sim.NewSerialEngine()).
			WithFreq(1 * sim.MHz).
			WithVirtualTime(true).
			WithMaxSteps(100).
			Build("Driver")
		driver.RegisterMachine(m)

		Expect(driver.Run()).To(Succeed())
		Expect(out.String()).To(Equal("Hi"))
		Expect(m.PoweredOff()).To(BeTrue())
		Expect(m.Running()).To(BeFalse())
		Expect(driver.Steps()).To(Equal(uint64(len(helloProgram))))
	})

	It("should echo queued UART input", func() {
		m = config.MakeMachineBuilder().
			WithRAMSize(0x100000).
			WithUARTOutput(out).
			WithUARTInput([]byte("abc")).
			Build("Machine")

		Expect(m.LoadWords(
			lui(5, 0x10000),
			instr.EncodeI(0x03, 6, 4, 5, 5), // lbu t1, LSR
			instr.EncodeI(0x13, 6, 7, 6, 1), // andi t1, t1, 1
			instr.EncodeB(0x63, 0, 6, 0, 16),
			instr.EncodeI(0x03, 7, 4, 5, 0),
			instr.EncodeS(0x23, 0, 5, 7, 0),
			instr.EncodeJ(0x6f, 0, -20),
			lui(7, 0x11100),
			lui(28, 0x5),
			addi(28, 28, 0x555),
			sw(7, 28, 0),
		)).To(Succeed())

		driver := api.DriverBuilder{}.
			WithEngine(sim.NewSerialEngine()).
			WithVirtualTime(true).
			WithMaxSteps(100).
			Build("Driver")
		driver.RegisterMachine(m)

		Expect(driver.Run()).To(Succeed())
		Expect(out.String()).To(Equal("abc"))
		Expect(m.PoweredOff()).To(BeTrue())
	})

	It("should stop when the pc leaves DRAM", func() {
		Expect(m.LoadWords(instr.EncodeI(0x67, 0, 0, 5, 0))).To(Succeed())
		m.CPU.Reset()
		Expect(m.Step(0)).To(Succeed())

		Expect(m.CPU.PC()).To(BeZero())
		Expect(m.Running()).To(BeFalse())
	})

	It("should surface fatal errors from a run", func() {
		driver := api.DriverBuilder{}.
			WithEngine(sim.NewSerialEngine()).
			WithMaxSteps(10).
			Build("Driver")
		driver.RegisterMachine(m)

		err := driver.Run()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("no instruction found"))
	})

	It("should map the timer comparator into memory", func() {
		Expect(m.LoadWords(
			lui(5, 0x11004), // CLINT timecmp
			addi(6, 0, 0x40),
			sw(5, 6, 0),
			lui(7, 0x1100c),
			lw(8, 7, -8), // mtime low at 0x1100bff8
		)).To(Succeed())

		for i := 0; i < 5; i++ {
			Expect(m.Step(3)).To(Succeed())
		}

		Expect(m.CPU.TimerCompare()).To(Equal(uint64(0x40)))
		Expect(m.CPU.Reg(8)).To(Equal(uint32(15)))
	})

	It("should restart when the guest asks for it", func() {
		Expect(m.LoadWords(
			lui(7, 0x11100),
			lui(28, 0x7),
			addi(28, 28, 0x777),
			sw(7, 28, 0),
		)).To(Succeed())

		for i := 0; i < 4; i++ {
			Expect(m.Step(0)).To(Succeed())
		}
		Expect(m.CPU.PC()).To(Equal(bus.DRAMBase + 16))

		Expect(m.Step(0)).To(Succeed())
		Expect(m.CPU.PC()).To(Equal(bus.DRAMBase + 4))
		Expect(m.CPU.Reg(28)).To(BeZero())
	})
})

var _ = Describe("MachineSpec", func() {
	It("should read a YAML machine file and keep defaults for missing fields", func() {
		path := filepath.Join(GinkgoT().TempDir(), "machine.yaml")
		Expect(os.WriteFile(path, []byte("ram_size: 1048576\nextensions: iz\nmax_steps: 50\n"), 0o644)).To(Succeed())

		spec, err := config.LoadMachineSpecFromYAML(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(spec.RAMSize).To(Equal(uint32(1 << 20)))
		Expect(spec.Extensions).To(Equal("iz"))
		Expect(spec.MaxSteps).To(Equal(uint64(50)))
		Expect(spec.FreqMHz).To(Equal(1.0))

		m := config.MakeMachineBuilder().ApplyMachineSpec(spec).Build("Machine")
		Expect(m.RAM.Size()).To(Equal(uint32(1 << 20)))
		Expect(m.CPU.Decoder().Extensions()).To(HaveLen(2))
	})

	It("should reject a zero RAM size", func() {
		path := filepath.Join(GinkgoT().TempDir(), "machine.yaml")
		Expect(os.WriteFile(path, []byte("ram_size: 0\n"), 0o644)).To(Succeed())

		_, err := config.LoadMachineSpecFromYAML(path)
		Expect(err).To(HaveOccurred())
	})

	It("should report missing files", func() {
		_, err := config.LoadMachineSpecFromYAML("does-not-exist.yaml")
		Expect(err).To(HaveOccurred())
	})
})
