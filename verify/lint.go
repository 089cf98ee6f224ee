package verify

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/rvemu/core"
	"github.com/sarchlab/rvemu/instr"
)

// Words splits an image into little-endian instruction words. A trailing
// partial word is dropped.
func Words(image []byte) []uint32 {
	words := make([]uint32, len(image)/instr.WordSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(image[i*instr.WordSize:])
	}

	return words
}

// RunLint performs static checks on an image loaded at base. It returns
// the issues in address order, or an empty list if there are none.
func RunLint(image []byte, base uint32, dec *core.Decoder) []Issue {
	var issues []Issue

	words := Words(image)
	end := base + uint32(len(words)*instr.WordSize)

	for i, word := range words {
		addr := base + uint32(i*instr.WordSize)

		inst, err := dec.Lookup(word)
		if err != nil {
			issues = append(issues, Issue{
				Type:    IssueDecode,
				Addr:    addr,
				Word:    word,
				Message: "no instruction matches",
			})
			continue
		}

		if msg := checkTarget(inst.Name(), word, addr, base, end); msg != "" {
			issues = append(issues, Issue{
				Type:    IssueTarget,
				Addr:    addr,
				Word:    word,
				Inst:    inst.Name(),
				Message: msg,
			})
		}

		if msg := checkCSR(inst.Name(), word); msg != "" {
			issues = append(issues, Issue{
				Type:    IssueCSR,
				Addr:    addr,
				Word:    word,
				Inst:    inst.Name(),
				Message: msg,
			})
		}
	}

	return issues
}

func checkTarget(name string, word, addr, base, end uint32) string {
	var offset uint32

	switch name {
	case "JAL":
		offset = instr.DecodeJ(word).Offset()
	case "BRANCH":
		offset = instr.DecodeB(word).Offset()
	default:
		return ""
	}

	target := addr + offset
	if target%instr.WordSize != 0 {
		return fmt.Sprintf("target 0x%08x is not word aligned", target)
	}

	if target < base || target >= end {
		return fmt.Sprintf("target 0x%08x is outside the image [0x%08x, 0x%08x)",
			target, base, end)
	}

	return ""
}

func checkCSR(name string, word uint32) string {
	var writes bool

	f := instr.DecodeI(word)

	switch name {
	case "CSRRW", "CSRRWI":
		writes = true
	case "CSRRS", "CSRRC", "CSRRSI", "CSRRCI":
		// rs1 doubles as the immediate; zero means read only.
		writes = f.Rs1 != 0
	default:
		return ""
	}

	num := f.FullImm()

	var bank core.CSRBank
	if _, ok := bank.Read(num); !ok {
		return fmt.Sprintf("CSR 0x%03x is not implemented", num)
	}

	if writes && !bank.Write(num, 0) {
		return fmt.Sprintf("CSR 0x%03x is read-only", num)
	}

	return ""
}

// Histogram counts how often each instruction appears in an image. Words
// that do not decode are counted under "?".
func Histogram(image []byte, dec *core.Decoder) map[string]int {
	hist := make(map[string]int)

	for _, word := range Words(image) {
		inst, err := dec.Lookup(word)
		if err != nil {
			hist["?"]++
			continue
		}

		hist[inst.Name()]++
	}

	return hist
}
