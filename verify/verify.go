// Package verify checks a raw RV32 memory image without running it.
//
// The checks work on the word stream only:
//
//   - DECODE: no instruction of the configured extensions matches a word.
//   - TARGET: a JAL or branch lands off a word boundary or outside the
//     image.
//   - CSR: a Zicsr instruction names a CSR the hart does not implement, or
//     writes a read-only one.
//
// An image usually carries data after its code, so DECODE issues past the
// last control transfer are expected. The report keeps them apart from the
// rest by address.
//
// # Usage Example
//
//	dec := core.NewDecoder(core.DefaultExtensions)
//	report := verify.GenerateReport(image, 0x80000000, dec)
//	report.WriteReport(os.Stdout)
package verify

// IssueType classifies a lint issue.
type IssueType string

const (
	IssueDecode IssueType = "DECODE" // Word matches no instruction
	IssueTarget IssueType = "TARGET" // Static jump or branch target is bad
	IssueCSR    IssueType = "CSR"    // CSR access would trap
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType
	Addr    uint32 // Address of the offending word
	Word    uint32
	Inst    string // Matched instruction name, empty for DECODE
	Message string
}
