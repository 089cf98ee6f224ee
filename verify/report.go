package verify

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/rvemu/core"
)

// VerificationReport represents a complete lint report for one image.
type VerificationReport struct {
	Base      uint32
	WordCount int
	Issues    []Issue
	Histogram map[string]int
}

// GenerateReport lints an image and counts its instructions.
func GenerateReport(image []byte, base uint32, dec *core.Decoder) *VerificationReport {
	return &VerificationReport{
		Base:      base,
		WordCount: len(image) / 4,
		Issues:    RunLint(image, base, dec),
		Histogram: Histogram(image, dec),
	}
}

// OK tells whether the image produced no issues.
func (r *VerificationReport) OK() bool {
	return len(r.Issues) == 0
}

// Count returns the number of issues of one type.
func (r *VerificationReport) Count(t IssueType) int {
	n := 0

	for _, issue := range r.Issues {
		if issue.Type == t {
			n++
		}
	}

	return n
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "IMAGE LINT REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "\n%d words at 0x%08x\n\n", r.WordCount, r.Base)

	if r.OK() {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		fmt.Fprintf(w, "Found %d lint issues (DECODE %d, TARGET %d, CSR %d)\n\n",
			len(r.Issues), r.Count(IssueDecode), r.Count(IssueTarget), r.Count(IssueCSR))

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Addr", "Word", "Type", "Inst", "Message"})

		for _, issue := range r.Issues {
			t.AppendRow(table.Row{
				fmt.Sprintf("0x%08x", issue.Addr),
				fmt.Sprintf("0x%08x", issue.Word),
				string(issue.Type),
				issue.Inst,
				issue.Message,
			})
		}

		t.Render()
	}

	fmt.Fprintln(w)
	r.writeHistogram(w)
}

func (r *VerificationReport) writeHistogram(w io.Writer) {
	names := make([]string, 0, len(r.Histogram))
	for name := range r.Histogram {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := r.Histogram[names[i]], r.Histogram[names[j]]
		if a != b {
			return a > b
		}

		return names[i] < names[j]
	})

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Instruction mix")
	t.AppendHeader(table.Row{"Inst", "Count"})

	for _, name := range names {
		t.AppendRow(table.Row{name, r.Histogram[name]})
	}

	t.Render()
}
