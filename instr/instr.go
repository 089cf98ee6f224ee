// Package instr defines the RV32 instruction formats and the template
// matcher used to identify instructions.
package instr

import "fmt"

// WordSize is the size of an instruction in bytes.
const WordSize = 4

// Inst is a fetched instruction word. The format views are only
// available once the word has matched an instruction template.
type Inst struct {
	raw     uint32
	matched bool
}

// Fetched wraps a raw word that has not been matched yet.
func Fetched(w uint32) Inst {
	return Inst{raw: w}
}

// Matched returns the same word marked as matched.
func (i Inst) Matched() Inst {
	i.matched = true
	return i
}

// Word returns the raw 32-bit value.
func (i Inst) Word() uint32 { return i.raw }

// IsMatched tells whether the field views may be read.
func (i Inst) IsMatched() bool { return i.matched }

func (i Inst) mustBeMatched() {
	if !i.matched {
		panic(fmt.Sprintf("instr: layout read on unmatched word 0x%08x", i.raw))
	}
}

func (i Inst) R() RType {
	i.mustBeMatched()
	return DecodeR(i.raw)
}

func (i Inst) I() IType {
	i.mustBeMatched()
	return DecodeI(i.raw)
}

func (i Inst) S() SType {
	i.mustBeMatched()
	return DecodeS(i.raw)
}

func (i Inst) B() BType {
	i.mustBeMatched()
	return DecodeB(i.raw)
}

func (i Inst) U() UType {
	i.mustBeMatched()
	return DecodeU(i.raw)
}

func (i Inst) J() JType {
	i.mustBeMatched()
	return DecodeJ(i.raw)
}

func (i Inst) Undecided() Undecided {
	i.mustBeMatched()
	return DecodeUndecided(i.raw)
}

func (i Inst) String() string {
	return fmt.Sprintf("0x%08x", i.raw)
}
