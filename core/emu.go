package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/rvemu/instr"
)

// ErrNoInstruction is returned when no enabled instruction matches a word.
var ErrNoInstruction = errors.New("no instruction found")

// Instruction is one entry of an extension's instruction table.
type Instruction interface {
	Name() string
	Match(word uint32) bool
	Execute(inst instr.Inst, s *State) error
}

// Extension is an ordered instruction table identified by one character.
type Extension interface {
	ID() byte
	Instructions() []Instruction
}

type instDef struct {
	name string
	tmpl instr.Template
	run  func(inst instr.Inst, s *State) error
}

func def(name, pattern string, run func(instr.Inst, *State) error) instDef {
	return instDef{
		name: name,
		tmpl: instr.MustParseTemplate(pattern),
		run:  run,
	}
}

func (d instDef) Name() string { return d.name }

func (d instDef) Match(word uint32) bool { return d.tmpl.Match(word) }

func (d instDef) Execute(inst instr.Inst, s *State) error {
	return d.run(inst, s)
}

type extension struct {
	id    byte
	insts []Instruction
}

func (e extension) ID() byte { return e.id }

func (e extension) Instructions() []Instruction { return e.insts }

func newExtension(id byte, defs ...instDef) extension {
	e := extension{id: id, insts: make([]Instruction, len(defs))}
	for i, d := range defs {
		e.insts[i] = d
	}

	return e
}

// builtinExtension returns the instruction table for an identifier.
func builtinExtension(id byte) (Extension, bool) {
	switch id {
	case 'i':
		return extI, true
	case 'm':
		return extM, true
	case 'a':
		return extA, true
	case 'z':
		return extZicsr, true
	}

	return nil, false
}

// DefaultExtensions is the search order used when none is configured.
var DefaultExtensions = []byte{'i', 'm', 'a', 'z'}

// Decoder finds the instruction a word encodes. Extensions are searched in
// the order they were given and instructions in the order they were
// declared. The first match wins.
type Decoder struct {
	exts []Extension
}

// NewDecoder builds a decoder from extension identifiers. Unknown
// identifiers are reported and left out.
func NewDecoder(ids []byte) *Decoder {
	d := &Decoder{}

	for _, id := range ids {
		ext, ok := builtinExtension(id)
		if !ok {
			slog.Warn("Unknown extension skipped", "ID", string(id))
			continue
		}

		d.exts = append(d.exts, ext)
	}

	return d
}

// NewDecoderWith builds a decoder over the given extensions.
func NewDecoderWith(exts ...Extension) *Decoder {
	return &Decoder{exts: exts}
}

// Extensions returns the extensions the decoder searches, in order.
func (d *Decoder) Extensions() []Extension {
	return d.exts
}

// Lookup returns the first instruction that matches word.
func (d *Decoder) Lookup(word uint32) (Instruction, error) {
	for _, ext := range d.exts {
		for _, inst := range ext.Instructions() {
			if inst.Match(word) {
				return inst, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: 0x%08x", ErrNoInstruction, word)
}

// Dispatch decodes word and executes it against s.
func (d *Decoder) Dispatch(word uint32, s *State) error {
	inst, err := d.Lookup(word)
	if err != nil {
		return err
	}

	if traceEnabled() {
		Trace("Exec",
			"PC", fmt.Sprintf("0x%08x", s.PC),
			"Inst", inst.Name(),
			"Word", fmt.Sprintf("0x%08x", word))
	}

	return inst.Execute(instr.Fetched(word).Matched(), s)
}
