package instr

import (
	"errors"
	"fmt"
)

// ErrBadTemplate is returned for a template that is not 32 characters long.
var ErrBadTemplate = errors.New("bad instruction template")

// Template is a compiled 32-character bit pattern. The first character
// stands for bit 31. '0' and '1' are literals, any other character is a
// don't-care.
type Template struct {
	Pattern string
	Mask    uint32
	Value   uint32
}

// ParseTemplate compiles a pattern such as
// "xxxxxxxxxxxxxxxxx000xxxxx1100111".
func ParseTemplate(pattern string) (Template, error) {
	if len(pattern) != 32 {
		return Template{}, fmt.Errorf("%w: %q has %d characters",
			ErrBadTemplate, pattern, len(pattern))
	}

	t := Template{Pattern: pattern}

	for pos := 0; pos < 32; pos++ {
		bit := uint32(1) << (31 - pos)

		switch pattern[pos] {
		case '0':
			t.Mask |= bit
		case '1':
			t.Mask |= bit
			t.Value |= bit
		}
	}

	return t, nil
}

// MustParseTemplate is ParseTemplate for patterns known at compile time.
func MustParseTemplate(pattern string) Template {
	t, err := ParseTemplate(pattern)
	if err != nil {
		panic(err)
	}

	return t
}

// Match tells whether every literal bit of the template agrees with w.
func (t Template) Match(w uint32) bool {
	return w&t.Mask == t.Value
}
