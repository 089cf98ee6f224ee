// Package console connects the host terminal to the guest UART.
package console

import (
	"sync"

	"golang.org/x/term"
)

// EscapeByte detaches the console when typed (Ctrl-]).
const EscapeByte byte = 0x1d

// Sink receives the bytes typed on the host.
type Sink interface {
	EnqueueByte(b byte)
}

// TerminalHost reads raw stdin and feeds the bytes to a sink. Only
// interactive programs start it.
type TerminalHost struct {
	sink     Sink
	onEscape func()

	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewTerminalHost creates a host adapter that reads stdin into sink.
func NewTerminalHost(sink Sink) *TerminalHost {
	return &TerminalHost{
		sink:   sink,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// OnEscape registers a callback for the escape byte. The escape byte is
// never passed to the guest.
func (h *TerminalHost) OnEscape(fn func()) {
	h.onEscape = fn
}

// Feed routes one host byte. Raw mode sends DEL for Backspace, which
// guests expect as BS.
func (h *TerminalHost) Feed(b byte) {
	switch b {
	case EscapeByte:
		if h.onEscape != nil {
			h.onEscape()
		}
		return
	case 0x7f:
		b = 0x08
	}

	h.sink.EnqueueByte(b)
}

// IsTerminal tells whether fd is an interactive terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}
