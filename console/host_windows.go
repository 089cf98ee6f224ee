//go:build windows

package console

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Start puts stdin in raw mode and reads it in a goroutine. Reads block,
// so the goroutine only notices Stop after the next key.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("console: raw mode: %w", err)
	}
	h.oldTermState = oldState

	go h.readLoop()

	return nil
}

func (h *TerminalHost) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)

	for {
		n, err := os.Stdin.Read(buf)
		select {
		case <-h.stopCh:
			return
		default:
		}

		if n > 0 {
			h.Feed(buf[0])
		}

		if err != nil {
			return
		}
	}
}

// Stop restores stdin. It does not wait for a blocked read.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})

	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
