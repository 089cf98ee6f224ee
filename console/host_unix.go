//go:build !windows

package console

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Start puts stdin in raw, non-blocking mode and reads it in a goroutine.
// Call Stop to restore the terminal.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("console: raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return fmt.Errorf("console: non-blocking stdin: %w", err)
	}
	h.nonblockSet = true

	go h.readLoop()

	return nil
}

func (h *TerminalHost) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			h.Feed(buf[0])
		}

		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}

		if err != nil {
			return
		}

		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Stop ends the reading goroutine and restores stdin.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done

	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}

	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
