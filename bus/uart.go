package bus

import (
	"io"
	"os"
	"sync"
)

// UART register offsets.
const (
	UARTData       uint32 = 0x0 // THR on write, RBR on read
	UARTLineStatus uint32 = 0x5 // LSR
)

// LSR bits: transmitter empty and holding register empty are always set.
const (
	lsrDataReady uint64 = 0x01
	lsrTxIdle    uint64 = 0x60
)

// UART is a minimal 8250-style console. Output goes straight to a writer.
// Input is queued by EnqueueByte and polled by the guest, so a guest that
// waits for a key never blocks the emulation loop.
type UART struct {
	base uint32
	out  io.Writer

	mu       sync.Mutex
	inputBuf [1024]byte
	head     int
	tail     int
	length   int
}

// NewUART creates a UART at base. A nil writer means standard output.
func NewUART(base uint32, out io.Writer) *UART {
	if out == nil {
		out = os.Stdout
	}

	return &UART{base: base, out: out}
}

// EnqueueByte makes b available to the guest. It is safe to call from
// another goroutine. The byte is dropped when the buffer is full.
func (u *UART) EnqueueByte(b byte) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.length == len(u.inputBuf) {
		return
	}

	u.inputBuf[u.tail] = b
	u.tail = (u.tail + 1) % len(u.inputBuf)
	u.length++
}

// HasInput tells whether a byte is waiting.
func (u *UART) HasInput() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.length > 0
}

func (u *UART) dequeueLocked() byte {
	b := u.inputBuf[u.head]
	u.head = (u.head + 1) % len(u.inputBuf)
	u.length--

	return b
}

func (u *UART) Load(addr uint32, size int) (uint64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch addr - u.base {
	case UARTLineStatus:
		status := lsrTxIdle
		if u.length > 0 {
			status |= lsrDataReady
		}
		return status, nil
	case UARTData:
		if u.length == 0 {
			return 0, nil
		}
		return uint64(u.dequeueLocked()), nil
	default:
		return 0, nil
	}
}

// Store prints the low byte of a write to the data register. Writes to
// the configuration registers are accepted and ignored.
func (u *UART) Store(addr uint32, size int, value uint64) error {
	if addr-u.base != UARTData {
		return nil
	}

	_, err := u.out.Write([]byte{byte(value)})

	return err
}
