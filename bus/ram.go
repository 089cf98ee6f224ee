package bus

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// RAM is the DRAM of the machine. Multi-byte values are little-endian.
type RAM struct {
	base    uint32
	size    uint32
	storage *mem.Storage
}

// NewRAM allocates size bytes of memory that answer at base.
func NewRAM(base, size uint32) *RAM {
	if size == 0 || uint64(base)+uint64(size) > 1<<32 {
		panic(fmt.Sprintf("bus: RAM of 0x%x bytes does not fit at 0x%08x",
			size, base))
	}

	return &RAM{
		base:    base,
		size:    size,
		storage: mem.NewStorage(uint64(size)),
	}
}

func (r *RAM) Base() uint32 { return r.base }

func (r *RAM) Size() uint32 { return r.size }

// Contains tells whether addr is inside the RAM.
func (r *RAM) Contains(addr uint32) bool {
	return addr-r.base < r.size
}

func (r *RAM) offset(addr uint32, size int) (uint64, error) {
	off := uint64(addr - r.base)
	if !r.Contains(addr) || off+uint64(size) > uint64(r.size) {
		return 0, fmt.Errorf("%w: %d bytes at 0x%08x, RAM is [0x%08x, 0x%08x)",
			ErrOutOfRange, size, addr, r.base, uint64(r.base)+uint64(r.size))
	}

	return off, nil
}

func (r *RAM) Load(addr uint32, size int) (uint64, error) {
	off, err := r.offset(addr, size)
	if err != nil {
		return 0, err
	}

	data, err := r.storage.Read(off, uint64(size))
	if err != nil {
		return 0, err
	}

	var buf [8]byte
	copy(buf[:], data)

	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (r *RAM) Store(addr uint32, size int, value uint64) error {
	off, err := r.offset(addr, size)
	if err != nil {
		return err
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)

	return r.storage.Write(off, buf[:size])
}
