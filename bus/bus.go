// Package bus routes the loads and stores of the hart to the devices of
// the machine.
package bus

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Memory map of the machine.
const (
	UARTBase   uint32 = 0x10000000
	UARTSize   uint32 = 0x100
	CLINTBase  uint32 = 0x11000000
	CLINTSize  uint32 = 0x10000
	SysconBase uint32 = 0x11100000
	SysconSize uint32 = 0x1000
	DRAMBase   uint32 = 0x80000000
)

var (
	// ErrUnmapped is returned for an access that no device claims.
	ErrUnmapped = errors.New("peripheral does not exist")

	// ErrOutOfRange is returned by a device for an access that runs past
	// the end of its backing store.
	ErrOutOfRange = errors.New("access out of range")
)

// A Device serves the accesses that fall into its address range. Addresses
// are absolute and size is the access width in bytes (1, 2, 4 or 8).
type Device interface {
	Load(addr uint32, size int) (uint64, error)
	Store(addr uint32, size int, value uint64) error
}

type region struct {
	name string
	base uint32
	size uint32
	dev  Device
}

func (r region) contains(addr uint32) bool {
	return addr-r.base < r.size
}

// Bus dispatches each access to exactly one device. Narrow regions are
// searched before wide ones, so a peripheral window inside a larger range
// wins.
type Bus struct {
	mu      sync.Mutex
	regions []region
}

// NewBus creates a bus with nothing mapped.
func NewBus() *Bus {
	return &Bus{}
}

// Map places dev at [base, base+size).
func (b *Bus) Map(name string, base, size uint32, dev Device) {
	if size == 0 {
		panic(fmt.Sprintf("bus: region %s has zero size", name))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.regions = append(b.regions, region{
		name: name,
		base: base,
		size: size,
		dev:  dev,
	})

	sort.SliceStable(b.regions, func(i, j int) bool {
		return b.regions[i].size < b.regions[j].size
	})
}

// RegionName returns the name of the device that serves addr, or an
// empty string.
func (b *Bus) RegionName(addr uint32) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.find(addr)
	if r == nil {
		return ""
	}

	return r.name
}

func (b *Bus) find(addr uint32) *region {
	for i := range b.regions {
		if b.regions[i].contains(addr) {
			return &b.regions[i]
		}
	}

	return nil
}

func (b *Bus) load(addr uint32, size int) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.find(addr)
	if r == nil {
		return 0, fmt.Errorf("%w: load%d at 0x%08x",
			ErrUnmapped, size*8, addr)
	}

	v, err := r.dev.Load(addr, size)
	if err != nil {
		return 0, fmt.Errorf("%s: load%d at 0x%08x: %w",
			r.name, size*8, addr, err)
	}

	return v, nil
}

func (b *Bus) store(addr uint32, size int, value uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.find(addr)
	if r == nil {
		return fmt.Errorf("%w: store%d at 0x%08x",
			ErrUnmapped, size*8, addr)
	}

	if err := r.dev.Store(addr, size, value); err != nil {
		return fmt.Errorf("%s: store%d at 0x%08x: %w",
			r.name, size*8, addr, err)
	}

	return nil
}

func (b *Bus) Load8(addr uint32) (uint8, error) {
	v, err := b.load(addr, 1)
	return uint8(v), err
}

func (b *Bus) Load16(addr uint32) (uint16, error) {
	v, err := b.load(addr, 2)
	return uint16(v), err
}

func (b *Bus) Load32(addr uint32) (uint32, error) {
	v, err := b.load(addr, 4)
	return uint32(v), err
}

func (b *Bus) Load64(addr uint32) (uint64, error) {
	return b.load(addr, 8)
}

func (b *Bus) Store8(addr uint32, value uint8) error {
	return b.store(addr, 1, uint64(value))
}

func (b *Bus) Store16(addr uint32, value uint16) error {
	return b.store(addr, 2, uint64(value))
}

func (b *Bus) Store32(addr uint32, value uint32) error {
	return b.store(addr, 4, uint64(value))
}

func (b *Bus) Store64(addr uint32, value uint64) error {
	return b.store(addr, 8, value)
}
