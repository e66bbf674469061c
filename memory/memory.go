// Package memory defines the basic building block of the Apple 1 address
// space: a linear region of bytes anchored at a base address. Regions know
// nothing about what else shares the address space; that is the address
// bus's job.
package memory

import (
	"fmt"
	"io/ioutil"
)

// LoadError indicates a ROM or RAM image could not be read from disk.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("memory: load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// BoundsError indicates an access fell outside a region's mapped span.
type BoundsError struct {
	Op   string
	Addr uint16
	Base uint16
	Len  int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("memory: %s at $%04X out of bounds [$%04X,$%04X)", e.Op, e.Addr, e.Base, int(e.Base)+e.Len)
}

// Region is a contiguous, fixed-size span of byte-addressable storage
// starting at Base. A Region implements bus.Device.
type Region struct {
	base     uint16
	bytes    []uint8
	readOnly bool
}

// NewRAM constructs a zeroed, writable region of length bytes starting at base.
func NewRAM(base uint16, length int) (*Region, error) {
	if length < 1 {
		return nil, fmt.Errorf("memory: invalid length %d, must be >= 1", length)
	}
	if int(base)+length > 0x10000 {
		return nil, fmt.Errorf("memory: region [$%04X,+%d) overflows 16 bit address space", base, length)
	}
	return &Region{base: base, bytes: make([]uint8, length)}, nil
}

// NewROM constructs a read-only region pre-populated with the given bytes.
// Writes to a ROM region are discarded rather than erroring, matching real
// hardware where the data bus is simply ignored.
func NewROM(base uint16, data []uint8) (*Region, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("memory: invalid length %d, must be >= 1", len(data))
	}
	if int(base)+len(data) > 0x10000 {
		return nil, fmt.Errorf("memory: region [$%04X,+%d) overflows 16 bit address space", base, len(data))
	}
	cp := make([]uint8, len(data))
	copy(cp, data)
	return &Region{base: base, bytes: cp, readOnly: true}, nil
}

// LoadROM reads path verbatim and constructs a read-only region from its contents.
func LoadROM(base uint16, path string) (*Region, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return NewROM(base, data)
}

// Base returns the region's starting address.
func (r *Region) Base() uint16 { return r.base }

// Len returns the number of bytes this region occupies.
func (r *Region) Len() int { return len(r.bytes) }

// Read returns the byte at addr, which must fall within [Base(), Base()+Len()).
func (r *Region) Read(addr uint16) (uint8, error) {
	off := int(addr) - int(r.base)
	if off < 0 || off >= len(r.bytes) {
		return 0, &BoundsError{Op: "read", Addr: addr, Base: r.base, Len: len(r.bytes)}
	}
	return r.bytes[off], nil
}

// Write stores val at addr. Writes to a ROM region are silently discarded.
func (r *Region) Write(addr uint16, val uint8) error {
	off := int(addr) - int(r.base)
	if off < 0 || off >= len(r.bytes) {
		return &BoundsError{Op: "write", Addr: addr, Base: r.base, Len: len(r.bytes)}
	}
	if r.readOnly {
		return nil
	}
	r.bytes[off] = val
	return nil
}
