// Package bus implements the 16-bit address router that sits between the
// CPU and every device (RAM, ROM, PIA) in an Apple 1 system. Devices are
// registered by block; a block is the bus's unit of routing granularity and
// must evenly divide the base and length of every device mapped into it.
package bus

import "fmt"

// Device is anything that can be mapped into the address bus. memory.Region
// and pia.PIA both satisfy this.
type Device interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, val uint8) error
	Len() int
}

// AddressingError indicates a read or write targeted an address with no
// device mapped to it.
type AddressingError struct {
	Op   string
	Addr uint16
}

func (e *AddressingError) Error() string {
	return fmt.Sprintf("bus: %s at $%04X: unmapped address", e.Op, e.Addr)
}

// RegistrationError indicates a device could not be mapped into the bus
// because its base or length wasn't block-aligned, or it collides with an
// already-registered device.
type RegistrationError struct {
	Base   uint16
	Length int
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("bus: register base=$%04X length=%d: %s", e.Base, e.Length, e.Reason)
}

const defaultBlockSize = 256

// Bus routes reads and writes across the 16-bit address space to whichever
// Device was registered over the targeted block.
type Bus struct {
	blockSize int
	routes    []Device // indexed by block number, len == 0x10000/blockSize
}

// New creates a Bus with the given block size, which must be a power of two
// dividing 0x10000. A blockSize of 0 defaults to 256, matching the Apple 1's
// natural page granularity (the PIA aperture is addressed in 256-byte
// chunks).
func New(blockSize int) (*Bus, error) {
	if blockSize == 0 {
		blockSize = defaultBlockSize
	}
	if blockSize <= 0 || blockSize&(blockSize-1) != 0 || 0x10000%blockSize != 0 {
		return nil, fmt.Errorf("bus: block size %d must be a power of two dividing 65536", blockSize)
	}
	return &Bus{
		blockSize: blockSize,
		routes:    make([]Device, 0x10000/blockSize),
	}, nil
}

// Register maps device into the bus at [base, base+length). Both base and
// length must be multiples of the bus's block size, and no block in the
// range may already be routed to another device.
func (b *Bus) Register(base uint16, length int, device Device) error {
	if length <= 0 {
		return &RegistrationError{Base: base, Length: length, Reason: "length must be positive"}
	}
	if int(base)%b.blockSize != 0 {
		return &RegistrationError{Base: base, Length: length, Reason: "base is not block-aligned"}
	}
	if length%b.blockSize != 0 {
		return &RegistrationError{Base: base, Length: length, Reason: "length is not a multiple of block size"}
	}
	if device.Len()%b.blockSize != 0 {
		return &RegistrationError{Base: base, Length: length, Reason: "device length is not a multiple of block size"}
	}
	startBlock := int(base) / b.blockSize
	endBlock := (int(base) + length) / b.blockSize
	if endBlock > len(b.routes) {
		return &RegistrationError{Base: base, Length: length, Reason: "range exceeds 16 bit address space"}
	}
	for i := startBlock; i < endBlock; i++ {
		if b.routes[i] != nil {
			return &RegistrationError{Base: base, Length: length, Reason: fmt.Sprintf("block %d already routed", i)}
		}
	}
	for i := startBlock; i < endBlock; i++ {
		b.routes[i] = device
	}
	return nil
}

func (b *Bus) deviceFor(addr uint16) Device {
	return b.routes[int(addr)/b.blockSize]
}

// Read returns the byte at addr, or an AddressingError if no device is
// mapped there.
func (b *Bus) Read(addr uint16) (uint8, error) {
	d := b.deviceFor(addr)
	if d == nil {
		return 0, &AddressingError{Op: "read", Addr: addr}
	}
	return d.Read(addr)
}

// Write stores val at addr, or returns an AddressingError if no device is
// mapped there. The bus itself never rejects a write to a read-only device;
// that policy belongs to the device (see memory.Region).
func (b *Bus) Write(addr uint16, val uint8) error {
	d := b.deviceFor(addr)
	if d == nil {
		return &AddressingError{Op: "write", Addr: addr}
	}
	return d.Write(addr, val)
}
