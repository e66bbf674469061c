package cpu

// addrResult is the outcome of resolving an opcode's operand: either an
// absolute address to read/write through the bus, or (for accumulator
// mode) a flag saying the accumulator itself is the operand. Implied mode
// returns an empty result.
// pageCross reports whether an indexed calculation crossed a page
// boundary, for the instructions that are charged an extra cycle for it.
type addrResult struct {
	addr        uint16
	accumulator bool
	pageCross   bool
}

func (c *CPU) read16(addr uint16) (uint16, error) {
	lo, err := c.bus.Read(addr)
	if err != nil {
		return 0, err
	}
	hi, err := c.bus.Read(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// addrImplied is used by opcodes with no operand at all (INX, CLC, NOP...).
func (c *CPU) addrImplied() (addrResult, error) {
	return addrResult{}, nil
}

// addrAccumulator is used by shift/rotate opcodes operating on A directly.
func (c *CPU) addrAccumulator() (addrResult, error) {
	return addrResult{accumulator: true}, nil
}

func (c *CPU) addrImmediate() (addrResult, error) {
	addr := c.PC
	c.PC++
	return addrResult{addr: addr}, nil
}

func (c *CPU) addrZeroPage() (addrResult, error) {
	v, err := c.bus.Read(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC++
	return addrResult{addr: uint16(v)}, nil
}

func (c *CPU) addrZeroPageX() (addrResult, error) {
	v, err := c.bus.Read(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC++
	return addrResult{addr: uint16(v + c.X)}, nil
}

func (c *CPU) addrZeroPageY() (addrResult, error) {
	v, err := c.bus.Read(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC++
	return addrResult{addr: uint16(v + c.Y)}, nil
}

// addrRelative resolves a branch's target address. Page-cross accounting
// for branches happens in the branch helper, not here, since the extra
// cycle only applies when the branch is actually taken.
func (c *CPU) addrRelative() (addrResult, error) {
	v, err := c.bus.Read(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC++
	offset := uint16(int16(int8(v)))
	target := c.PC + offset
	return addrResult{addr: target, pageCross: (target & 0xFF00) != (c.PC & 0xFF00)}, nil
}

func (c *CPU) addrAbsolute() (addrResult, error) {
	addr, err := c.read16(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC += 2
	return addrResult{addr: addr}, nil
}

func (c *CPU) addrAbsoluteX() (addrResult, error) {
	base, err := c.read16(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC += 2
	addr := base + uint16(c.X)
	return addrResult{addr: addr, pageCross: (addr & 0xFF00) != (base & 0xFF00)}, nil
}

func (c *CPU) addrAbsoluteY() (addrResult, error) {
	base, err := c.read16(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC += 2
	addr := base + uint16(c.Y)
	return addrResult{addr: addr, pageCross: (addr & 0xFF00) != (base & 0xFF00)}, nil
}

// addrIndirect resolves JMP's operand. It honors the classic 6502 bug: when
// the pointer's low byte is 0xFF, the high byte is fetched from the start
// of the same page rather than the next page.
func (c *CPU) addrIndirect() (addrResult, error) {
	ptr, err := c.read16(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC += 2
	lo, err := c.bus.Read(ptr)
	if err != nil {
		return addrResult{}, err
	}
	hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
	hi, err := c.bus.Read(hiAddr)
	if err != nil {
		return addrResult{}, err
	}
	return addrResult{addr: uint16(hi)<<8 | uint16(lo)}, nil
}

func (c *CPU) addrIndirectX() (addrResult, error) {
	zp, err := c.bus.Read(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC++
	ptr := zp + c.X
	addr, err := c.read16ZP(ptr)
	if err != nil {
		return addrResult{}, err
	}
	return addrResult{addr: addr}, nil
}

func (c *CPU) addrIndirectY() (addrResult, error) {
	zp, err := c.bus.Read(c.PC)
	if err != nil {
		return addrResult{}, err
	}
	c.PC++
	base, err := c.read16ZP(zp)
	if err != nil {
		return addrResult{}, err
	}
	addr := base + uint16(c.Y)
	return addrResult{addr: addr, pageCross: (addr & 0xFF00) != (base & 0xFF00)}, nil
}

// read16ZP reads a little-endian pointer out of the zero page, wrapping
// within page 0 rather than crossing into page 1.
func (c *CPU) read16ZP(zp uint8) (uint16, error) {
	lo, err := c.bus.Read(uint16(zp))
	if err != nil {
		return 0, err
	}
	hi, err := c.bus.Read(uint16(zp + 1))
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
