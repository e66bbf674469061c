package cpu

// opFunc executes an opcode's semantics given the resolved operand. It
// returns any opcode-side extra cycles (0 for everything except taken
// branches, which return 1, or 2 when the target is on another page) and an
// error if the bus faulted.
type opFunc func(c *CPU, r addrResult) (uint8, error)

type modeFunc func(c *CPU) (addrResult, error)

// entry is one row of the 256-entry dispatch table.
type entry struct {
	Name string
	Mode modeFunc
	Op   opFunc
	// Cycles is the base cost of the instruction before any page-cross
	// penalty from the addressing mode.
	Cycles uint8
	// PageCrossCosts is true for instructions that read their operand
	// (loads, ALU ops, compares); these pay the addressing mode's
	// page-cross penalty. Stores and read-modify-write instructions
	// already have Cycles tuned to the worst case and do not.
	PageCrossCosts bool
}

var dispatch [256]entry

// operand fetches the value an opcode should act on: the accumulator for
// accumulator-mode instructions, otherwise a bus read at the resolved
// address.
func (c *CPU) operand(r addrResult) (uint8, error) {
	if r.accumulator {
		return c.A, nil
	}
	return c.bus.Read(r.addr)
}

func (c *CPU) storeResult(r addrResult, v uint8) error {
	if r.accumulator {
		c.A = v
		return nil
	}
	return c.bus.Write(r.addr, v)
}

func reg(name string, mode modeFunc, cycles uint8, pageCrosses bool, op opFunc) entry {
	return entry{Name: name, Mode: mode, Op: op, Cycles: cycles, PageCrossCosts: pageCrosses}
}

// --- Loads / stores -------------------------------------------------------

func opLDA(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.A, v)
	return 0, nil
}

func opLDX(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.X, v)
	return 0, nil
}

func opLDY(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.Y, v)
	return 0, nil
}

func opSTA(c *CPU, r addrResult) (uint8, error) { return 0, c.storeResult(r, c.A) }
func opSTX(c *CPU, r addrResult) (uint8, error) { return 0, c.storeResult(r, c.X) }
func opSTY(c *CPU, r addrResult) (uint8, error) { return 0, c.storeResult(r, c.Y) }

// --- Transfers --------------------------------------------------------------

func opTAX(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.X, c.A); return 0, nil }
func opTAY(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.Y, c.A); return 0, nil }
func opTXA(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.A, c.X); return 0, nil }
func opTYA(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.A, c.Y); return 0, nil }
func opTSX(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.X, c.SP); return 0, nil }
func opTXS(c *CPU, r addrResult) (uint8, error) { c.SP = c.X; return 0, nil }

// --- Stack ------------------------------------------------------------------

func opPHA(c *CPU, r addrResult) (uint8, error) { c.pushStack(c.A); return 0, nil }

func opPLA(c *CPU, r addrResult) (uint8, error) {
	c.loadRegister(&c.A, c.popStack())
	return 0, nil
}

func opPHP(c *CPU, r addrResult) (uint8, error) {
	c.pushStack(c.P | FlagUnused | FlagBreak)
	return 0, nil
}

func opPLP(c *CPU, r addrResult) (uint8, error) {
	c.P = c.popStack()
	c.P |= FlagUnused
	c.P &^= FlagBreak
	return 0, nil
}

// --- Logic / arithmetic -------------------------------------------------------

func opAND(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.A, c.A&v)
	return 0, nil
}

func opORA(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.A, c.A|v)
	return 0, nil
}

func opEOR(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.A, c.A^v)
	return 0, nil
}

func opBIT(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.zeroCheck(c.A & v)
	c.negativeCheck(v)
	c.P &^= FlagOverflow
	if v&FlagOverflow != 0 {
		c.P |= FlagOverflow
	}
	return 0, nil
}

// adc implements binary and BCD addition bit-for-bit per NMOS 6502
// behavior: Z is set from the binary sum while N/V/C come from the
// BCD-corrected result in decimal mode.
func (c *CPU) adc(v uint8) {
	carry := c.P & FlagCarry
	if c.P&FlagDecimal != 0 {
		al := (c.A & 0x0F) + (v & 0x0F) + carry
		if al >= 0x0A {
			al = ((al + 0x06) & 0x0F) + 0x10
		}
		sum := uint16(c.A&0xF0) + uint16(v&0xF0) + uint16(al)
		if sum >= 0xA0 {
			sum += 0x60
		}
		res := uint8(sum & 0xFF)
		seq := (c.A & 0xF0) + (v & 0xF0) + al
		bin := c.A + v + carry
		c.overflowCheck(c.A, v, seq)
		c.carryCheck(sum)
		c.negativeCheck(seq)
		c.zeroCheck(bin)
		c.A = res
		return
	}
	sum := c.A + v + carry
	c.overflowCheck(c.A, v, sum)
	c.carryCheck(uint16(c.A) + uint16(v) + uint16(carry))
	c.loadRegister(&c.A, sum)
}

func opADC(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.adc(v)
	return 0, nil
}

// sbc implements binary and BCD subtraction; decimal mode applies its own
// nibble corrections but always derives C/N/Z from the binary result,
// matching NMOS hardware.
func (c *CPU) sbc(v uint8) {
	carry := c.P & FlagCarry
	if c.P&FlagDecimal != 0 {
		al := int8(c.A&0x0F) - int8(v&0x0F) + int8(carry) - 1
		if al < 0 {
			al = ((al - 0x06) & 0x0F) - 0x10
		}
		sum := int16(c.A&0xF0) - int16(v&0xF0) + int16(al)
		if sum < 0 {
			sum -= 0x60
		}
		res := uint8(sum & 0xFF)
		b := c.A + ^v + carry
		c.overflowCheck(c.A, ^v, b)
		c.negativeCheck(b)
		c.carryCheck(uint16(c.A) + uint16(^v) + uint16(carry))
		c.zeroCheck(b)
		c.A = res
		return
	}
	c.adc(^v)
}

func opSBC(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.sbc(v)
	return 0, nil
}

// --- Shifts / rotates ---------------------------------------------------------

func opASL(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.carryCheck(uint16(v) << 1)
	res := v << 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return 0, c.storeResult(r, res)
}

func opLSR(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.carryCheck(uint16(v&0x01) << 8)
	res := v >> 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return 0, c.storeResult(r, res)
}

func opROL(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	carry := c.P & FlagCarry
	c.carryCheck(uint16(v) << 1)
	res := (v << 1) | carry
	c.zeroCheck(res)
	c.negativeCheck(res)
	return 0, c.storeResult(r, res)
}

func opROR(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	carry := (c.P & FlagCarry) << 7
	c.carryCheck((uint16(v) << 8) & 0x0100)
	res := (v >> 1) | carry
	c.zeroCheck(res)
	c.negativeCheck(res)
	return 0, c.storeResult(r, res)
}

// --- Increment / decrement -----------------------------------------------------

func opINC(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	res := v + 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return 0, c.storeResult(r, res)
}

func opDEC(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	res := v - 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return 0, c.storeResult(r, res)
}

func opINX(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.X, c.X+1); return 0, nil }
func opINY(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.Y, c.Y+1); return 0, nil }
func opDEX(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.X, c.X-1); return 0, nil }
func opDEY(c *CPU, r addrResult) (uint8, error) { c.loadRegister(&c.Y, c.Y-1); return 0, nil }

// --- Compares --------------------------------------------------------------

func (c *CPU) compare(reg, v uint8) {
	c.zeroCheck(reg - v)
	c.negativeCheck(reg - v)
	c.carryCheck(uint16(reg) + uint16(^v) + 1)
}

func opCMP(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.compare(c.A, v)
	return 0, nil
}

func opCPX(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.compare(c.X, v)
	return 0, nil
}

func opCPY(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.compare(c.Y, v)
	return 0, nil
}

// --- Branches ------------------------------------------------------------------

func (c *CPU) branch(r addrResult, take bool) (uint8, error) {
	if !take {
		return 0, nil
	}
	extra := uint8(1)
	if r.pageCross {
		extra++
	}
	c.PC = r.addr
	return extra, nil
}

func opBCC(c *CPU, r addrResult) (uint8, error) { return c.branch(r, c.P&FlagCarry == 0) }
func opBCS(c *CPU, r addrResult) (uint8, error) { return c.branch(r, c.P&FlagCarry != 0) }
func opBEQ(c *CPU, r addrResult) (uint8, error) { return c.branch(r, c.P&FlagZero != 0) }
func opBNE(c *CPU, r addrResult) (uint8, error) { return c.branch(r, c.P&FlagZero == 0) }
func opBMI(c *CPU, r addrResult) (uint8, error) { return c.branch(r, c.P&FlagNegative != 0) }
func opBPL(c *CPU, r addrResult) (uint8, error) { return c.branch(r, c.P&FlagNegative == 0) }
func opBVC(c *CPU, r addrResult) (uint8, error) { return c.branch(r, c.P&FlagOverflow == 0) }
func opBVS(c *CPU, r addrResult) (uint8, error) { return c.branch(r, c.P&FlagOverflow != 0) }

// --- Jumps / subroutines --------------------------------------------------------

func opJMP(c *CPU, r addrResult) (uint8, error) { c.PC = r.addr; return 0, nil }

func opJSR(c *CPU, r addrResult) (uint8, error) {
	ret := c.PC - 1
	c.pushStack(uint8(ret >> 8))
	c.pushStack(uint8(ret))
	c.PC = r.addr
	return 0, nil
}

func opRTS(c *CPU, r addrResult) (uint8, error) {
	lo := c.popStack()
	hi := c.popStack()
	c.PC = (uint16(hi)<<8 | uint16(lo)) + 1
	return 0, nil
}

// opBRK treats BRK as the 2-byte instruction it is on real hardware: the
// byte after the opcode is a padding signature byte that is never read but
// is still counted, so the return address RTI unwinds to is BRK+2.
func opBRK(c *CPU, r addrResult) (uint8, error) {
	c.PC++
	return 0, c.runInterrupt(irqVector, false)
}

func opRTI(c *CPU, r addrResult) (uint8, error) {
	c.P = c.popStack()
	c.P |= FlagUnused
	c.P &^= FlagBreak
	lo := c.popStack()
	hi := c.popStack()
	c.PC = uint16(hi)<<8 | uint16(lo)
	return 0, nil
}

// --- Flags -----------------------------------------------------------------

func opCLC(c *CPU, r addrResult) (uint8, error) { c.P &^= FlagCarry; return 0, nil }
func opSEC(c *CPU, r addrResult) (uint8, error) { c.P |= FlagCarry; return 0, nil }
func opCLI(c *CPU, r addrResult) (uint8, error) { c.P &^= FlagInterrupt; return 0, nil }
func opSEI(c *CPU, r addrResult) (uint8, error) { c.P |= FlagInterrupt; return 0, nil }
func opCLD(c *CPU, r addrResult) (uint8, error) { c.P &^= FlagDecimal; return 0, nil }
func opSED(c *CPU, r addrResult) (uint8, error) { c.P |= FlagDecimal; return 0, nil }
func opCLV(c *CPU, r addrResult) (uint8, error) { c.P &^= FlagOverflow; return 0, nil }

func opNOP(c *CPU, r addrResult) (uint8, error) { return 0, nil }

// --- Undocumented opcodes (combined read-modify-write + ALU ops) ---------------

func opSLO(c *CPU, r addrResult) (uint8, error) {
	if _, err := opASL(c, r); err != nil {
		return 0, err
	}
	return opORA(c, r)
}

func opRLA(c *CPU, r addrResult) (uint8, error) {
	if _, err := opROL(c, r); err != nil {
		return 0, err
	}
	return opAND(c, r)
}

func opSRE(c *CPU, r addrResult) (uint8, error) {
	if _, err := opLSR(c, r); err != nil {
		return 0, err
	}
	return opEOR(c, r)
}

func opRRA(c *CPU, r addrResult) (uint8, error) {
	if _, err := opROR(c, r); err != nil {
		return 0, err
	}
	return opADC(c, r)
}

func opDCP(c *CPU, r addrResult) (uint8, error) {
	if _, err := opDEC(c, r); err != nil {
		return 0, err
	}
	return opCMP(c, r)
}

func opISC(c *CPU, r addrResult) (uint8, error) {
	if _, err := opINC(c, r); err != nil {
		return 0, err
	}
	return opSBC(c, r)
}

func opLAX(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.A, v)
	c.loadRegister(&c.X, v)
	return 0, nil
}

func opSAX(c *CPU, r addrResult) (uint8, error) {
	return 0, c.storeResult(r, c.A&c.X)
}

func opANC(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.A, c.A&v)
	c.carryCheck(uint16(c.A) << 1)
	return 0, nil
}

func opALR(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	c.loadRegister(&c.A, c.A&v)
	return opLSR(c, addrResult{accumulator: true})
}

func opARR(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	t := c.A & v
	carry := (c.P & FlagCarry) << 7
	res := (t >> 1) | carry
	c.loadRegister(&c.A, res)
	c.P &^= FlagCarry | FlagOverflow
	if res&0x40 != 0 {
		c.P |= FlagCarry
	}
	if (res&0x40 != 0) != (res&0x20 != 0) {
		c.P |= FlagOverflow
	}
	return 0, nil
}

func opAXS(c *CPU, r addrResult) (uint8, error) {
	v, err := c.operand(r)
	if err != nil {
		return 0, err
	}
	t := c.A & c.X
	res := t - v
	c.carryCheck(uint16(t) + uint16(^v) + 1)
	c.zeroCheck(res)
	c.negativeCheck(res)
	c.X = res
	return 0, nil
}

func init() {
	// Documented opcodes, grouped by mnemonic. Cycle counts and the
	// page-cross-pays flag follow the historical 6502 timing table.
	set := func(op uint8, name string, mode modeFunc, cycles uint8, pageCrosses bool, fn opFunc) {
		dispatch[op] = reg(name, mode, cycles, pageCrosses, fn)
	}

	// LDA
	set(0xA9, "LDA", (*CPU).addrImmediate, 2, false, opLDA)
	set(0xA5, "LDA", (*CPU).addrZeroPage, 3, false, opLDA)
	set(0xB5, "LDA", (*CPU).addrZeroPageX, 4, false, opLDA)
	set(0xAD, "LDA", (*CPU).addrAbsolute, 4, false, opLDA)
	set(0xBD, "LDA", (*CPU).addrAbsoluteX, 4, true, opLDA)
	set(0xB9, "LDA", (*CPU).addrAbsoluteY, 4, true, opLDA)
	set(0xA1, "LDA", (*CPU).addrIndirectX, 6, false, opLDA)
	set(0xB1, "LDA", (*CPU).addrIndirectY, 5, true, opLDA)

	// LDX
	set(0xA2, "LDX", (*CPU).addrImmediate, 2, false, opLDX)
	set(0xA6, "LDX", (*CPU).addrZeroPage, 3, false, opLDX)
	set(0xB6, "LDX", (*CPU).addrZeroPageY, 4, false, opLDX)
	set(0xAE, "LDX", (*CPU).addrAbsolute, 4, false, opLDX)
	set(0xBE, "LDX", (*CPU).addrAbsoluteY, 4, true, opLDX)

	// LDY
	set(0xA0, "LDY", (*CPU).addrImmediate, 2, false, opLDY)
	set(0xA4, "LDY", (*CPU).addrZeroPage, 3, false, opLDY)
	set(0xB4, "LDY", (*CPU).addrZeroPageX, 4, false, opLDY)
	set(0xAC, "LDY", (*CPU).addrAbsolute, 4, false, opLDY)
	set(0xBC, "LDY", (*CPU).addrAbsoluteX, 4, true, opLDY)

	// STA
	set(0x85, "STA", (*CPU).addrZeroPage, 3, false, opSTA)
	set(0x95, "STA", (*CPU).addrZeroPageX, 4, false, opSTA)
	set(0x8D, "STA", (*CPU).addrAbsolute, 4, false, opSTA)
	set(0x9D, "STA", (*CPU).addrAbsoluteX, 5, false, opSTA)
	set(0x99, "STA", (*CPU).addrAbsoluteY, 5, false, opSTA)
	set(0x81, "STA", (*CPU).addrIndirectX, 6, false, opSTA)
	set(0x91, "STA", (*CPU).addrIndirectY, 6, false, opSTA)

	// STX / STY
	set(0x86, "STX", (*CPU).addrZeroPage, 3, false, opSTX)
	set(0x96, "STX", (*CPU).addrZeroPageY, 4, false, opSTX)
	set(0x8E, "STX", (*CPU).addrAbsolute, 4, false, opSTX)
	set(0x84, "STY", (*CPU).addrZeroPage, 3, false, opSTY)
	set(0x94, "STY", (*CPU).addrZeroPageX, 4, false, opSTY)
	set(0x8C, "STY", (*CPU).addrAbsolute, 4, false, opSTY)

	// Transfers
	set(0xAA, "TAX", (*CPU).addrImplied, 2, false, opTAX)
	set(0xA8, "TAY", (*CPU).addrImplied, 2, false, opTAY)
	set(0x8A, "TXA", (*CPU).addrImplied, 2, false, opTXA)
	set(0x98, "TYA", (*CPU).addrImplied, 2, false, opTYA)
	set(0xBA, "TSX", (*CPU).addrImplied, 2, false, opTSX)
	set(0x9A, "TXS", (*CPU).addrImplied, 2, false, opTXS)

	// Stack
	set(0x48, "PHA", (*CPU).addrImplied, 3, false, opPHA)
	set(0x68, "PLA", (*CPU).addrImplied, 4, false, opPLA)
	set(0x08, "PHP", (*CPU).addrImplied, 3, false, opPHP)
	set(0x28, "PLP", (*CPU).addrImplied, 4, false, opPLP)

	// Logic
	set(0x29, "AND", (*CPU).addrImmediate, 2, false, opAND)
	set(0x25, "AND", (*CPU).addrZeroPage, 3, false, opAND)
	set(0x35, "AND", (*CPU).addrZeroPageX, 4, false, opAND)
	set(0x2D, "AND", (*CPU).addrAbsolute, 4, false, opAND)
	set(0x3D, "AND", (*CPU).addrAbsoluteX, 4, true, opAND)
	set(0x39, "AND", (*CPU).addrAbsoluteY, 4, true, opAND)
	set(0x21, "AND", (*CPU).addrIndirectX, 6, false, opAND)
	set(0x31, "AND", (*CPU).addrIndirectY, 5, true, opAND)

	set(0x09, "ORA", (*CPU).addrImmediate, 2, false, opORA)
	set(0x05, "ORA", (*CPU).addrZeroPage, 3, false, opORA)
	set(0x15, "ORA", (*CPU).addrZeroPageX, 4, false, opORA)
	set(0x0D, "ORA", (*CPU).addrAbsolute, 4, false, opORA)
	set(0x1D, "ORA", (*CPU).addrAbsoluteX, 4, true, opORA)
	set(0x19, "ORA", (*CPU).addrAbsoluteY, 4, true, opORA)
	set(0x01, "ORA", (*CPU).addrIndirectX, 6, false, opORA)
	set(0x11, "ORA", (*CPU).addrIndirectY, 5, true, opORA)

	set(0x49, "EOR", (*CPU).addrImmediate, 2, false, opEOR)
	set(0x45, "EOR", (*CPU).addrZeroPage, 3, false, opEOR)
	set(0x55, "EOR", (*CPU).addrZeroPageX, 4, false, opEOR)
	set(0x4D, "EOR", (*CPU).addrAbsolute, 4, false, opEOR)
	set(0x5D, "EOR", (*CPU).addrAbsoluteX, 4, true, opEOR)
	set(0x59, "EOR", (*CPU).addrAbsoluteY, 4, true, opEOR)
	set(0x41, "EOR", (*CPU).addrIndirectX, 6, false, opEOR)
	set(0x51, "EOR", (*CPU).addrIndirectY, 5, true, opEOR)

	set(0x24, "BIT", (*CPU).addrZeroPage, 3, false, opBIT)
	set(0x2C, "BIT", (*CPU).addrAbsolute, 4, false, opBIT)

	// Arithmetic
	set(0x69, "ADC", (*CPU).addrImmediate, 2, false, opADC)
	set(0x65, "ADC", (*CPU).addrZeroPage, 3, false, opADC)
	set(0x75, "ADC", (*CPU).addrZeroPageX, 4, false, opADC)
	set(0x6D, "ADC", (*CPU).addrAbsolute, 4, false, opADC)
	set(0x7D, "ADC", (*CPU).addrAbsoluteX, 4, true, opADC)
	set(0x79, "ADC", (*CPU).addrAbsoluteY, 4, true, opADC)
	set(0x61, "ADC", (*CPU).addrIndirectX, 6, false, opADC)
	set(0x71, "ADC", (*CPU).addrIndirectY, 5, true, opADC)

	set(0xE9, "SBC", (*CPU).addrImmediate, 2, false, opSBC)
	set(0xEB, "SBC", (*CPU).addrImmediate, 2, false, opSBC) // undocumented USBC, treated as SBC
	set(0xE5, "SBC", (*CPU).addrZeroPage, 3, false, opSBC)
	set(0xF5, "SBC", (*CPU).addrZeroPageX, 4, false, opSBC)
	set(0xED, "SBC", (*CPU).addrAbsolute, 4, false, opSBC)
	set(0xFD, "SBC", (*CPU).addrAbsoluteX, 4, true, opSBC)
	set(0xF9, "SBC", (*CPU).addrAbsoluteY, 4, true, opSBC)
	set(0xE1, "SBC", (*CPU).addrIndirectX, 6, false, opSBC)
	set(0xF1, "SBC", (*CPU).addrIndirectY, 5, true, opSBC)

	// Shifts/rotates
	set(0x0A, "ASL", (*CPU).addrAccumulator, 2, false, opASL)
	set(0x06, "ASL", (*CPU).addrZeroPage, 5, false, opASL)
	set(0x16, "ASL", (*CPU).addrZeroPageX, 6, false, opASL)
	set(0x0E, "ASL", (*CPU).addrAbsolute, 6, false, opASL)
	set(0x1E, "ASL", (*CPU).addrAbsoluteX, 7, false, opASL)

	set(0x4A, "LSR", (*CPU).addrAccumulator, 2, false, opLSR)
	set(0x46, "LSR", (*CPU).addrZeroPage, 5, false, opLSR)
	set(0x56, "LSR", (*CPU).addrZeroPageX, 6, false, opLSR)
	set(0x4E, "LSR", (*CPU).addrAbsolute, 6, false, opLSR)
	set(0x5E, "LSR", (*CPU).addrAbsoluteX, 7, false, opLSR)

	set(0x2A, "ROL", (*CPU).addrAccumulator, 2, false, opROL)
	set(0x26, "ROL", (*CPU).addrZeroPage, 5, false, opROL)
	set(0x36, "ROL", (*CPU).addrZeroPageX, 6, false, opROL)
	set(0x2E, "ROL", (*CPU).addrAbsolute, 6, false, opROL)
	set(0x3E, "ROL", (*CPU).addrAbsoluteX, 7, false, opROL)

	set(0x6A, "ROR", (*CPU).addrAccumulator, 2, false, opROR)
	set(0x66, "ROR", (*CPU).addrZeroPage, 5, false, opROR)
	set(0x76, "ROR", (*CPU).addrZeroPageX, 6, false, opROR)
	set(0x6E, "ROR", (*CPU).addrAbsolute, 6, false, opROR)
	set(0x7E, "ROR", (*CPU).addrAbsoluteX, 7, false, opROR)

	// Inc/dec
	set(0xE6, "INC", (*CPU).addrZeroPage, 5, false, opINC)
	set(0xF6, "INC", (*CPU).addrZeroPageX, 6, false, opINC)
	set(0xEE, "INC", (*CPU).addrAbsolute, 6, false, opINC)
	set(0xFE, "INC", (*CPU).addrAbsoluteX, 7, false, opINC)
	set(0xC6, "DEC", (*CPU).addrZeroPage, 5, false, opDEC)
	set(0xD6, "DEC", (*CPU).addrZeroPageX, 6, false, opDEC)
	set(0xCE, "DEC", (*CPU).addrAbsolute, 6, false, opDEC)
	set(0xDE, "DEC", (*CPU).addrAbsoluteX, 7, false, opDEC)
	set(0xE8, "INX", (*CPU).addrImplied, 2, false, opINX)
	set(0xC8, "INY", (*CPU).addrImplied, 2, false, opINY)
	set(0xCA, "DEX", (*CPU).addrImplied, 2, false, opDEX)
	set(0x88, "DEY", (*CPU).addrImplied, 2, false, opDEY)

	// Compares
	set(0xC9, "CMP", (*CPU).addrImmediate, 2, false, opCMP)
	set(0xC5, "CMP", (*CPU).addrZeroPage, 3, false, opCMP)
	set(0xD5, "CMP", (*CPU).addrZeroPageX, 4, false, opCMP)
	set(0xCD, "CMP", (*CPU).addrAbsolute, 4, false, opCMP)
	set(0xDD, "CMP", (*CPU).addrAbsoluteX, 4, true, opCMP)
	set(0xD9, "CMP", (*CPU).addrAbsoluteY, 4, true, opCMP)
	set(0xC1, "CMP", (*CPU).addrIndirectX, 6, false, opCMP)
	set(0xD1, "CMP", (*CPU).addrIndirectY, 5, true, opCMP)
	set(0xE0, "CPX", (*CPU).addrImmediate, 2, false, opCPX)
	set(0xE4, "CPX", (*CPU).addrZeroPage, 3, false, opCPX)
	set(0xEC, "CPX", (*CPU).addrAbsolute, 4, false, opCPX)
	set(0xC0, "CPY", (*CPU).addrImmediate, 2, false, opCPY)
	set(0xC4, "CPY", (*CPU).addrZeroPage, 3, false, opCPY)
	set(0xCC, "CPY", (*CPU).addrAbsolute, 4, false, opCPY)

	// Branches (base cost 2; the branch helper adds the taken/page-cross cycles)
	set(0x90, "BCC", (*CPU).addrRelative, 2, false, opBCC)
	set(0xB0, "BCS", (*CPU).addrRelative, 2, false, opBCS)
	set(0xF0, "BEQ", (*CPU).addrRelative, 2, false, opBEQ)
	set(0xD0, "BNE", (*CPU).addrRelative, 2, false, opBNE)
	set(0x30, "BMI", (*CPU).addrRelative, 2, false, opBMI)
	set(0x10, "BPL", (*CPU).addrRelative, 2, false, opBPL)
	set(0x50, "BVC", (*CPU).addrRelative, 2, false, opBVC)
	set(0x70, "BVS", (*CPU).addrRelative, 2, false, opBVS)

	// Jumps
	set(0x4C, "JMP", (*CPU).addrAbsolute, 3, false, opJMP)
	set(0x6C, "JMP", (*CPU).addrIndirect, 5, false, opJMP)
	set(0x20, "JSR", (*CPU).addrAbsolute, 6, false, opJSR)
	set(0x60, "RTS", (*CPU).addrImplied, 6, false, opRTS)
	set(0x00, "BRK", (*CPU).addrImplied, 7, false, opBRK)
	set(0x40, "RTI", (*CPU).addrImplied, 6, false, opRTI)

	// Flags
	set(0x18, "CLC", (*CPU).addrImplied, 2, false, opCLC)
	set(0x38, "SEC", (*CPU).addrImplied, 2, false, opSEC)
	set(0x58, "CLI", (*CPU).addrImplied, 2, false, opCLI)
	set(0x78, "SEI", (*CPU).addrImplied, 2, false, opSEI)
	set(0xD8, "CLD", (*CPU).addrImplied, 2, false, opCLD)
	set(0xF8, "SED", (*CPU).addrImplied, 2, false, opSED)
	set(0xB8, "CLV", (*CPU).addrImplied, 2, false, opCLV)

	// NOP
	set(0xEA, "NOP", (*CPU).addrImplied, 2, false, opNOP)

	// Undocumented: combined RMW+ALU ops
	set(0x07, "SLO", (*CPU).addrZeroPage, 5, false, opSLO)
	set(0x17, "SLO", (*CPU).addrZeroPageX, 6, false, opSLO)
	set(0x0F, "SLO", (*CPU).addrAbsolute, 6, false, opSLO)
	set(0x1F, "SLO", (*CPU).addrAbsoluteX, 7, false, opSLO)
	set(0x1B, "SLO", (*CPU).addrAbsoluteY, 7, false, opSLO)
	set(0x03, "SLO", (*CPU).addrIndirectX, 8, false, opSLO)
	set(0x13, "SLO", (*CPU).addrIndirectY, 8, false, opSLO)

	set(0x27, "RLA", (*CPU).addrZeroPage, 5, false, opRLA)
	set(0x37, "RLA", (*CPU).addrZeroPageX, 6, false, opRLA)
	set(0x2F, "RLA", (*CPU).addrAbsolute, 6, false, opRLA)
	set(0x3F, "RLA", (*CPU).addrAbsoluteX, 7, false, opRLA)
	set(0x3B, "RLA", (*CPU).addrAbsoluteY, 7, false, opRLA)
	set(0x23, "RLA", (*CPU).addrIndirectX, 8, false, opRLA)
	set(0x33, "RLA", (*CPU).addrIndirectY, 8, false, opRLA)

	set(0x47, "SRE", (*CPU).addrZeroPage, 5, false, opSRE)
	set(0x57, "SRE", (*CPU).addrZeroPageX, 6, false, opSRE)
	set(0x4F, "SRE", (*CPU).addrAbsolute, 6, false, opSRE)
	set(0x5F, "SRE", (*CPU).addrAbsoluteX, 7, false, opSRE)
	set(0x5B, "SRE", (*CPU).addrAbsoluteY, 7, false, opSRE)
	set(0x43, "SRE", (*CPU).addrIndirectX, 8, false, opSRE)
	set(0x53, "SRE", (*CPU).addrIndirectY, 8, false, opSRE)

	set(0x67, "RRA", (*CPU).addrZeroPage, 5, false, opRRA)
	set(0x77, "RRA", (*CPU).addrZeroPageX, 6, false, opRRA)
	set(0x6F, "RRA", (*CPU).addrAbsolute, 6, false, opRRA)
	set(0x7F, "RRA", (*CPU).addrAbsoluteX, 7, false, opRRA)
	set(0x7B, "RRA", (*CPU).addrAbsoluteY, 7, false, opRRA)
	set(0x63, "RRA", (*CPU).addrIndirectX, 8, false, opRRA)
	set(0x73, "RRA", (*CPU).addrIndirectY, 8, false, opRRA)

	set(0xC7, "DCP", (*CPU).addrZeroPage, 5, false, opDCP)
	set(0xD7, "DCP", (*CPU).addrZeroPageX, 6, false, opDCP)
	set(0xCF, "DCP", (*CPU).addrAbsolute, 6, false, opDCP)
	set(0xDF, "DCP", (*CPU).addrAbsoluteX, 7, false, opDCP)
	set(0xDB, "DCP", (*CPU).addrAbsoluteY, 7, false, opDCP)
	set(0xC3, "DCP", (*CPU).addrIndirectX, 8, false, opDCP)
	set(0xD3, "DCP", (*CPU).addrIndirectY, 8, false, opDCP)

	set(0xE7, "ISC", (*CPU).addrZeroPage, 5, false, opISC)
	set(0xF7, "ISC", (*CPU).addrZeroPageX, 6, false, opISC)
	set(0xEF, "ISC", (*CPU).addrAbsolute, 6, false, opISC)
	set(0xFF, "ISC", (*CPU).addrAbsoluteX, 7, false, opISC)
	set(0xFB, "ISC", (*CPU).addrAbsoluteY, 7, false, opISC)
	set(0xE3, "ISC", (*CPU).addrIndirectX, 8, false, opISC)
	set(0xF3, "ISC", (*CPU).addrIndirectY, 8, false, opISC)

	set(0xA7, "LAX", (*CPU).addrZeroPage, 3, false, opLAX)
	set(0xB7, "LAX", (*CPU).addrZeroPageY, 4, false, opLAX)
	set(0xAF, "LAX", (*CPU).addrAbsolute, 4, false, opLAX)
	set(0xBF, "LAX", (*CPU).addrAbsoluteY, 4, true, opLAX)
	set(0xA3, "LAX", (*CPU).addrIndirectX, 6, false, opLAX)
	set(0xB3, "LAX", (*CPU).addrIndirectY, 5, true, opLAX)

	set(0x87, "SAX", (*CPU).addrZeroPage, 3, false, opSAX)
	set(0x97, "SAX", (*CPU).addrZeroPageY, 4, false, opSAX)
	set(0x8F, "SAX", (*CPU).addrAbsolute, 4, false, opSAX)
	set(0x83, "SAX", (*CPU).addrIndirectX, 6, false, opSAX)

	set(0x0B, "ANC", (*CPU).addrImmediate, 2, false, opANC)
	set(0x2B, "ANC", (*CPU).addrImmediate, 2, false, opANC)
	set(0x4B, "ALR", (*CPU).addrImmediate, 2, false, opALR)
	set(0x6B, "ARR", (*CPU).addrImmediate, 2, false, opARR)
	set(0xCB, "AXS", (*CPU).addrImmediate, 2, false, opAXS)

	// Undocumented NOPs: various byte lengths/cycle counts, no side effects.
	nopImplied := []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA}
	for _, op := range nopImplied {
		set(op, "NOP", (*CPU).addrImplied, 2, false, opNOP)
	}
	nopImmediate := []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2}
	for _, op := range nopImmediate {
		set(op, "NOP", (*CPU).addrImmediate, 2, false, opNOP)
	}
	nopZP := []uint8{0x04, 0x44, 0x64}
	for _, op := range nopZP {
		set(op, "NOP", (*CPU).addrZeroPage, 3, false, opNOP)
	}
	nopZPX := []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4}
	for _, op := range nopZPX {
		set(op, "NOP", (*CPU).addrZeroPageX, 4, false, opNOP)
	}
	set(0x0C, "NOP", (*CPU).addrAbsolute, 4, false, opNOP)
	nopABX := []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC}
	for _, op := range nopABX {
		set(op, "NOP", (*CPU).addrAbsoluteX, 4, true, opNOP)
	}

	// Every remaining unmapped slot (KIL/JAM and the rarer undocumented
	// combos not exercised by the functional test ROM) is treated as a
	// 2-cycle implied NOP for resilience, per the policy that unmapped
	// opcodes never halt the core outright.
	for i := range dispatch {
		if dispatch[i].Op == nil {
			dispatch[i] = reg("NOP", (*CPU).addrImplied, 2, false, opNOP)
		}
	}
}

// Mnemonic returns the dispatch table's name for opcode, for disassembly.
func Mnemonic(opcode uint8) string { return dispatch[opcode].Name }
