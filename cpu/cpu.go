// Package cpu implements a cycle-counted MOS 6502, as wired into an Apple 1:
// all 151 documented opcodes, the common undocumented slots exercised by the
// Klaus Dormann functional test ROM, decimal-mode BCD arithmetic, and
// interrupt sequencing. Unlike a microcycle state machine, a Step call
// either begins a fresh instruction (computing its full cost up front) or
// simply ticks the remaining-cycle counter down — the model described for
// this core, and a good match for a host loop that just wants to run N
// cycles per frame.
package cpu

import (
	"fmt"

	"github.com/kwalter/apple1/bus"
	"github.com/kwalter/apple1/io"
)

// Status register bits.
const (
	FlagCarry     uint8 = 0x01
	FlagZero      uint8 = 0x02
	FlagInterrupt uint8 = 0x04
	FlagDecimal   uint8 = 0x08
	FlagBreak     uint8 = 0x10
	FlagUnused    uint8 = 0x20
	FlagOverflow  uint8 = 0x40
	FlagNegative  uint8 = 0x80
)

const (
	nmiVector   = uint16(0xFFFA)
	resetVector = uint16(0xFFFC)
	irqVector   = uint16(0xFFFE)
)

// ExecutionError wraps a bus or decode failure with the PC of the
// instruction that triggered it.
type ExecutionError struct {
	PC  uint16
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("cpu: at $%04X: %v", e.PC, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// HaltOpcode indicates execution reached an opcode slot with no mapped
// instruction.
type HaltOpcode struct {
	PC     uint16
	Opcode uint8
}

func (e *HaltOpcode) Error() string {
	return fmt.Sprintf("cpu: unimplemented opcode $%02X at $%04X", e.Opcode, e.PC)
}

// InfiniteLoop indicates two consecutive completed instructions left PC
// unchanged. Run treats this as fatal; Step/StepInstruction do not detect
// it at all, leaving that judgment to the caller.
type InfiniteLoop struct {
	PC uint16
}

func (e *InfiniteLoop) Error() string {
	return fmt.Sprintf("cpu: infinite loop detected at $%04X", e.PC)
}

// CPU is a 6502 register file plus the bookkeeping needed to execute one
// instruction at a time against a shared address bus.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	remaining uint8
	currentPC uint16

	bus        *bus.Bus
	interrupts *io.InterruptQueue
}

// New creates a CPU wired to the given bus. interrupts may be nil if no
// interrupt source (e.g. a PIA) is attached.
func New(b *bus.Bus, interrupts *io.InterruptQueue) *CPU {
	return &CPU{bus: b, interrupts: interrupts}
}

// CurrentPC returns the address of the instruction currently executing (or
// most recently fetched), for debug/disassembly purposes.
func (c *CPU) CurrentPC() uint16 { return c.currentPC }

// Remaining returns the number of host cycles still owed to the current
// instruction.
func (c *CPU) Remaining() uint8 { return c.remaining }

// Reset performs the 6502 power-on/reset sequence: P is cleared except the
// unused bit, registers zero, SP is set to 0xFD, and PC is loaded from the
// reset vector. The 7 cycles this takes on real hardware are charged to
// remaining so RunUntilIdle can account for them.
func (c *CPU) Reset() error {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagUnused
	lo, err := c.bus.Read(resetVector)
	if err != nil {
		return &ExecutionError{PC: resetVector, Err: err}
	}
	hi, err := c.bus.Read(resetVector + 1)
	if err != nil {
		return &ExecutionError{PC: resetVector + 1, Err: err}
	}
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.currentPC = c.PC
	c.remaining = 7
	return nil
}

// RunUntilIdle steps the CPU until remaining reaches zero, i.e. until the
// in-flight instruction (or reset/interrupt sequence) has fully retired.
func (c *CPU) RunUntilIdle() error {
	if c.remaining == 0 {
		return nil
	}
	for c.remaining > 0 {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the CPU by one host cycle. If no instruction is in flight
// it polls the interrupt queue, then either services an interrupt or
// fetches, decodes and begins executing the next opcode (charging that
// opcode's full cycle cost to remaining all at once); otherwise it simply
// decrements remaining.
func (c *CPU) Step() error {
	if c.remaining == 0 {
		if err := c.serviceInterrupt(); err != nil {
			return err
		}
		if c.remaining == 0 {
			if err := c.fetchAndExecute(); err != nil {
				return err
			}
		}
	}
	c.remaining--
	return nil
}

// StepInstruction runs Step until the in-flight instruction completes.
func (c *CPU) StepInstruction() error {
	if err := c.Step(); err != nil {
		return err
	}
	return c.RunUntilIdle()
}

func (c *CPU) serviceInterrupt() error {
	if c.interrupts == nil {
		return nil
	}
	sig, ok := c.interrupts.TryReceive()
	if !ok || sig == io.None {
		return nil
	}
	if sig == io.IRQ && c.P&FlagInterrupt != 0 {
		return nil
	}
	vector := irqVector
	if sig == io.NMI {
		vector = nmiVector
	}
	return c.runInterrupt(vector, true)
}

// runInterrupt pushes PC and P (with the Break bit controlled by irq) and
// jumps through vector, exactly as BRK does but without advancing PC past
// an operand byte first.
func (c *CPU) runInterrupt(vector uint16, irq bool) error {
	c.pushStack(uint8(c.PC >> 8))
	c.pushStack(uint8(c.PC))
	push := c.P | FlagUnused
	if irq {
		push &^= FlagBreak
	} else {
		push |= FlagBreak
	}
	c.pushStack(push)
	c.P |= FlagInterrupt
	lo, err := c.bus.Read(vector)
	if err != nil {
		return &ExecutionError{PC: c.currentPC, Err: err}
	}
	hi, err := c.bus.Read(vector + 1)
	if err != nil {
		return &ExecutionError{PC: c.currentPC, Err: err}
	}
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.remaining = 7
	return nil
}

func (c *CPU) fetchAndExecute() error {
	c.currentPC = c.PC
	opcode, err := c.bus.Read(c.PC)
	if err != nil {
		return &ExecutionError{PC: c.currentPC, Err: err}
	}
	c.PC++
	entry := dispatch[opcode]
	if entry.Op == nil {
		return &ExecutionError{PC: c.currentPC, Err: &HaltOpcode{PC: c.currentPC, Opcode: opcode}}
	}
	res, err := entry.Mode(c)
	if err != nil {
		return &ExecutionError{PC: c.currentPC, Err: err}
	}
	cycles := entry.Cycles
	if entry.PageCrossCosts && res.pageCross {
		cycles++
	}
	extra, err := entry.Op(c, res)
	if err != nil {
		return &ExecutionError{PC: c.currentPC, Err: err}
	}
	c.remaining = cycles + extra
	return nil
}

// Run resets the CPU, loads PC with from, and executes instructions until
// PC equals to. It errors on a bus fault, an unimplemented opcode, or two
// consecutive completed instructions leaving PC unchanged (an infinite
// loop) — the "gold suite" harness shape used by the functional test ROMs.
func (c *CPU) Run(from, to uint16) error {
	if err := c.Reset(); err != nil {
		return err
	}
	if err := c.RunUntilIdle(); err != nil {
		return err
	}
	c.PC = from
	lastPC := ^from // guaranteed to differ on first check
	for c.PC != to {
		before := c.PC
		if err := c.StepInstruction(); err != nil {
			return err
		}
		if c.PC == before && before == lastPC {
			return &InfiniteLoop{PC: c.PC}
		}
		lastPC = before
	}
	return nil
}

func (c *CPU) pushStack(v uint8) {
	c.bus.Write(0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) popStack() uint8 {
	c.SP++
	v, _ := c.bus.Read(0x0100 | uint16(c.SP))
	return v
}

func (c *CPU) zeroCheck(v uint8) {
	c.P &^= FlagZero
	if v == 0 {
		c.P |= FlagZero
	}
}

func (c *CPU) negativeCheck(v uint8) {
	c.P &^= FlagNegative
	if v&FlagNegative == FlagNegative {
		c.P |= FlagNegative
	}
}

func (c *CPU) carryCheck(v uint16) {
	c.P &^= FlagCarry
	if v > 0xFF {
		c.P |= FlagCarry
	}
}

func (c *CPU) overflowCheck(a, m, res uint8) {
	c.P &^= FlagOverflow
	if (^(a ^ m) & (a ^ res) & 0x80) != 0 {
		c.P |= FlagOverflow
	}
}

func (c *CPU) loadRegister(reg *uint8, v uint8) {
	*reg = v
	c.zeroCheck(v)
	c.negativeCheck(v)
}
