// Package system assembles the Apple 1: RAM, the Woz monitor ROM, and the
// MC6821 PIA wired into a shared address bus, with a CPU driving it all. It
// is the thin composition layer a driver (CLI, web, test harness) talks to;
// it owns nothing the bus/cpu/pia packages don't already know how to do
// themselves.
package system

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kwalter/apple1/bus"
	"github.com/kwalter/apple1/cpu"
	"github.com/kwalter/apple1/io"
	"github.com/kwalter/apple1/memory"
	"github.com/kwalter/apple1/pia"
)

const (
	ramBase  = 0x0000
	ramSize  = 0x1000
	piaBase  = 0xD000
	piaSize  = 0x0200
	romBase  = 0xFF00
	romSize  = 0x0100
	blockSize = 0x100
)

// System is a fully wired Apple 1: a CPU executing against a bus that
// routes to RAM, the monitor ROM, and the PIA.
type System struct {
	Bus *bus.Bus
	CPU *cpu.CPU
	PIA *pia.PIA
	RAM *memory.Region

	Input   *io.SignalQueue
	OutputA *io.ByteQueue
	OutputB *io.ByteQueue
	IRQ     *io.InterruptQueue

	log *logrus.Entry
}

// New assembles a System with the monitor ROM loaded from romPath. The ROM
// must be exactly 256 bytes, matching the $FF00–$FFFF aperture.
func New(romPath string, log *logrus.Entry) (*System, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	b, err := bus.New(blockSize)
	if err != nil {
		return nil, err
	}

	ram, err := memory.NewRAM(ramBase, ramSize)
	if err != nil {
		return nil, err
	}
	if err := b.Register(ramBase, ramSize, ram); err != nil {
		return nil, err
	}

	rom, err := memory.LoadROM(romBase, romPath)
	if err != nil {
		return nil, err
	}
	if rom.Len() != romSize {
		return nil, &RomSizeError{Path: romPath, Got: rom.Len(), Want: romSize}
	}
	if err := b.Register(romBase, romSize, rom); err != nil {
		return nil, err
	}

	input := io.NewSignalQueue()
	outA := io.NewByteQueue()
	outB := io.NewByteQueue()
	irq := io.NewInterruptQueue()

	p := pia.New(input, outA, outB, irq)
	if err := b.Register(piaBase, piaSize, p); err != nil {
		return nil, err
	}

	c := cpu.New(b, irq)

	return &System{
		Bus: b, CPU: c, PIA: p, RAM: ram,
		Input: input, OutputA: outA, OutputB: outB, IRQ: irq,
		log: log,
	}, nil
}

// RomSizeError indicates a loaded ROM image did not match the aperture it
// was loaded into.
type RomSizeError struct {
	Path     string
	Got, Want int
}

func (e *RomSizeError) Error() string {
	return fmt.Sprintf("system: rom %q is %d bytes, want %d", e.Path, e.Got, e.Want)
}

// Reset resets the CPU and lets its power-on cycle cost elapse, and resets
// the PIA to its post-power-on register state.
func (s *System) Reset() error {
	s.PIA.Reset()
	if err := s.CPU.Reset(); err != nil {
		return err
	}
	return s.CPU.RunUntilIdle()
}

// Step advances the emulated machine by one host cycle.
func (s *System) Step() error {
	return s.CPU.Step()
}

// Run executes n host cycles, stopping early (and returning the error) on
// any CPU fault.
func (s *System) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// keycode strobe order for the Apple 1's active-low keyboard strobe: fall,
// present the byte with bit 7 set, rise, fall again.
func (s *System) InjectKey(b uint8) {
	s.Input.Send(io.CA1(io.Fall))
	s.Input.Send(io.IRA(b | 0x80))
	s.Input.Send(io.CA1(io.Rise))
	s.Input.Send(io.CA1(io.Fall))
}

// DrainDisplay drains every byte the PIA's B side has queued for output
// since the last call, in order.
func (s *System) DrainDisplay() []uint8 {
	var out []uint8
	for {
		b, ok := s.OutputB.TryReceive()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}
