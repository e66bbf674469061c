// Package pia implements the Motorola 6821 Peripheral Interface Adapter as
// wired into an Apple 1: two 8-bit ports (A for keyboard input, B for
// display output), each with a data-direction register and a control
// register, and four edge-sensitive control lines (CA1/CA2/CB1/CB2). The
// PIA is the bridge between the CPU's bus reads/writes and the outside
// world's io.SignalQueue/io.ByteQueue/io.InterruptQueue.
package pia

import "github.com/kwalter/apple1/io"

// Control register bit layout, one side (A or B):
//
//	bit 0: enable IRQ on C1
//	bit 1: C1 active transition (0=falling, 1=rising)
//	bit 2: 0 selects DDR on a port register access, 1 selects the port itself
//	bit 3: C2 pulse-output select (output mode) / enable IRQ on C2 (input mode)
//	bit 4: C2 manual-output select (output mode) / C2 active transition (input mode)
//	bit 5: 0 = C2 acts as an input (handshake/IRQ), 1 = C2 is CPU-controlled output
//	bit 6: IRQ flag for C2 (read-only, cleared by a peripheral-port read)
//	bit 7: IRQ flag for C1 (read-only, cleared by a peripheral-port read)
const (
	crEnableIRQ1    = 0x01
	crC1Positive    = 0x02
	crWritePort     = 0x04
	crC2PulseOrIRQ2 = 0x08
	crC2ManualOrPos = 0x10
	crOutputMode    = 0x20
	crIRQFlag2      = 0x40
	crIRQFlag1      = 0x80
)

// side holds the registers and derived state for one of the PIA's two
// halves, which differ only in their post-power-on reset values.
type side struct {
	or     uint8 // output register
	ir     uint8 // input register
	ddr    uint8 // data direction register, 1 = output pin
	ddrNeg uint8 // bitwise-NOT ddr, cached for the hot read path

	c1 io.Edge
	c2 io.Edge
	cr uint8

	// Decoded CR booleans, re-derived on every CR write.
	enableIRQ1  bool
	c1Positive  bool
	writePort   bool
	enableIRQ2  bool
	pulseOutput bool
	c2SetHigh   bool
	c2Positive  bool
	manualC2    bool
	outputMode  bool

	out *io.ByteQueue

	// resetIR/resetC1 record this side's post-power-on values so reset can
	// restore them without needing to know which side it is.
	resetIR uint8
	resetC1 io.Edge
}

// newSide builds a side in its post-power-on state. resetIR and resetC1
// differ between the PIA's two halves (side A: IRA=0xFF, CA1=Rise; side B:
// IRB=0x00, CB1=Fall), matching the original's asymmetric reset.
func newSide(out *io.ByteQueue, resetIR uint8, resetC1 io.Edge) *side {
	return &side{ir: resetIR, ddrNeg: 0xFF, c1: resetC1, c2: io.Rise, out: out, resetIR: resetIR, resetC1: resetC1}
}

func (s *side) reset() {
	*s = *newSide(s.out, s.resetIR, s.resetC1)
}

// updateDerived re-derives the cached control booleans from cr, following
// the 6821's bit layout exactly (bits 3/4 are dual-purpose depending on
// bit 5).
func (s *side) updateDerived() {
	s.enableIRQ1 = s.cr&crEnableIRQ1 != 0
	s.c1Positive = s.cr&crC1Positive != 0
	s.writePort = s.cr&crWritePort != 0
	s.outputMode = s.cr&crOutputMode != 0

	s.enableIRQ2 = false
	s.pulseOutput = false
	s.c2SetHigh = false
	s.c2Positive = false
	s.manualC2 = false

	if s.outputMode {
		s.manualC2 = s.cr&crC2ManualOrPos != 0
		if s.manualC2 {
			s.c2SetHigh = s.cr&crC2PulseOrIRQ2 != 0
			if s.c2SetHigh {
				s.c2 = io.Rise
			} else {
				s.c2 = io.Fall
			}
		} else {
			s.pulseOutput = s.cr&crC2PulseOrIRQ2 != 0
		}
	} else {
		s.enableIRQ2 = s.cr&crC2PulseOrIRQ2 != 0
		s.c2Positive = s.cr&crC2ManualOrPos != 0
	}
}

// portValue mixes the output and input registers through the data direction
// mask, per the 6821's read contract for a peripheral-port access.
func (s *side) portValue() uint8 {
	return (s.or & s.ddr) | (s.ir & s.ddrNeg)
}

// readPort clears the IRQ flags (implicitly, by any peripheral-port read)
// and returns the mixed port value.
func (s *side) readPort() uint8 {
	s.cr &^= crIRQFlag1 | crIRQFlag2
	return s.portValue()
}

func (s *side) writeDDRorPort(val uint8, emit func()) {
	if s.writePort {
		s.or = val
		if s.out != nil {
			s.out.Send(s.portValue())
		}
		if emit != nil {
			emit()
		}
		return
	}
	s.ddr = val
	s.ddrNeg = ^val
}

func (s *side) writeCR(val uint8, irqCB func()) {
	s.cr = (s.cr & (crIRQFlag1 | crIRQFlag2)) | (val & 0x3F)
	s.updateDerived()
	if irqCB != nil {
		irqCB()
	}
}

// setC1 applies an edge transition to C1, latching the IRQ flag and
// signalling an interrupt if the transition matches the configured polarity
// and IRQ is enabled. In handshake output mode a matching C1 edge also
// acknowledges by raising C2.
func (s *side) setC1(e io.Edge, irqCB func()) {
	want := io.Fall
	if s.c1Positive {
		want = io.Rise
	}
	if s.c1 != e && e == want {
		s.cr |= crIRQFlag1
		if irqCB != nil {
			irqCB()
		}
		if s.outputMode && !s.manualC2 && !s.pulseOutput {
			s.c2 = io.Rise
		}
	}
	s.c1 = e
}

// setC2 applies an edge transition to C2. Each control line updates only
// its own stored state (the Rust source this design descends from has a
// transcription bug where set_ca2/set_cb2 wrote into ca1/cb1 instead; this
// implementation does not reproduce it).
func (s *side) setC2(e io.Edge, irqCB func()) {
	want := io.Fall
	if s.c2Positive {
		want = io.Rise
	}
	if s.c2 != e && e == want {
		s.cr |= crIRQFlag2
		if irqCB != nil {
			irqCB()
		}
	}
	s.c2 = e
}

// PIA is the MC6821 as wired into the Apple 1: a 4-register aperture
// (PA=0, CRA=1, PB=2, CRB=3) mirrored across its mapped block.
type PIA struct {
	a, b side

	input  *io.SignalQueue
	interr *io.InterruptQueue
}

// New creates a PIA wired to the given queues. outA/outB carry port-A/B
// output bytes to the display; input carries keyboard/peripheral signals
// in; interr carries IRQ requests out to the CPU.
func New(input *io.SignalQueue, outA, outB *io.ByteQueue, interr *io.InterruptQueue) *PIA {
	p := &PIA{input: input, interr: interr}
	p.a = *newSide(outA, 0xFF, io.Rise)
	p.b = *newSide(outB, 0x00, io.Fall)
	return p
}

// Len reports the size of the PIA's register aperture for bus registration
// purposes. The real chip only has 4 registers; the Apple 1 wiring mirrors
// them across the whole aperture ($D000-$D1FF), which bus.Register handles
// by mapping every block of it to this device and letting Read/Write mask
// the address.
func (p *PIA) Len() int { return 256 }

// Reset restores both sides to their post-power-on state: registers clear
// to zero except IRA=0xFF/IRB=0x00, DDR_neg=0xFF, CA1/CA2/CB2 idle Rise and
// CB1 idles Fall.
func (p *PIA) Reset() {
	p.a.reset()
	p.b.reset()
}

func (p *PIA) updateIRQ() {
	asserted := (p.a.enableIRQ1 && p.a.cr&crIRQFlag1 != 0) ||
		(p.a.enableIRQ2 && p.a.cr&crIRQFlag2 != 0) ||
		(p.b.enableIRQ1 && p.b.cr&crIRQFlag1 != 0) ||
		(p.b.enableIRQ2 && p.b.cr&crIRQFlag2 != 0)
	if asserted && p.interr != nil {
		p.interr.Send(io.IRQ)
	}
}

// drainInput applies every queued signal to IR/control-line state. Called
// before every register access, per the spec's input-drain contract.
func (p *PIA) drainInput() {
	if p.input == nil {
		return
	}
	for {
		sig, ok := p.input.TryReceive()
		if !ok {
			return
		}
		applySignal(p, sig)
	}
}

func applySignal(p *PIA, sig io.Signal) {
	switch sig.Kind() {
	case io.KindIRA:
		p.a.ir = sig.Data()
	case io.KindIRB:
		p.b.ir = sig.Data()
	case io.KindCA1:
		p.a.setC1(sig.EdgeVal(), p.updateIRQ)
	case io.KindCA2:
		p.a.setC2(sig.EdgeVal(), p.updateIRQ)
	case io.KindCB1:
		p.b.setC1(sig.EdgeVal(), p.updateIRQ)
	case io.KindCB2:
		p.b.setC2(sig.EdgeVal(), p.updateIRQ)
	}
}

// register identifies which of the four PIA registers an address selects.
func register(addr uint16) uint8 {
	return uint8(addr & 0x03)
}

// Read implements bus.Device.
func (p *PIA) Read(addr uint16) (uint8, error) {
	p.drainInput()
	switch register(addr) {
	case 0:
		return p.a.readPort(), nil
	case 1:
		return p.a.cr, nil
	case 2:
		return p.b.readPort(), nil
	default:
		return p.b.cr, nil
	}
}

// Write implements bus.Device.
func (p *PIA) Write(addr uint16, val uint8) error {
	p.drainInput()
	switch register(addr) {
	case 0:
		p.a.writeDDRorPort(val, nil)
	case 1:
		p.a.writeCR(val, p.updateIRQ)
	case 2:
		p.b.writeDDRorPort(val, func() {
			if p.b.outputMode && !p.b.manualC2 {
				p.b.c2 = io.Fall
				if p.b.pulseOutput {
					p.b.c2 = io.Rise
				}
			}
		})
	default:
		p.b.writeCR(val, p.updateIRQ)
	}
	return nil
}

// CA1, CA2, CB1, CB2 report the current stored level of each control line,
// primarily useful for tests asserting handshake behavior.
func (p *PIA) CA1() io.Edge { return p.a.c1 }
func (p *PIA) CA2() io.Edge { return p.a.c2 }
func (p *PIA) CB1() io.Edge { return p.b.c1 }
func (p *PIA) CB2() io.Edge { return p.b.c2 }

