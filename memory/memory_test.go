package memory

import "testing"

func TestRAMRoundTrip(t *testing.T) {
	r, err := NewRAM(0x1000, 0x100)
	if err != nil {
		t.Fatalf("NewRAM: %v", err)
	}
	if err := r.Write(0x1010, 0x55); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := r.Read(0x1010)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 0x55 {
		t.Errorf("round trip: got 0x%02X want 0x55", got)
	}
}

func TestRAMBounds(t *testing.T) {
	r, err := NewRAM(0x1000, 0x100)
	if err != nil {
		t.Fatalf("NewRAM: %v", err)
	}
	if _, err := r.Read(0x0FFF); err == nil {
		t.Errorf("Read below base: want error, got nil")
	}
	if _, err := r.Read(0x1100); err == nil {
		t.Errorf("Read past end: want error, got nil")
	}
	if err := r.Write(0x2000, 1); err == nil {
		t.Errorf("Write out of range: want error, got nil")
	}
}

func TestROMWritesDiscarded(t *testing.T) {
	r, err := NewROM(0xFF00, []uint8{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("NewROM: %v", err)
	}
	if err := r.Write(0xFF01, 0xAA); err != nil {
		t.Fatalf("Write to ROM should not error: %v", err)
	}
	got, err := r.Read(0xFF01)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 0x02 {
		t.Errorf("ROM write should be discarded: got 0x%02X want 0x02", got)
	}
}

func TestNewRAMRejectsZeroLength(t *testing.T) {
	if _, err := NewRAM(0, 0); err == nil {
		t.Errorf("NewRAM(0,0): want error, got nil")
	}
}

func TestNewRAMRejectsOverflow(t *testing.T) {
	if _, err := NewRAM(0xFF00, 0x200); err == nil {
		t.Errorf("NewRAM overflowing 16 bit space: want error, got nil")
	}
}

func TestLoadROMMissingFile(t *testing.T) {
	if _, err := LoadROM(0xFF00, "testdata/does-not-exist.bin"); err == nil {
		t.Errorf("LoadROM of missing file: want error, got nil")
	} else if _, ok := err.(*LoadError); !ok {
		t.Errorf("LoadROM error type: got %T want *LoadError", err)
	}
}
