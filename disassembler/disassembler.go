// disassembler loads a flat binary image into a 64 KiB address space and
// disassembles it to stdout starting at the given PC.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/kwalter/apple1/bus"
	"github.com/kwalter/apple1/disassemble"
	"github.com/kwalter/apple1/memory"
)

var (
	startPC = flag.Int("start_pc", 0x0000, "PC value to start disassembling")
	offset  = flag.Int("offset", 0x0000, "Offset into the address space to load the file at; remaining space reads as zero")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s [-start_pc <PC> -offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	data, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}
	max := 1<<16 - *offset
	if l := len(data); l > max {
		log.Printf("Length %d at offset %d too long, truncating to 64k", l, *offset)
		data = data[:max]
	}
	fmt.Printf("0x%X bytes at pc: %.4X\n", len(data), *startPC)

	ram, err := memory.NewRAM(0, 1<<16)
	if err != nil {
		log.Fatalf("Can't initialize RAM: %v", err)
	}
	for i, b := range data {
		if err := ram.Write(uint16(*offset+i), b); err != nil {
			log.Fatalf("Can't load image byte %d: %v", i, err)
		}
	}
	b, err := bus.New(0x100)
	if err != nil {
		log.Fatalf("Can't build bus: %v", err)
	}
	if err := b.Register(0, 1<<16, ram); err != nil {
		log.Fatalf("Can't register RAM: %v", err)
	}

	pc := uint16(*startPC)
	cnt := 0
	// Can't base it on PC since it may roll over, so disassemble until we
	// run out of loaded bytes.
	for cnt < len(data) {
		dis, off, err := disassemble.Step(pc, b)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		pc += uint16(off)
		cnt += off
		fmt.Printf("%s\n", dis)
	}
}
