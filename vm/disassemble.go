package vm

import (
	"fmt"
	"io"
)

// Disassemble walks code exactly the way the interpreter's fetch loop
// does — mnemonic lookup, then immediate bytes for PUSH — but never
// executes anything and never faults: an unrecognized opcode is printed
// as its raw hex byte rather than stopping the walk, since disassembly
// is meant to show the programmer what's there even if it's garbage.
func Disassemble(code []byte, w io.Writer) error {
	rom := NewRom(code)
	for rom.PC() < uint64(rom.Len()) {
		pc := rom.PC()
		op, err := rom.NextByte()
		if err != nil {
			return err
		}
		mnemonic := mnemonicOf[op]
		if mnemonic == "" {
			if _, err := fmt.Fprintf(w, "%#06x: 0x%02x\n", pc, op); err != nil {
				return err
			}
			continue
		}
		n := PushSize(op)
		if n == 0 {
			if _, err := fmt.Fprintf(w, "%#06x: %s\n", pc, mnemonic); err != nil {
				return err
			}
			continue
		}
		buf := make([]byte, 0, n)
		for i := 0; i < n && rom.PC() < uint64(rom.Len()); i++ {
			b, _ := rom.NextByte()
			buf = append(buf, b)
		}
		if _, err := fmt.Fprintf(w, "%#06x: %-10s 0x%x\n", pc, mnemonic, buf); err != nil {
			return err
		}
	}
	return nil
}
