package vm

// Rom is the read-only program byte string plus a cursor, mirroring the
// original prototype's Rom type (code, pc, size) but replacing its
// unvalidated jump destinations with a precomputed bitmap.
type Rom struct {
	code      []byte
	pc        uint64
	jumpdests []bool
}

// NewRom wraps code and precomputes which offsets are valid JUMPDEST
// targets.
//
// This resolves the REDESIGN FLAG a naive implementation runs into: if
// JUMP/JUMPI instead re-scanned the ROM from offset 0 looking for a 0x5b
// byte, a PUSH instruction whose immediate happened to contain 0x5b would
// be misclassified as a jump destination, since the scan can't tell
// immediate data from opcodes without tracking where each instruction
// starts. Walking the ROM once at load time, skipping over PUSH
// immediates as we go, avoids that ambiguity entirely.
func NewRom(code []byte) *Rom {
	jumpdests := make([]bool, len(code))
	for i := 0; i < len(code); {
		op := code[i]
		if op == JumpDest {
			jumpdests[i] = true
		}
		if n := PushSize(op); n > 0 {
			i += 1 + n
			continue
		}
		i++
	}
	return &Rom{code: code, jumpdests: jumpdests}
}

func (r *Rom) Len() int { return len(r.code) }

func (r *Rom) PC() uint64 { return r.pc }

// NextByte consumes and returns the byte at the current PC, advancing it.
func (r *Rom) NextByte() (byte, error) {
	if r.pc >= uint64(len(r.code)) {
		return 0, &ROMOutOfBoundsError{PC: r.pc, Len: len(r.code)}
	}
	b := r.code[r.pc]
	r.pc++
	return b, nil
}

// PeekByte returns the byte at an arbitrary offset without moving PC, or
// 0 if the offset is past the end (used by Run to describe the next
// instruction to its trace callback).
func (r *Rom) PeekByte(offset uint64) byte {
	if offset >= uint64(len(r.code)) {
		return 0
	}
	return r.code[offset]
}

// Jump moves PC to dest if it is a valid JUMPDEST, or returns
// InvalidJumpError otherwise.
func (r *Rom) Jump(dest uint64) error {
	if dest >= uint64(len(r.jumpdests)) || !r.jumpdests[dest] {
		return &InvalidJumpError{Dest: dest}
	}
	r.pc = dest
	return nil
}

// IsJumpDest reports whether dest is a precomputed valid jump target.
func (r *Rom) IsJumpDest(dest uint64) bool {
	return dest < uint64(len(r.jumpdests)) && r.jumpdests[dest]
}
