package vm

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// DecodeROM parses the plain hex-text ROM format spec.md describes: an
// even-length run of hex digits, optionally 0x-prefixed, optionally
// trailing a newline, with no other structure. Mirrors the original
// prototype's decode_hex, generalized to tolerate the prefix and
// surrounding whitespace a hand-edited ROM file tends to pick up.
func DecodeROM(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decoding ROM hex")
	}
	return b, nil
}

// EncodeROM renders code back to the same plain hex-text form DecodeROM
// accepts, without a 0x prefix.
func EncodeROM(code []byte) string {
	return hex.EncodeToString(code)
}
