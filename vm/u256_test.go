package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func u64(x uint64) U256 { return NewFromUint64(x) }

func TestAddWraps(t *testing.T) {
	maxU256 := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	require.Equal(t, Zero(), maxU256.Add(One()))
}

func TestSubTopMinusSecond(t *testing.T) {
	// spec pins SUB as (top - second): the handler pops a (top) then b
	// (second) and returns a-b.
	maxU256 := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	require.Equal(t, maxU256, u64(0).Sub(u64(1)))
	require.Equal(t, u64(1), u64(3).Sub(u64(2)))
}

func TestMulWraps(t *testing.T) {
	half := U256{0, 0, 0, 1 << 63} // 2^255
	require.Equal(t, Zero(), half.Mul(u64(2)))
}

func TestDivByZeroIsZeroNotTrap(t *testing.T) {
	require.Equal(t, Zero(), u64(5).Div(Zero()))
	require.Equal(t, Zero(), u64(5).Mod(Zero()))
}

func TestSDivMinInt256ByNegOneNoTrap(t *testing.T) {
	minInt256 := U256{0, 0, 0, 1 << 63}
	negOne := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	require.Equal(t, minInt256, minInt256.SDiv(negOne))
}

func TestSignedCompare(t *testing.T) {
	negOne := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	require.True(t, negOne.SLt(u64(0)))
	require.False(t, negOne.Lt(u64(0))) // unsigned: -1 is the largest value
}

func TestAddModUsesWideIntermediate(t *testing.T) {
	maxU256 := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	// (MAX + MAX) mod 10 must use the true (>256-bit) sum, not a
	// pre-wrapped one.
	got := maxU256.AddMod(maxU256, u64(10))
	want := maxU256.Mod(u64(10)).Add(maxU256.Mod(u64(10))).Mod(u64(10))
	require.Equal(t, want, got)
	require.Equal(t, Zero(), maxU256.AddMod(u64(1), Zero()))
}

func TestMulModUsesWideIntermediate(t *testing.T) {
	maxU256 := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	got := maxU256.MulMod(maxU256, u64(7))
	require.True(t, got.Lt(u64(7)))
	require.Equal(t, Zero(), maxU256.MulMod(u64(1), Zero()))
}

func TestExp(t *testing.T) {
	require.Equal(t, u64(8), u64(2).Exp(u64(3)))
	require.Equal(t, One(), u64(2).Exp(Zero()))
}

func TestSignExtend(t *testing.T) {
	// Byte 0 of 0xff is negative in a single byte; extending it through
	// 256 bits should produce all-ones.
	maxU256 := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	require.Equal(t, maxU256, SignExtend(Zero(), u64(0xff)))
	require.Equal(t, u64(0x7f), SignExtend(Zero(), u64(0x7f)))
}

func TestShiftOps(t *testing.T) {
	require.Equal(t, u64(4), u64(1).Shl(u64(2)))
	require.Equal(t, u64(1), u64(4).Shr(u64(2)))
	require.Equal(t, Zero(), u64(1).Shl(u64(256)))

	negOne := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	require.Equal(t, negOne, negOne.Sar(u64(4))) // sign-extends through ones
}

func TestByteAt(t *testing.T) {
	v := SetBytes([]byte{0x01, 0x02, 0x03})
	require.Equal(t, u64(0x01), ByteAt(u64(29), v))
	require.Equal(t, Zero(), ByteAt(u64(40), v))
}

func TestBytesRoundTrip(t *testing.T) {
	b := []byte{0xde, 0xad, 0xbe, 0xef}
	v := SetBytes(b)
	out := v.Bytes32()
	require.Equal(t, b, trimLeadingZeros(out[:]))
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0 {
		i++
	}
	return b[i:]
}
