package vm

import (
	"encoding/binary"
	"encoding/hex"
	"math/bits"
)

// U256 is an unsigned 256-bit integer stored as four 64-bit limbs,
// little-endian by limb: U256[0] holds the least significant 64 bits,
// U256[3] the most significant. All arithmetic is defined over the ring
// Z/2^256 — addition, subtraction and multiplication wrap silently, and
// division/modulo follow the EVM convention that dividing by zero yields
// zero rather than trapping. Values are immutable; every operation
// returns a new U256.
//
// This is hand-rolled rather than pulled from an existing big-integer
// package because the wrapping, zero-divisor, and two's-complement-signed
// semantics below are exactly the part of this system that doesn't map
// onto a general-purpose bignum type.
type U256 [4]uint64

// Zero is the additive identity.
func Zero() U256 { return U256{} }

// One is the multiplicative identity.
func One() U256 { return U256{1, 0, 0, 0} }

// NewFromUint64 constructs a U256 from a machine word.
func NewFromUint64(x uint64) U256 { return U256{x, 0, 0, 0} }

// SetBytes interprets b as a big-endian unsigned integer. If b is longer
// than 32 bytes only the rightmost 32 are significant, matching the
// truncation a 256-bit register would apply.
func SetBytes(b []byte) U256 {
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	var padded [32]byte
	copy(padded[32-len(b):], b)
	var u U256
	for i := 0; i < 4; i++ {
		u[3-i] = binary.BigEndian.Uint64(padded[i*8 : i*8+8])
	}
	return u
}

// Bytes32 serializes u as a 32-byte big-endian array.
func (u U256) Bytes32() [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(out[i*8:i*8+8], u[3-i])
	}
	return out
}

// String renders u as a 0x-prefixed hex literal with no leading zero bytes.
func (u U256) String() string {
	b := u.Bytes32()
	i := 0
	for i < 31 && b[i] == 0 {
		i++
	}
	return "0x" + hex.EncodeToString(b[i:])
}

// IsZero reports whether u is the zero value.
func (u U256) IsZero() bool {
	return u[0]|u[1]|u[2]|u[3] == 0
}

// Eq reports whether u and v hold the same value.
func (u U256) Eq(v U256) bool { return u == v }

// Cmp returns -1, 0, or 1 comparing u and v as unsigned integers.
func (u U256) Cmp(v U256) int {
	for i := 3; i >= 0; i-- {
		if u[i] != v[i] {
			if u[i] < v[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (u U256) Lt(v U256) bool { return u.Cmp(v) < 0 }
func (u U256) Gt(v U256) bool { return u.Cmp(v) > 0 }

// signBit reports the top bit of u, i.e. its sign under two's-complement
// reinterpretation.
func (u U256) signBit() bool { return u[3]>>63 == 1 }

// Neg returns the two's-complement negation of u (0 - u).
func (u U256) Neg() U256 { return Zero().Sub(u) }

// SCmp compares u and v as two's-complement signed 256-bit integers.
func (u U256) SCmp(v U256) int {
	us, vs := u.signBit(), v.signBit()
	if us != vs {
		if us {
			return -1
		}
		return 1
	}
	return u.Cmp(v)
}

func (u U256) SLt(v U256) bool { return u.SCmp(v) < 0 }
func (u U256) SGt(v U256) bool { return u.SCmp(v) > 0 }

// Add returns u+v mod 2^256.
func (u U256) Add(v U256) U256 {
	var r U256
	var c uint64
	r[0], c = bits.Add64(u[0], v[0], 0)
	r[1], c = bits.Add64(u[1], v[1], c)
	r[2], c = bits.Add64(u[2], v[2], c)
	r[3], _ = bits.Add64(u[3], v[3], c)
	return r
}

// Sub returns u-v mod 2^256.
func (u U256) Sub(v U256) U256 {
	var r U256
	var b uint64
	r[0], b = bits.Sub64(u[0], v[0], 0)
	r[1], b = bits.Sub64(u[1], v[1], b)
	r[2], b = bits.Sub64(u[2], v[2], b)
	r[3], _ = bits.Sub64(u[3], v[3], b)
	return r
}

// mulFull computes the full 512-bit product of u and v as eight
// little-endian limbs, needed so MULMOD can reduce against the true
// product rather than a pre-truncated one.
func mulFull(u, v U256) [8]uint64 {
	var out [8]uint64
	for i := 0; i < 4; i++ {
		if u[i] == 0 {
			continue
		}
		var carry uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(u[i], v[j])
			var c1, c2 uint64
			out[i+j], c1 = bits.Add64(out[i+j], lo, 0)
			out[i+j], c2 = bits.Add64(out[i+j], carry, 0)
			carry = hi + c1 + c2
		}
		out[i+4] += carry
	}
	return out
}

// Mul returns u*v mod 2^256: the low 256 bits of the full product.
func (u U256) Mul(v U256) U256 {
	full := mulFull(u, v)
	return U256{full[0], full[1], full[2], full[3]}
}

// --- generic binary long division over equal-length little-endian limb
// slices, used by Div/Mod (n=4), AddMod (n=5) and MulMod (n=8). Division
// is bit-serial rather than word-serial: simpler to get right, and
// correctness matters far more here than throughput.

func limbsCmp(a, b []uint64) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func limbsShl1(a []uint64, carryIn uint64) {
	carry := carryIn
	for i := range a {
		next := a[i] >> 63
		a[i] = a[i]<<1 | carry
		carry = next
	}
}

func limbsSubInPlace(a, b []uint64) {
	var borrow uint64
	for i := range a {
		a[i], borrow = bits.Sub64(a[i], b[i], borrow)
	}
}

func limbBit(a []uint64, i int) uint64 {
	return (a[i/64] >> uint(i%64)) & 1
}

func limbSetBit(a []uint64, i int) {
	a[i/64] |= 1 << uint(i%64)
}

// divModWide divides dividend by divisor (both little-endian, equal
// length, divisor nonzero) and returns the remainder truncated to 4 limbs
// (valid because in every caller the divisor is itself at most 256 bits,
// so the remainder fits).
func divModWide(dividend, divisor []uint64) (quotient []uint64, remainder [4]uint64) {
	n := len(dividend)
	rem := make([]uint64, n)
	quot := make([]uint64, n)
	for i := n*64 - 1; i >= 0; i-- {
		limbsShl1(rem, limbBit(dividend, i))
		if limbsCmp(rem, divisor) >= 0 {
			limbsSubInPlace(rem, divisor)
			limbSetBit(quot, i)
		}
	}
	copy(remainder[:], rem[:4])
	return quot, remainder
}

func padTo(u U256, n int) []uint64 {
	out := make([]uint64, n)
	copy(out, u[:])
	return out
}

// QuoRem returns (u/v, u%v) following the EVM convention that division or
// modulo by zero yields zero rather than faulting.
func (u U256) QuoRem(v U256) (U256, U256) {
	if v.IsZero() {
		return Zero(), Zero()
	}
	q, r := divModWide(padTo(u, 4), padTo(v, 4))
	return U256{q[0], q[1], q[2], q[3]}, U256(r)
}

func (u U256) Div(v U256) U256 { q, _ := u.QuoRem(v); return q }
func (u U256) Mod(v U256) U256 { _, r := u.QuoRem(v); return r }

// SDiv and SMod reinterpret both operands as two's-complement signed
// integers. The single no-trap special case is MinInt256 / -1, which
// wraps back to MinInt256 rather than overflowing.
func (u U256) SDiv(v U256) U256 {
	if v.IsZero() {
		return Zero()
	}
	minInt256 := U256{0, 0, 0, 1 << 63}
	negOne := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	if u == minInt256 && v == negOne {
		return minInt256
	}
	negU, negV := u.signBit(), v.signBit()
	au, av := u, v
	if negU {
		au = u.Neg()
	}
	if negV {
		av = v.Neg()
	}
	q := au.Div(av)
	if negU != negV {
		q = q.Neg()
	}
	return q
}

func (u U256) SMod(v U256) U256 {
	if v.IsZero() {
		return Zero()
	}
	negU := u.signBit()
	au, av := u, v
	if negU {
		au = u.Neg()
	}
	if v.signBit() {
		av = v.Neg()
	}
	r := au.Mod(av)
	if negU && !r.IsZero() {
		r = r.Neg()
	}
	return r
}

// AddMod returns (u+v) mod n using the true (unwrapped) sum, so a result
// that would overflow 256 bits before reduction is still correct.
func (u U256) AddMod(v, n U256) U256 {
	if n.IsZero() {
		return Zero()
	}
	sum := make([]uint64, 5)
	copy(sum, u[:])
	var carry uint64
	for i := 0; i < 4; i++ {
		sum[i], carry = bits.Add64(sum[i], v[i], carry)
	}
	sum[4] = carry
	_, rem := divModWide(sum, padTo(n, 5))
	return U256(rem)
}

// MulMod returns (u*v) mod n using the full 512-bit product, so the
// result is correct even when the product would overflow 256 bits.
func (u U256) MulMod(v, n U256) U256 {
	if n.IsZero() {
		return Zero()
	}
	full := mulFull(u, v)
	_, rem := divModWide(full[:], padTo(n, 8))
	return U256(rem)
}

// Exp returns u**e mod 2^256 via square-and-multiply; each intermediate
// product is itself taken mod 2^256, which is valid since squaring is
// closed over that ring.
func (u U256) Exp(e U256) U256 {
	result := One()
	base := u
	for i := 0; i < 256; i++ {
		if limbBit(e[:], i) == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
	}
	return result
}

// Bit returns the i-th bit of u (0 = least significant), or 0 if i>=256.
func (u U256) Bit(i int) uint64 {
	if i < 0 || i >= 256 {
		return 0
	}
	return limbBit(u[:], i)
}

// Not returns the bitwise complement of u.
func (u U256) Not() U256 {
	return U256{^u[0], ^u[1], ^u[2], ^u[3]}
}

func (u U256) And(v U256) U256 {
	return U256{u[0] & v[0], u[1] & v[1], u[2] & v[2], u[3] & v[3]}
}

func (u U256) Or(v U256) U256 {
	return U256{u[0] | v[0], u[1] | v[1], u[2] | v[2], u[3] | v[3]}
}

func (u U256) Xor(v U256) U256 {
	return U256{u[0] ^ v[0], u[1] ^ v[1], u[2] ^ v[2], u[3] ^ v[3]}
}

// Shl returns u shifted left by the number of bits in shift, or zero if
// shift is 256 or more.
func (u U256) Shl(shift U256) U256 {
	if !shift.fitsShiftAmount() {
		return Zero()
	}
	n := int(shift[0])
	return shiftLeft(u, n)
}

// Shr returns u shifted right (logically) by the number of bits in
// shift, or zero if shift is 256 or more.
func (u U256) Shr(shift U256) U256 {
	if !shift.fitsShiftAmount() {
		return Zero()
	}
	n := int(shift[0])
	return shiftRightLogical(u, n)
}

// Sar returns u shifted right arithmetically (sign-extending) by shift
// bits, saturating to all-zero or all-one bits once shift reaches 256.
func (u U256) Sar(shift U256) U256 {
	if !shift.fitsShiftAmount() {
		if u.signBit() {
			return U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
		}
		return Zero()
	}
	n := int(shift[0])
	r := shiftRightLogical(u, n)
	if u.signBit() && n > 0 {
		// Fill in the n vacated high bits with ones.
		mask := shiftLeft(U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}, 256-n)
		r = r.Or(mask)
	}
	return r
}

// fitsShiftAmount reports whether shift is small enough to matter (<256);
// EVM shift opcodes treat any larger amount as a full shift-out.
func (u U256) fitsShiftAmount() bool {
	return u[1] == 0 && u[2] == 0 && u[3] == 0 && u[0] < 256
}

func shiftLeft(u U256, n int) U256 {
	if n <= 0 {
		return u
	}
	if n >= 256 {
		return Zero()
	}
	words, bitsLeft := n/64, uint(n%64)
	var r U256
	for i := 3; i >= 0; i-- {
		src := i - words
		if src < 0 {
			continue
		}
		r[i] = u[src] << bitsLeft
		if bitsLeft > 0 && src-1 >= 0 {
			r[i] |= u[src-1] >> (64 - bitsLeft)
		}
	}
	return r
}

func shiftRightLogical(u U256, n int) U256 {
	if n <= 0 {
		return u
	}
	if n >= 256 {
		return Zero()
	}
	words, bitsRight := n/64, uint(n%64)
	var r U256
	for i := 0; i <= 3; i++ {
		src := i + words
		if src > 3 {
			continue
		}
		r[i] = u[src] >> bitsRight
		if bitsRight > 0 && src+1 <= 3 {
			r[i] |= u[src+1] << (64 - bitsRight)
		}
	}
	return r
}

// ByteAt returns the i-th most significant byte of u (0 = most
// significant), or zero if i>=32. This matches the BYTE opcode, whose
// index operand counts from the big-endian front of the word.
func ByteAt(i U256, x U256) U256 {
	if !i.fitsShiftAmount() || i[0] >= 32 {
		return Zero()
	}
	b := x.Bytes32()
	return NewFromUint64(uint64(b[i[0]]))
}

// SignExtend reinterprets x's (b+1)-th least significant byte as a sign
// byte and extends it through the rest of the word. b>=32 leaves x
// unchanged, matching the out-of-range no-op the opcode specifies.
func SignExtend(b, x U256) U256 {
	if !b.fitsShiftAmount() || b[0] >= 32 {
		return x
	}
	signBitIdx := int(b[0])*8 + 7
	if x.Bit(signBitIdx) == 0 {
		mask := shiftLeft(U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}, signBitIdx+1)
		return x.And(mask.Not())
	}
	mask := shiftLeft(U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}, signBitIdx+1)
	return x.Or(mask)
}

// Uint64 returns the low 64 bits of u. Callers that need to know whether
// the high bits were non-zero should check FitsUint64 first.
func (u U256) Uint64() uint64 { return u[0] }

// FitsUint64 reports whether u's value is representable in a uint64.
func (u U256) FitsUint64() bool { return u[1] == 0 && u[2] == 0 && u[3] == 0 }
