package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func run(code []byte) Result {
	ctx := NewContext(code, nil, Environment{}, nil)
	return ctx.Run(nil)
}

func TestPushAdd(t *testing.T) {
	// PUSH1 1, PUSH1 2, ADD, STOP
	code := []byte{Push1, 0x01, Push1, 0x02, Add, Stop}
	ctx := NewContext(code, nil, Environment{}, nil)
	res := ctx.Run(nil)
	require.Equal(t, HaltOk, res.Outcome)
	top, err := ctx.Stack.Peek(0)
	require.NoError(t, err)
	require.Equal(t, u64(3), top)
}

func TestSubWraps(t *testing.T) {
	// PUSH1 1, PUSH1 0, SUB, STOP -- top(0) - second(1) wraps to max u256
	code := []byte{Push1, 0x01, Push1, 0x00, Sub, Stop}
	ctx := NewContext(code, nil, Environment{}, nil)
	res := ctx.Run(nil)
	require.Equal(t, HaltOk, res.Outcome)
	top, err := ctx.Stack.Peek(0)
	require.NoError(t, err)
	maxU256 := U256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	require.Equal(t, maxU256, top)
}

func TestDivByZero(t *testing.T) {
	// PUSH1 0, PUSH1 5, DIV, STOP -- top(5) / second(0) yields 0, not a fault
	code := []byte{Push1, 0x00, Push1, 0x05, Div, Stop}
	ctx := NewContext(code, nil, Environment{}, nil)
	res := ctx.Run(nil)
	require.Equal(t, HaltOk, res.Outcome)
	top, err := ctx.Stack.Peek(0)
	require.NoError(t, err)
	require.Equal(t, Zero(), top)
}

func TestInvalidJumpFaults(t *testing.T) {
	// PUSH1 5, JUMP -- offset 5 is out of range / not a JUMPDEST
	code := []byte{Push1, 0x05, Jump}
	res := run(code)
	require.Equal(t, Fault, res.Outcome)
	var target *InvalidJumpError
	require.ErrorAs(t, res.Err, &target)
}

func TestValidJump(t *testing.T) {
	// PUSH1 4, JUMP, (skipped) ..., JUMPDEST, STOP
	code := []byte{Push1, 0x04, Jump, Invalid, JumpDest, Stop}
	res := run(code)
	require.Equal(t, HaltOk, res.Outcome)
}

func TestStackUnderflowFaults(t *testing.T) {
	code := []byte{Add}
	res := run(code)
	require.Equal(t, Fault, res.Outcome)
	require.ErrorIs(t, res.Err, errStackUnderflow)
}

func TestRevertCarriesData(t *testing.T) {
	// PUSH1 1, PUSH1 0, MSTORE8, PUSH1 1, PUSH1 0, REVERT
	code := []byte{
		Push1, 0x01,
		Push1, 0x00,
		MStore8,
		Push1, 0x01,
		Push1, 0x00,
		Revert,
	}
	res := run(code)
	require.Equal(t, HaltRevert, res.Outcome)
	require.Equal(t, []byte{0x01}, res.ReturnData)
}

func TestJumpDestBitmapIgnoresPushImmediate(t *testing.T) {
	// PUSH1 0x5b looks like a JUMPDEST byte at offset 1 but isn't one.
	code := []byte{Push1, JumpDest, Push1, 0x01, Jump}
	res := run(code)
	require.Equal(t, Fault, res.Outcome)
	var target *InvalidJumpError
	require.ErrorAs(t, res.Err, &target)
}

func TestEnvironmentWiring(t *testing.T) {
	env := Environment{CallValue: u64(42)}
	code := []byte{CallValue, Stop}
	ctx := NewContext(code, nil, env, nil)
	res := ctx.Run(nil)
	require.Equal(t, HaltOk, res.Outcome)
	top, err := ctx.Stack.Peek(0)
	require.NoError(t, err)
	require.Equal(t, u64(42), top)
}

func TestLogSinkReceivesEntries(t *testing.T) {
	sink := NewCollectingSink()
	code := []byte{
		Push1, 0x01, // length
		Push1, 0x00, // offset
		Log0,
		Stop,
	}
	ctx := NewContext(code, nil, Environment{}, sink)
	res := ctx.Run(nil)
	require.Equal(t, HaltOk, res.Outcome)
	require.Len(t, sink.Entries, 1)
	require.Empty(t, sink.Entries[0].Topics)
}
