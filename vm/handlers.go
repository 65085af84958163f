package vm

import "golang.org/x/crypto/sha3"

// handlerFunc is the shape every dispatch table entry implements. pc is
// the offset of the opcode byte itself (useful to PC, and to error
// messages), already consumed from Rom by the time the handler runs.
type handlerFunc func(c *Context, op OpCode, pc uint64) StepResult

// toOffset converts a stack value used as a memory/calldata/code offset
// or length into a uint64, faulting rather than truncating if the value
// is large enough that truncation would silently change its meaning.
func toOffset(u U256) (uint64, error) {
	if !u.FitsUint64() {
		return 0, errMemoryTooLarge
	}
	return u.Uint64(), nil
}

func popN(c *Context, n int) ([]U256, error) {
	out := make([]U256, n)
	for i := 0; i < n; i++ {
		v, err := c.Stack.Pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// binaryOp implements the two-pop, one-push arithmetic/bitwise family.
// The first value popped (a) is the top of stack, the second (b) is
// beneath it; the result is f(a, b), matching the EVM convention spec.md
// pins for SUB (top - second) and carried uniformly to every other
// binary opcode here.
func binaryOp(f func(a, b U256) U256) handlerFunc {
	return func(c *Context, op OpCode, pc uint64) StepResult {
		vs, err := popN(c, 2)
		if err != nil {
			return faultStep(err)
		}
		if err := c.Stack.Push(f(vs[0], vs[1])); err != nil {
			return faultStep(err)
		}
		return contStep()
	}
}

func ternaryOp(f func(a, b, n U256) U256) handlerFunc {
	return func(c *Context, op OpCode, pc uint64) StepResult {
		vs, err := popN(c, 3)
		if err != nil {
			return faultStep(err)
		}
		if err := c.Stack.Push(f(vs[0], vs[1], vs[2])); err != nil {
			return faultStep(err)
		}
		return contStep()
	}
}

func unaryOp(f func(a U256) U256) handlerFunc {
	return func(c *Context, op OpCode, pc uint64) StepResult {
		vs, err := popN(c, 1)
		if err != nil {
			return faultStep(err)
		}
		if err := c.Stack.Push(f(vs[0])); err != nil {
			return faultStep(err)
		}
		return contStep()
	}
}

func boolResult(b bool) U256 {
	if b {
		return One()
	}
	return Zero()
}

func hStop(c *Context, op OpCode, pc uint64) StepResult {
	return haltOkStep(nil)
}

// --- 0x00s: stop and arithmetic -------------------------------------------

var hAdd = binaryOp(func(a, b U256) U256 { return a.Add(b) })
var hMul = binaryOp(func(a, b U256) U256 { return a.Mul(b) })
var hSub = binaryOp(func(a, b U256) U256 { return a.Sub(b) })
var hDiv = binaryOp(func(a, b U256) U256 { return a.Div(b) })
var hSDiv = binaryOp(func(a, b U256) U256 { return a.SDiv(b) })
var hMod = binaryOp(func(a, b U256) U256 { return a.Mod(b) })
var hSMod = binaryOp(func(a, b U256) U256 { return a.SMod(b) })
var hAddMod = ternaryOp(func(a, b, n U256) U256 { return a.AddMod(b, n) })
var hMulMod = ternaryOp(func(a, b, n U256) U256 { return a.MulMod(b, n) })
var hExp = binaryOp(func(a, b U256) U256 { return a.Exp(b) })
var hSignExtend = binaryOp(func(b, x U256) U256 { return SignExtend(b, x) })

// --- 0x10s: comparison and bitwise -----------------------------------------

var hLt = binaryOp(func(a, b U256) U256 { return boolResult(a.Lt(b)) })
var hGt = binaryOp(func(a, b U256) U256 { return boolResult(a.Gt(b)) })
var hSlt = binaryOp(func(a, b U256) U256 { return boolResult(a.SLt(b)) })
var hSgt = binaryOp(func(a, b U256) U256 { return boolResult(a.SGt(b)) })
var hEq = binaryOp(func(a, b U256) U256 { return boolResult(a.Eq(b)) })
var hIsZero = unaryOp(func(a U256) U256 { return boolResult(a.IsZero()) })
var hAnd = binaryOp(func(a, b U256) U256 { return a.And(b) })
var hOr = binaryOp(func(a, b U256) U256 { return a.Or(b) })
var hXor = binaryOp(func(a, b U256) U256 { return a.Xor(b) })
var hNot = unaryOp(func(a U256) U256 { return a.Not() })
var hByte = binaryOp(func(i, x U256) U256 { return ByteAt(i, x) })
var hShl = binaryOp(func(shift, value U256) U256 { return value.Shl(shift) })
var hShr = binaryOp(func(shift, value U256) U256 { return value.Shr(shift) })
var hSar = binaryOp(func(shift, value U256) U256 { return value.Sar(shift) })

// --- 0x20: keccak256 --------------------------------------------------------

func hKeccak256(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 2)
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	length, err := toOffset(vs[1])
	if err != nil {
		return faultStep(err)
	}
	data, err := c.Memory.ReadRange(offset, length)
	if err != nil {
		return faultStep(err)
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	if err := c.Stack.Push(SetBytes(h.Sum(nil))); err != nil {
		return faultStep(err)
	}
	return contStep()
}

// --- 0x30s: environmental information --------------------------------------

func pushEnvWord(get func(e Environment) U256) handlerFunc {
	return func(c *Context, op OpCode, pc uint64) StepResult {
		if err := c.Stack.Push(get(c.Env)); err != nil {
			return faultStep(err)
		}
		return contStep()
	}
}

var hAddress = pushEnvWord(func(e Environment) U256 { return e.Self })
var hOrigin = pushEnvWord(func(e Environment) U256 { return e.Origin })
var hCaller = pushEnvWord(func(e Environment) U256 { return e.Caller })
var hCallValue = pushEnvWord(func(e Environment) U256 { return e.CallValue })
var hGasPrice = pushEnvWord(func(e Environment) U256 { return e.GasPrice })
var hCoinbase = pushEnvWord(func(e Environment) U256 { return e.Coinbase })
var hTimestamp = pushEnvWord(func(e Environment) U256 { return e.Timestamp })
var hNumber = pushEnvWord(func(e Environment) U256 { return e.BlockNumber })
var hDifficulty = pushEnvWord(func(e Environment) U256 { return e.Difficulty })
var hGasLimit = pushEnvWord(func(e Environment) U256 { return e.GasLimit })
var hChainID = pushEnvWord(func(e Environment) U256 { return e.ChainID })
var hSelfBalance = pushEnvWord(func(e Environment) U256 { return e.SelfBalance })

func hCallDataLoad(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 1)
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	var window [32]byte
	for i := 0; i < 32; i++ {
		idx := offset + uint64(i)
		if idx < uint64(len(c.Env.CallData)) {
			window[i] = c.Env.CallData[idx]
		}
	}
	if err := c.Stack.Push(SetBytes(window[:])); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hCallDataSize(c *Context, op OpCode, pc uint64) StepResult {
	if err := c.Stack.Push(NewFromUint64(uint64(len(c.Env.CallData)))); err != nil {
		return faultStep(err)
	}
	return contStep()
}

// copyToMemory implements the destOffset/offset/length family shared by
// CALLDATACOPY and CODECOPY: copy length bytes from
// src (zero-padded past its end) into memory at destOffset.
func copyToMemory(c *Context, src []byte) StepResult {
	vs, err := popN(c, 3)
	if err != nil {
		return faultStep(err)
	}
	destOffset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[1])
	if err != nil {
		return faultStep(err)
	}
	length, err := toOffset(vs[2])
	if err != nil {
		return faultStep(err)
	}
	window := make([]byte, length)
	for i := uint64(0); i < length; i++ {
		idx := offset + i
		if idx < uint64(len(src)) {
			window[i] = src[idx]
		}
	}
	if err := c.Memory.WriteRange(destOffset, window); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hCallDataCopy(c *Context, op OpCode, pc uint64) StepResult {
	return copyToMemory(c, c.Env.CallData)
}

func hCodeSize(c *Context, op OpCode, pc uint64) StepResult {
	if err := c.Stack.Push(NewFromUint64(uint64(c.Rom.Len()))); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hCodeCopy(c *Context, op OpCode, pc uint64) StepResult {
	return copyToMemory(c, c.Rom.code)
}

func hReturnDataSize(c *Context, op OpCode, pc uint64) StepResult {
	if err := c.Stack.Push(Zero()); err != nil {
		return faultStep(err)
	}
	return contStep()
}

// hReturnDataCopy always operates against an empty return buffer: no
// opcode in this core ever populates one, since sub-context CALL
// execution is out of scope (spec.md's Non-goals). A zero-length copy is
// a legal no-op; anything else asks for bytes that can't exist.
func hReturnDataCopy(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 3)
	if err != nil {
		return faultStep(err)
	}
	length, err := toOffset(vs[2])
	if err != nil {
		return faultStep(err)
	}
	if length != 0 {
		return faultStep(errNotImplemented)
	}
	return contStep()
}

// hNoWorldState handles the opcodes that exist in the table (so the
// disassembler prints them correctly and the stack validator still sees
// their declared arity) but need an external account view this core
// never models: BALANCE, EXTCODESIZE, EXTCODECOPY, EXTCODEHASH,
// BLOCKHASH. Each pops its declared operands, then faults.
func hNoWorldState(alpha int) handlerFunc {
	return func(c *Context, op OpCode, pc uint64) StepResult {
		if _, err := popN(c, alpha); err != nil {
			return faultStep(err)
		}
		return faultStep(errNotImplemented)
	}
}

// --- 0x50s: stack, memory, storage, and flow -------------------------------

func hPop(c *Context, op OpCode, pc uint64) StepResult {
	if _, err := c.Stack.Pop(); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hMLoad(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 1)
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	word, err := c.Memory.Read32(offset)
	if err != nil {
		return faultStep(err)
	}
	if err := c.Stack.Push(word); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hMStore(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 2)
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	if err := c.Memory.Write32(offset, vs[1]); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hMStore8(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 2)
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	if err := c.Memory.Write8(offset, vs[1]); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hSLoad(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 1)
	if err != nil {
		return faultStep(err)
	}
	if err := c.Stack.Push(c.Storage.Load(vs[0])); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hSStore(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 2)
	if err != nil {
		return faultStep(err)
	}
	c.Storage.Store(vs[0], vs[1])
	return contStep()
}

func hJump(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 1)
	if err != nil {
		return faultStep(err)
	}
	dest, err := toOffset(vs[0])
	if err != nil {
		return faultStep(&InvalidJumpError{Dest: vs[0].Uint64()})
	}
	if err := c.Rom.Jump(dest); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hJumpI(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 2)
	if err != nil {
		return faultStep(err)
	}
	if vs[1].IsZero() {
		return contStep()
	}
	dest, err := toOffset(vs[0])
	if err != nil {
		return faultStep(&InvalidJumpError{Dest: vs[0].Uint64()})
	}
	if err := c.Rom.Jump(dest); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hPC(c *Context, op OpCode, pc uint64) StepResult {
	if err := c.Stack.Push(NewFromUint64(pc)); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hMSize(c *Context, op OpCode, pc uint64) StepResult {
	if err := c.Stack.Push(NewFromUint64(uint64(c.Memory.Len()))); err != nil {
		return faultStep(err)
	}
	return contStep()
}

// hGas always reports zero: gas metering is out of scope (spec.md's
// Non-goals), so there is no budget to report. The opcode stays in the
// table since real bytecode expects to be able to call it.
func hGas(c *Context, op OpCode, pc uint64) StepResult {
	if err := c.Stack.Push(Zero()); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hJumpDest(c *Context, op OpCode, pc uint64) StepResult {
	return contStep()
}

// --- 0x60/0x70: push --------------------------------------------------------

func hPush(c *Context, op OpCode, pc uint64) StepResult {
	n := PushSize(op)
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := c.Rom.NextByte()
		if err != nil {
			return faultStep(err)
		}
		buf[i] = b
	}
	if err := c.Stack.Push(SetBytes(buf)); err != nil {
		return faultStep(err)
	}
	return contStep()
}

// --- 0x80/0x90: dup and swap -------------------------------------------------

func hDup(c *Context, op OpCode, pc uint64) StepResult {
	if err := c.Stack.Dup(DupDepth(op)); err != nil {
		return faultStep(err)
	}
	return contStep()
}

func hSwap(c *Context, op OpCode, pc uint64) StepResult {
	if err := c.Stack.Swap(SwapDepth(op)); err != nil {
		return faultStep(err)
	}
	return contStep()
}

// --- 0xa0: logging -----------------------------------------------------------

func hLog(c *Context, op OpCode, pc uint64) StepResult {
	nTopics := LogTopics(op)
	vs, err := popN(c, 2+nTopics)
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	length, err := toOffset(vs[1])
	if err != nil {
		return faultStep(err)
	}
	data, err := c.Memory.ReadRange(offset, length)
	if err != nil {
		return faultStep(err)
	}
	topics := append([]U256{}, vs[2:]...)
	c.Logs.Emit(LogEntry{Topics: topics, Data: data})
	return contStep()
}

// --- 0xf0s: system -----------------------------------------------------------

func hReturn(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 2)
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	length, err := toOffset(vs[1])
	if err != nil {
		return faultStep(err)
	}
	data, err := c.Memory.ReadRange(offset, length)
	if err != nil {
		return faultStep(err)
	}
	return haltOkStep(data)
}

func hRevert(c *Context, op OpCode, pc uint64) StepResult {
	vs, err := popN(c, 2)
	if err != nil {
		return faultStep(err)
	}
	offset, err := toOffset(vs[0])
	if err != nil {
		return faultStep(err)
	}
	length, err := toOffset(vs[1])
	if err != nil {
		return faultStep(err)
	}
	data, err := c.Memory.ReadRange(offset, length)
	if err != nil {
		return faultStep(err)
	}
	return haltRevertStep(data)
}

func hInvalid(c *Context, op OpCode, pc uint64) StepResult {
	return faultStep(&InvalidOpcodeError{Opcode: op})
}

// hNoSubContext handles CREATE, CALL, CALLCODE, DELEGATECALL, CREATE2,
// STATICCALL, and SELFDESTRUCT: present in the dispatch table with their
// real mnemonic and declared arity, but faulting on execution since none
// of them has a sub-context or external account to act against (spec.md's
// Non-goals explicitly exclude concurrent multi-context execution and
// world-state). original_source encodes the same opcodes as
// `execute: todo`; this keeps that shape rather than omitting them.
func hNoSubContext(c *Context, op OpCode, pc uint64) StepResult {
	return faultStep(errNotImplemented)
}
