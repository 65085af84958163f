package vm

import "strconv"

// instruction describes one dispatch table entry: its canonical
// mnemonic, the stack arity it declares (alpha = items popped, delta =
// items pushed, in the "validator form" spec.md uses for DUP/SWAP — i.e.
// declared operand count, not net stack growth), and the handler that
// implements it.
type instruction struct {
	mnemonic string
	alpha    int
	delta    int
	handler  handlerFunc
}

var instructionTable [256]instruction

func register(op OpCode, mnemonic string, alpha, delta int, h handlerFunc) {
	mnemonicOf[op] = mnemonic
	instructionTable[op] = instruction{mnemonic: mnemonic, alpha: alpha, delta: delta, handler: h}
}

func init() {
	register(Stop, "STOP", 0, 0, hStop)
	register(Add, "ADD", 2, 1, hAdd)
	register(Mul, "MUL", 2, 1, hMul)
	register(Sub, "SUB", 2, 1, hSub)
	register(Div, "DIV", 2, 1, hDiv)
	register(SDiv, "SDIV", 2, 1, hSDiv)
	register(Mod, "MOD", 2, 1, hMod)
	register(SMod, "SMOD", 2, 1, hSMod)
	register(AddMod, "ADDMOD", 3, 1, hAddMod)
	register(MulMod, "MULMOD", 3, 1, hMulMod)
	register(Exp, "EXP", 2, 1, hExp)
	register(SignExtend, "SIGNEXTEND", 2, 1, hSignExtend)

	register(Lt, "LT", 2, 1, hLt)
	register(Gt, "GT", 2, 1, hGt)
	register(Slt, "SLT", 2, 1, hSlt)
	register(Sgt, "SGT", 2, 1, hSgt)
	register(Eq, "EQ", 2, 1, hEq)
	register(IsZero, "ISZERO", 1, 1, hIsZero)
	register(And, "AND", 2, 1, hAnd)
	register(Or, "OR", 2, 1, hOr)
	register(Xor, "XOR", 2, 1, hXor)
	register(Not, "NOT", 1, 1, hNot)
	register(Byte, "BYTE", 2, 1, hByte)
	register(Shl, "SHL", 2, 1, hShl)
	register(Shr, "SHR", 2, 1, hShr)
	register(Sar, "SAR", 2, 1, hSar)

	register(Keccak256, "KECCAK256", 2, 1, hKeccak256)

	register(Address, "ADDRESS", 0, 1, hAddress)
	register(Balance, "BALANCE", 1, 1, hNoWorldState(1))
	register(Origin, "ORIGIN", 0, 1, hOrigin)
	register(Caller, "CALLER", 0, 1, hCaller)
	register(CallValue, "CALLVALUE", 0, 1, hCallValue)
	register(CallDataLoad, "CALLDATALOAD", 1, 1, hCallDataLoad)
	register(CallDataSize, "CALLDATASIZE", 0, 1, hCallDataSize)
	register(CallDataCopy, "CALLDATACOPY", 3, 0, hCallDataCopy)
	register(CodeSize, "CODESIZE", 0, 1, hCodeSize)
	register(CodeCopy, "CODECOPY", 3, 0, hCodeCopy)
	register(GasPrice, "GASPRICE", 0, 1, hGasPrice)
	register(ExtCodeSize, "EXTCODESIZE", 1, 1, hNoWorldState(1))
	register(ExtCodeCopy, "EXTCODECOPY", 4, 0, hNoWorldState(4))
	register(ReturnDataSize, "RETURNDATASIZE", 0, 1, hReturnDataSize)
	register(ReturnDataCopy, "RETURNDATACOPY", 3, 0, hReturnDataCopy)
	register(ExtCodeHash, "EXTCODEHASH", 1, 1, hNoWorldState(1))

	register(BlockHash, "BLOCKHASH", 1, 1, hNoWorldState(1))
	register(Coinbase, "COINBASE", 0, 1, hCoinbase)
	register(Timestamp, "TIMESTAMP", 0, 1, hTimestamp)
	register(Number, "NUMBER", 0, 1, hNumber)
	register(Difficulty, "DIFFICULTY", 0, 1, hDifficulty)
	register(GasLimit, "GASLIMIT", 0, 1, hGasLimit)
	register(ChainID, "CHAINID", 0, 1, hChainID)
	register(SelfBalance, "SELFBALANCE", 0, 1, hSelfBalance)

	register(Pop, "POP", 1, 0, hPop)
	register(MLoad, "MLOAD", 1, 1, hMLoad)
	register(MStore, "MSTORE", 2, 0, hMStore)
	register(MStore8, "MSTORE8", 2, 0, hMStore8)
	register(SLoad, "SLOAD", 1, 1, hSLoad)
	register(SStore, "SSTORE", 2, 0, hSStore)
	register(Jump, "JUMP", 1, 0, hJump)
	register(JumpI, "JUMPI", 2, 0, hJumpI)
	register(PC, "PC", 0, 1, hPC)
	register(MSize, "MSIZE", 0, 1, hMSize)
	register(Gas, "GAS", 0, 1, hGas)
	register(JumpDest, "JUMPDEST", 0, 0, hJumpDest)

	for op := Push1; op <= Push32; op++ {
		n := int(op-Push1) + 1
		register(op, pushMnemonic(n), 0, 1, hPush)
	}
	for op := Dup1; op <= Dup16; op++ {
		n := int(op-Dup1) + 1
		register(op, dupMnemonic(n), n, n+1, hDup)
	}
	for op := Swap1; op <= Swap16; op++ {
		n := int(op-Swap1) + 1
		register(op, swapMnemonic(n), n+1, n+1, hSwap)
	}
	for op := Log0; op <= Log4; op++ {
		n := int(op - Log0)
		register(op, logMnemonic(n), 2+n, 0, hLog)
	}

	register(Create, "CREATE", 3, 1, hNoSubContext)
	register(Call, "CALL", 7, 1, hNoSubContext)
	register(CallCode, "CALLCODE", 7, 1, hNoSubContext)
	register(Return, "RETURN", 2, 0, hReturn)
	register(DelegateCall, "DELEGATECALL", 6, 1, hNoSubContext)
	register(Create2, "CREATE2", 4, 1, hNoSubContext)
	register(StaticCall, "STATICCALL", 6, 1, hNoSubContext)
	register(Revert, "REVERT", 2, 0, hRevert)
	register(Invalid, "INVALID", 0, 0, hInvalid)
	register(SelfDestruct, "SELFDESTRUCT", 1, 0, hNoSubContext)
}

func pushMnemonic(n int) string { return "PUSH" + strconv.Itoa(n) }
func dupMnemonic(n int) string  { return "DUP" + strconv.Itoa(n) }
func swapMnemonic(n int) string { return "SWAP" + strconv.Itoa(n) }
func logMnemonic(n int) string  { return "LOG" + strconv.Itoa(n) }
