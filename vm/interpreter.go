package vm

// Outcome classifies how a single Step (or an entire Run) concluded.
// This is the StepResult sum type spec.md's Open Questions call for in
// place of the original prototype's habit of returning a "Stopped" error
// variant for what is actually a successful halt — STOP is not a failure,
// so it is never represented as one here.
type Outcome int

const (
	Continue Outcome = iota
	HaltOk
	HaltRevert
	Fault
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case HaltOk:
		return "halt-ok"
	case HaltRevert:
		return "halt-revert"
	case Fault:
		return "fault"
	default:
		return "unknown"
	}
}

// StepResult is what a single dispatched instruction reports back to the
// loop: keep running, halt (successfully or via REVERT) with return data,
// or fault with a typed error.
type StepResult struct {
	Outcome Outcome
	Data    []byte
	Err     error
}

func contStep() StepResult                 { return StepResult{Outcome: Continue} }
func haltOkStep(data []byte) StepResult     { return StepResult{Outcome: HaltOk, Data: data} }
func haltRevertStep(data []byte) StepResult { return StepResult{Outcome: HaltRevert, Data: data} }
func faultStep(err error) StepResult        { return StepResult{Outcome: Fault, Err: err} }

// TraceEvent describes one dispatched instruction, emitted to an
// optional sink so a caller (the run subcommand) can print or log
// execution as it happens without the interpreter itself depending on
// any particular output format.
type TraceEvent struct {
	PC         uint64
	Opcode     OpCode
	Mnemonic   string
	StackDepth int
}

// Context bundles the execution state a running program touches: ROM,
// stack, memory, storage, and the read-only Environment record. It is
// the direct analogue of the original prototype's ProgramContext.
type Context struct {
	Rom     *Rom
	Stack   *Stack
	Memory  *Memory
	Storage *Storage
	Env     Environment
	Logs    LogSink
}

// NewContext builds a fresh execution context over code. storage and
// logs may be nil, in which case an empty Storage and a discarding
// LogSink are used.
func NewContext(code []byte, storage *Storage, env Environment, logs LogSink) *Context {
	if storage == nil {
		storage = NewStorage()
	}
	if logs == nil {
		logs = discardSink{}
	}
	return &Context{
		Rom:     NewRom(code),
		Stack:   NewStack(),
		Memory:  NewMemory(),
		Storage: storage,
		Env:     env,
		Logs:    logs,
	}
}

// Step executes exactly one instruction. Running the PC off the end of
// ROM without having hit STOP, RETURN, or REVERT is treated as an
// implicit successful halt, matching a real EVM's fall-off-the-end
// behavior; a truncated PUSH immediate, by contrast, is a genuine fault
// since that byte was supposed to exist and doesn't.
func (c *Context) Step() StepResult {
	pc := c.Rom.PC()
	if pc >= uint64(c.Rom.Len()) {
		return haltOkStep(nil)
	}
	op, _ := c.Rom.NextByte()
	instr := instructionTable[op]
	if instr.handler == nil {
		return faultStep(&InvalidOpcodeError{Opcode: op})
	}
	return instr.handler(c, op, pc)
}

// Result is what Run returns once the program reaches a terminal state.
type Result struct {
	Outcome    Outcome
	ReturnData []byte
	Err        error
}

// Run drives Step until it returns anything other than Continue. trace,
// if non-nil, is called once per dispatched instruction before it
// executes.
func (c *Context) Run(trace func(TraceEvent)) Result {
	for {
		pc := c.Rom.PC()
		if trace != nil && pc < uint64(c.Rom.Len()) {
			op := c.Rom.PeekByte(pc)
			trace(TraceEvent{PC: pc, Opcode: op, Mnemonic: mnemonicOf[op], StackDepth: c.Stack.Len()})
		}
		res := c.Step()
		switch res.Outcome {
		case Continue:
			continue
		default:
			return Result{Outcome: res.Outcome, ReturnData: res.Data, Err: res.Err}
		}
	}
}
