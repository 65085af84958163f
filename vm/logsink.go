package vm

import "fmt"

// LogEntry is one emitted LOG0..LOG4 event: up to four indexed topics
// plus an opaque data payload copied out of memory at emission time.
type LogEntry struct {
	Topics []U256
	Data   []byte
}

// LogSink receives log events as the LOG family executes. This is the
// teacher's hardware-device dispatch (vm/devices.go: HardwareDevice,
// TrySend, the request/response shape) repurposed from device ports to
// event topics — same "something outside the core reacts to what the
// program emits" shape, new domain. There is no interrupt bus here since
// nothing in this VM consumes a response; emission is fire-and-forget.
type LogSink interface {
	Emit(entry LogEntry)
}

// discardSink drops every entry; it's the zero-configuration default so
// a context can always be run without wiring a sink first.
type discardSink struct{}

func (discardSink) Emit(LogEntry) {}

// CollectingSink accumulates every emitted entry in memory, useful for
// tests and for a CLI mode that wants to print a summary at the end of a
// run rather than interleaved with execution trace output.
type CollectingSink struct {
	Entries []LogEntry
}

func NewCollectingSink() *CollectingSink {
	return &CollectingSink{}
}

func (s *CollectingSink) Emit(entry LogEntry) {
	s.Entries = append(s.Entries, entry)
}

// WriterSink formats each entry to an io.Writer-like Printf target as it
// arrives; the run subcommand uses this under --trace-logs.
type WriterSink struct {
	Printf func(format string, args ...any)
}

func (s WriterSink) Emit(entry LogEntry) {
	topics := make([]string, len(entry.Topics))
	for i, t := range entry.Topics {
		topics[i] = t.String()
	}
	s.Printf("LOG%d topics=%v data=%s\n", len(entry.Topics), topics, fmt.Sprintf("0x%x", entry.Data))
}
