// Package chat drives interactive mode: a small explicit state machine
// over stdin lines, and the loop that executes its actions.
package chat

import "strings"

// Phase is the machine's state across queries in one interactive run.
type Phase int

const (
	// PhaseFirstInput: no query has been sent yet this run.
	PhaseFirstInput Phase = iota
	// PhaseSubsequentInput: at least one query has been sent and answered.
	PhaseSubsequentInput
	// PhaseTerminated: the loop is done.
	PhaseTerminated
)

// Action tells the loop driver what to do after a line is consumed.
type Action int

const (
	// ActionNone: keep reading lines.
	ActionNone Action = iota
	// ActionShowHistory: render stored conversation, keep reading.
	ActionShowHistory
	// ActionSendBuffer: the accumulated lines form a complete query.
	ActionSendBuffer
	// ActionSendFile: the pending file payload is the complete query.
	ActionSendFile
	// ActionExit: leave interactive mode.
	ActionExit
)

// Machine decides, line by line, when input becomes a query, when an
// empty line means "show history", and when it means "exit". The pending
// file payload is armed at most once per run and never re-armed.
type Machine struct {
	sentinel    string
	phase       Phase
	filePending bool
	buffer      []string
}

// NewMachine creates a machine using sentinel as the end-of-input word.
// filePending arms the one-shot file payload.
func NewMachine(sentinel string, filePending bool) *Machine {
	return &Machine{sentinel: sentinel, filePending: filePending}
}

// Phase returns the machine's current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Feed consumes one input line and returns the action to take. Sentinel
// comparison is an exact string match on the trimmed line, never
// case-insensitive.
func (m *Machine) Feed(line string) Action {
	if m.phase == PhaseTerminated {
		return ActionExit
	}

	trimmed := strings.TrimSpace(line)

	if trimmed == m.sentinel {
		if len(m.buffer) > 0 {
			return ActionSendBuffer
		}
		if m.phase == PhaseFirstInput && m.filePending {
			m.filePending = false
			return ActionSendFile
		}
		m.phase = PhaseTerminated
		return ActionExit
	}

	if trimmed == "" && len(m.buffer) == 0 {
		if m.phase == PhaseFirstInput {
			// History display does not count as a query.
			return ActionShowHistory
		}
		return ActionNone
	}

	m.buffer = append(m.buffer, line)
	return ActionNone
}

// Message returns the accumulated query text.
func (m *Machine) Message() string {
	return strings.Join(m.buffer, "\n")
}

// TakeFilePending reports whether the file payload is still armed and
// consumes it. Used to merge the payload into a typed query; once taken
// it never fires again.
func (m *Machine) TakeFilePending() bool {
	pending := m.filePending
	m.filePending = false
	return pending
}

// CompleteExchange records a successfully answered query: the buffer is
// cleared and empty-line-as-history is disabled for the rest of the run.
func (m *Machine) CompleteExchange() {
	m.buffer = nil
	m.phase = PhaseSubsequentInput
}

// AbortExchange discards the buffer after a failed model call, leaving
// the phase unchanged so the loop stays alive for a retry.
func (m *Machine) AbortExchange() {
	m.buffer = nil
}
