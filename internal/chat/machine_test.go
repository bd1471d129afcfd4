package chat

import "testing"

func TestBareSentinelFirstExits(t *testing.T) {
	m := NewMachine("EOF", false)

	if got := m.Feed("EOF"); got != ActionExit {
		t.Errorf("expected ActionExit, got %v", got)
	}
	if m.Phase() != PhaseTerminated {
		t.Errorf("expected PhaseTerminated, got %v", m.Phase())
	}
}

func TestBareSentinelFirstSendsFilePayload(t *testing.T) {
	m := NewMachine("EOF", true)

	if got := m.Feed("EOF"); got != ActionSendFile {
		t.Errorf("expected ActionSendFile, got %v", got)
	}
	m.CompleteExchange()

	// The payload is consumed exactly once; a later bare sentinel
	// always exits.
	if got := m.Feed("EOF"); got != ActionExit {
		t.Errorf("expected ActionExit after payload consumed, got %v", got)
	}
}

func TestFilePayloadNotReArmedAfterFailure(t *testing.T) {
	m := NewMachine("EOF", true)

	if got := m.Feed("EOF"); got != ActionSendFile {
		t.Fatalf("expected ActionSendFile, got %v", got)
	}
	m.AbortExchange()

	if got := m.Feed("EOF"); got != ActionExit {
		t.Errorf("expected ActionExit, got %v", got)
	}
}

func TestEmptyLineBeforeFirstQueryShowsHistory(t *testing.T) {
	m := NewMachine("EOF", false)

	if got := m.Feed(""); got != ActionShowHistory {
		t.Errorf("expected ActionShowHistory, got %v", got)
	}
	// History display does not count as a query.
	if m.Phase() != PhaseFirstInput {
		t.Errorf("expected PhaseFirstInput, got %v", m.Phase())
	}
	// Still available until a query is sent.
	if got := m.Feed(""); got != ActionShowHistory {
		t.Errorf("expected ActionShowHistory again, got %v", got)
	}
}

func TestLinesAccumulateUntilSentinel(t *testing.T) {
	m := NewMachine("EOF", false)

	if got := m.Feed("hello"); got != ActionNone {
		t.Errorf("expected ActionNone, got %v", got)
	}
	if got := m.Feed("world"); got != ActionNone {
		t.Errorf("expected ActionNone, got %v", got)
	}
	if got := m.Feed("EOF"); got != ActionSendBuffer {
		t.Errorf("expected ActionSendBuffer, got %v", got)
	}
	if got := m.Message(); got != "hello\nworld" {
		t.Errorf("expected joined message, got %q", got)
	}
}

func TestEmptyLineInsideMessageIsKept(t *testing.T) {
	m := NewMachine("EOF", false)

	m.Feed("first paragraph")
	m.Feed("")
	m.Feed("second paragraph")
	if got := m.Feed("EOF"); got != ActionSendBuffer {
		t.Fatalf("expected ActionSendBuffer, got %v", got)
	}
	if got := m.Message(); got != "first paragraph\n\nsecond paragraph" {
		t.Errorf("expected paragraph break preserved, got %q", got)
	}
}

func TestEmptyLineAfterQueryIsNotHistory(t *testing.T) {
	m := NewMachine("EOF", false)

	m.Feed("hello")
	if got := m.Feed("EOF"); got != ActionSendBuffer {
		t.Fatalf("expected ActionSendBuffer, got %v", got)
	}
	m.CompleteExchange()

	if got := m.Feed(""); got != ActionNone {
		t.Errorf("expected ActionNone after first query, got %v", got)
	}
	// "Nothing typed" then sentinel exits.
	if got := m.Feed("EOF"); got != ActionExit {
		t.Errorf("expected ActionExit, got %v", got)
	}
}

func TestFailedExchangeKeepsFirstPhase(t *testing.T) {
	m := NewMachine("EOF", false)

	m.Feed("hello")
	if got := m.Feed("EOF"); got != ActionSendBuffer {
		t.Fatalf("expected ActionSendBuffer, got %v", got)
	}
	m.AbortExchange()

	// No query has been answered, so the history shortcut stays armed.
	if got := m.Feed(""); got != ActionShowHistory {
		t.Errorf("expected ActionShowHistory after aborted exchange, got %v", got)
	}
}

func TestSentinelMatchIsExact(t *testing.T) {
	m := NewMachine("EOF", false)

	if got := m.Feed("eof"); got != ActionNone {
		t.Errorf("lowercase sentinel must accumulate, got %v", got)
	}
	if got := m.Feed("EOF!"); got != ActionNone {
		t.Errorf("near match must accumulate, got %v", got)
	}
	if got := m.Feed("EOF"); got != ActionSendBuffer {
		t.Errorf("expected ActionSendBuffer, got %v", got)
	}
	if got := m.Message(); got != "eof\nEOF!" {
		t.Errorf("expected near matches in buffer, got %q", got)
	}
}

func TestCustomSentinel(t *testing.T) {
	m := NewMachine("DONE", false)

	if got := m.Feed("EOF"); got != ActionNone {
		t.Errorf("default word is plain text under a custom sentinel, got %v", got)
	}
	if got := m.Feed("DONE"); got != ActionSendBuffer {
		t.Errorf("expected ActionSendBuffer on custom sentinel, got %v", got)
	}
}

func TestTypedContentMergesFilePayload(t *testing.T) {
	m := NewMachine("EOF", true)

	m.Feed("see attached")
	if got := m.Feed("EOF"); got != ActionSendBuffer {
		t.Fatalf("expected ActionSendBuffer, got %v", got)
	}
	if !m.TakeFilePending() {
		t.Error("expected pending file payload on first send")
	}
	if m.TakeFilePending() {
		t.Error("payload must not be taken twice")
	}
}

func TestFeedAfterTerminated(t *testing.T) {
	m := NewMachine("EOF", false)

	m.Feed("EOF")
	if got := m.Feed("anything"); got != ActionExit {
		t.Errorf("expected ActionExit once terminated, got %v", got)
	}
}
