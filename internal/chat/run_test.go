package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wethinkt/go-askgpt/internal/cli"
	"github.com/wethinkt/go-askgpt/internal/config"
	"github.com/wethinkt/go-askgpt/internal/session"
)

// stubCompleter returns canned replies and records every call.
type stubCompleter struct {
	reply string
	err   error
	calls int
	seen  [][]session.Message
}

func (s *stubCompleter) Complete(ctx context.Context, model string, messages []session.Message) (string, error) {
	s.calls++
	s.seen = append(s.seen, messages)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newRunFixture(t *testing.T) (*session.Store, *config.Manager) {
	t.Helper()
	cfg, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return session.NewStore(cfg), cfg
}

func runWith(t *testing.T, store *session.Store, completer *stubCompleter, input string, hasFile bool, fileContent string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Run(context.Background(), Options{
		Store:       store,
		Completer:   completer,
		In:          strings.NewReader(input),
		Out:         &out,
		Err:         &errOut,
		Sentinel:    "EOF",
		FileContent: fileContent,
		HasFile:     hasFile,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String(), errOut.String()
}

func TestRunBareSentinelMakesNoCall(t *testing.T) {
	store, _ := newRunFixture(t)
	completer := &stubCompleter{reply: "unused"}

	runWith(t, store, completer, "EOF\n", false, "")

	if completer.calls != 0 {
		t.Errorf("expected no model calls, got %d", completer.calls)
	}
}

func TestRunFileInputSentAsSoleMessage(t *testing.T) {
	store, _ := newRunFixture(t)
	completer := &stubCompleter{reply: "analysis done"}

	out, _ := runWith(t, store, completer, "EOF\nEOF\n", true, "report contents")

	if completer.calls != 1 {
		t.Fatalf("expected one model call, got %d", completer.calls)
	}
	sent := completer.seen[0]
	if sent[len(sent)-1].Content != "report contents" {
		t.Errorf("expected file content as outgoing message, got %q", sent[len(sent)-1].Content)
	}
	if !strings.Contains(out, "analysis done") {
		t.Error("expected reply printed")
	}

	// Exactly two new messages recorded: user then assistant.
	sess, err := store.Load(session.MasterSessionName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := len(sess.Messages)
	if sess.Messages[n-2].Role != session.RoleUser || sess.Messages[n-2].Content != "report contents" {
		t.Errorf("expected persisted user turn, got %+v", sess.Messages[n-2])
	}
	if sess.Messages[n-1].Role != session.RoleAssistant || sess.Messages[n-1].Content != "analysis done" {
		t.Errorf("expected persisted assistant turn, got %+v", sess.Messages[n-1])
	}
}

func TestRunEmptyLineShowsHistory(t *testing.T) {
	store, _ := newRunFixture(t)
	if err := store.Create("work"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append("work",
		session.Message{Role: session.RoleUser, Content: "earlier question"},
		session.Message{Role: session.RoleAssistant, Content: "earlier answer"},
	); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completer := &stubCompleter{reply: "unused"}
	out, _ := runWith(t, store, completer, "\nEOF\n", false, "")

	if completer.calls != 0 {
		t.Errorf("expected no model calls, got %d", completer.calls)
	}
	if !strings.Contains(out, "[USER]\nearlier question") {
		t.Errorf("expected user turn in history, got:\n%s", out)
	}
	if !strings.Contains(out, "[GPT]\nearlier answer") {
		t.Errorf("expected assistant turn in history, got:\n%s", out)
	}
	// The system seed never shows in the display format.
	if strings.Contains(out, session.DefaultSystemPrompt) {
		t.Error("system message must be filtered from history")
	}
}

func TestRunEmptyLineThenSentinelExitsAfterQuery(t *testing.T) {
	store, _ := newRunFixture(t)
	completer := &stubCompleter{reply: "hi there"}

	out, _ := runWith(t, store, completer, "hello\nEOF\n\nEOF\n", false, "")

	if completer.calls != 1 {
		t.Errorf("expected one model call, got %d", completer.calls)
	}
	if strings.Contains(out, "[USER]") {
		t.Error("history must not be printed after a query has been sent")
	}
}

func TestRunSendAndDisplayFormat(t *testing.T) {
	store, _ := newRunFixture(t)
	completer := &stubCompleter{reply: "well hello"}

	runWith(t, store, completer, "hello\nEOF\nEOF\n", false, "")

	sess, err := store.Load(session.MasterSessionName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := cli.NewHistoryFormatter(&buf, false).Format(sess.Messages); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "[USER]\nhello") {
		t.Errorf("expected [USER] hello in display, got:\n%s", got)
	}
	if !strings.Contains(got, "[GPT]\nwell hello") {
		t.Errorf("expected [GPT] reply in display, got:\n%s", got)
	}
}

func TestRunModelFailureLeavesLoopAlive(t *testing.T) {
	store, _ := newRunFixture(t)
	completer := &stubCompleter{err: errors.New("quota exceeded")}

	out, errOut := runWith(t, store, completer, "hello\nEOF\nretry\nEOF\nEOF\n", false, "")

	// Both attempts reach the collaborator; neither is recorded.
	if completer.calls != 2 {
		t.Errorf("expected two model calls, got %d", completer.calls)
	}
	if !strings.Contains(errOut, "quota exceeded") {
		t.Errorf("expected failure surfaced, got %q", errOut)
	}
	sess, err := store.Load(session.MasterSessionName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, msg := range sess.Messages {
		if msg.Role != session.RoleSystem {
			t.Errorf("failed exchange must not be persisted, found %+v", msg)
		}
	}
	if !strings.Contains(out, "Current session:") {
		t.Error("expected interactive banner")
	}
}

func TestRunConversationContextGrows(t *testing.T) {
	store, _ := newRunFixture(t)
	completer := &stubCompleter{reply: "ack"}

	runWith(t, store, completer, "one\nEOF\ntwo\nEOF\nEOF\n", false, "")

	if completer.calls != 2 {
		t.Fatalf("expected two model calls, got %d", completer.calls)
	}
	// Second call carries the first exchange: system + user + assistant + user.
	second := completer.seen[1]
	if len(second) != 4 {
		t.Errorf("expected 4 messages in second call, got %d", len(second))
	}
	if second[len(second)-1].Content != "two" {
		t.Errorf("expected trailing query 'two', got %q", second[len(second)-1].Content)
	}
}
