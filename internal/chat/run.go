package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/wethinkt/go-askgpt/internal/cli"
	"github.com/wethinkt/go-askgpt/internal/llm"
	"github.com/wethinkt/go-askgpt/internal/session"
)

// Options configures one interactive run.
type Options struct {
	Store     *session.Store
	Completer llm.Completer

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Sentinel is the end-of-input word for this run.
	Sentinel string

	// FileContent is the one-shot file payload; HasFile arms it.
	FileContent string
	HasFile     bool

	// Color enables styled labels; Markdown renders replies as terminal
	// markdown. Both are off when stdout is not a TTY.
	Color    bool
	Markdown bool
	Width    int
}

// Run enters interactive mode: it resolves the current session, then
// reads queries until the machine terminates or input ends.
func Run(ctx context.Context, opts Options) error {
	name, created, err := opts.Store.EnsureCurrent()
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(opts.Out, "No current session found. Created '%s' and switched to it.\n", name)
	}

	sess, err := opts.Store.Load(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "Current session: %s\n", name)
	fmt.Fprintf(opts.Out, "Type your question and end input with '%s' on a single line.\n", opts.Sentinel)
	fmt.Fprintln(opts.Out, "Before your first query, pressing enter on an empty line shows the history.")
	fmt.Fprintln(opts.Out)

	machine := NewMachine(opts.Sentinel, opts.HasFile)
	scanner := bufio.NewScanner(opts.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		switch machine.Feed(scanner.Text()) {
		case ActionNone:
			continue

		case ActionShowHistory:
			formatter := cli.NewHistoryFormatter(opts.Out, opts.Color)
			if err := formatter.Format(sess.Messages); err != nil {
				return err
			}

		case ActionSendFile:
			if err := exchange(ctx, opts, machine, name, sess, opts.FileContent); err != nil {
				return err
			}

		case ActionSendBuffer:
			text := machine.Message()
			if machine.TakeFilePending() {
				text = opts.FileContent + "\n\n" + text
			}
			if err := exchange(ctx, opts, machine, name, sess, text); err != nil {
				return err
			}

		case ActionExit:
			return nil
		}
	}
	return scanner.Err()
}

// exchange sends one query and records the answered turn. A failed model
// call aborts only this exchange: nothing is appended and the loop stays
// alive.
func exchange(ctx context.Context, opts Options, machine *Machine, name string, sess *session.Session, text string) error {
	userMsg := session.Message{Role: session.RoleUser, Content: text}
	conversation := append(append([]session.Message{}, sess.Messages...), userMsg)

	reply, err := opts.Completer.Complete(ctx, opts.Store.ResolveModel(sess), conversation)
	if err != nil {
		fmt.Fprintf(opts.Err, "Error: %v\n", err)
		machine.AbortExchange()
		return nil
	}

	assistantMsg := session.Message{Role: session.RoleAssistant, Content: reply}
	if err := opts.Store.Append(name, userMsg, assistantMsg); err != nil {
		return err
	}
	sess.Messages = append(sess.Messages, userMsg, assistantMsg)

	if opts.Markdown {
		fmt.Fprint(opts.Out, cli.RenderMarkdown(reply, opts.Width))
	} else {
		fmt.Fprintln(opts.Out, reply)
	}

	machine.CompleteExchange()
	return nil
}
