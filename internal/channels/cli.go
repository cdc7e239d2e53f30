package channels

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/agentsmith/agentsmith/internal/schema"
	"github.com/agentsmith/agentsmith/internal/shared/cmdutils"
)

const cliName = "cli"

var cliExitCommands = map[string]bool{
	"exit": true,
	"quit": true,
}

// CLIOptions configures a CLIChannel.
type CLIOptions struct {
	In  io.Reader // default os.Stdin
	Out io.Writer // default os.Stdout
	// Interactive enables line editing, history and Markdown rendering.
	// It should only be set when both stdin and stdout are terminals.
	Interactive bool
	// StartupSummary runs the backlog review before the first prompt.
	StartupSummary bool
	// HistoryFile persists line-editor history; empty disables it.
	HistoryFile string
}

// CLIChannel is the terminal REPL.
type CLIChannel struct {
	Base
	opts CLIOptions
}

// NewCLIChannel creates a CLIChannel.
func NewCLIChannel(a schema.Assistant, opts CLIOptions) *CLIChannel {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &CLIChannel{Base: NewBase(cliName, a, nil), opts: opts}
}

// Start runs the REPL until the user types an exit word, input ends or ctx
// is cancelled.
func (c *CLIChannel) Start(ctx context.Context) error {
	out := c.opts.Out
	fmt.Fprintln(out, c.style(cmdutils.BannerStyle, "Agent Smith, to your service"))

	if c.opts.StartupSummary {
		fmt.Fprintln(out, "\n🔍 Reviewing your backlog...")
		c.print("📋 Backlog Summary:\n" + c.Summary(ctx))
	}

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(out, c.style(cmdutils.DimStyle, "Ready for your commands! (Type 'quit' or 'exit' to end)"))

	reader := c.newLineReader()
	defer reader.Close()

	for {
		line, err := readLine(ctx, reader, "> ")
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// EOF or Ctrl+C end the session.
			fmt.Fprintln(out)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if cliExitCommands[strings.ToLower(line)] {
			fmt.Fprintln(out, "Goodbye! 👋")
			return nil
		}

		c.print(c.Ask(ctx, line))
	}
}

// Once answers a single message and returns without entering the REPL.
// The run error is printed and also returned so the caller can exit non-zero.
func (c *CLIChannel) Once(ctx context.Context, message string) error {
	reply, ok, err := c.assistant.Run(ctx, message)
	c.print(c.present(reply, ok, err))
	return err
}

// Send prints unsolicited text.
func (c *CLIChannel) Send(_ context.Context, text string) error {
	c.print(text)
	return nil
}

func (c *CLIChannel) print(text string) {
	if c.opts.Interactive && strings.HasPrefix(text, ErrorTextPrefix) {
		fmt.Fprintln(c.opts.Out, cmdutils.ErrorStyle.Render(text))
		return
	}
	cmdutils.PrintResponse(c.opts.Out, text, c.opts.Interactive)
}

func (c *CLIChannel) style(s lipgloss.Style, text string) string {
	if !c.opts.Interactive {
		return text
	}
	return s.Render(text)
}

// lineReader abstracts liner so non-terminal input can be scripted.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

func (c *CLIChannel) newLineReader() lineReader {
	if c.opts.Interactive {
		return newLinerReader(c.opts.HistoryFile)
	}
	return &scannerReader{scanner: bufio.NewScanner(c.opts.In), out: c.opts.Out}
}

// readLine prompts in a goroutine so ctx cancellation is not blocked by a
// pending read.
//
// Neither liner nor bufio can interrupt a blocked read, so on cancellation
// the Prompt goroutine stays parked on stdin until the process exits. The
// caller's deferred Close restores the terminal mode meanwhile; whatever the
// stray read returns is dropped into the buffered channel and never used.
func readLine(ctx context.Context, r lineReader, prompt string) (string, error) {
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := r.Prompt(prompt)
		done <- result{line, err}
	}()

	select {
	case res := <-done:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scannerReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scannerReader) Close() error { return nil }

type linerReader struct {
	state       *liner.State
	historyFile string
}

func newLinerReader(historyFile string) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	r := &linerReader{state: state, historyFile: historyFile}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}
	return r
}

func (l *linerReader) Prompt(prompt string) (string, error) {
	line, err := l.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		l.state.AppendHistory(line)
	}
	return line, nil
}

func (l *linerReader) Close() error {
	if l.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(l.historyFile), 0o755); err == nil {
			if f, err := os.OpenFile(l.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
				_, _ = l.state.WriteHistory(f)
				_ = f.Close()
			}
		}
	}
	return l.state.Close()
}
