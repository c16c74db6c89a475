// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the chad CLI.
//
// Command: chat (also the default when no subcommand is given)
//
// Examples:
//   chad                         Start interactive chat
//   echo "hello" | chad chat     Send one message from stdin
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /history            List previous messages
//   /forget             Pick messages to remove from history
//   /recall             Pick a previous message to edit and resend
//   /editor [text]      Compose a message in $VISUAL or $EDITOR
//   /clear              Clear the screen
//   /quit, /exit, /q    Exit chat
//   Ctrl+C              Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chad-llm/internal/config"
	"github.com/jeranaias/chad-llm/internal/lineedit"
	"github.com/jeranaias/chad-llm/internal/logging"
	"github.com/jeranaias/chad-llm/internal/selector"
	"github.com/jeranaias/chad-llm/internal/terminal"
)

// MaxHistoryEntries bounds the in-memory chat history.
const MaxHistoryEntries = 500

// historyLabelWidth caps entries printed by /history.
const historyLabelWidth = 70

// =============================================================================
// SLASH COMMANDS
// =============================================================================

var slashCommands = []struct {
	name string
	desc string
}{
	{"/help", "Show this help"},
	{"/history", "List previous messages"},
	{"/forget", "Pick messages to remove from history"},
	{"/recall", "Pick a previous message to edit and resend"},
	{"/editor", "Compose a message in $VISUAL or $EDITOR"},
	{"/clear", "Clear the screen"},
	{"/quit", "Exit chat"},
	{"/exit", "Exit chat"},
}

// slashCommandNames returns the completable command names.
func slashCommandNames() []string {
	names := make([]string, len(slashCommands))
	for i, c := range slashCommands {
		names[i] = c.name
	}
	return names
}

// =============================================================================
// SESSION STATE
// =============================================================================

// LineReader reads one edited line. *lineedit.Editor implements it.
type LineReader interface {
	ReadLineWith(prompt, initial string) (string, bool)
}

// ItemSelector picks indices from a list. *selector.Selector implements it.
type ItemSelector interface {
	Select(prompt string, items []string, single bool, preselected []int) []int
}

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	Reader    LineReader
	Selector  ItemSelector
	History   *lineedit.BasicHistory
	Responder Responder
	Out       io.Writer
	Prompt    string

	// Clear wipes the screen; nil makes /clear a no-op
	Clear func()
	// Edit runs the external editor on initial; nil disables /editor
	Edit func(initial string) (string, error)
	// Quiet skips the welcome banner
	Quiet bool

	prefill  string
	messages int
	log      *clog.Logger
}

// newChatSession wires the editor and selector over one event source and screen.
func newChatSession(cfg *config.Config, src terminal.EventSource, screen *terminal.Screen, sus lineedit.Suspender) *ChatSession {
	history := lineedit.NewBasicHistory(
		lineedit.WithMaxEntries(MaxHistoryEntries),
		lineedit.WithoutDuplicates(),
	)

	editor := lineedit.New(src, screen,
		lineedit.WithHistory(history),
		lineedit.WithCompleter(lineedit.NewPrefixCompleter(slashCommandNames()...)),
		lineedit.WithPollTimeout(cfg.Editor.PollTimeout()),
		lineedit.WithPasteConfig(lineedit.PasteConfig{
			Burst:   cfg.Editor.PasteBurst(),
			Stale:   cfg.Editor.PasteStale(),
			MinKeys: cfg.Editor.PasteMinKeys,
		}),
	)

	picker := selector.New(src, screen,
		selector.WithWindowCap(cfg.Selector.WindowCap),
		selector.WithLabelMargin(cfg.Selector.LabelMargin),
		selector.WithPollTimeout(cfg.Editor.PollTimeout()),
	)

	s := &ChatSession{
		Reader:    editor,
		Selector:  picker,
		History:   history,
		Responder: EchoResponder{Width: screen.Width()},
		Out:       newCRLFWriter(screen),
		Prompt:    expandPrompt(cfg.Editor.Prompt),
		Clear:     screen.ClearScreen,
	}
	if sus != nil {
		s.Edit = func(initial string) (string, error) {
			return lineedit.ExternalEdit(sus, initial)
		}
	}
	return s
}

// expandPrompt substitutes {user} in a configured prompt.
func expandPrompt(prompt string) string {
	return strings.ReplaceAll(prompt, "{user}", currentUser())
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "you"
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// runChat handles the chat command.
func runChat(cmd *cobra.Command, o *rootOptions) (err error) {
	ctx := cmd.Context()
	cfg := o.config()

	if !IsTTY(os.Stdin) {
		return runPiped(ctx, os.Stdin, cmd.OutOrStdout(), EchoResponder{})
	}

	guard, err := terminal.Acquire(os.Stdin)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := guard.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	screen := terminal.NewScreen(os.Stdout, terminal.WithProfile(GetColorProfile()))
	session := newChatSession(cfg, newKeySource(os.Stdin, cfg), screen, guard)
	return session.Run(ctx)
}

// runPiped sends everything read from r as a single message.
func runPiped(ctx context.Context, r io.Reader, w io.Writer, resp Responder) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return NewCommandError("chat", "read", "could not read stdin", err)
	}
	message := strings.TrimSpace(string(data))
	if message == "" {
		return nil
	}
	logging.L.Info("piped message", "len", len(message))
	return resp.Respond(ctx, message, w)
}

// Run loops reading lines until the user quits, cancels or input fails.
func (s *ChatSession) Run(ctx context.Context) error {
	s.log = logging.L.With("session", logging.NewID())
	s.logger().Info("chat started")

	if !s.Quiet {
		s.printWelcome()
	}

	for {
		initial := s.prefill
		s.prefill = ""

		line, ok := s.Reader.ReadLineWith(s.Prompt, initial)
		if !ok {
			s.printGoodbye()
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldContinue, err := s.handleSlashCommand(ctx, input)
			if err != nil {
				s.printError(err)
			}
			if !shouldContinue {
				s.printGoodbye()
				return nil
			}
			continue
		}

		if err := s.send(ctx, input); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.printError(err)
		}
	}
}

func (s *ChatSession) logger() *clog.Logger {
	if s.log == nil {
		s.log = logging.L
	}
	return s.log
}

// send records message in history and hands it to the responder.
func (s *ChatSession) send(ctx context.Context, message string) error {
	s.History.Write(message)
	s.messages++
	s.logger().Info("message", "len", len(message), "history", s.History.Len())
	return s.Responder.Respond(ctx, message, s.Out)
}

// handleSlashCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func (s *ChatSession) handleSlashCommand(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input)
	command := strings.ToLower(parts[0])
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch command {
	case "/help", "/h", "/?", "/":
		s.printHelp()
		return true, nil

	case "/history":
		s.printHistory()
		return true, nil

	case "/forget":
		s.forget()
		return true, nil

	case "/recall":
		s.recall()
		return true, nil

	case "/editor":
		return true, s.compose(ctx, rest)

	case "/clear":
		if s.Clear != nil {
			s.Clear()
		}
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		if suggestion := SuggestCommand(command, slashCommandNames()); suggestion != "" {
			return true, fmt.Errorf("unknown command: %s (did you mean %s?)", command, suggestion)
		}
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// forget removes the picked history entries. Indices come back ascending,
// so they are removed from the highest down.
func (s *ChatSession) forget() {
	entries := s.History.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(s.Out, DimStyle.Render("[No history]"))
		return
	}

	picked := s.Selector.Select("Forget: ", entries, false, nil)
	if len(picked) == 0 {
		fmt.Fprintln(s.Out, DimStyle.Render("[Nothing forgotten]"))
		return
	}

	for i := len(picked) - 1; i >= 0; i-- {
		s.History.Remove(picked[i])
	}
	s.logger().Info("history forgotten", "selected", len(picked), "history", s.History.Len())

	noun := "entries"
	if len(picked) == 1 {
		noun = "entry"
	}
	fmt.Fprintln(s.Out, SuccessStyle.Render(fmt.Sprintf("[Forgot %d %s]", len(picked), noun)))
}

// recall pre-fills the next prompt with a picked history entry.
func (s *ChatSession) recall() {
	entries := s.History.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(s.Out, DimStyle.Render("[No history]"))
		return
	}

	picked := s.Selector.Select("Recall: ", entries, true, nil)
	if len(picked) == 1 {
		s.prefill = entries[picked[0]]
	}
}

// compose sends the text written in the external editor.
func (s *ChatSession) compose(ctx context.Context, initial string) error {
	if s.Edit == nil {
		return errors.New("no external editor available")
	}

	text, err := s.Edit(initial)
	if errors.Is(err, lineedit.ErrEditorAborted) {
		fmt.Fprintln(s.Out, WarningStyle.Render("[Editor aborted]"))
		return nil
	}
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Fprintln(s.Out, WarningStyle.Render("[Editor aborted]"))
		return nil
	}
	return s.send(ctx, text)
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

func (s *ChatSession) printWelcome() {
	fmt.Fprintln(s.Out, TitleStyle.Render("chad interactive chat"))
	fmt.Fprintln(s.Out, RenderSeparator(30))
	fmt.Fprintln(s.Out, DimStyle.Render("Type a message and press Enter. Commands: /help, /quit"))
	fmt.Fprintln(s.Out)
}

func (s *ChatSession) printHelp() {
	fmt.Fprintln(s.Out, TitleStyle.Render("Available Commands"))
	fmt.Fprintln(s.Out, RenderSeparator(20))
	for _, c := range slashCommands {
		fmt.Fprintf(s.Out, "  %s  %s\n",
			CommandStyle.Render(fmt.Sprintf("%-10s", c.name)),
			DimStyle.Render(c.desc))
	}
	fmt.Fprintln(s.Out, DimStyle.Render("Tab completes commands, Up/Down walk history, Ctrl+C exits"))
}

func (s *ChatSession) printHistory() {
	entries := s.History.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(s.Out, DimStyle.Render("[No history]"))
		return
	}
	for i, e := range entries {
		fmt.Fprintf(s.Out, "  %2d. %s\n", i+1, terminal.SanitizeLabel(e, historyLabelWidth))
	}
}

func (s *ChatSession) printError(err error) {
	s.logger().Warn("chat command failed", "err", err)
	fmt.Fprintf(s.Out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
}

func (s *ChatSession) printGoodbye() {
	s.logger().Info("chat finished", "messages", s.messages)
	fmt.Fprintln(s.Out, DimStyle.Render("Goodbye!"))
}
