/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/longkey1/healthbot/internal/healthbot/assistant"
	"github.com/longkey1/healthbot/internal/healthbot/session"
	"github.com/longkey1/healthbot/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const goodbyeMessage = "Stay healthy! Goodbye."

var (
	model     string
	readStdin bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the health assistant a question",
	Long: `Ask the health assistant a question and print the answer.

With a message argument (or --stdin), a single question is answered and the
command exits. Without one, an interactive conversation starts; the assistant
remembers earlier turns until you leave.

Messages that mention emergency symptoms are never sent to the model. A fixed
warning asking you to contact a doctor is shown instead.

Type 'exit', 'quit' or press Ctrl+D to leave the conversation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log := newCLILogger()
		a, err := newAssistant(cfg, &log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		loop := &chatLoop{
			assistant: a,
			session:   session.NewSession(cfg.Model),
			in:        cmd.InOrStdin(),
			out:       cmd.OutOrStdout(),
			errOut:    cmd.ErrOrStderr(),
			spinner:   !verbose && isTerminal(cmd.ErrOrStderr()),
		}

		if len(args) > 0 {
			return loop.once(ctx, strings.Join(args, " "))
		}
		if readStdin {
			input, err := io.ReadAll(loop.in)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			return loop.once(ctx, string(input))
		}
		return loop.run(ctx)
	},
}

// newCLILogger returns a debug logger on stderr when --verbose is set and a
// disabled one otherwise.
func newCLILogger() zerolog.Logger {
	if verbose {
		return logger.New("debug", "console", os.Stderr)
	}
	return zerolog.Nop()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// chatLoop drives one CLI conversation.
type chatLoop struct {
	assistant *assistant.Assistant
	session   *session.Session
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	spinner   bool
}

var errTurnFailed = errors.New("the assistant could not answer")

// once answers a single message and renders the outcome on out.
func (l *chatLoop) once(ctx context.Context, message string) error {
	outcome := l.turn(ctx, message)
	switch outcome.Kind {
	case assistant.Empty:
		return errors.New("message is empty")
	case assistant.Failed:
		fmt.Fprintln(l.errOut, outcome.Text)
		return errTurnFailed
	default:
		fmt.Fprintln(l.out, outcome.Text)
		return nil
	}
}

// run reads lines from in until EOF, an exit word or ctx is done.
func (l *chatLoop) run(ctx context.Context) error {
	fmt.Fprintln(l.errOut, "\n=== Health Assistant ===")
	fmt.Fprintln(l.errOut, "General health information only. In an emergency, contact a doctor.")
	fmt.Fprintln(l.errOut, "Type '/help' for commands, 'exit' or 'Ctrl+D' to quit")
	fmt.Fprint(l.errOut, "========================\n\n")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(l.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(l.errOut, "You> ")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.errOut, "\n"+goodbyeMessage)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			select {
			case err := <-scanErr:
				if err != nil {
					return fmt.Errorf("input error: %w", err)
				}
			default:
			}
			fmt.Fprintln(l.errOut, "\n"+goodbyeMessage)
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if isExitWord(input) {
			fmt.Fprintln(l.errOut, goodbyeMessage)
			return nil
		}
		if strings.HasPrefix(input, "/") {
			l.handleSpecialCommand(input)
			continue
		}

		outcome := l.turn(ctx, input)
		switch outcome.Kind {
		case assistant.Empty:
			continue
		case assistant.Failed:
			fmt.Fprintf(l.errOut, "\n%s\n\n", outcome.Text)
			if ctx.Err() != nil {
				fmt.Fprintln(l.errOut, goodbyeMessage)
				return nil
			}
		default:
			fmt.Fprintf(l.out, "\nAssistant> %s\n\n", outcome.Text)
		}
	}
}

// turn runs one turn against the session, showing a spinner while waiting.
func (l *chatLoop) turn(ctx context.Context, input string) assistant.Outcome {
	var done chan struct{}
	if l.spinner {
		done = make(chan struct{})
		go showSpinner(l.errOut, done)
	}

	outcome := l.assistant.HandleTurn(ctx, l.session.Conversation(), input)

	if done != nil {
		done <- struct{}{}
	}
	return outcome
}

func isExitWord(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "/exit", "/quit", "/q":
		return true
	}
	return false
}

// handleSpecialCommand runs a local slash command. Exit commands are handled
// by the caller.
func (l *chatLoop) handleSpecialCommand(command string) {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(l.errOut, "\nAvailable commands:")
		fmt.Fprintln(l.errOut, "  /help, /h     - Show this help message")
		fmt.Fprintln(l.errOut, "  /info, /i     - Show conversation information")
		fmt.Fprintln(l.errOut, "  exit, quit    - Leave the conversation (also /exit, /quit, /q)")
		fmt.Fprintln(l.errOut, "  Ctrl+D        - Leave the conversation")
		fmt.Fprintln(l.errOut, "")

	case "/info", "/i":
		fmt.Fprintln(l.errOut, "\nConversation Information:")
		fmt.Fprintf(l.errOut, "  ID: %s\n", l.session.GetShortID())
		fmt.Fprintf(l.errOut, "  Model: %s\n", l.session.Model)
		fmt.Fprintf(l.errOut, "  Messages: %d\n", l.session.MessageCount())
		fmt.Fprintf(l.errOut, "  Started: %s\n", l.session.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(l.errOut, "")

	default:
		fmt.Fprintf(l.errOut, "Unknown command: %s (type '/help' for available commands)\n", command)
	}
}

func showSpinner(w io.Writer, done chan struct{}) {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	i := 0
	for {
		select {
		case <-done:
			// Clear the spinner line
			fmt.Fprint(w, "\r\033[K")
			return
		default:
			fmt.Fprintf(w, "\r%s Waiting for response...", spinners[i])
			i = (i + 1) % len(spinners)
			time.Sleep(80 * time.Millisecond)
		}
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (format: provider:model, e.g., gemini:gemini-2.5-flash)")
	chatCmd.Flags().BoolVar(&readStdin, "stdin", false, "Read a single message from stdin")
}
