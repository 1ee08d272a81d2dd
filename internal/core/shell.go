package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/guish-sh/guish/internal/builtins"
	"github.com/guish-sh/guish/internal/history"
	"github.com/guish-sh/guish/internal/interrupt"
	"github.com/guish-sh/guish/internal/launcher"
	"github.com/guish-sh/guish/internal/styles"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Shell owns all process-wide shell state: the bounded command history,
// the SIGINT tracker, and the process launcher. Output streams are
// injectable so the dispatcher can be unit tested.
type Shell struct {
	History  *history.HistoryManager
	Tracker  *interrupt.Tracker
	Launcher *launcher.Launcher

	Stdout io.Writer
	Stderr io.Writer

	logger    *zap.Logger
	sessionID string
}

func NewShell(logger *zap.Logger) *Shell {
	return &Shell{
		History:   history.NewHistoryManager(),
		Tracker:   interrupt.NewTracker(os.Stderr, logger),
		Launcher:  launcher.NewLauncher(logger),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		logger:    logger,
		sessionID: uuid.New().String(),
	}
}

// Tokenize splits a raw input line into whitespace-delimited argument
// tokens. No quoting, escaping, or expansion of any kind.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// Prompt renders `guish:<cwd>:<N>> ` where N is the ordinal of the
// command about to be entered. A failed cwd lookup degrades to an empty
// path rather than killing the prompt.
func (s *Shell) Prompt() string {
	cwd, err := os.Getwd()
	if err != nil {
		s.logger.Warn("unable to determine working directory", zap.Error(err))
		cwd = ""
	}
	return fmt.Sprintf("guish:%s:%d> ", cwd, s.History.Size()+1)
}

// Run drives the interactive loop: prompt, read, dispatch, repeat. It
// returns after the exit built-in or end-of-input, having printed the
// shutdown report exactly once.
func (s *Shell) Run(stdin io.Reader) error {
	s.logger.Info("-------- new guish session --------", zap.String("session_id", s.sessionID))

	s.Tracker.Start()
	defer s.Tracker.Stop()

	// Piped input gets no prompts.
	interactive := false
	if f, ok := stdin.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	scanner := bufio.NewScanner(stdin)
	sawExit := false

	for {
		if interactive {
			fmt.Fprint(s.Stdout, s.Prompt())
		}

		if !scanner.Scan() {
			if interactive {
				fmt.Fprintln(s.Stdout)
			}
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		s.logger.Debug("received command", zap.String("line", line))

		if line == "r" || strings.HasPrefix(line, "r ") {
			sawExit = s.recall(strings.TrimSpace(line[1:]))
		} else {
			sawExit = s.Dispatch(line, true)
		}

		if sawExit {
			break
		}
	}

	fmt.Fprintln(s.Stdout, s.Tracker.ShutdownMessage())
	s.logger.Info("session finished",
		zap.String("session_id", s.sessionID),
		zap.Int64("sigint_count", s.Tracker.Count()))

	return scanner.Err()
}

// Dispatch classifies one command line as a built-in or an external
// program and runs it. record controls the single history add; recalled
// lines pass false so re-running them never re-records them. The return
// value reports whether the exit built-in was invoked.
func (s *Shell) Dispatch(line string, record bool) bool {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return false
	}
	name, args := tokens[0], tokens[1:]

	// exit terminates before any history update.
	if name == "exit" {
		return true
	}

	if record {
		s.History.Add(line)
	}

	switch name {
	case "hist":
		for _, entry := range s.History.Format() {
			fmt.Fprintln(s.Stdout, entry)
		}
		return false
	case "cd":
		if err := builtins.Cd(args); err != nil {
			fmt.Fprintln(s.Stderr, styles.ERROR(err.Error()))
		}
		return false
	}

	// Everything else, including unknown built-ins, is an external
	// program; a bad name surfaces as the program-not-found diagnostic.
	outcome := s.Launcher.Run(name, args)
	s.logger.Debug("command finished",
		zap.String("program", name),
		zap.Int("exit_code", outcome.ExitCode),
		zap.Bool("signaled", outcome.Signaled))

	if report := outcome.Report(); report != "" {
		if outcome.StartErr != nil {
			fmt.Fprintln(s.Stderr, styles.ERROR(report))
		} else {
			fmt.Fprintln(s.Stdout, report)
		}
	}

	return false
}

// recall resolves `r [N]` against the history store, echoes the resolved
// line, and re-enters the dispatch path without re-recording it.
func (s *Shell) recall(arg string) bool {
	resolved, err := s.History.Resolve(arg)
	if err != nil {
		var parseErr *history.ParseError
		var rangeErr *history.RangeError
		switch {
		case errors.Is(err, history.ErrEmptyHistory):
			fmt.Fprintln(s.Stderr, styles.ERROR("History command not found."))
		case errors.As(err, &parseErr):
			fmt.Fprintln(s.Stderr, styles.ERROR(fmt.Sprintf("Invalid number for 'r': %s", parseErr.Arg)))
		case errors.As(err, &rangeErr):
			fmt.Fprintln(s.Stderr, styles.ERROR(fmt.Sprintf("Number for 'r' is out of range: %s", arg)))
		default:
			fmt.Fprintln(s.Stderr, styles.ERROR(err.Error()))
		}
		return false
	}

	fmt.Fprintf(s.Stdout, "Executing: %s\n", resolved)
	return s.Dispatch(resolved, false)
}
